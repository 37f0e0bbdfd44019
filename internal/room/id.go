package room

import (
	"crypto/rand"
	"encoding/hex"
)

// randomID mints a short opaque id for chat messages; not security-sensitive,
// just needs to be unique enough for client-side dedup/keying.
func randomID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "chat"
	}
	return hex.EncodeToString(buf)
}
