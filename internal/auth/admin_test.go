package auth

import (
	"os"
	"testing"
)

func TestIsAdmin_GrantedByAllowlist(t *testing.T) {
	t.Setenv("ADMIN_USERNAMES", "")
	os.Unsetenv("ADMIN_USERNAMES")
	t.Setenv("ADMIN_USERNAMES", "root_admin, alice_01")

	m := NewManager()
	accountID, _, err := m.Register("alice_01", "secret12")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if !m.IsAdmin(accountID) {
		t.Fatalf("expected alice_01 to be granted admin via allowlist")
	}

	otherID, _, err := m.Register("bob_02", "secret12")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if m.IsAdmin(otherID) {
		t.Fatalf("expected bob_02 to not be an admin")
	}
}
