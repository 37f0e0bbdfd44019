package room

import "errors"

var (
	errMustJoinViaLobby = errors.New("must join via Lobby first")
	errNotSeated        = errors.New("not seated in this room")
	errInvalidAction    = errors.New("invalid action")
)
