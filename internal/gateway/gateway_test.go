package gateway

import (
	"testing"

	"github.com/hkirat/poker/internal/wire"
)

type fakeResolver struct {
	userID   uint64
	username string
	ok       bool
}

func (f fakeResolver) ResolveSession(token string) (uint64, string, bool) {
	if !f.ok {
		return 0, "", false
	}
	return f.userID, f.username, true
}

func newTestConn(gw *Gateway) *conn {
	return &conn{id: 1, send: make(chan wire.Frame, 16), gw: gw}
}

func drain(t *testing.T, c *conn) wire.Frame {
	t.Helper()
	select {
	case f := <-c.send:
		return f
	default:
		t.Fatalf("expected a frame to have been queued")
		return wire.Frame{}
	}
}

func TestHandleFrameMalformedJSON(t *testing.T) {
	gw := &Gateway{auth: fakeResolver{ok: false}, connections: map[uint64]*conn{}, byRoom: map[string]map[uint64]*conn{}}
	c := newTestConn(gw)
	c.handleFrame([]byte("not json"))

	frame := drain(t, c)
	if frame.Type != wire.TypeError {
		t.Fatalf("expected an error frame, got %q", frame.Type)
	}
	var p wire.ErrorPayload
	if err := frame.Decode(&p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Message != "Invalid message format" {
		t.Fatalf("unexpected message: %q", p.Message)
	}
}

func TestHandleFrameUnknownType(t *testing.T) {
	gw := &Gateway{auth: fakeResolver{ok: false}, connections: map[uint64]*conn{}, byRoom: map[string]map[uint64]*conn{}}
	c := newTestConn(gw)
	c.handleFrame([]byte(`{"type":"teleport","payload":{}}`))

	frame := drain(t, c)
	var p wire.ErrorPayload
	if err := frame.Decode(&p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Message != "Unknown message type: teleport" {
		t.Fatalf("unexpected message: %q", p.Message)
	}
}

func TestHandleFrameRequiresAuthForJoinRoom(t *testing.T) {
	gw := &Gateway{auth: fakeResolver{ok: false}, connections: map[uint64]*conn{}, byRoom: map[string]map[uint64]*conn{}}
	c := newTestConn(gw)
	c.handleFrame([]byte(`{"type":"join_room","payload":{"roomId":"r1"}}`))

	frame := drain(t, c)
	var p wire.ErrorPayload
	if err := frame.Decode(&p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Message != "Not authenticated" {
		t.Fatalf("unexpected message: %q", p.Message)
	}
}

func TestHandleAuthSuccess(t *testing.T) {
	gw := &Gateway{auth: fakeResolver{userID: 42, username: "alice", ok: true}, connections: map[uint64]*conn{}, byRoom: map[string]map[uint64]*conn{}}
	c := newTestConn(gw)
	c.handleFrame([]byte(`{"type":"auth","payload":{"token":"tok"}}`))

	frame := drain(t, c)
	if frame.Type != wire.TypeAuthSuccess {
		t.Fatalf("expected auth_success, got %q", frame.Type)
	}
	if !c.authed || c.userID != 42 || c.username != "alice" {
		t.Fatalf("connection context not updated after auth: %+v", c)
	}
}

func TestHandleAuthFailure(t *testing.T) {
	gw := &Gateway{auth: fakeResolver{ok: false}, connections: map[uint64]*conn{}, byRoom: map[string]map[uint64]*conn{}}
	c := newTestConn(gw)
	c.handleFrame([]byte(`{"type":"auth","payload":{"token":"bad"}}`))

	frame := drain(t, c)
	var p wire.ErrorPayload
	if err := frame.Decode(&p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Message != "Invalid token" {
		t.Fatalf("unexpected message: %q", p.Message)
	}
	if c.authed {
		t.Fatalf("connection should not be marked authed on failure")
	}
}
