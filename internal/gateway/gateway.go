// Package gateway implements the Session Gateway: it accepts WebSocket
// connections, authenticates them against the Auth service, demultiplexes
// inbound JSON frames to the right Room via the Registry, and serializes
// outbound frames per connection. Adapted from the teacher's
// apps/server/internal/gateway.Gateway connection map / readPump+writePump
// shape, retargeted at this repo's JSON wire.Frame protocol instead of
// protobuf envelopes.
package gateway

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hkirat/poker/internal/auth"
	"github.com/hkirat/poker/internal/registry"
	"github.com/hkirat/poker/internal/wire"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 65536
	sendBufferSize = 256
)

// Gateway owns every live connection and fans out Room broadcast traffic to
// whichever connections are currently bound to that room.
type Gateway struct {
	auth sessionResolver
	reg  *registry.Registry

	mu          sync.RWMutex
	connections map[uint64]*conn // connID -> conn
	byRoom      map[string]map[uint64]*conn
	nextConnID  uint64
}

// sessionResolver is the subset of auth.Service the Gateway needs.
type sessionResolver interface {
	ResolveSession(token string) (accountID uint64, username string, ok bool)
}

// New builds a Gateway without a Registry attached — the two have a
// circular dependency (the Registry needs the Gateway as its Publisher),
// so callers finish wiring with SetRegistry once both exist.
func New(authSvc auth.Service) *Gateway {
	return &Gateway{
		auth:        authSvc,
		connections: make(map[uint64]*conn),
		byRoom:      make(map[string]map[uint64]*conn),
	}
}

func (g *Gateway) SetRegistry(reg *registry.Registry) {
	g.reg = reg
}

type conn struct {
	id   uint64
	ws   *websocket.Conn
	send chan wire.Frame
	gw   *Gateway

	userID     uint64
	username   string
	authed     bool
	roomID     string
	spectating bool
}

func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[gateway] upgrade: %v", err)
		return
	}

	g.mu.Lock()
	g.nextConnID++
	c := &conn{id: g.nextConnID, ws: ws, send: make(chan wire.Frame, sendBufferSize), gw: g}
	g.connections[c.id] = c
	g.mu.Unlock()

	go c.writePump()
	c.readPump()
}

func (c *conn) readPump() {
	defer c.close()

	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		c.handleFrame(data)
	}
}

func (c *conn) handleFrame(data []byte) {
	frame, err := wire.Decode(data)
	if err != nil {
		c.sendError("Invalid message format")
		return
	}

	switch frame.Type {
	case wire.TypeAuth:
		c.handleAuth(frame)
	case wire.TypeJoinRoom:
		c.requireAuth(func() { c.handleJoinRoom(frame) })
	case wire.TypeLeaveRoom:
		c.requireSeated(func() { c.handleLeaveRoom() })
	case wire.TypePlayerAction:
		c.requireSeated(func() { c.handlePlayerAction(frame) })
	case wire.TypeSpectate:
		c.handleSpectate(frame)
	case wire.TypeChatMessage:
		c.requireSeated(func() { c.handleChatMessage(frame) })
	default:
		c.sendError("Unknown message type: " + frame.Type)
	}
}

func (c *conn) requireAuth(fn func()) {
	if !c.authed {
		c.sendError("Not authenticated")
		return
	}
	fn()
}

func (c *conn) requireSeated(fn func()) {
	if !c.authed {
		c.sendError("Not authenticated")
		return
	}
	if c.roomID == "" {
		c.sendError("Not authenticated")
		return
	}
	fn()
}

func (c *conn) handleAuth(frame wire.Frame) {
	var p wire.AuthPayload
	if err := frame.Decode(&p); err != nil {
		c.sendError("Invalid message format")
		return
	}
	userID, username, ok := c.gw.auth.ResolveSession(p.Token)
	if !ok {
		c.sendError("Invalid token")
		return
	}
	c.authed = true
	c.userID = userID
	c.username = username
	c.sendFrame(wire.TypeAuthSuccess, wire.AuthSuccessPayload{UserID: userID, Username: username})
}

func (c *conn) handleJoinRoom(frame wire.Frame) {
	var p wire.JoinRoomPayload
	if err := frame.Decode(&p); err != nil {
		c.sendError("Invalid message format")
		return
	}
	rm, err := c.gw.reg.GetOrCreate(p.RoomID)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	if err := rm.SubmitJoin(c.userID, c.username); err != nil {
		c.sendError(err.Error())
		return
	}
	c.roomID = p.RoomID
	c.gw.bindRoom(c)
	c.gw.reg.CancelReclaim(p.RoomID, c.userID)
}

func (c *conn) handleLeaveRoom() {
	rm, ok := c.gw.reg.Get(c.roomID)
	if !ok {
		c.sendError("must join via Lobby first")
		return
	}
	if err := rm.SubmitLeave(c.userID); err != nil {
		c.sendError(err.Error())
		return
	}
	c.gw.unbindRoom(c)
	c.roomID = ""
}

func (c *conn) handlePlayerAction(frame wire.Frame) {
	var p wire.PlayerActionPayload
	if err := frame.Decode(&p); err != nil {
		c.sendError("Invalid message format")
		return
	}
	rm, ok := c.gw.reg.Get(c.roomID)
	if !ok {
		c.sendError("Invalid action")
		return
	}
	if err := rm.SubmitAction(c.userID, p.Action, p.Amount); err != nil {
		c.sendError("Invalid action")
	}
}

func (c *conn) handleSpectate(frame wire.Frame) {
	var p wire.SpectatePayload
	if err := frame.Decode(&p); err != nil {
		c.sendError("Invalid message format")
		return
	}
	rm, err := c.gw.reg.GetOrCreate(p.RoomID)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	if c.authed {
		_ = rm.SubmitSpectate(c.userID)
	}
	c.roomID = p.RoomID
	c.spectating = true
	c.gw.bindRoom(c)
}

func (c *conn) handleChatMessage(frame wire.Frame) {
	var p wire.ChatMessagePayload
	if err := frame.Decode(&p); err != nil {
		c.sendError("Invalid message format")
		return
	}
	rm, ok := c.gw.reg.Get(c.roomID)
	if !ok {
		c.sendError("Invalid action")
		return
	}
	if err := rm.SubmitChat(c.userID, c.username, p.Message); err != nil {
		c.sendError(err.Error())
	}
}

func (c *conn) sendError(msg string) {
	c.sendFrame(wire.TypeError, wire.ErrorPayload{Message: msg})
}

func (c *conn) sendFrame(msgType string, payload any) {
	frame, err := wire.Encode(msgType, payload)
	if err != nil {
		log.Printf("[gateway] encode %s: %v", msgType, err)
		return
	}
	select {
	case c.send <- frame:
	default:
		// drop to a saturated, presumably-dead connection rather than block the rest
	}
}

func (c *conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			data, err := json.Marshal(frame)
			if err != nil {
				continue
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *conn) close() {
	c.gw.removeConnection(c)
	c.ws.Close()
}

func (g *Gateway) bindRoom(c *conn) {
	g.mu.Lock()
	defer g.mu.Unlock()
	m, ok := g.byRoom[c.roomID]
	if !ok {
		m = make(map[uint64]*conn)
		g.byRoom[c.roomID] = m
	}
	m[c.id] = c
}

func (g *Gateway) unbindRoom(c *conn) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if m, ok := g.byRoom[c.roomID]; ok {
		delete(m, c.id)
		if len(m) == 0 {
			delete(g.byRoom, c.roomID)
		}
	}
}

func (g *Gateway) removeConnection(c *conn) {
	g.mu.Lock()
	delete(g.connections, c.id)
	roomID := c.roomID
	userID := c.userID
	authed := c.authed
	if m, ok := g.byRoom[roomID]; ok {
		delete(m, c.id)
		if len(m) == 0 {
			delete(g.byRoom, roomID)
		}
	}
	g.mu.Unlock()

	// The 60s stale-seat reclamation window is scoped to seats rehydrated
	// from the Store at Registry.Bootstrap, not ordinary live disconnects —
	// those are governed solely by the 30s in-hand action timer (or, between
	// hands, no timer at all: the seat just sits idle until the player
	// reconnects). Arming a reclaim timer here would auto-evict any player
	// whose socket blips for a minute, even between hands.
	if authed && roomID != "" {
		if rm, ok := g.reg.Get(roomID); ok {
			_ = rm.SubmitDisconnect(userID)
		}
	}
}

// Unicast implements room.Publisher: deliver a frame to a single user's
// connection, if one is currently live, anywhere in the process.
func (g *Gateway) Unicast(userID uint64, frame wire.Frame) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, c := range g.connections {
		if c.authed && c.userID == userID {
			select {
			case c.send <- frame:
			default:
			}
		}
	}
}

// Broadcast implements room.Publisher: deliver a frame to every connection
// currently bound to roomID (seated players and spectators alike).
func (g *Gateway) Broadcast(roomID string, frame wire.Frame) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, c := range g.byRoom[roomID] {
		select {
		case c.send <- frame:
		default:
		}
	}
}
