package lobby

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hkirat/poker/internal/auth"
	"github.com/hkirat/poker/internal/store"
)

// newTestHandler wires a Handler against fresh in-memory auth and store
// backends, registers one account, and funds its wallet — mirroring the
// join_room flow a real client would drive through /auth/register then
// /rooms/{id}/join.
func newTestHandler(t *testing.T, wallet int64) (*Handler, uint64, string) {
	t.Helper()
	mgr := auth.NewManager()
	authHTTP := auth.NewHTTPHandler(mgr)
	st := store.NewMemoryStore()
	h := New(authHTTP, st)

	userID, token, err := mgr.Register("player1", "hunter2")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := st.CreateWallet(userID, "player1", wallet); err != nil {
		t.Fatalf("create wallet: %v", err)
	}
	return h, userID, token
}

func postJSON(t *testing.T, mux *http.ServeMux, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return env
}

// Concrete Scenario 6: joining a room is gated on buyIn falling within the
// room's configured range, the wallet covering the buyIn, and the wallet
// covering the 3x-big-blind minimum — independent of the buyIn check.
func TestJoinRoomRejectsBuyInBelowMinimum(t *testing.T) {
	h, _, token := newTestHandler(t, 100000)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	room, err := h.store.CreateRoom(store.Room{
		ID: "r1", Name: "Table", SmallBlind: 10, BigBlind: 20, MinBuyIn: 200, MaxBuyIn: 2000, MaxPlayers: 6,
		Status: store.RoomStatusWaiting,
	})
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	rec := postJSON(t, mux, "/rooms/"+room.ID+"/join", token, joinRoomRequest{BuyIn: 100})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for buyIn below minBuyIn, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Success {
		t.Fatalf("expected success=false for rejected join")
	}
}

func TestJoinRoomRejectsBuyInAboveMaximum(t *testing.T) {
	h, _, token := newTestHandler(t, 100000)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	room, err := h.store.CreateRoom(store.Room{
		ID: "r1", Name: "Table", SmallBlind: 10, BigBlind: 20, MinBuyIn: 200, MaxBuyIn: 2000, MaxPlayers: 6,
		Status: store.RoomStatusWaiting,
	})
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	rec := postJSON(t, mux, "/rooms/"+room.ID+"/join", token, joinRoomRequest{BuyIn: 5000})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for buyIn above maxBuyIn, got %d", rec.Code)
	}
}

func TestJoinRoomRejectsInsufficientWallet(t *testing.T) {
	h, _, token := newTestHandler(t, 500) // covers the buyIn floor but not the requested buyIn
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	room, err := h.store.CreateRoom(store.Room{
		ID: "r1", Name: "Table", SmallBlind: 10, BigBlind: 20, MinBuyIn: 200, MaxBuyIn: 2000, MaxPlayers: 6,
		Status: store.RoomStatusWaiting,
	})
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	rec := postJSON(t, mux, "/rooms/"+room.ID+"/join", token, joinRoomRequest{BuyIn: 1000})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for buyIn exceeding wallet balance, got %d", rec.Code)
	}
}

func TestJoinRoomRejectsBelowThreeBigBlindsEvenIfBuyInCovered(t *testing.T) {
	// Wallet covers the requested buyIn exactly, but not 3x the big blind —
	// the two checks are independent and both must pass.
	h, _, token := newTestHandler(t, 200)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	room, err := h.store.CreateRoom(store.Room{
		ID: "r1", Name: "Table", SmallBlind: 50, BigBlind: 100, MinBuyIn: 200, MaxBuyIn: 2000, MaxPlayers: 6,
		Status: store.RoomStatusWaiting,
	})
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	rec := postJSON(t, mux, "/rooms/"+room.ID+"/join", token, joinRoomRequest{BuyIn: 200})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400: wallet (200) is below 3x bigBlind (300), got %d", rec.Code)
	}
}

func TestJoinRoomRejectsClosedRoom(t *testing.T) {
	h, _, token := newTestHandler(t, 100000)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	room, err := h.store.CreateRoom(store.Room{
		ID: "r1", Name: "Table", SmallBlind: 10, BigBlind: 20, MinBuyIn: 200, MaxBuyIn: 2000, MaxPlayers: 6,
		Status: store.RoomStatusWaiting,
	})
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	if err := h.store.UpdateRoomStatus(room.ID, store.RoomStatusClosed); err != nil {
		t.Fatalf("close room: %v", err)
	}

	rec := postJSON(t, mux, "/rooms/"+room.ID+"/join", token, joinRoomRequest{BuyIn: 500})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for joining a closed room, got %d", rec.Code)
	}
}

func TestJoinRoomRequiresAuthentication(t *testing.T) {
	h, _, _ := newTestHandler(t, 100000)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	room, err := h.store.CreateRoom(store.Room{
		ID: "r1", Name: "Table", SmallBlind: 10, BigBlind: 20, MinBuyIn: 200, MaxBuyIn: 2000, MaxPlayers: 6,
		Status: store.RoomStatusWaiting,
	})
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	rec := postJSON(t, mux, "/rooms/"+room.ID+"/join", "", joinRoomRequest{BuyIn: 500})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a bearer token, got %d", rec.Code)
	}
}

func TestJoinRoomSucceedsWithinBuyInRangeAndSufficientWallet(t *testing.T) {
	h, userID, token := newTestHandler(t, 100000)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	room, err := h.store.CreateRoom(store.Room{
		ID: "r1", Name: "Table", SmallBlind: 10, BigBlind: 20, MinBuyIn: 200, MaxBuyIn: 2000, MaxPlayers: 6,
		Status: store.RoomStatusWaiting,
	})
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	rec := postJSON(t, mux, "/rooms/"+room.ID+"/join", token, joinRoomRequest{BuyIn: 500})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for a valid join, got %d: %s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Fatalf("expected success=true for a valid join")
	}

	seat, ok, err := h.store.SeatForUser(room.ID, userID)
	if err != nil {
		t.Fatalf("seat lookup: %v", err)
	}
	if !ok || seat.Stack != 500 {
		t.Fatalf("expected a seat with a 500-chip stack, got %+v (ok=%v)", seat, ok)
	}

	balance, err := h.store.WalletBalance(userID)
	if err != nil {
		t.Fatalf("wallet balance: %v", err)
	}
	if balance != 100000-500 {
		t.Fatalf("expected wallet debited by the buyIn, got %d", balance)
	}
}

func TestJoinRoomRejectsDoubleSeating(t *testing.T) {
	h, _, token := newTestHandler(t, 100000)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	room, err := h.store.CreateRoom(store.Room{
		ID: "r1", Name: "Table", SmallBlind: 10, BigBlind: 20, MinBuyIn: 200, MaxBuyIn: 2000, MaxPlayers: 6,
		Status: store.RoomStatusWaiting,
	})
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	if rec := postJSON(t, mux, "/rooms/"+room.ID+"/join", token, joinRoomRequest{BuyIn: 500}); rec.Code != http.StatusOK {
		t.Fatalf("expected first join to succeed, got %d", rec.Code)
	}
	rec := postJSON(t, mux, "/rooms/"+room.ID+"/join", token, joinRoomRequest{BuyIn: 500})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for joining a room twice, got %d", rec.Code)
	}
}
