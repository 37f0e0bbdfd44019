// Package lobby is the HTTP surface for room discovery and seat management:
// list/create/patch/delete rooms, buy in, cash out. Adapted from the
// teacher's internal/auth.HTTPHandler request/response idiom (decodeJSON,
// bearer-token resolution) but answering in the {success, data?, error?}
// envelope spec.md §6.1 mandates for this layer, and reusing
// auth.HTTPHandler.AuthenticateRequest for session resolution instead of
// owning its own token store.
package lobby

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/hkirat/poker/internal/auth"
	"github.com/hkirat/poker/internal/store"
)

const signupBonus = 50000

type Handler struct {
	authHTTP *auth.HTTPHandler
	store    store.Store
}

func New(authHTTP *auth.HTTPHandler, st store.Store) *Handler {
	return &Handler{authHTTP: authHTTP, store: st}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/rooms", h.handleRooms)
	mux.HandleFunc("/rooms/", h.handleRoomSubroutes)
	mux.HandleFunc("/admin/rooms", h.handleAdminCreateRoom)
	mux.HandleFunc("/admin/rooms/", h.handleAdminRoomByID)
}

// handleRoomSubroutes dispatches GET /rooms/{id}, POST /rooms/{id}/join and
// POST /rooms/{id}/leave, since http.ServeMux can't pattern-match path
// segments on this Go version's mux the way it would a richer router.
func (h *Handler) handleRoomSubroutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/rooms/")
	switch {
	case strings.HasSuffix(rest, "/join"):
		h.handleJoinRoom(w, r, strings.TrimSuffix(rest, "/join"))
	case strings.HasSuffix(rest, "/leave"):
		h.handleLeaveRoom(w, r, strings.TrimSuffix(rest, "/leave"))
	default:
		h.handleGetRoom(w, r, rest)
	}
}

func (h *Handler) handleAdminRoomByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/admin/rooms/")
	switch r.Method {
	case http.MethodPatch:
		h.handleAdminUpdateRoomStatus(w, r, id)
	case http.MethodDelete:
		h.handleAdminDeleteRoom(w, r, id)
	default:
		writeError(w, http.StatusBadRequest, "unsupported method")
	}
}

func (h *Handler) handleRooms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusBadRequest, "unsupported method")
		return
	}
	rows, err := h.store.ListOpenRoomsWithSeats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list rooms")
		return
	}
	out := make([]roomSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, summarize(row))
	}
	writeData(w, http.StatusOK, out)
}

func (h *Handler) handleGetRoom(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusBadRequest, "unsupported method")
		return
	}
	room, err := h.store.GetRoom(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	seats, err := h.store.SeatsForRoom(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load seats")
		return
	}
	writeData(w, http.StatusOK, summarize(store.RoomWithSeats{Room: room, Seats: seats}))
}

type joinRoomRequest struct {
	BuyIn int64 `json:"buyIn"`
}

func (h *Handler) handleJoinRoom(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusBadRequest, "unsupported method")
		return
	}
	userID, username, _, ok := h.authHTTP.AuthenticateRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req joinRoomRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	room, err := h.store.GetRoom(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if room.Status == store.RoomStatusClosed {
		writeError(w, http.StatusBadRequest, "room is closed")
		return
	}
	if req.BuyIn < room.MinBuyIn || req.BuyIn > room.MaxBuyIn {
		writeError(w, http.StatusBadRequest, "buyIn out of range")
		return
	}
	balance, err := h.store.WalletBalance(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read wallet")
		return
	}
	if balance < req.BuyIn || balance < 3*room.BigBlind {
		writeError(w, http.StatusBadRequest, "insufficient balance")
		return
	}

	seat, err := h.store.JoinRoom(id, userID, username, req.BuyIn)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, seat)
}

func (h *Handler) handleLeaveRoom(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusBadRequest, "unsupported method")
		return
	}
	userID, _, _, ok := h.authHTTP.AuthenticateRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	credited, err := h.store.LeaveRoom(id, userID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]int64{"credited": credited})
}

type createRoomRequest struct {
	Name       string `json:"name"`
	SmallBlind int64  `json:"smallBlind"`
	MinBuyIn   int64  `json:"minBuyIn"`
	MaxBuyIn   int64  `json:"maxBuyIn"`
	MaxPlayers int    `json:"maxPlayers"`
}

func (h *Handler) handleAdminCreateRoom(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusBadRequest, "unsupported method")
		return
	}
	userID, _, isAdmin, ok := h.authHTTP.AuthenticateRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	if !isAdmin {
		writeError(w, http.StatusForbidden, "admin only")
		return
	}

	var req createRoomRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SmallBlind <= 0 {
		writeError(w, http.StatusBadRequest, "smallBlind must be positive")
		return
	}
	bigBlind := 2 * req.SmallBlind
	if req.MinBuyIn < 10*bigBlind {
		writeError(w, http.StatusBadRequest, "minBuyIn must be at least 10x bigBlind")
		return
	}
	if req.MaxPlayers < 2 || req.MaxPlayers > 9 {
		writeError(w, http.StatusBadRequest, "maxPlayers must be between 2 and 9")
		return
	}
	maxBuyIn := req.MaxBuyIn
	if maxBuyIn < req.MinBuyIn {
		maxBuyIn = req.MinBuyIn
	}

	room, err := h.store.CreateRoom(store.Room{
		ID: uuid.NewString(), Name: req.Name, SmallBlind: req.SmallBlind, BigBlind: bigBlind,
		MinBuyIn: req.MinBuyIn, MaxBuyIn: maxBuyIn, MaxPlayers: req.MaxPlayers,
		Status: store.RoomStatusWaiting, CreatedBy: userID,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create room")
		return
	}
	writeData(w, http.StatusOK, room)
}

type updateRoomStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleAdminUpdateRoomStatus(w http.ResponseWriter, r *http.Request, id string) {
	_, _, isAdmin, ok := h.authHTTP.AuthenticateRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	if !isAdmin {
		writeError(w, http.StatusForbidden, "admin only")
		return
	}
	var req updateRoomStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	switch req.Status {
	case store.RoomStatusWaiting, store.RoomStatusPlaying, store.RoomStatusClosed:
	default:
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}
	if err := h.store.UpdateRoomStatus(id, req.Status); err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"status": req.Status})
}

func (h *Handler) handleAdminDeleteRoom(w http.ResponseWriter, r *http.Request, id string) {
	_, _, isAdmin, ok := h.authHTTP.AuthenticateRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	if !isAdmin {
		writeError(w, http.StatusForbidden, "admin only")
		return
	}
	if err := h.store.DeleteRoom(id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type roomSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	SmallBlind int64  `json:"smallBlind"`
	BigBlind   int64  `json:"bigBlind"`
	MinBuyIn   int64  `json:"minBuyIn"`
	MaxBuyIn   int64  `json:"maxBuyIn"`
	MaxPlayers int    `json:"maxPlayers"`
	Status     string `json:"status"`
	SeatCount  int    `json:"seatCount"`
}

func summarize(row store.RoomWithSeats) roomSummary {
	return roomSummary{
		ID: row.Room.ID, Name: row.Room.Name, SmallBlind: row.Room.SmallBlind, BigBlind: row.Room.BigBlind,
		MinBuyIn: row.Room.MinBuyIn, MaxBuyIn: row.Room.MaxBuyIn, MaxPlayers: row.Room.MaxPlayers,
		Status: row.Room.Status, SeatCount: len(row.Seats),
	}
}

// RegisterSignupBonus credits a freshly-registered account's wallet with the
// signup bonus. Called by cmd/server after auth.Service.Register succeeds,
// since internal/auth has no concept of a wallet.
func (h *Handler) RegisterSignupBonus(userID uint64, username string) error {
	return h.store.CreateWallet(userID, username, signupBonus)
}

func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrRoomNotFound), errors.Is(err, store.ErrSeatNotFound), errors.Is(err, store.ErrUserNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrRoomClosed), errors.Is(err, store.ErrAlreadySeated), errors.Is(err, store.ErrSeatTaken),
		errors.Is(err, store.ErrInsufficientBal), errors.Is(err, store.ErrRoomHasSeats):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Error: msg})
}
