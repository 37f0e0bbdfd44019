// Package registry implements the Room Registry: it owns the set of live
// room.Room actors keyed by room id, lazily materialises a Room from the
// Store on first access, and runs the stale-seat reclamation timers for
// seats whose owner hasn't rebound a session since a restart. Adapted from
// the teacher's apps/server/internal/lobby.Lobby room-map/cleanupLoop shape.
package registry

import (
	"log"
	"sync"
	"time"

	"github.com/hkirat/poker/internal/room"
	"github.com/hkirat/poker/internal/store"
)

const staleSeatReclaimWindow = 60 * time.Second

type Registry struct {
	mu    sync.Mutex
	store store.Store
	pub   room.Publisher

	rooms map[string]*room.Room

	reclaimTimers map[reclaimKey]*time.Timer
}

type reclaimKey struct {
	RoomID string
	UserID uint64
}

func New(st store.Store, pub room.Publisher) *Registry {
	return &Registry{
		store:         st,
		pub:           pub,
		rooms:         make(map[string]*room.Room),
		reclaimTimers: make(map[reclaimKey]*time.Timer),
	}
}

// Bootstrap loads every non-closed room from the Store and instantiates a
// live Room actor per row, seeding in-memory seats from persisted rows and
// arming reclamation timers for each — run once at process startup.
func (reg *Registry) Bootstrap() error {
	rows, err := reg.store.ListOpenRoomsWithSeats()
	if err != nil {
		return err
	}
	for _, row := range rows {
		rm, err := reg.materialize(row.Room)
		if err != nil {
			log.Printf("[registry] materialize room %s: %v", row.Room.ID, err)
			continue
		}
		for _, seat := range row.Seats {
			if err := rm.Seed(seat); err != nil {
				log.Printf("[registry] seed seat %s/%d: %v", row.Room.ID, seat.UserID, err)
				continue
			}
			reg.armReclaim(row.Room.ID, seat.UserID)
		}
	}
	return nil
}

func (reg *Registry) materialize(cfg store.Room) (*room.Room, error) {
	rm, err := room.New(cfg, reg.store, reg.pub)
	if err != nil {
		return nil, err
	}
	reg.rooms[cfg.ID] = rm
	go rm.Run()
	return rm, nil
}

// GetOrCreate returns the live Room for roomID, loading it from the Store on
// first access. Fails if the room row is absent or closed.
func (reg *Registry) GetOrCreate(roomID string) (*room.Room, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if rm, ok := reg.rooms[roomID]; ok {
		return rm, nil
	}

	cfg, err := reg.store.GetRoom(roomID)
	if err != nil {
		return nil, err
	}
	if cfg.Status == store.RoomStatusClosed {
		return nil, store.ErrRoomClosed
	}
	return reg.materialize(cfg)
}

// Get returns an already-live room without materializing a new one.
func (reg *Registry) Get(roomID string) (*room.Room, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	rm, ok := reg.rooms[roomID]
	return rm, ok
}

// armReclaim starts (or restarts) the stale-seat reclamation timer for
// (roomID, userID). Cancelled by CancelReclaim on a successful join_room.
func (reg *Registry) armReclaim(roomID string, userID uint64) {
	key := reclaimKey{roomID, userID}
	if t, ok := reg.reclaimTimers[key]; ok {
		t.Stop()
	}
	reg.reclaimTimers[key] = time.AfterFunc(staleSeatReclaimWindow, func() {
		reg.mu.Lock()
		delete(reg.reclaimTimers, key)
		rm, ok := reg.rooms[roomID]
		reg.mu.Unlock()
		if !ok {
			return
		}
		if err := rm.SubmitLeave(userID); err != nil {
			log.Printf("[registry] stale-seat reclamation for %s/%d: %v", roomID, userID, err)
		}
	})
}

// CancelReclaim stops a pending reclamation timer, idempotent if none is armed.
func (reg *Registry) CancelReclaim(roomID string, userID uint64) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	key := reclaimKey{roomID, userID}
	if t, ok := reg.reclaimTimers[key]; ok {
		t.Stop()
		delete(reg.reclaimTimers, key)
	}
}

// ArmReclaim is the locking, exported form of armReclaim. Bootstrap arms
// its timers through armReclaim directly, and the gateway does not arm a
// timer when a connection drops.
func (reg *Registry) ArmReclaim(roomID string, userID uint64) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.armReclaim(roomID, userID)
}
