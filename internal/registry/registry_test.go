package registry

import (
	"testing"

	"github.com/hkirat/poker/internal/store"
	"github.com/hkirat/poker/internal/wire"
)

type noopPublisher struct{}

func (noopPublisher) Unicast(uint64, wire.Frame)    {}
func (noopPublisher) Broadcast(string, wire.Frame) {}

func TestGetOrCreateMaterializesOnce(t *testing.T) {
	st := store.NewMemoryStore()
	if _, err := st.CreateRoom(store.Room{ID: "r1", SmallBlind: 10, BigBlind: 20, MinBuyIn: 200, MaxBuyIn: 2000, MaxPlayers: 6, Status: store.RoomStatusWaiting}); err != nil {
		t.Fatalf("create room: %v", err)
	}

	reg := New(st, noopPublisher{})
	t.Cleanup(func() {
		reg.mu.Lock()
		for _, rm := range reg.rooms {
			rm.Stop()
		}
		reg.mu.Unlock()
	})

	rm1, err := reg.GetOrCreate("r1")
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	rm2, err := reg.GetOrCreate("r1")
	if err != nil {
		t.Fatalf("get or create again: %v", err)
	}
	if rm1 != rm2 {
		t.Fatalf("expected the same Room instance on repeated GetOrCreate")
	}
}

func TestGetOrCreateRejectsClosedRoom(t *testing.T) {
	st := store.NewMemoryStore()
	if _, err := st.CreateRoom(store.Room{ID: "r1", SmallBlind: 10, BigBlind: 20, MinBuyIn: 200, MaxBuyIn: 2000, MaxPlayers: 6, Status: store.RoomStatusClosed}); err != nil {
		t.Fatalf("create room: %v", err)
	}

	reg := New(st, noopPublisher{})
	if _, err := reg.GetOrCreate("r1"); err != store.ErrRoomClosed {
		t.Fatalf("expected ErrRoomClosed, got %v", err)
	}
}

func TestGetOrCreateRejectsUnknownRoom(t *testing.T) {
	st := store.NewMemoryStore()
	reg := New(st, noopPublisher{})
	if _, err := reg.GetOrCreate("missing"); err != store.ErrRoomNotFound {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestArmAndCancelReclaim(t *testing.T) {
	st := store.NewMemoryStore()
	reg := New(st, noopPublisher{})
	reg.ArmReclaim("r1", 1)
	if _, ok := reg.reclaimTimers[reclaimKey{"r1", 1}]; !ok {
		t.Fatalf("expected a reclaim timer to be armed")
	}
	reg.CancelReclaim("r1", 1)
	if _, ok := reg.reclaimTimers[reclaimKey{"r1", 1}]; ok {
		t.Fatalf("expected the reclaim timer to be cancelled")
	}
}
