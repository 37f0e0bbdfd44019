package store

import "testing"

func TestJoinLeaveRoundTripsWallet(t *testing.T) {
	s := NewMemoryStore()
	if err := s.CreateWallet(1, "alice", 50000); err != nil {
		t.Fatalf("create wallet: %v", err)
	}
	if _, err := s.CreateRoom(Room{ID: "r1", Name: "Table 1", SmallBlind: 10, BigBlind: 20, MinBuyIn: 200, MaxBuyIn: 2000, MaxPlayers: 6}); err != nil {
		t.Fatalf("create room: %v", err)
	}

	seat, err := s.JoinRoom("r1", 1, "alice", 1000)
	if err != nil {
		t.Fatalf("join room: %v", err)
	}
	if seat.Stack != 1000 || seat.SeatNumber != 0 {
		t.Fatalf("unexpected seat: %+v", seat)
	}
	balance, err := s.WalletBalance(1)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 49000 {
		t.Fatalf("expected balance 49000 after buy-in, got %d", balance)
	}

	credited, err := s.LeaveRoom("r1", 1)
	if err != nil {
		t.Fatalf("leave room: %v", err)
	}
	if credited != 1000 {
		t.Fatalf("expected credited 1000, got %d", credited)
	}
	balance, err = s.WalletBalance(1)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 50000 {
		t.Fatalf("expected wallet restored to 50000 with no game played, got %d", balance)
	}
}

func TestJoinRoomRejectsInsufficientBalance(t *testing.T) {
	s := NewMemoryStore()
	_ = s.CreateWallet(1, "alice", 100)
	_, _ = s.CreateRoom(Room{ID: "r1", SmallBlind: 10, BigBlind: 20, MinBuyIn: 200, MaxBuyIn: 2000, MaxPlayers: 6})

	if _, err := s.JoinRoom("r1", 1, "alice", 500); err != ErrInsufficientBal {
		t.Fatalf("expected ErrInsufficientBal, got %v", err)
	}
}

func TestJoinRoomRejectsDoubleSeat(t *testing.T) {
	s := NewMemoryStore()
	_ = s.CreateWallet(1, "alice", 5000)
	_, _ = s.CreateRoom(Room{ID: "r1", SmallBlind: 10, BigBlind: 20, MinBuyIn: 200, MaxBuyIn: 2000, MaxPlayers: 6})

	if _, err := s.JoinRoom("r1", 1, "alice", 500); err != nil {
		t.Fatalf("first join: %v", err)
	}
	if _, err := s.JoinRoom("r1", 1, "alice", 500); err != ErrAlreadySeated {
		t.Fatalf("expected ErrAlreadySeated, got %v", err)
	}
}

func TestDeleteRoomRejectsWhenSeated(t *testing.T) {
	s := NewMemoryStore()
	_ = s.CreateWallet(1, "alice", 5000)
	_, _ = s.CreateRoom(Room{ID: "r1", SmallBlind: 10, BigBlind: 20, MinBuyIn: 200, MaxBuyIn: 2000, MaxPlayers: 6})
	if _, err := s.JoinRoom("r1", 1, "alice", 500); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := s.DeleteRoom("r1"); err != ErrRoomHasSeats {
		t.Fatalf("expected ErrRoomHasSeats, got %v", err)
	}
}
