package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const defaultSQLitePath = "file:holdem_store.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

type SQLiteStore struct {
	db *sql.DB
}

func sqliteDSNFromEnv() string {
	if v := strings.TrimSpace(os.Getenv("STORE_SQLITE_PATH")); v != "" {
		return v
	}
	return defaultSQLitePath
}

func NewSQLiteStoreFromEnv() (*SQLiteStore, error) {
	return NewSQLiteStore(sqliteDSNFromEnv())
}

func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// A single writer connection avoids SQLITE_BUSY errors on the
	// self-provisioned schema; reads and writes both flow through it.
	db.SetMaxOpenConns(1)

	if err := ensureSQLiteStoreSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func ensureSQLiteStoreSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS wallets (
			user_id INTEGER PRIMARY KEY,
			username TEXT NOT NULL,
			balance INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS rooms (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			small_blind INTEGER NOT NULL,
			big_blind INTEGER NOT NULL,
			min_buy_in INTEGER NOT NULL,
			max_buy_in INTEGER NOT NULL,
			max_players INTEGER NOT NULL,
			status TEXT NOT NULL,
			created_by INTEGER NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS table_players (
			room_id TEXT NOT NULL,
			user_id INTEGER NOT NULL,
			username TEXT NOT NULL,
			seat_number INTEGER NOT NULL,
			stack INTEGER NOT NULL,
			status TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			PRIMARY KEY (room_id, user_id)
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_table_players_seat ON table_players(room_id, seat_number)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			room_id TEXT,
			type TEXT NOT NULL,
			amount INTEGER NOT NULL,
			balance_before INTEGER NOT NULL,
			balance_after INTEGER NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS game_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			room_id TEXT NOT NULL,
			winner_id INTEGER NOT NULL,
			pot INTEGER NOT NULL,
			community_cards TEXT NOT NULL,
			hand_data TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

func (s *SQLiteStore) CreateWallet(userID uint64, username string, startingBalance int64) error {
	ctx, cancel := s.ctx()
	defer cancel()
	_, err := s.db.ExecContext(ctx, `
INSERT INTO wallets (user_id, username, balance) VALUES (?, ?, ?)
ON CONFLICT(user_id) DO NOTHING`, userID, username, startingBalance)
	return err
}

func (s *SQLiteStore) WalletBalance(userID uint64) (int64, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	var balance int64
	err := s.db.QueryRowContext(ctx, `SELECT balance FROM wallets WHERE user_id = ?`, userID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrUserNotFound
	}
	return balance, err
}

func (s *SQLiteStore) CreateRoom(r Room) (Room, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	now := time.Now()
	r.CreatedAt, r.UpdatedAt = now, now
	if r.Status == "" {
		r.Status = RoomStatusWaiting
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO rooms (id, name, small_blind, big_blind, min_buy_in, max_buy_in, max_players, status, created_by, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Name, r.SmallBlind, r.BigBlind, r.MinBuyIn, r.MaxBuyIn, r.MaxPlayers, r.Status, r.CreatedBy, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return Room{}, err
	}
	return r, nil
}

func (s *SQLiteStore) GetRoom(id string) (Room, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	var r Room
	err := s.db.QueryRowContext(ctx, `
SELECT id, name, small_blind, big_blind, min_buy_in, max_buy_in, max_players, status, created_by, created_at, updated_at
FROM rooms WHERE id = ?`, id).Scan(
		&r.ID, &r.Name, &r.SmallBlind, &r.BigBlind, &r.MinBuyIn, &r.MaxBuyIn, &r.MaxPlayers, &r.Status, &r.CreatedBy, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Room{}, ErrRoomNotFound
	}
	return r, err
}

func (s *SQLiteStore) ListOpenRoomsWithSeats() ([]RoomWithSeats, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	rows, err := s.db.QueryContext(ctx, `
SELECT id, name, small_blind, big_blind, min_buy_in, max_buy_in, max_players, status, created_by, created_at, updated_at
FROM rooms WHERE status != ?`, RoomStatusClosed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RoomWithSeats
	for rows.Next() {
		var r Room
		if err := rows.Scan(&r.ID, &r.Name, &r.SmallBlind, &r.BigBlind, &r.MinBuyIn, &r.MaxBuyIn, &r.MaxPlayers, &r.Status, &r.CreatedBy, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		seats, err := s.SeatsForRoom(r.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, RoomWithSeats{Room: r, Seats: seats})
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateRoomStatus(id, status string) error {
	ctx, cancel := s.ctx()
	defer cancel()
	res, err := s.db.ExecContext(ctx, `UPDATE rooms SET status = ?, updated_at = ? WHERE id = ?`, status, time.Now(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRoomNotFound
	}
	return nil
}

func (s *SQLiteStore) DeleteRoom(id string) error {
	ctx, cancel := s.ctx()
	defer cancel()
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM table_players WHERE room_id = ?`, id).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return ErrRoomHasSeats
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRoomNotFound
	}
	return nil
}

func (s *SQLiteStore) SeatsForRoom(roomID string) ([]Seat, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	rows, err := s.db.QueryContext(ctx, `
SELECT room_id, user_id, username, seat_number, stack, status, created_at FROM table_players WHERE room_id = ?`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Seat
	for rows.Next() {
		var seat Seat
		if err := rows.Scan(&seat.RoomID, &seat.UserID, &seat.Username, &seat.SeatNumber, &seat.Stack, &seat.Status, &seat.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, seat)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SeatForUser(roomID string, userID uint64) (Seat, bool, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	var seat Seat
	err := s.db.QueryRowContext(ctx, `
SELECT room_id, user_id, username, seat_number, stack, status, created_at FROM table_players WHERE room_id = ? AND user_id = ?`, roomID, userID).Scan(
		&seat.RoomID, &seat.UserID, &seat.Username, &seat.SeatNumber, &seat.Stack, &seat.Status, &seat.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Seat{}, false, nil
	}
	if err != nil {
		return Seat{}, false, err
	}
	return seat, true, nil
}

func (s *SQLiteStore) UpsertSeat(seat Seat) error {
	ctx, cancel := s.ctx()
	defer cancel()
	if seat.CreatedAt.IsZero() {
		seat.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO table_players (room_id, user_id, username, seat_number, stack, status, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(room_id, user_id) DO UPDATE SET
  username = excluded.username, seat_number = excluded.seat_number,
  stack = excluded.stack, status = excluded.status`,
		seat.RoomID, seat.UserID, seat.Username, seat.SeatNumber, seat.Stack, seat.Status, seat.CreatedAt)
	return err
}

func (s *SQLiteStore) DeleteSeat(roomID string, userID uint64) error {
	ctx, cancel := s.ctx()
	defer cancel()
	res, err := s.db.ExecContext(ctx, `DELETE FROM table_players WHERE room_id = ? AND user_id = ?`, roomID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSeatNotFound
	}
	return nil
}

func (s *SQLiteStore) JoinRoom(roomID string, userID uint64, username string, buyIn int64) (Seat, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Seat{}, err
	}
	defer tx.Rollback()

	var status string
	var maxPlayers int
	if err := tx.QueryRowContext(ctx, `SELECT status, max_players FROM rooms WHERE id = ?`, roomID).Scan(&status, &maxPlayers); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Seat{}, ErrRoomNotFound
		}
		return Seat{}, err
	}
	if status == RoomStatusClosed {
		return Seat{}, ErrRoomClosed
	}

	var existing int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM table_players WHERE room_id = ? AND user_id = ?`, roomID, userID).Scan(&existing); err != nil {
		return Seat{}, err
	}
	if existing > 0 {
		return Seat{}, ErrAlreadySeated
	}

	var balance int64
	if err := tx.QueryRowContext(ctx, `SELECT balance FROM wallets WHERE user_id = ?`, userID).Scan(&balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Seat{}, ErrUserNotFound
		}
		return Seat{}, err
	}
	if balance < buyIn {
		return Seat{}, ErrInsufficientBal
	}

	rows, err := tx.QueryContext(ctx, `SELECT seat_number FROM table_players WHERE room_id = ?`, roomID)
	if err != nil {
		return Seat{}, err
	}
	taken := make(map[int]struct{})
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			rows.Close()
			return Seat{}, err
		}
		taken[n] = struct{}{}
	}
	rows.Close()
	seatNumber := -1
	for n := 0; n < maxPlayers; n++ {
		if _, used := taken[n]; !used {
			seatNumber = n
			break
		}
	}
	if seatNumber < 0 {
		return Seat{}, ErrSeatTaken
	}

	newBalance := balance - buyIn
	if _, err := tx.ExecContext(ctx, `UPDATE wallets SET balance = ? WHERE user_id = ?`, newBalance, userID); err != nil {
		return Seat{}, err
	}
	now := time.Now()
	if _, err := tx.ExecContext(ctx, `
INSERT INTO table_players (room_id, user_id, username, seat_number, stack, status, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`, roomID, userID, username, seatNumber, buyIn, SeatStatusWaiting, now); err != nil {
		return Seat{}, err
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO transactions (user_id, room_id, type, amount, balance_before, balance_after, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`, userID, roomID, TxBuyIn, -buyIn, balance, newBalance, now); err != nil {
		return Seat{}, err
	}
	if err := tx.Commit(); err != nil {
		return Seat{}, err
	}

	return Seat{RoomID: roomID, UserID: userID, Username: username, SeatNumber: seatNumber, Stack: buyIn, Status: SeatStatusWaiting, CreatedAt: now}, nil
}

func (s *SQLiteStore) LeaveRoom(roomID string, userID uint64) (int64, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var stack int64
	if err := tx.QueryRowContext(ctx, `SELECT stack FROM table_players WHERE room_id = ? AND user_id = ?`, roomID, userID).Scan(&stack); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrSeatNotFound
		}
		return 0, err
	}
	var balance int64
	if err := tx.QueryRowContext(ctx, `SELECT balance FROM wallets WHERE user_id = ?`, userID).Scan(&balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	newBalance := balance + stack
	if _, err := tx.ExecContext(ctx, `UPDATE wallets SET balance = ? WHERE user_id = ?`, newBalance, userID); err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM table_players WHERE room_id = ? AND user_id = ?`, roomID, userID); err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO transactions (user_id, room_id, type, amount, balance_before, balance_after, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`, userID, roomID, TxCashOut, stack, balance, newBalance, time.Now()); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return stack, nil
}

func (s *SQLiteStore) FlushStack(roomID string, userID uint64, stack int64) error {
	ctx, cancel := s.ctx()
	defer cancel()
	_, err := s.db.ExecContext(ctx, `UPDATE table_players SET stack = ? WHERE room_id = ? AND user_id = ?`, stack, roomID, userID)
	return err
}

func (s *SQLiteStore) CreditWin(roomID string, userID uint64, amount int64) (int64, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var balance int64
	if err := tx.QueryRowContext(ctx, `SELECT balance FROM wallets WHERE user_id = ?`, userID).Scan(&balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	newBalance := balance + amount
	if _, err := tx.ExecContext(ctx, `UPDATE wallets SET balance = ? WHERE user_id = ?`, newBalance, userID); err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO transactions (user_id, room_id, type, amount, balance_before, balance_after, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`, userID, roomID, TxWin, amount, balance, newBalance, time.Now()); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return newBalance, nil
}

func (s *SQLiteStore) AppendGameHistory(h GameHistory) error {
	ctx, cancel := s.ctx()
	defer cancel()
	cc, err := json.Marshal(h.CommunityCards)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO game_history (room_id, winner_id, pot, community_cards, hand_data, created_at)
VALUES (?, ?, ?, ?, ?, ?)`, h.RoomID, h.WinnerID, h.Pot, string(cc), h.HandData, time.Now())
	return err
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
