// Package room implements the Room Engine: a single-writer actor, one per
// table, that owns a holdem.Game, fans out wire-protocol frames to seated
// players and spectators, and persists seat/wallet mutations through the
// Store. Adapted from the teacher's table.Table actor shape (buffered event
// channel, per-call response channel, ticker-driven timers) retargeted at
// this repo's JSON wire protocol and timing constants.
package room

import (
	"encoding/json"
	"log"
	"sort"
	"time"

	"github.com/hkirat/poker/card"
	"github.com/hkirat/poker/holdem"
	"github.com/hkirat/poker/internal/store"
	"github.com/hkirat/poker/internal/wire"
)

const (
	turnTimeout       = 30 * time.Second
	interHandDelay    = 5 * time.Second
	handStartGrace    = 2 * time.Second
	staleSeatWindow   = 60 * time.Second
	chatMessageMaxLen = 200
)

// Publisher is the fan-out surface the gateway provides. A Room never holds
// a raw connection; it only ever asks to unicast or broadcast a frame.
type Publisher interface {
	Unicast(userID uint64, frame wire.Frame)
	Broadcast(roomID string, frame wire.Frame)
}

type seat struct {
	UserID    uint64
	Username  string
	Chair     uint16
	Connected bool
}

type eventKind int

const (
	evJoin eventKind = iota
	evLeave
	evAction
	evChat
	evSpectateOn
	evSpectateOff
	evDisconnect
)

type event struct {
	kind     eventKind
	userID   uint64
	username string
	action   string
	amount   int64
	message  string
	resp     chan error
}

// handRecordAction is one entry of the per-hand action log persisted into
// game_history.handData, in the order actions were taken.
type handRecordAction struct {
	Chair  uint16 `json:"chair"`
	Action string `json:"action"`
	Amount int64  `json:"amount"`
}

// handRecordPlayer captures a seat's state as of the start of the hand.
type handRecordPlayer struct {
	Chair         uint16   `json:"chair"`
	UserID        uint64   `json:"userId"`
	StartingStack int64    `json:"startingStack"`
	HoleCards     []string `json:"holeCards,omitempty"`
}

// handRecord is the full record of one completed hand: enough to replay the
// betting sequence against the same dealt cards and re-derive winners and
// final stacks independently of the RNG stream that dealt them (spec.md
// §8's hand-replay property).
type handRecord struct {
	DealerChair     uint16             `json:"dealerChair"`
	SmallBlindChair uint16             `json:"smallBlindChair"`
	BigBlindChair   uint16             `json:"bigBlindChair"`
	Players         []handRecordPlayer `json:"players"`
	CommunityCards  []string           `json:"communityCards"`
	Actions         []handRecordAction `json:"actions"`
}

// Room is one live table. All mutable state below is touched only from the
// run() goroutine; external callers exclusively use the Submit* methods,
// which enqueue an event and block for its outcome.
type Room struct {
	ID  string
	cfg store.Room

	store store.Store
	pub   Publisher

	game *holdem.Game

	seatsByChair map[uint16]*seat
	chairByUser  map[uint64]uint16
	spectators   map[uint64]bool

	handActive     bool
	turnDeadline   time.Time
	handStartAt    time.Time
	nextHandAt     time.Time
	pendingSitOuts map[uint16]string // chair -> reason, applied once the hand ends

	handStartingStacks map[uint16]int64 // chair -> stack at the moment StartHand was called, for game_history
	actionLog          []handRecordAction

	events chan event
	done   chan struct{}
}

func New(cfg store.Room, st store.Store, pub Publisher) (*Room, error) {
	game, err := holdem.NewGame(holdem.Config{
		MaxPlayers: cfg.MaxPlayers,
		MinPlayers: 2,
		SmallBlind: cfg.SmallBlind,
		BigBlind:   cfg.BigBlind,
	})
	if err != nil {
		return nil, err
	}
	return &Room{
		ID:                 cfg.ID,
		cfg:                cfg,
		store:              st,
		pub:                pub,
		game:               game,
		seatsByChair:       make(map[uint16]*seat),
		chairByUser:        make(map[uint64]uint16),
		spectators:         make(map[uint64]bool),
		pendingSitOuts:     make(map[uint16]string),
		handStartingStacks: make(map[uint16]int64),
		events:             make(chan event, 64),
		done:               make(chan struct{}),
	}, nil
}

// Seed restores a persisted seat into the in-memory roster at startup,
// before Run is called. It does not touch the Store.
func (r *Room) Seed(s store.Seat) error {
	chair := uint16(s.SeatNumber)
	if err := r.game.SitDown(chair, s.UserID, s.Stack, false); err != nil {
		return err
	}
	r.seatsByChair[chair] = &seat{UserID: s.UserID, Username: s.Username, Chair: chair}
	r.chairByUser[s.UserID] = chair
	return nil
}

func (r *Room) Run() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case ev := <-r.events:
			r.handle(ev)
		case <-ticker.C:
			r.tick()
		case <-r.done:
			return
		}
	}
}

func (r *Room) Stop() { close(r.done) }

func (r *Room) submit(ev event) error {
	ev.resp = make(chan error, 1)
	r.events <- ev
	return <-ev.resp
}

func (r *Room) SubmitJoin(userID uint64, username string) error {
	return r.submit(event{kind: evJoin, userID: userID, username: username})
}

func (r *Room) SubmitLeave(userID uint64) error {
	return r.submit(event{kind: evLeave, userID: userID})
}

func (r *Room) SubmitAction(userID uint64, action string, amount int64) error {
	return r.submit(event{kind: evAction, userID: userID, action: action, amount: amount})
}

func (r *Room) SubmitChat(userID uint64, username, message string) error {
	return r.submit(event{kind: evChat, userID: userID, username: username, message: message})
}

func (r *Room) SubmitSpectate(userID uint64) error {
	return r.submit(event{kind: evSpectateOn, userID: userID})
}

func (r *Room) SubmitDisconnect(userID uint64) error {
	return r.submit(event{kind: evDisconnect, userID: userID})
}

func (r *Room) SubmitUnspectate(userID uint64) error {
	return r.submit(event{kind: evSpectateOff, userID: userID})
}

func (r *Room) handle(ev event) {
	var err error
	switch ev.kind {
	case evJoin:
		err = r.handleJoin(ev.userID, ev.username)
	case evLeave:
		err = r.handleLeave(ev.userID)
	case evAction:
		err = r.handleAction(ev.userID, ev.action, ev.amount)
	case evChat:
		err = r.handleChat(ev.userID, ev.username, ev.message)
	case evSpectateOn:
		r.spectators[ev.userID] = true
		r.pub.Unicast(ev.userID, mustEncode(wire.TypeSpectating, wire.SpectatingPayload{RoomID: r.ID}))
	case evSpectateOff:
		delete(r.spectators, ev.userID)
	case evDisconnect:
		if chair, ok := r.chairByUser[ev.userID]; ok {
			if s := r.seatsByChair[chair]; s != nil {
				s.Connected = false
			}
		}
		delete(r.spectators, ev.userID)
	}
	if ev.resp != nil {
		ev.resp <- err
	}
	r.maybeStartHand()
}

func (r *Room) handleJoin(userID uint64, username string) error {
	chair, seated := r.chairByUser[userID]
	if !seated {
		persisted, ok, err := r.store.SeatForUser(r.ID, userID)
		if err != nil {
			return err
		}
		if !ok {
			return errMustJoinViaLobby
		}
		chair = uint16(persisted.SeatNumber)
		if err := r.game.SitDown(chair, userID, persisted.Stack, false); err != nil {
			return err
		}
		r.seatsByChair[chair] = &seat{UserID: userID, Username: username, Chair: chair}
		r.chairByUser[userID] = chair
		r.pub.Broadcast(r.ID, mustEncode(wire.TypePlayerJoined, wire.PlayerJoinedPayload{
			UserID: userID, Username: username, SeatNumber: int(chair), Stack: persisted.Stack,
		}))
	}

	s := r.seatsByChair[chair]
	s.Connected = true
	stack := int64(0)
	if p := r.game.Player(chair); p != nil {
		stack = p.Stack()
	}
	r.pub.Unicast(userID, mustEncode(wire.TypeJoinedRoom, wire.JoinedRoomPayload{
		RoomID: r.ID, SeatNumber: int(chair), Stack: stack,
	}))
	r.sendStateTo(userID)
	return nil
}

func (r *Room) handleLeave(userID uint64) error {
	chair, ok := r.chairByUser[userID]
	if !ok {
		return errNotSeated
	}

	if r.handActive {
		var settlement *holdem.SettlementResult
		if p := r.game.Player(chair); p != nil && !p.Folded() {
			settlement, _ = r.game.Act(chair, holdem.PlayerActionTypeFold, p.Bet())
			r.actionLog = append(r.actionLog, handRecordAction{Chair: chair, Action: "fold"})
		}
		r.pendingSitOuts[chair] = "voluntary"
		r.pub.Unicast(userID, mustEncode(wire.TypeLeftRoom, struct{}{}))
		// Seat removal itself is deferred to processHandOutcomeIfEnded, which
		// only runs once the hand has actually concluded — holdem.Game.StandUp
		// refuses to remove a player while a hand is still in progress.
		if settlement != nil {
			r.onHandEnded(settlement)
		} else {
			r.armTurnTimer()
			r.broadcastState()
		}
		return nil
	}

	return r.removeSeat(chair, "voluntary")
}

func (r *Room) removeSeat(chair uint16, reason string) error {
	s := r.seatsByChair[chair]
	if s == nil {
		return errNotSeated
	}
	stack := int64(0)
	if p := r.game.Player(chair); p != nil {
		stack = p.Stack()
	}
	if err := r.game.StandUp(chair); err != nil {
		return err
	}
	if err := r.store.FlushStack(r.ID, s.UserID, stack); err != nil {
		return err
	}
	if _, err := r.store.LeaveRoom(r.ID, s.UserID); err != nil {
		return err
	}
	delete(r.seatsByChair, chair)
	delete(r.chairByUser, s.UserID)

	switch reason {
	case "voluntary":
		r.pub.Unicast(s.UserID, mustEncode(wire.TypeLeftRoom, struct{}{}))
	case "timeout":
		// player_sat_out was already broadcast when the timeout fired.
	default:
		r.pub.Broadcast(r.ID, mustEncode(wire.TypePlayerLeft, wire.PlayerLeftPayload{UserID: s.UserID, Reason: reason}))
	}
	return nil
}

func (r *Room) handleAction(userID uint64, actionStr string, amount int64) error {
	chair, ok := r.chairByUser[userID]
	if !ok {
		return errNotSeated
	}
	if !r.handActive || r.game.Snapshot().ActionChair != chair {
		return errInvalidAction
	}

	snap := r.game.Snapshot()
	var ownBet, ownStack int64
	for _, p := range snap.Players {
		if p.Chair == chair {
			ownBet, ownStack = p.Bet, p.Stack
		}
	}

	var actionType holdem.ActionType
	var totalBet int64
	switch actionStr {
	case "fold":
		actionType = holdem.PlayerActionTypeFold
		totalBet = ownBet
	case "check":
		actionType = holdem.PlayerActionTypeCheck
		totalBet = ownBet
	case "call":
		actionType = holdem.PlayerActionTypeCall
		totalBet = snap.CurBet
	case "raise":
		actionType = holdem.PlayerActionTypeRaise
		totalBet = snap.CurBet + amount
	case "all-in":
		actionType = holdem.PlayerActionTypeAllin
		totalBet = ownStack + ownBet
	default:
		return errInvalidAction
	}

	settlement, err := r.game.Act(chair, actionType, totalBet)
	if err != nil {
		return errInvalidAction
	}
	r.actionLog = append(r.actionLog, handRecordAction{Chair: chair, Action: actionStr, Amount: totalBet})

	r.pub.Broadcast(r.ID, mustEncode(wire.TypeActionResult, wire.ActionResultPayload{
		UserID: userID, Action: actionStr, Amount: totalBet, Stack: stackOf(r.game, chair),
	}))

	if settlement != nil {
		r.onHandEnded(settlement)
	} else {
		r.armTurnTimer()
		r.broadcastState()
	}
	return nil
}

func (r *Room) handleChat(userID uint64, username, message string) error {
	if _, ok := r.chairByUser[userID]; !ok {
		return errNotSeated
	}
	if len(message) > chatMessageMaxLen {
		message = message[:chatMessageMaxLen]
	}
	r.pub.Broadcast(r.ID, mustEncode(wire.TypeChat, wire.ChatMessageOutPayload{
		ID: randomID(), UserID: userID, Username: username, Message: message, Timestamp: time.Now().Unix(),
	}))
	return nil
}

func (r *Room) tick() {
	if r.handActive {
		if !r.turnDeadline.IsZero() {
			remaining := time.Until(r.turnDeadline)
			chair := r.game.Snapshot().ActionChair
			if s := r.seatsByChair[chair]; s != nil {
				timedOut := remaining <= 0
				r.pub.Broadcast(r.ID, mustEncode(wire.TypeTimerUpdate, wire.TimerUpdatePayload{
					UserID: s.UserID, RemainingMS: maxInt64(remaining.Milliseconds(), 0), TimedOut: timedOut,
				}))
				if timedOut {
					r.handleTimeout(chair, s)
				}
			}
		}
	}
	r.maybeStartHand()
}

func (r *Room) handleTimeout(chair uint16, s *seat) {
	if p := r.game.Player(chair); p != nil && !p.Folded() {
		settlement, _ := r.game.Act(chair, holdem.PlayerActionTypeFold, p.Bet())
		r.actionLog = append(r.actionLog, handRecordAction{Chair: chair, Action: "fold"})
		stack := int64(0)
		if p := r.game.Player(chair); p != nil {
			stack = p.Stack()
		}
		r.pendingSitOuts[chair] = "timeout"
		r.pub.Broadcast(r.ID, mustEncode(wire.TypePlayerSatOut, wire.PlayerSatOutPayload{
			UserID: s.UserID, Username: s.Username, Reason: "timeout", ChipsReturned: stack,
		}))
		if settlement != nil {
			r.onHandEnded(settlement)
		} else {
			r.armTurnTimer()
			r.broadcastState()
		}
	}
}

// onHandEnded persists stacks, appends game history, removes busted and
// queued sit-out players, and schedules the next hand (spec.md §4.3.7).
func (r *Room) onHandEnded(settlement *holdem.SettlementResult) {
	r.handActive = false
	r.turnDeadline = time.Time{}

	// Every still-seated player's stack is flushed, not just the chairs that
	// show up in settlement.PlayerResults — settleByEval omits folded players
	// from that slice entirely, and their stack change (the chips they put in
	// before folding) would otherwise never reach the Store.
	for chair, s := range r.seatsByChair {
		if err := r.store.FlushStack(r.ID, s.UserID, stackOf(r.game, chair)); err != nil {
			log.Printf("[room %s] flush stack: %v", r.ID, err)
		}
	}

	var winners []wire.Winner
	var winnerID uint64
	revealed := make(map[uint64][]wire.Card)
	pot := int64(0)
	for _, pr := range settlement.PlayerResults {
		s := r.seatsByChair[pr.Chair]
		if s == nil {
			continue
		}
		// Every showdown participant's hand is revealed, win or lose — only
		// AllCards' length distinguishes "reached showdown" from "folded".
		if len(pr.AllCards) == 7 {
			revealed[s.UserID] = cardsToWire(pr.HandCards)
		}
		if pr.IsWinner {
			if _, err := r.store.CreditWin(r.ID, s.UserID, pr.WinAmount); err != nil {
				log.Printf("[room %s] credit win: %v", r.ID, err)
			}
			if winnerID == 0 {
				winnerID = s.UserID
			}
			amount := pr.WinAmount
			// settleNoShowdown hands the winner's uncalled bet back separately
			// from WinAmount; an award by fold reports it as part of the pot.
			if len(pr.AllCards) == 0 && settlement.ExcessChair == pr.Chair {
				amount += settlement.ExcessAmount
			}
			winners = append(winners, wire.Winner{
				UserID: s.UserID, Username: s.Username, Amount: amount,
				Hand: handDescription(pr),
			})
			pot += amount
		}
	}

	snap := r.game.Snapshot()
	if err := r.store.AppendGameHistory(store.GameHistory{
		RoomID: r.ID, WinnerID: winnerID, Pot: pot,
		CommunityCards: cardStrings(snap.CommunityCards),
		HandData:       r.encodeHandRecord(snap),
	}); err != nil {
		log.Printf("[room %s] append game history: %v", r.ID, err)
	}

	resultPayload := wire.HandResultPayload{Winners: winners, Pot: pot}
	if len(revealed) > 0 {
		resultPayload.RevealedHands = revealed
		resultPayload.CommunityCards = cardsToWire(snap.CommunityCards)
	}
	r.pub.Broadcast(r.ID, mustEncode(wire.TypeHandResult, resultPayload))

	r.processHandOutcomeIfEnded()
	r.nextHandAt = time.Now().Add(interHandDelay)
}

// encodeHandRecord serializes the hand just settled (starting stacks, hole
// cards, community cards, and the ordered action log) into the handData blob
// persisted alongside game_history, so an external harness can replay the
// betting sequence against the dealt cards and re-derive winners and final
// stacks without needing the engine's RNG stream. Returns "" if marshaling
// fails; game history is still appended without replay data in that case.
func (r *Room) encodeHandRecord(snap holdem.Snapshot) string {
	players := make([]handRecordPlayer, 0, len(r.handStartingStacks))
	for chair, startStack := range r.handStartingStacks {
		s := r.seatsByChair[chair]
		if s == nil {
			continue
		}
		var hole []string
		if p := r.game.Player(chair); p != nil {
			hole = cardStrings(p.HandCards())
		}
		players = append(players, handRecordPlayer{
			Chair: chair, UserID: s.UserID, StartingStack: startStack, HoleCards: hole,
		})
	}
	sort.Slice(players, func(i, j int) bool { return players[i].Chair < players[j].Chair })

	record := handRecord{
		DealerChair:     snap.DealerChair,
		SmallBlindChair: snap.SmallBlindChair,
		BigBlindChair:   snap.BigBlindChair,
		Players:         players,
		CommunityCards:  cardStrings(snap.CommunityCards),
		Actions:         r.actionLog,
	}
	data, err := json.Marshal(record)
	if err != nil {
		log.Printf("[room %s] encode hand record: %v", r.ID, err)
		return ""
	}
	return string(data)
}

// processHandOutcomeIfEnded removes busted players and seats queued for
// removal (voluntary leave / timeout mid-hand). Safe to call once g.ended.
func (r *Room) processHandOutcomeIfEnded() {
	for chair := range r.pendingSitOuts {
		reason := r.pendingSitOuts[chair]
		delete(r.pendingSitOuts, chair)
		if s := r.seatsByChair[chair]; s != nil {
			_ = r.removeSeat(chair, reason)
		}
	}
	for chair, s := range r.seatsByChair {
		p := r.game.Player(chair)
		if p != nil && p.Stack() == 0 {
			userID := s.UserID
			if err := r.game.StandUp(chair); err == nil {
				_ = r.store.DeleteSeat(r.ID, userID)
				delete(r.seatsByChair, chair)
				delete(r.chairByUser, userID)
				r.pub.Broadcast(r.ID, mustEncode(wire.TypePlayerLeft, wire.PlayerLeftPayload{UserID: userID, Reason: "busted"}))
			}
		}
	}
}

func (r *Room) eligibleCount() int {
	n := 0
	for chair := range r.seatsByChair {
		if p := r.game.Player(chair); p != nil && p.Stack() > 0 {
			n++
		}
	}
	return n
}

func (r *Room) maybeStartHand() {
	if r.handActive {
		return
	}
	if r.eligibleCount() < 2 {
		r.handStartAt = time.Time{}
		return
	}
	now := time.Now()
	if now.Before(r.nextHandAt) {
		return
	}
	if r.handStartAt.IsZero() {
		r.handStartAt = now.Add(handStartGrace)
		return
	}
	if now.Before(r.handStartAt) {
		return
	}
	r.handStartAt = time.Time{}

	for chair := range r.seatsByChair {
		if p := r.game.Player(chair); p != nil {
			r.handStartingStacks[chair] = p.Stack()
		}
	}
	r.actionLog = nil

	if err := r.game.StartHand(); err != nil {
		log.Printf("[room %s] start hand: %v", r.ID, err)
		return
	}
	r.handActive = true
	r.armTurnTimer()
	r.broadcastNewRound()
}

func (r *Room) armTurnTimer() {
	snap := r.game.Snapshot()
	if snap.Ended {
		r.turnDeadline = time.Time{}
		return
	}
	r.turnDeadline = time.Now().Add(turnTimeout)
}

func (r *Room) broadcastNewRound() {
	pub := r.publicState()
	r.pub.Broadcast(r.ID, mustEncode(wire.TypeNewRound, pub))
	for chair, s := range r.seatsByChair {
		if p := r.game.Player(chair); p != nil {
			withCards := pub
			withCards.YourCards = cardsToWire(p.HandCards())
			r.pub.Unicast(s.UserID, mustEncode(wire.TypeGameState, withCards))
		}
	}
}

func (r *Room) broadcastState() {
	pub := r.publicState()
	r.pub.Broadcast(r.ID, mustEncode(wire.TypeGameState, pub))
}

func (r *Room) sendStateTo(userID uint64) {
	chair, ok := r.chairByUser[userID]
	if !ok {
		return
	}
	pub := r.publicState()
	if p := r.game.Player(chair); p != nil && r.handActive {
		pub.YourCards = cardsToWire(p.HandCards())
	}
	r.pub.Unicast(userID, mustEncode(wire.TypeGameState, pub))
}

func (r *Room) publicState() wire.GameStatePayload {
	snap := r.game.Snapshot()
	payload := wire.GameStatePayload{
		RoomID:         r.ID,
		Phase:          holdem.PhaseTypeDictionary[snap.Phase],
		CommunityCards: cardsToWire(snap.CommunityCards),
		CurrentBet:     snap.CurBet,
		MinRaise:       snap.MinRaiseDelta,
	}
	for _, p := range snap.Pots {
		payload.Pot += p.Amount
	}
	if s := r.seatsByChair[snap.ActionChair]; s != nil {
		payload.CurrentActorID = s.UserID
	}
	if !r.turnDeadline.IsZero() {
		payload.TurnDeadlineUTC = r.turnDeadline.UnixMilli()
	}

	chairs := make([]uint16, 0, len(snap.Players))
	byChair := make(map[uint16]holdem.PlayerSnapshot, len(snap.Players))
	for _, p := range snap.Players {
		chairs = append(chairs, p.Chair)
		byChair[p.Chair] = p
	}
	sort.Slice(chairs, func(i, j int) bool { return chairs[i] < chairs[j] })

	for _, chair := range chairs {
		p := byChair[chair]
		s := r.seatsByChair[chair]
		if s == nil {
			continue
		}
		payload.Players = append(payload.Players, wire.PlayerPublic{
			UserID: s.UserID, Username: s.Username, SeatNumber: int(chair),
			Stack: p.Stack, CurrentBet: p.Bet, Status: seatStatus(p),
			IsDealer: chair == snap.DealerChair, IsSmallBlind: chair == snap.SmallBlindChair,
			IsBigBlind: chair == snap.BigBlindChair, HasFolded: p.Folded, IsAllIn: p.AllIn,
			IsActing: chair == snap.ActionChair,
		})
	}
	return payload
}

func seatStatus(p holdem.PlayerSnapshot) string {
	switch {
	case p.Folded:
		return store.SeatStatusFolded
	case p.AllIn:
		return store.SeatStatusAllIn
	default:
		return store.SeatStatusActive
	}
}

var handTypeNames = map[byte]string{
	holdem.HandHighCard:      "High Card",
	holdem.HandOnePair:       "Pair",
	holdem.HandTwoPair:       "Two Pair",
	holdem.HandThreeOfKind:   "Three of a Kind",
	holdem.HandStraight:      "Straight",
	holdem.HandFlush:         "Flush",
	holdem.HandFullHouse:     "Full House",
	holdem.HandFourOfKind:    "Four of a Kind",
	holdem.HandStraightFlush: "Straight Flush",
	holdem.HandRoyalFlush:    "Royal Flush",
}

func handDescription(pr holdem.ShowdownPlayerResult) *wire.WinnerHand {
	if len(pr.BestFiveCards) == 0 {
		return nil
	}
	return &wire.WinnerHand{
		Rank:        handTypeNames[pr.HandType],
		Description: handTypeNames[pr.HandType],
		Cards:       cardsToWire(pr.BestFiveCards),
	}
}

func stackOf(g *holdem.Game, chair uint16) int64 {
	if p := g.Player(chair); p != nil {
		return p.Stack()
	}
	return 0
}

func cardsToWire(cards []card.Card) []wire.Card {
	out := make([]wire.Card, 0, len(cards))
	for _, c := range cards {
		out = append(out, wire.Card(c.String()))
	}
	return out
}

func cardStrings(cards []card.Card) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.String())
	}
	return out
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func mustEncode(msgType string, payload any) wire.Frame {
	frame, err := wire.Encode(msgType, payload)
	if err != nil {
		panic(err)
	}
	return frame
}
