package engine

import (
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/dpimentel/domino-dominicano/internal/apperrors"
	"github.com/dpimentel/domino-dominicano/internal/game/tile"
)

// State is the engine's per-hand state machine.
type State int

const (
	StateDealing State = iota
	StateAwaitingMove
	StateHandResolved
	StateMatchResolved
)

// Team pairs opposite seats: {0,2} are Team A, {1,3} Team B.
type Team int

const (
	TeamA    Team = 0
	TeamB    Team = 1
	TeamNone Team = -1
)

func (t Team) String() string {
	switch t {
	case TeamA:
		return "A"
	case TeamB:
		return "B"
	}
	return ""
}

// Opponent returns the other team.
func (t Team) Opponent() Team {
	if t == TeamA {
		return TeamB
	}
	return TeamA
}

// TeamForSeat maps a seat to its team.
func TeamForSeat(seat int) Team {
	return Team(seat % 2)
}

// WinReason records how a hand was won.
type WinReason string

const (
	ReasonDomino  WinReason = "domino"
	ReasonTranque WinReason = "tranque"
	ReasonCapicua WinReason = "capicua"
)

const (
	capicuaBonus     = 30
	paseRedondoBonus = 30

	numSeats = 4
)

// Config fixes the rules for one match.
type Config struct {
	TargetScore int
	TurnTimeout time.Duration
}

// SeatInfo identifies one player at engine creation.
type SeatInfo struct {
	ID   string
	Name string
}

// HandRecord describes a finished hand.
type HandRecord struct {
	Number     int
	WinnerSeat int
	WinnerTeam Team
	Reason     WinReason
	Points     int
}

// Snapshot is a read-only copy of the match state. Hands are full copies; the
// consumer decides what each player may see.
type Snapshot struct {
	State        State
	HandNumber   int
	Board        []tile.Tile
	Head         int
	Tail         int
	CurrentTurn  int
	TurnDeadline time.Time
	Hands        [numSeats]tile.Set
	Scores       [2]int
	TargetScore  int
	Passes       int
	Champion     Team
}

type seatState struct {
	id   string
	name string
	hand tile.Set
}

// move is one legal (tile, side) pair.
type move struct {
	t    tile.Tile
	side Side
}

// Engine owns one room's match: turn order, move legality, board mutation,
// scoring and win detection. All mutation goes through its public operations,
// serialized by mu; the turn clock's fire path takes the same lock, so timer
// expiry and client input can never interleave.
type Engine struct {
	mu sync.RWMutex

	cfg   Config
	seats [numSeats]seatState

	state             State
	board             Board
	handNumber        int
	currentTurn       int
	turnDeadline      time.Time
	consecutivePasses int
	lastHandWinner    int // -1 before the first hand ends
	scores            [2]int
	champion          Team

	clock  turnClock
	events chan Event
}

// New creates an engine for four seated players. Call StartHand to deal.
func New(cfg Config, seats [numSeats]SeatInfo) *Engine {
	e := &Engine{
		cfg:            cfg,
		state:          StateDealing,
		handNumber:     1,
		lastHandWinner: -1,
		champion:       TeamNone,
		events:         make(chan Event, 128),
	}
	for i, s := range seats {
		e.seats[i] = seatState{id: s.ID, name: s.Name}
	}
	return e
}

// Events yields the engine's state-change notifications. The channel is
// buffered; events are dropped (and logged) if the consumer falls behind.
func (e *Engine) Events() <-chan Event {
	return e.events
}

func (e *Engine) emit(ev Event) {
	select {
	case e.events <- ev:
	default:
		log.Printf("⚠️  engine event dropped: %T", ev)
	}
}

// StartHand deals a fresh hand: clears the board, gives each seat 7 tiles
// from a newly shuffled set, picks the starter and arms the turn clock.
func (e *Engine) StartHand() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case StateMatchResolved:
		return apperrors.ErrMatchEnded
	case StateAwaitingMove:
		return apperrors.ErrGameStarted
	}

	set := tile.NewSet()
	set.Shuffle()
	for i := range e.seats {
		hand := make(tile.Set, tile.HandSize)
		copy(hand, set[i*tile.HandSize:(i+1)*tile.HandSize])
		e.seats[i].hand = hand
	}

	e.board = Board{}
	e.consecutivePasses = 0
	e.currentTurn = e.pickStarter()
	e.state = StateAwaitingMove
	e.armClock()

	log.Printf("🁢 hand %d dealt, seat %d opens", e.handNumber, e.currentTurn)
	e.emit(StateChangedEvent{State: e.snapshotLocked(), HandStart: true})
	return nil
}

// pickStarter chooses the opening seat. First hand: the holder of the double
// six, else the highest double anywhere, else seat 0. Later hands: the
// previous hand's winner.
func (e *Engine) pickStarter() int {
	if e.handNumber > 1 {
		if e.lastHandWinner >= 0 && e.lastHandWinner < numSeats {
			return e.lastHandWinner
		}
		return 0
	}

	for i := range e.seats {
		if e.seats[i].hand.Contains(tile.DoubleSix) {
			return i
		}
	}

	// Unreachable with a full 28-tile deal; kept as the documented fallback
	// chain rather than a silent default.
	log.Printf("⚠️  no seat holds the double six, falling back to highest double")
	for pip := tile.MaxPip; pip >= tile.MinPip; pip-- {
		d := tile.Tile{A: pip, B: pip}
		for i := range e.seats {
			if e.seats[i].hand.Contains(d) {
				return i
			}
		}
	}
	return 0
}

// IsValidMove reports whether t may be placed on the requested side right
// now, ignoring turn ownership.
func (e *Engine) IsValidMove(t tile.Tile, side Side) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.board.Empty() {
		if e.handNumber == 1 {
			return t.Equals(tile.DoubleSix)
		}
		return true
	}
	return e.board.Fits(t, side)
}

// PlacePiece plays a tile for a seat. A rejected move returns an error and
// mutates nothing. On acceptance the tile is oriented onto the board, the
// pending timer is cancelled and either the hand resolves (seat emptied its
// hand) or the turn advances and the clock is re-armed.
func (e *Engine) PlacePiece(seat int, t tile.Tile, side Side) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.placeLocked(seat, t, side)
}

func (e *Engine) placeLocked(seat int, t tile.Tile, side Side) error {
	if e.state == StateMatchResolved {
		return apperrors.ErrMatchEnded
	}
	if e.state != StateAwaitingMove {
		return apperrors.ErrGameNotStart
	}
	if seat != e.currentTurn {
		return apperrors.ErrNotYourTurn
	}
	if !e.seats[seat].hand.Contains(t) {
		return apperrors.ErrTileNotHeld
	}

	if e.board.Empty() {
		if e.handNumber == 1 && !t.Equals(tile.DoubleSix) {
			return apperrors.ErrMustOpenDoubleSix
		}
		side = SideTail
	} else {
		// A tile fitting both open values always goes to the tail end,
		// unless the board is the lone opening double, whose two ends are
		// the same tile.
		if e.board.Len() > 1 && t.Has(e.board.Head()) && t.Has(e.board.Tail()) {
			side = SideTail
		}
		if !e.board.Fits(t, side) {
			return apperrors.ErrInvalidMove
		}
	}

	// Capicúa is judged against the ends as they stood before the winning
	// tile lands. Doubles never qualify.
	winning := len(e.seats[seat].hand) == 1
	capicua := winning && !e.board.Empty() && !t.IsDouble() &&
		t.Has(e.board.Head()) && t.Has(e.board.Tail())

	e.clock.stop()
	e.board.Place(t, side)
	e.seats[seat].hand.Remove(t)
	e.consecutivePasses = 0

	if winning {
		reason := ReasonDomino
		bonus := 0
		if capicua {
			reason = ReasonCapicua
			bonus = capicuaBonus
		}
		e.finishHand(seat, reason, bonus)
		return nil
	}

	e.currentTurn = (e.currentTurn + 1) % numSeats
	e.armClock()
	e.emit(StateChangedEvent{State: e.snapshotLocked()})
	return nil
}

// PassTurn passes for a seat. Passing is only legal with zero legal moves.
// The third consecutive pass may award a pase redondo to the seat the turn
// returns to; the fourth closes the board as a tranque.
func (e *Engine) PassTurn(seat int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.passLocked(seat)
}

func (e *Engine) passLocked(seat int) error {
	if e.state == StateMatchResolved {
		return apperrors.ErrMatchEnded
	}
	if e.state != StateAwaitingMove {
		return apperrors.ErrGameNotStart
	}
	if seat != e.currentTurn {
		return apperrors.ErrNotYourTurn
	}
	if len(e.legalMoves(seat)) > 0 {
		return apperrors.ErrIllegalPass
	}

	e.clock.stop()
	e.consecutivePasses++

	if e.consecutivePasses == numSeats {
		// The fourth pass does not advance the turn, so the current seat is
		// the last one that placed a tile: the trancador.
		e.resolveTranque()
		return nil
	}

	e.currentTurn = (e.currentTurn + 1) % numSeats

	if e.consecutivePasses == numSeats-1 && len(e.legalMoves(e.currentTurn)) > 0 {
		// Pase redondo: the other three passed and the turn returns to a
		// seat that can still play. It keeps the turn; the bonus is withheld
		// once the team is close enough to reach the target with it.
		team := TeamForSeat(e.currentTurn)
		e.consecutivePasses = 0
		bonus := 0
		if e.scores[team] < e.cfg.TargetScore-paseRedondoBonus {
			bonus = paseRedondoBonus
			e.scores[team] += bonus
		}
		log.Printf("🔁 pase redondo for seat %d (team %s, +%d)", e.currentTurn, team, bonus)
		e.emit(ScoreBonusEvent{Seat: e.currentTurn, Team: team, Points: bonus})
	}

	e.armClock()
	e.emit(StateChangedEvent{State: e.snapshotLocked()})
	return nil
}

// legalMoves lists every (tile, side) pair the seat may play right now.
func (e *Engine) legalMoves(seat int) []move {
	hand := e.seats[seat].hand

	if e.board.Empty() {
		if e.handNumber == 1 {
			if hand.Contains(tile.DoubleSix) {
				return []move{{t: tile.DoubleSix, side: SideTail}}
			}
			return nil
		}
		moves := make([]move, 0, len(hand))
		for _, t := range hand {
			moves = append(moves, move{t: t, side: SideTail})
		}
		return moves
	}

	var moves []move
	for _, t := range hand {
		if t.Has(e.board.Head()) {
			moves = append(moves, move{t: t, side: SideHead})
		}
		if t.Has(e.board.Tail()) {
			moves = append(moves, move{t: t, side: SideTail})
		}
	}
	return moves
}

// armClock schedules the auto-move for the current seat. Caller holds mu.
func (e *Engine) armClock() {
	e.turnDeadline = time.Now().Add(e.cfg.TurnTimeout)
	e.clock.arm(e.currentTurn, e.cfg.TurnTimeout, e.handleTurnTimeout)
}

// handleTurnTimeout runs on clock expiry. armedSeat was captured when the
// timer was armed; a mismatch with the current seat means the timer was
// superseded by an accepted move and the fire is discarded silently.
func (e *Engine) handleTurnTimeout(armedSeat int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateAwaitingMove || armedSeat != e.currentTurn {
		return // stale timer
	}

	moves := e.legalMoves(armedSeat)
	if len(moves) == 0 {
		log.Printf("⏰ seat %d timed out with no legal move, auto-pass", armedSeat)
		e.emit(AutoMoveEvent{Seat: armedSeat, Passed: true})
		if err := e.passLocked(armedSeat); err != nil {
			log.Printf("auto-pass failed for seat %d: %v", armedSeat, err)
		}
		return
	}

	m := moves[rand.IntN(len(moves))]
	log.Printf("⏰ seat %d timed out, auto-playing %s on %s", armedSeat, m.t, m.side)
	e.emit(AutoMoveEvent{Seat: armedSeat})
	if err := e.placeLocked(armedSeat, m.t, m.side); err != nil {
		log.Printf("auto-play failed for seat %d: %v", armedSeat, err)
	}
}

// resolveTranque settles a blocked board. The trancador (current seat) is
// compared with the seat one position after it; lower hand pip sum wins and
// the trancador loses ties.
func (e *Engine) resolveTranque() {
	trancador := e.currentTurn
	opponent := (trancador + 1) % numSeats

	winner := opponent
	if e.seats[trancador].hand.Pips() < e.seats[opponent].hand.Pips() {
		winner = trancador
	}
	log.Printf("🚧 tranque: seat %d (%d pips) vs seat %d (%d pips), seat %d wins",
		trancador, e.seats[trancador].hand.Pips(), opponent, e.seats[opponent].hand.Pips(), winner)
	e.finishHand(winner, ReasonTranque, 0)
}

// finishHand credits the winning team with every remaining pip across all
// four hands plus any bonus, records the hand, and either resolves the match
// or leaves the engine ready for the next StartHand. Caller holds mu.
func (e *Engine) finishHand(winnerSeat int, reason WinReason, bonus int) {
	points := bonus
	for i := range e.seats {
		points += e.seats[i].hand.Pips()
	}

	team := TeamForSeat(winnerSeat)
	e.scores[team] += points
	e.lastHandWinner = winnerSeat
	e.clock.stop()
	e.turnDeadline = time.Time{}

	rec := HandRecord{
		Number:     e.handNumber,
		WinnerSeat: winnerSeat,
		WinnerTeam: team,
		Reason:     reason,
		Points:     points,
	}
	log.Printf("🏁 hand %d won by seat %d (%s, %d pts), score A %d — B %d",
		rec.Number, winnerSeat, reason, points, e.scores[TeamA], e.scores[TeamB])

	if e.scores[team] >= e.cfg.TargetScore {
		e.state = StateMatchResolved
		e.champion = team
		e.clock.disable()
		e.emit(HandResolvedEvent{Record: rec, State: e.snapshotLocked()})
		e.emit(MatchResolvedEvent{Champion: team, Scores: e.scores})
		return
	}

	e.state = StateHandResolved
	e.handNumber++
	e.emit(HandResolvedEvent{Record: rec, State: e.snapshotLocked()})
}

// ResolveByForfeit ends the match immediately in favor of the given team,
// regardless of score. Used when an abandoned seat's grace window elapses.
func (e *Engine) ResolveByForfeit(winner Team, reason string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateMatchResolved {
		return
	}
	e.state = StateMatchResolved
	e.champion = winner
	e.clock.disable()
	log.Printf("🏳️ match forfeited, team %s wins: %s", winner, reason)
	e.emit(MatchResolvedEvent{Champion: winner, Scores: e.scores, Forfeit: true, Reason: reason})
}

// Stop permanently disarms the turn clock. Called when the owning room is
// destroyed.
func (e *Engine) Stop() {
	e.clock.disable()
}

// Snapshot returns a read-only copy of the match state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:        e.state,
		HandNumber:   e.handNumber,
		Board:        e.board.Tiles(),
		Head:         e.board.Head(),
		Tail:         e.board.Tail(),
		CurrentTurn:  e.currentTurn,
		TurnDeadline: e.turnDeadline,
		Scores:       e.scores,
		TargetScore:  e.cfg.TargetScore,
		Passes:       e.consecutivePasses,
		Champion:     e.champion,
	}
	for i := range e.seats {
		hand := make(tile.Set, len(e.seats[i].hand))
		copy(hand, e.seats[i].hand)
		snap.Hands[i] = hand
	}
	return snap
}

// HandOf returns a copy of one seat's current tiles.
func (e *Engine) HandOf(seat int) tile.Set {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if seat < 0 || seat >= numSeats {
		return nil
	}
	hand := make(tile.Set, len(e.seats[seat].hand))
	copy(hand, e.seats[seat].hand)
	return hand
}

// Champion returns the winning team, or TeamNone while the match runs.
func (e *Engine) Champion() Team {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.champion
}
