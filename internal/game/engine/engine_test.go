package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpimentel/domino-dominicano/internal/apperrors"
	"github.com/dpimentel/domino-dominicano/internal/game/tile"
)

func testSeats() [4]SeatInfo {
	return [4]SeatInfo{
		{ID: "p0", Name: "Ana"},
		{ID: "p1", Name: "Luis"},
		{ID: "p2", Name: "Rosa"},
		{ID: "p3", Name: "Juan"},
	}
}

// newManualEngine builds an engine in AwaitingMove with empty hands so each
// test can lay out its own position. The turn clock is effectively disarmed.
func newManualEngine() *Engine {
	e := New(Config{TargetScore: 200, TurnTimeout: time.Hour}, testSeats())
	e.state = StateAwaitingMove
	return e
}

// drainEvents empties the event channel and returns everything buffered.
func drainEvents(e *Engine) []Event {
	var out []Event
	for {
		select {
		case ev := <-e.Events():
			out = append(out, ev)
		default:
			return out
		}
	}
}

func lastHandResolved(t *testing.T, events []Event) HandResolvedEvent {
	t.Helper()
	for i := len(events) - 1; i >= 0; i-- {
		if ev, ok := events[i].(HandResolvedEvent); ok {
			return ev
		}
	}
	t.Fatal("no HandResolvedEvent emitted")
	return HandResolvedEvent{}
}

func TestStartHandDealsSevenEach(t *testing.T) {
	t.Parallel()
	e := New(Config{TargetScore: 200, TurnTimeout: time.Hour}, testSeats())
	require.NoError(t, e.StartHand())

	snap := e.Snapshot()
	seen := make(map[tile.Tile]bool)
	total := 0
	for seat := range snap.Hands {
		assert.Len(t, snap.Hands[seat], tile.HandSize)
		for _, tl := range snap.Hands[seat] {
			canonical := tl
			if canonical.A > canonical.B {
				canonical = canonical.Reversed()
			}
			assert.False(t, seen[canonical], "tile %s dealt twice", tl)
			seen[canonical] = true
			total++
		}
	}
	assert.Equal(t, tile.SetSize, total)
	assert.Equal(t, StateAwaitingMove, snap.State)
	assert.Equal(t, 1, snap.HandNumber)
}

func TestFirstHandStarterHoldsDoubleSix(t *testing.T) {
	t.Parallel()
	e := New(Config{TargetScore: 200, TurnTimeout: time.Hour}, testSeats())
	require.NoError(t, e.StartHand())

	snap := e.Snapshot()
	assert.True(t, snap.Hands[snap.CurrentTurn].Contains(tile.DoubleSix),
		"starter must hold the double six")
}

func TestLaterHandStarterIsPreviousWinner(t *testing.T) {
	t.Parallel()
	e := newManualEngine()
	e.state = StateHandResolved
	e.handNumber = 2
	e.lastHandWinner = 3
	require.NoError(t, e.StartHand())
	assert.Equal(t, 3, e.Snapshot().CurrentTurn)
}

func TestOpeningMustBeDoubleSix(t *testing.T) {
	t.Parallel()
	e := newManualEngine()
	e.currentTurn = 0
	e.seats[0].hand = tile.Set{{A: 6, B: 6}, {A: 5, B: 5}}

	err := e.PlacePiece(0, tile.Tile{A: 5, B: 5}, SideTail)
	assert.ErrorIs(t, err, apperrors.ErrMustOpenDoubleSix)

	require.NoError(t, e.PlacePiece(0, tile.DoubleSix, SideTail))
	snap := e.Snapshot()
	assert.Equal(t, 6, snap.Head)
	assert.Equal(t, 6, snap.Tail)
	assert.Equal(t, 1, snap.CurrentTurn, "turn advances to the next seat")
}

func TestLaterHandOpensWithAnyTile(t *testing.T) {
	t.Parallel()
	e := newManualEngine()
	e.handNumber = 2
	e.currentTurn = 2
	e.seats[2].hand = tile.Set{{A: 2, B: 5}, {A: 1, B: 1}}

	require.NoError(t, e.PlacePiece(2, tile.Tile{A: 2, B: 5}, SideTail))
	snap := e.Snapshot()
	assert.Equal(t, 2, snap.Head)
	assert.Equal(t, 5, snap.Tail)
}

func TestTurnOrderWrapsAround(t *testing.T) {
	t.Parallel()
	e := newManualEngine()
	e.currentTurn = 3
	e.seats[3].hand = tile.Set{{A: 6, B: 6}, {A: 0, B: 0}}

	require.NoError(t, e.PlacePiece(3, tile.DoubleSix, SideTail))
	assert.Equal(t, 0, e.Snapshot().CurrentTurn)
}

func TestRejectionsMutateNothing(t *testing.T) {
	t.Parallel()
	e := newManualEngine()
	e.currentTurn = 0
	e.seats[0].hand = tile.Set{{A: 6, B: 6}, {A: 3, B: 4}}
	e.seats[1].hand = tile.Set{{A: 2, B: 2}}
	require.NoError(t, e.PlacePiece(0, tile.DoubleSix, SideTail))
	before := e.Snapshot()
	drainEvents(e)

	// Out of turn.
	assert.ErrorIs(t, e.PlacePiece(0, tile.Tile{A: 3, B: 4}, SideTail), apperrors.ErrNotYourTurn)
	// Tile not held.
	assert.Error(t, e.PlacePiece(1, tile.Tile{A: 6, B: 0}, SideTail))
	// Tile held but does not fit.
	assert.Error(t, e.PlacePiece(1, tile.Tile{A: 2, B: 2}, SideTail))
	// Pass with a legal move is refused too.
	e.seats[1].hand = tile.Set{{A: 6, B: 1}}
	assert.Error(t, e.PassTurn(1))

	e.seats[1].hand = tile.Set{{A: 2, B: 2}}
	after := e.Snapshot()
	assert.Equal(t, before.Board, after.Board)
	assert.Equal(t, before.CurrentTurn, after.CurrentTurn)
	assert.Equal(t, before.Scores, after.Scores)
	assert.Equal(t, before.Passes, after.Passes)
	assert.Empty(t, drainEvents(e), "rejected moves emit nothing")
}

func TestHeadPlacementReorientsTile(t *testing.T) {
	t.Parallel()
	e := newManualEngine()
	e.currentTurn = 0
	e.seats[0].hand = tile.Set{{A: 6, B: 6}, {A: 4, B: 4}}
	e.seats[1].hand = tile.Set{{A: 6, B: 1}, {A: 0, B: 0}}
	require.NoError(t, e.PlacePiece(0, tile.DoubleSix, SideTail))

	// Against the lone opening double both ends are the same tile, so the
	// requested side is honored as-is.
	require.NoError(t, e.PlacePiece(1, tile.Tile{A: 6, B: 1}, SideHead))
	snap := e.Snapshot()
	assert.Equal(t, []tile.Tile{{A: 1, B: 6}, {A: 6, B: 6}}, snap.Board)
	assert.Equal(t, 1, snap.Head)
	assert.Equal(t, 6, snap.Tail)
}

func TestTileMatchingBothEndsGoesToTail(t *testing.T) {
	t.Parallel()
	e := newManualEngine()
	// Board [4|5][5|2]: head 4, tail 2.
	e.board.Place(tile.Tile{A: 4, B: 5}, SideTail)
	e.board.Place(tile.Tile{A: 5, B: 2}, SideTail)
	e.currentTurn = 0
	e.seats[0].hand = tile.Set{{A: 4, B: 2}, {A: 0, B: 0}}

	// The head request is overridden: the tile matches both open ends.
	require.NoError(t, e.PlacePiece(0, tile.Tile{A: 4, B: 2}, SideHead))
	snap := e.Snapshot()
	assert.Equal(t, 4, snap.Head, "head untouched")
	assert.Equal(t, 4, snap.Tail, "tile reoriented onto the tail")
}

func TestIsValidMoveFirstHandOpening(t *testing.T) {
	t.Parallel()
	e := newManualEngine()

	// Hand 1, empty board: only the double six opens, on either side.
	assert.True(t, e.IsValidMove(tile.DoubleSix, SideTail))
	assert.True(t, e.IsValidMove(tile.DoubleSix, SideHead))
	assert.False(t, e.IsValidMove(tile.Tile{A: 5, B: 5}, SideTail))
	assert.False(t, e.IsValidMove(tile.Tile{A: 6, B: 1}, SideHead))
}

func TestIsValidMoveLaterHandOpening(t *testing.T) {
	t.Parallel()
	e := newManualEngine()
	e.handNumber = 2

	assert.True(t, e.IsValidMove(tile.Tile{A: 0, B: 3}, SideHead))
	assert.True(t, e.IsValidMove(tile.Tile{A: 5, B: 5}, SideTail))
}

func TestIsValidMoveAgainstOpenEnds(t *testing.T) {
	t.Parallel()
	e := newManualEngine()
	// Board [3|6][6|5]: head 3, tail 5.
	e.board.Place(tile.Tile{A: 3, B: 6}, SideTail)
	e.board.Place(tile.Tile{A: 6, B: 5}, SideTail)

	assert.True(t, e.IsValidMove(tile.Tile{A: 3, B: 1}, SideHead))
	assert.False(t, e.IsValidMove(tile.Tile{A: 3, B: 1}, SideTail))
	assert.True(t, e.IsValidMove(tile.Tile{A: 5, B: 2}, SideTail))
	assert.False(t, e.IsValidMove(tile.Tile{A: 5, B: 2}, SideHead))
	assert.False(t, e.IsValidMove(tile.Tile{A: 2, B: 2}, SideHead))
	assert.False(t, e.IsValidMove(tile.Tile{A: 2, B: 2}, SideTail))
}

func TestDominoWin(t *testing.T) {
	t.Parallel()
	e := newManualEngine()
	e.board.Place(tile.Tile{A: 3, B: 5}, SideTail)
	e.currentTurn = 2
	e.seats[0].hand = tile.Set{{A: 1, B: 2}} // 3 pips
	e.seats[1].hand = tile.Set{{A: 4, B: 4}} // 8 pips
	e.seats[2].hand = tile.Set{{A: 5, B: 0}}
	e.seats[3].hand = tile.Set{{A: 6, B: 0}} // 6 pips

	require.NoError(t, e.PlacePiece(2, tile.Tile{A: 5, B: 0}, SideTail))

	ev := lastHandResolved(t, drainEvents(e))
	assert.Equal(t, ReasonDomino, ev.Record.Reason)
	assert.Equal(t, 2, ev.Record.WinnerSeat)
	assert.Equal(t, TeamA, ev.Record.WinnerTeam)
	assert.Equal(t, 3+8+6, ev.Record.Points)
	assert.Equal(t, [2]int{17, 0}, ev.State.Scores)
	assert.Equal(t, StateHandResolved, e.Snapshot().State)
	assert.Equal(t, 2, e.Snapshot().HandNumber, "next hand queued up")
}

func TestCapicuaWin(t *testing.T) {
	t.Parallel()
	e := newManualEngine()
	// Board [3|6][6|5]: head 3, tail 5. The last tile [3|5] closes both ends.
	e.board.Place(tile.Tile{A: 3, B: 6}, SideTail)
	e.board.Place(tile.Tile{A: 6, B: 5}, SideTail)
	e.currentTurn = 1
	e.seats[0].hand = tile.Set{{A: 1, B: 1}} // 2 pips
	e.seats[1].hand = tile.Set{{A: 3, B: 5}}
	e.seats[2].hand = tile.Set{{A: 2, B: 2}} // 4 pips
	e.seats[3].hand = tile.Set{{A: 0, B: 1}} // 1 pip

	require.NoError(t, e.PlacePiece(1, tile.Tile{A: 3, B: 5}, SideTail))

	ev := lastHandResolved(t, drainEvents(e))
	assert.Equal(t, ReasonCapicua, ev.Record.Reason)
	assert.Equal(t, TeamB, ev.Record.WinnerTeam)
	assert.Equal(t, 30+2+4+1, ev.Record.Points)
}

func TestDoubleNeverScoresCapicua(t *testing.T) {
	t.Parallel()
	e := newManualEngine()
	// Board [4|2][2|4]: both open ends are 4, the last tile is the double 4.
	e.board.Place(tile.Tile{A: 4, B: 2}, SideTail)
	e.board.Place(tile.Tile{A: 2, B: 4}, SideTail)
	e.currentTurn = 0
	e.seats[0].hand = tile.Set{{A: 4, B: 4}}
	e.seats[1].hand = tile.Set{{A: 1, B: 0}}
	e.seats[2].hand = tile.Set{{A: 2, B: 0}}
	e.seats[3].hand = tile.Set{{A: 3, B: 0}}

	require.NoError(t, e.PlacePiece(0, tile.Tile{A: 4, B: 4}, SideTail))

	ev := lastHandResolved(t, drainEvents(e))
	assert.Equal(t, ReasonDomino, ev.Record.Reason, "closing with a double is a plain domino")
	assert.Equal(t, 1+2+3, ev.Record.Points)
}

func TestTranqueLastPlacerIsTrancador(t *testing.T) {
	t.Parallel()
	e := newManualEngine()
	// Seat 0 just placed; both ends are 6 and nobody holds a 6.
	e.board.Place(tile.Tile{A: 6, B: 6}, SideTail)
	e.currentTurn = 1
	e.seats[0].hand = tile.Set{{A: 2, B: 3}} // trancador: 5 pips
	e.seats[1].hand = tile.Set{{A: 0, B: 1}} // opponent: 1 pip
	e.seats[2].hand = tile.Set{{A: 4, B: 5}}
	e.seats[3].hand = tile.Set{{A: 3, B: 3}}

	require.NoError(t, e.PassTurn(1))
	require.NoError(t, e.PassTurn(2))
	require.NoError(t, e.PassTurn(3))
	require.NoError(t, e.PassTurn(0))

	ev := lastHandResolved(t, drainEvents(e))
	assert.Equal(t, ReasonTranque, ev.Record.Reason)
	assert.Equal(t, 1, ev.Record.WinnerSeat, "opponent's lighter hand wins")
	assert.Equal(t, TeamB, ev.Record.WinnerTeam)
	assert.Equal(t, 5+1+9+6, ev.Record.Points)
}

func TestTranqueTrancadorWinsWithLighterHand(t *testing.T) {
	t.Parallel()
	e := newManualEngine()
	e.board.Place(tile.Tile{A: 6, B: 6}, SideTail)
	e.currentTurn = 1
	e.seats[0].hand = tile.Set{{A: 0, B: 1}} // trancador: 1 pip
	e.seats[1].hand = tile.Set{{A: 2, B: 3}} // opponent: 5 pips
	e.seats[2].hand = tile.Set{{A: 4, B: 5}}
	e.seats[3].hand = tile.Set{{A: 3, B: 3}}

	for _, seat := range []int{1, 2, 3, 0} {
		require.NoError(t, e.PassTurn(seat))
	}

	ev := lastHandResolved(t, drainEvents(e))
	assert.Equal(t, 0, ev.Record.WinnerSeat)
	assert.Equal(t, TeamA, ev.Record.WinnerTeam)
}

func TestTranqueTieGoesToOpponent(t *testing.T) {
	t.Parallel()
	e := newManualEngine()
	e.board.Place(tile.Tile{A: 6, B: 6}, SideTail)
	e.currentTurn = 3
	e.seats[2].hand = tile.Set{{A: 2, B: 2}} // trancador: 4 pips
	e.seats[3].hand = tile.Set{{A: 1, B: 3}} // opponent: 4 pips, wins the tie
	e.seats[0].hand = tile.Set{{A: 0, B: 5}}
	e.seats[1].hand = tile.Set{{A: 4, B: 1}}

	for _, seat := range []int{3, 0, 1, 2} {
		require.NoError(t, e.PassTurn(seat))
	}

	ev := lastHandResolved(t, drainEvents(e))
	assert.Equal(t, 3, ev.Record.WinnerSeat, "trancador loses ties")
}

func TestPaseRedondoAwardsBonusAndKeepsTurn(t *testing.T) {
	t.Parallel()
	e := newManualEngine()
	// Both ends are 6; only seat 0 holds a 6.
	e.board.Place(tile.Tile{A: 6, B: 6}, SideTail)
	e.currentTurn = 1
	e.seats[0].hand = tile.Set{{A: 6, B: 2}, {A: 0, B: 0}}
	e.seats[1].hand = tile.Set{{A: 1, B: 2}}
	e.seats[2].hand = tile.Set{{A: 3, B: 4}}
	e.seats[3].hand = tile.Set{{A: 5, B: 0}}

	require.NoError(t, e.PassTurn(1))
	require.NoError(t, e.PassTurn(2))
	require.NoError(t, e.PassTurn(3))

	snap := e.Snapshot()
	assert.Equal(t, 0, snap.CurrentTurn, "turn returns to the placer")
	assert.Equal(t, 0, snap.Passes, "streak resets")
	assert.Equal(t, 30, snap.Scores[TeamA])

	var bonus *ScoreBonusEvent
	for _, ev := range drainEvents(e) {
		if b, ok := ev.(ScoreBonusEvent); ok {
			bonus = &b
		}
	}
	require.NotNil(t, bonus)
	assert.Equal(t, 0, bonus.Seat)
	assert.Equal(t, 30, bonus.Points)

	// The hand keeps going: seat 0 plays normally.
	require.NoError(t, e.PlacePiece(0, tile.Tile{A: 6, B: 2}, SideTail))
}

func TestPaseRedondoBonusWithheldNearTarget(t *testing.T) {
	t.Parallel()
	e := newManualEngine()
	e.board.Place(tile.Tile{A: 6, B: 6}, SideTail)
	e.currentTurn = 1
	e.scores[TeamA] = 180
	e.seats[0].hand = tile.Set{{A: 6, B: 2}}
	e.seats[1].hand = tile.Set{{A: 1, B: 2}}
	e.seats[2].hand = tile.Set{{A: 3, B: 4}}
	e.seats[3].hand = tile.Set{{A: 5, B: 0}}

	for _, seat := range []int{1, 2, 3} {
		require.NoError(t, e.PassTurn(seat))
	}

	snap := e.Snapshot()
	assert.Equal(t, 180, snap.Scores[TeamA], "no points this close to the target")
	assert.Equal(t, 0, snap.Passes, "streak still resets")

	var bonus *ScoreBonusEvent
	for _, ev := range drainEvents(e) {
		if b, ok := ev.(ScoreBonusEvent); ok {
			bonus = &b
		}
	}
	require.NotNil(t, bonus, "the pase redondo is still announced")
	assert.Equal(t, 0, bonus.Points)
}

func TestMatchResolvesAtTargetScore(t *testing.T) {
	t.Parallel()
	e := newManualEngine()
	e.board.Place(tile.Tile{A: 3, B: 5}, SideTail)
	e.currentTurn = 0
	e.scores[TeamA] = 190
	e.seats[0].hand = tile.Set{{A: 5, B: 0}}
	e.seats[1].hand = tile.Set{{A: 6, B: 6}}
	e.seats[2].hand = tile.Set{{A: 1, B: 1}}
	e.seats[3].hand = tile.Set{{A: 2, B: 2}}

	require.NoError(t, e.PlacePiece(0, tile.Tile{A: 5, B: 0}, SideTail))

	events := drainEvents(e)
	var resolved *MatchResolvedEvent
	for _, ev := range events {
		if m, ok := ev.(MatchResolvedEvent); ok {
			resolved = &m
		}
	}
	require.NotNil(t, resolved)
	assert.Equal(t, TeamA, resolved.Champion)
	assert.False(t, resolved.Forfeit)
	assert.GreaterOrEqual(t, resolved.Scores[TeamA], 200)
	assert.Equal(t, TeamA, e.Champion())

	// The engine is terminal: nothing else is accepted.
	assert.Error(t, e.PlacePiece(1, tile.DoubleSix, SideTail))
	assert.Error(t, e.PassTurn(1))
	assert.Error(t, e.StartHand())
}

func TestResolveByForfeit(t *testing.T) {
	t.Parallel()
	e := newManualEngine()
	e.currentTurn = 0
	e.seats[0].hand = tile.Set{{A: 6, B: 6}}

	e.ResolveByForfeit(TeamB, "Ana abandoned the match")

	var resolved *MatchResolvedEvent
	for _, ev := range drainEvents(e) {
		if m, ok := ev.(MatchResolvedEvent); ok {
			resolved = &m
		}
	}
	require.NotNil(t, resolved)
	assert.True(t, resolved.Forfeit)
	assert.Equal(t, TeamB, resolved.Champion)
	assert.Contains(t, resolved.Reason, "abandoned")

	assert.Error(t, e.PlacePiece(0, tile.DoubleSix, SideTail))
}

func TestTurnTimeoutAutoPlays(t *testing.T) {
	t.Parallel()
	e := New(Config{TargetScore: 200, TurnTimeout: 30 * time.Millisecond}, testSeats())
	e.state = StateAwaitingMove
	e.currentTurn = 0
	e.seats[0].hand = tile.Set{{A: 6, B: 6}, {A: 4, B: 4}}
	e.seats[1].hand = tile.Set{{A: 6, B: 1}, {A: 0, B: 0}}
	e.seats[2].hand = tile.Set{{A: 1, B: 2}}
	e.seats[3].hand = tile.Set{{A: 2, B: 3}}
	require.NoError(t, e.PlacePiece(0, tile.DoubleSix, SideTail))
	drainEvents(e)

	// Seat 1 never moves; the clock plays its only legal tile.
	require.Eventually(t, func() bool {
		return e.Snapshot().CurrentTurn == 2
	}, time.Second, 10*time.Millisecond)

	var auto *AutoMoveEvent
	for _, ev := range drainEvents(e) {
		if a, ok := ev.(AutoMoveEvent); ok {
			auto = &a
		}
	}
	require.NotNil(t, auto)
	assert.Equal(t, 1, auto.Seat)
	assert.False(t, auto.Passed)
	assert.Len(t, e.HandOf(1), 1)
}

func TestTurnTimeoutAutoPassesWithoutMoves(t *testing.T) {
	t.Parallel()
	e := New(Config{TargetScore: 200, TurnTimeout: 30 * time.Millisecond}, testSeats())
	e.state = StateAwaitingMove
	e.board.Place(tile.Tile{A: 6, B: 6}, SideTail)
	e.currentTurn = 1
	e.seats[0].hand = tile.Set{{A: 6, B: 2}}
	e.seats[1].hand = tile.Set{{A: 1, B: 2}}
	e.seats[2].hand = tile.Set{{A: 3, B: 4}}
	e.seats[3].hand = tile.Set{{A: 5, B: 0}}
	e.armClock()

	require.Eventually(t, func() bool {
		return e.Snapshot().CurrentTurn == 2
	}, time.Second, 10*time.Millisecond)

	var auto *AutoMoveEvent
	for _, ev := range drainEvents(e) {
		if a, ok := ev.(AutoMoveEvent); ok {
			auto = &a
		}
	}
	require.NotNil(t, auto)
	assert.True(t, auto.Passed)
	assert.Len(t, e.HandOf(1), 1, "a pass keeps the hand intact")
}

func TestStaleTimerFireIsDiscarded(t *testing.T) {
	t.Parallel()
	e := newManualEngine()
	e.currentTurn = 2
	e.seats[2].hand = tile.Set{{A: 6, B: 6}, {A: 1, B: 1}}

	// A fire armed for a seat that is no longer current must change nothing.
	before := e.Snapshot()
	e.handleTurnTimeout(0)
	after := e.Snapshot()
	assert.Equal(t, before.CurrentTurn, after.CurrentTurn)
	assert.Equal(t, before.Board, after.Board)
	assert.Len(t, e.HandOf(2), 2)
	assert.Empty(t, drainEvents(e))
}

func TestTileConservationAcrossAHand(t *testing.T) {
	t.Parallel()
	e := New(Config{TargetScore: 200, TurnTimeout: time.Hour}, testSeats())
	require.NoError(t, e.StartHand())

	count := func() int {
		snap := e.Snapshot()
		n := len(snap.Board)
		for _, h := range snap.Hands {
			n += len(h)
		}
		return n
	}

	// Drive the hand with auto-moves until it resolves, checking the 28-tile
	// invariant after every accepted mutation.
	for i := 0; i < 200; i++ {
		snap := e.Snapshot()
		if snap.State != StateAwaitingMove {
			break
		}
		e.handleTurnTimeout(snap.CurrentTurn)
		assert.Equal(t, tile.SetSize, count())
	}
	assert.NotEqual(t, StateAwaitingMove, e.Snapshot().State, "hand must resolve")
}
