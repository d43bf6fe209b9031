package engine

// Event is a state-change notification yielded by the engine. The room layer
// drains Events() and translates each variant into protocol broadcasts; the
// engine never holds a callback into foreign code.
type Event interface {
	isEvent()
}

// StateChangedEvent follows every accepted mutation that leaves the hand
// running: hand start, placements, passes, pase redondo.
type StateChangedEvent struct {
	State     Snapshot
	HandStart bool // true when emitted by StartHand
}

// ScoreBonusEvent reports a pase redondo awarded mid-hand.
type ScoreBonusEvent struct {
	Seat   int
	Team   Team
	Points int // 0 when the team was already past the bonus cutoff
}

// HandResolvedEvent reports a finished hand (domino, capicúa or tranque).
type HandResolvedEvent struct {
	Record HandRecord
	State  Snapshot
}

// MatchResolvedEvent is terminal: a team reached the target score or won by
// forfeit. No further events follow it.
type MatchResolvedEvent struct {
	Champion Team
	Scores   [2]int
	Forfeit  bool
	Reason   string // set on forfeit
}

// AutoMoveEvent reports that the turn clock expired and moved for a seat.
type AutoMoveEvent struct {
	Seat   int
	Passed bool // true when no legal move existed
}

func (StateChangedEvent) isEvent()  {}
func (ScoreBonusEvent) isEvent()    {}
func (HandResolvedEvent) isEvent()  {}
func (MatchResolvedEvent) isEvent() {}
func (AutoMoveEvent) isEvent()      {}
