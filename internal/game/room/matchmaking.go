package room

import (
	"log"
	"sync"
	"time"

	"github.com/dpimentel/domino-dominicano/internal/apperrors"
	"github.com/dpimentel/domino-dominicano/internal/protocol"
	"github.com/dpimentel/domino-dominicano/internal/protocol/codec"
	"github.com/dpimentel/domino-dominicano/internal/types"
)

// Matcher is the single shared matchmaking FIFO. All mutation happens under
// its mutex; join, leave and autofill all funnel through here.
type Matcher struct {
	mu    sync.Mutex
	queue []types.ClientInterface
}

// NewMatcher creates an empty queue.
func NewMatcher() *Matcher {
	return &Matcher{}
}

// Enqueue appends a client, refusing duplicates. Returns false when the
// client was already queued.
func (q *Matcher) Enqueue(client types.ClientInterface) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, c := range q.queue {
		if c.GetID() == client.GetID() {
			return false
		}
	}
	q.queue = append(q.queue, client)
	log.Printf("🔍 %s queued for a match (%d waiting)", client.GetName(), len(q.queue))
	return true
}

// Remove drops a client from the queue, if present.
func (q *Matcher) Remove(playerID string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, c := range q.queue {
		if c.GetID() == playerID {
			q.queue = append(q.queue[:i], q.queue[i+1:]...)
			return
		}
	}
}

// Pop removes and returns the oldest waiting client, or nil.
func (q *Matcher) Pop() types.ClientInterface {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.queue) == 0 {
		return nil
	}
	c := q.queue[0]
	q.queue = q.queue[1:]
	return c
}

// popN removes up to n clients at once.
func (q *Matcher) popN(n int) []types.ClientInterface {
	q.mu.Lock()
	defer q.mu.Unlock()

	if n > len(q.queue) {
		n = len(q.queue)
	}
	out := q.queue[:n]
	q.queue = q.queue[n:]
	return out
}

// Len returns the number of waiting clients.
func (q *Matcher) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.queue)
}

// FindMatch seats a client in an open public room if one exists, else queues
// it. A full queue spawns a fresh room on its own. Returns the room the
// client ended up seated in, or nil when it is still queued.
func (m *Manager) FindMatch(client types.ClientInterface) (*Room, error) {
	if r := m.FindOpenPublicRoom(); r != nil {
		joined, err := m.JoinRoom(client, r.Code)
		if err == nil {
			return joined, nil
		}
		// Raced with other joiners; fall through to the queue.
	}

	m.matcher.Enqueue(client)
	m.tryMatch(client.GetID())

	// The queue may have just drained into a fresh room with this client in
	// it; report the seat so the caller is not told it is still waiting.
	if r := m.GetRoomByPlayerID(client.GetID()); r != nil {
		return r, nil
	}
	return nil, nil
}

// tryMatch opens a room as soon as four identities are waiting. The caller
// behind callerID learns its seat through FindMatch's return value; the
// players queued earlier are told directly.
func (m *Manager) tryMatch(callerID string) {
	if m.matcher.Len() < NumSeats {
		return
	}

	players := m.matcher.popN(NumSeats)
	if len(players) < NumSeats {
		// Raced with another drain; requeue what we took.
		for _, p := range players {
			m.matcher.Enqueue(p)
		}
		return
	}

	r, err := m.CreateRoom(players[0], false)
	if err != nil {
		for _, p := range players {
			m.matcher.Enqueue(p)
		}
		return
	}
	if players[0].GetID() != callerID {
		m.notifyRoomJoined(players[0], r)
	}

	for _, p := range players[1:] {
		if _, err := m.JoinRoom(p, r.Code); err != nil {
			log.Printf("queued player %s could not join room %s: %v", p.GetName(), r.Code, err)
			m.matcher.Enqueue(p)
			continue
		}
		if p.GetID() != callerID {
			m.notifyRoomJoined(p, r)
		}
	}
}

// StartMatchmaking puts an under-filled room into autofill.
func (m *Manager) StartMatchmaking(client types.ClientInterface) error {
	r := m.GetRoomByPlayerID(client.GetID())
	if r == nil {
		return apperrors.ErrNotInRoom
	}

	r.mu.Lock()

	if r.status != StatusWaiting {
		r.mu.Unlock()
		return apperrors.ErrRoomNotJoinable
	}
	if r.playerCountLocked() >= NumSeats {
		r.mu.Unlock()
		return apperrors.ErrRoomFull
	}

	timeout := m.cfg.Game.MatchmakingTimeoutDuration()
	cancel := make(chan struct{})
	r.status = StatusMatchmaking
	r.autofillCancel = cancel

	r.broadcastLocked(codec.MustNewMessage(protocol.MsgMatchmakingStarted, protocol.MatchmakingStartedPayload{
		Message:   "Looking for players...",
		TimeoutMs: timeout.Milliseconds(),
	}))
	r.mu.Unlock()

	log.Printf("🔍 room %s matchmaking for %v", r.Code, timeout)
	go m.autofillLoop(r, cancel)
	return nil
}

// autofillLoop periodically pulls waiting identities into the room until it
// fills or the timeout elapses. Filling the room cancels the loop through
// startMatchLocked; so does destroying it.
func (m *Manager) autofillLoop(r *Room, cancel <-chan struct{}) {
	ticker := time.NewTicker(m.cfg.Game.AutofillIntervalDuration())
	defer ticker.Stop()
	deadline := time.NewTimer(m.cfg.Game.MatchmakingTimeoutDuration())
	defer deadline.Stop()

	for {
		select {
		case <-cancel:
			return

		case <-deadline.C:
			r.mu.Lock()
			if r.status == StatusMatchmaking {
				r.status = StatusWaiting
				r.autofillCancel = nil
				r.broadcastLocked(codec.MustNewMessage(protocol.MsgMatchmakingFailed, protocol.MatchmakingFailedPayload{
					Message: "Not enough players found, try again",
				}))
				log.Printf("🔍 room %s matchmaking timed out", r.Code)
			}
			r.mu.Unlock()
			m.mirror(r)
			return

		case <-ticker.C:
			for r.PlayerCount() < NumSeats {
				c := m.matcher.Pop()
				if c == nil {
					break
				}
				if _, err := m.JoinRoom(c, r.Code); err != nil {
					m.matcher.Enqueue(c)
					break
				}
				m.notifyRoomJoined(c, r)
			}
		}
	}
}

// notifyRoomJoined tells a player pulled in by matchmaking where it landed.
func (m *Manager) notifyRoomJoined(client types.ClientInterface, r *Room) {
	seat := r.SeatOf(client.GetID())
	if seat == nil {
		return
	}
	client.SendMessage(codec.MustNewMessage(protocol.MsgRoomJoined, protocol.RoomJoinedPayload{
		RoomCode:  r.Code,
		IsPrivate: r.IsPrivate,
		Seat:      seat.Index,
		Team:      seat.Team().String(),
		Seats:     r.SeatInfos(),
	}))
}
