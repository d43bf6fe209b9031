package room

import (
	"sync"
	"time"

	"github.com/dpimentel/domino-dominicano/internal/game/engine"
	"github.com/dpimentel/domino-dominicano/internal/protocol"
	"github.com/dpimentel/domino-dominicano/internal/types"
)

const (
	roomCodeLength = 6
	roomCodeChars  = "0123456789"

	// NumSeats is the fixed table size.
	NumSeats = 4
)

// seatJoinOrder assigns seats so the first two joiners sit opposite each
// other as Team A and the next two as Team B.
var seatJoinOrder = [NumSeats]int{0, 2, 1, 3}

// Seat is one position at the table.
type Seat struct {
	Client    types.ClientInterface
	Index     int // 0-3
	Ready     bool
	Connected bool
}

// Team returns the seat's team.
func (s *Seat) Team() engine.Team {
	return engine.TeamForSeat(s.Index)
}

// pendingReconnect holds a dropped seat open for its grace window.
type pendingReconnect struct {
	playerID  string
	name      string // display credential the returning identity must match
	droppedAt time.Time
	timer     *time.Timer
}

// Room is one table. All of its mutable state — seats, status, the engine
// reference, the ready set and the reconnect table — is guarded by mu, so
// match mutation, reconnection and ready tracking serialize per room.
type Room struct {
	Code      string
	IsPrivate bool
	CreatedAt time.Time

	mu         sync.RWMutex
	status     Status
	seats      [NumSeats]*Seat
	hostSeat   int
	eng        *engine.Engine
	reconnects map[int]*pendingReconnect

	// autofillCancel stops a running autofill loop; non-nil only while the
	// room is in matchmaking.
	autofillCancel chan struct{}
}

// Status returns the room's lifecycle status.
func (r *Room) Status() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

// Engine returns the match engine, but only while the room is playing. In
// every other status there is no engine to act on.
func (r *Room) Engine() (*engine.Engine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.status != StatusPlaying || r.eng == nil {
		return nil, false
	}
	return r.eng, true
}

// SeatOf returns the seat occupied by a player ID, or nil.
func (r *Room) SeatOf(playerID string) *Seat {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.seatOfLocked(playerID)
}

func (r *Room) seatOfLocked(playerID string) *Seat {
	for _, s := range r.seats {
		if s != nil && s.Client.GetID() == playerID {
			return s
		}
	}
	return nil
}

// PlayerCount returns the number of occupied seats.
func (r *Room) PlayerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.playerCountLocked()
}

func (r *Room) playerCountLocked() int {
	n := 0
	for _, s := range r.seats {
		if s != nil {
			n++
		}
	}
	return n
}

// nextFreeSeat returns the next seat in partnership join order, or -1.
func (r *Room) nextFreeSeatLocked() int {
	for _, idx := range seatJoinOrder {
		if r.seats[idx] == nil {
			return idx
		}
	}
	return -1
}

// SeatInfos builds the wire view of every occupied seat.
func (r *Room) SeatInfos() []protocol.SeatInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.seatInfosLocked()
}

func (r *Room) seatInfosLocked() []protocol.SeatInfo {
	var infos []protocol.SeatInfo
	for _, s := range r.seats {
		if s == nil {
			continue
		}
		tileCount := 0
		if r.eng != nil {
			tileCount = len(r.eng.Snapshot().Hands[s.Index])
		}
		infos = append(infos, protocol.SeatInfo{
			Seat:      s.Index,
			Team:      s.Team().String(),
			PlayerID:  s.Client.GetID(),
			Name:      s.Client.GetName(),
			IsHost:    s.Index == r.hostSeat,
			Connected: s.Connected,
			TileCount: tileCount,
		})
	}
	return infos
}

// Broadcast sends a message to every connected seat.
func (r *Room) Broadcast(msg *protocol.Message) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	r.broadcastLocked(msg)
}

func (r *Room) broadcastLocked(msg *protocol.Message) {
	for _, s := range r.seats {
		if s != nil && s.Connected {
			s.Client.SendMessage(msg)
		}
	}
}

// BroadcastExcept sends a message to every connected seat but one player.
func (r *Room) BroadcastExcept(playerID string, msg *protocol.Message) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.seats {
		if s != nil && s.Connected && s.Client.GetID() != playerID {
			s.Client.SendMessage(msg)
		}
	}
}

// readySeatsLocked lists seats that signalled readiness for the next hand.
func (r *Room) readySeatsLocked() []int {
	var ready []int
	for _, s := range r.seats {
		if s != nil && s.Ready {
			ready = append(ready, s.Index)
		}
	}
	return ready
}

// allConnectedReadyLocked reports whether every connected seat is ready.
func (r *Room) allConnectedReadyLocked() bool {
	for _, s := range r.seats {
		if s != nil && s.Connected && !s.Ready {
			return false
		}
	}
	return true
}

func (r *Room) clearReadyLocked() {
	for _, s := range r.seats {
		if s != nil {
			s.Ready = false
		}
	}
}
