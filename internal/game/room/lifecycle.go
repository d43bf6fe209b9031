package room

import (
	"log"
	"time"

	"github.com/dpimentel/domino-dominicano/internal/apperrors"
	"github.com/dpimentel/domino-dominicano/internal/protocol"
	"github.com/dpimentel/domino-dominicano/internal/protocol/codec"
	"github.com/dpimentel/domino-dominicano/internal/types"
)

// CreateRoom opens a room with the creator seated at 0 (Team A, host).
func (m *Manager) CreateRoom(client types.ClientInterface, isPrivate bool) (*Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	code := m.generateRoomCode()

	r := &Room{
		Code:       code,
		IsPrivate:  isPrivate,
		CreatedAt:  time.Now(),
		status:     StatusWaiting,
		hostSeat:   0,
		reconnects: make(map[int]*pendingReconnect),
	}
	r.seats[0] = &Seat{Client: client, Index: 0, Connected: true}
	client.SetRoom(code)

	m.rooms[code] = r
	m.mirror(r)

	log.Printf("🏠 room %s created by %s", code, client.GetName())
	return r, nil
}

// JoinRoom seats a player in an existing room. The first two joiners form
// Team A on opposite seats, the next two Team B. Filling the fourth seat
// starts the match.
func (m *Manager) JoinRoom(client types.ClientInterface, code string) (*Room, error) {
	m.mu.RLock()
	r, exists := m.rooms[code]
	m.mu.RUnlock()
	if !exists {
		return nil, apperrors.ErrRoomNotFound
	}

	r.mu.Lock()

	if r.status != StatusWaiting && r.status != StatusMatchmaking {
		r.mu.Unlock()
		return nil, apperrors.ErrRoomNotJoinable
	}

	idx := r.nextFreeSeatLocked()
	if idx < 0 {
		r.mu.Unlock()
		return nil, apperrors.ErrRoomFull
	}

	seat := &Seat{Client: client, Index: idx, Connected: true}
	r.seats[idx] = seat
	client.SetRoom(code)

	log.Printf("👤 %s joined room %s (seat %d, team %s)", client.GetName(), code, idx, seat.Team())

	r.broadcastLocked(codec.MustNewMessage(protocol.MsgPlayerJoined, protocol.PlayerJoinedPayload{
		Seats: r.seatInfosLocked(),
	}))

	full := r.playerCountLocked() == NumSeats
	if full {
		m.startMatchLocked(r)
	}
	r.mu.Unlock()

	m.mirror(r)
	return r, nil
}

// LeaveRoom unseats a player. Leaving a live match forfeits it to the other
// team; emptying a room destroys it; a departing host hands the room to the
// next remaining seat.
func (m *Manager) LeaveRoom(client types.ClientInterface) {
	code := client.GetRoom()
	if code == "" {
		return
	}

	m.mu.RLock()
	r, exists := m.rooms[code]
	m.mu.RUnlock()
	if !exists {
		return
	}

	r.mu.Lock()

	seat := r.seatOfLocked(client.GetID())
	if seat == nil {
		r.mu.Unlock()
		return
	}

	eng := r.eng
	playing := r.status == StatusPlaying

	r.seats[seat.Index] = nil
	if pending, ok := r.reconnects[seat.Index]; ok {
		pending.timer.Stop()
		delete(r.reconnects, seat.Index)
	}
	client.SetRoom("")

	// Host reassignment to the next remaining seat.
	if seat.Index == r.hostSeat {
		for _, s := range r.seats {
			if s != nil {
				r.hostSeat = s.Index
				break
			}
		}
	}

	r.broadcastLocked(codec.MustNewMessage(protocol.MsgPlayerLeft, protocol.PlayerLeftPayload{
		PlayerID: client.GetID(),
		Name:     client.GetName(),
		Seat:     seat.Index,
		Seats:    r.seatInfosLocked(),
	}))

	empty := r.playerCountLocked() == 0
	r.mu.Unlock()

	log.Printf("👋 %s left room %s (seat %d)", client.GetName(), code, seat.Index)

	if playing && eng != nil {
		// A voluntary exit mid-match is an immediate abandonment: no grace
		// window, the opposing team wins outright.
		eng.ResolveByForfeit(seat.Team().Opponent(), client.GetName()+" abandoned the match")
	}

	if empty {
		m.destroyRoom(code)
		return
	}
	m.mirror(r)
}

// SetPlayerReady marks a seat ready for the next hand and deals it once every
// connected seat agrees.
func (m *Manager) SetPlayerReady(client types.ClientInterface) error {
	r := m.GetRoomByPlayerID(client.GetID())
	if r == nil {
		return apperrors.ErrNotInRoom
	}

	r.mu.Lock()

	seat := r.seatOfLocked(client.GetID())
	if seat == nil {
		r.mu.Unlock()
		return apperrors.ErrNotInRoom
	}
	seat.Ready = true

	ready := r.readySeatsLocked()
	r.broadcastLocked(codec.MustNewMessage(protocol.MsgReadyStatus, protocol.ReadyStatusPayload{
		ReadyCount: len(ready),
		TotalSeats: r.playerCountLocked(),
		ReadySeats: ready,
	}))

	eng := r.eng
	dealNext := r.status == StatusPlaying && eng != nil && r.allConnectedReadyLocked()
	if dealNext {
		r.clearReadyLocked()
	}
	r.mu.Unlock()

	if dealNext {
		if err := eng.StartHand(); err != nil {
			log.Printf("next hand not started in room %s: %v", r.Code, err)
		}
	}
	return nil
}

// StartGame lets the host start a full room that has not begun yet. Rooms
// normally start on their own when the fourth seat fills.
func (m *Manager) StartGame(client types.ClientInterface) error {
	r := m.GetRoomByPlayerID(client.GetID())
	if r == nil {
		return apperrors.ErrNotInRoom
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status == StatusPlaying {
		return apperrors.ErrGameStarted
	}
	if r.status == StatusFinished {
		return apperrors.ErrRoomNotJoinable
	}
	if r.playerCountLocked() < NumSeats {
		return apperrors.ErrGameNotStart
	}

	m.startMatchLocked(r)
	return nil
}
