package room

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/dpimentel/domino-dominicano/internal/apperrors"
	"github.com/dpimentel/domino-dominicano/internal/game/engine"
	"github.com/dpimentel/domino-dominicano/internal/protocol"
	"github.com/dpimentel/domino-dominicano/internal/protocol/codec"
	"github.com/dpimentel/domino-dominicano/internal/storage"
	"github.com/dpimentel/domino-dominicano/internal/types"
)

// NotifyPlayerOffline handles a transport drop. During a live match the seat
// is preserved with its hand intact and a grace window starts; anywhere else
// the drop is an ordinary leave.
func (m *Manager) NotifyPlayerOffline(client types.ClientInterface) {
	r := m.GetRoomByPlayerID(client.GetID())
	if r == nil {
		return
	}

	r.mu.Lock()

	if r.status != StatusPlaying {
		r.mu.Unlock()
		m.LeaveRoom(client)
		return
	}

	seat := r.seatOfLocked(client.GetID())
	if seat == nil {
		r.mu.Unlock()
		return
	}

	grace := m.cfg.Game.ReconnectGraceDuration()
	seat.Connected = false
	seatIdx := seat.Index
	r.reconnects[seatIdx] = &pendingReconnect{
		playerID:  client.GetID(),
		name:      client.GetName(),
		droppedAt: time.Now(),
		timer: time.AfterFunc(grace, func() {
			m.forfeitAbandoned(r, seatIdx)
		}),
	}

	r.broadcastLocked(codec.MustNewMessage(protocol.MsgPlayerOffline, protocol.PlayerOfflinePayload{
		PlayerID:  client.GetID(),
		Name:      client.GetName(),
		Seat:      seatIdx,
		GraceSecs: int(grace.Seconds()),
	}))
	r.mu.Unlock()

	log.Printf("⏸️  %s dropped from room %s (seat %d), holding for %v", client.GetName(), r.Code, seatIdx, grace)

	go func() {
		_ = m.store.SaveSession(context.Background(), &storage.SessionData{
			PlayerID:       client.GetID(),
			PlayerName:     client.GetName(),
			RoomCode:       r.Code,
			DisconnectedAt: time.Now().Unix(),
		})
	}()
	m.mirror(r)
}

// ReconnectPlayer reattaches a returning identity to its preserved seat. The
// caller-supplied display name must match the one recorded at drop time.
func (m *Manager) ReconnectPlayer(newClient types.ClientInterface, oldPlayerID, name string) (*Room, error) {
	m.mu.RLock()
	var r *Room
	var seatIdx = -1
	for _, candidate := range m.rooms {
		candidate.mu.RLock()
		for idx, pending := range candidate.reconnects {
			if pending.playerID == oldPlayerID && pending.name == name {
				r = candidate
				seatIdx = idx
				break
			}
		}
		candidate.mu.RUnlock()
		if r != nil {
			break
		}
	}
	m.mu.RUnlock()

	if r == nil {
		return nil, apperrors.ErrRoomNotFound
	}

	r.mu.Lock()

	pending, ok := r.reconnects[seatIdx]
	if !ok || pending.playerID != oldPlayerID {
		r.mu.Unlock()
		return nil, apperrors.ErrRoomNotFound
	}
	pending.timer.Stop()
	delete(r.reconnects, seatIdx)

	seat := r.seats[seatIdx]
	seat.Client = newClient
	seat.Connected = true
	newClient.SetRoom(r.Code)

	eng := r.eng
	r.broadcastLocked(codec.MustNewMessage(protocol.MsgPlayerOnline, protocol.PlayerOnlinePayload{
		PlayerID: newClient.GetID(),
		Name:     name,
		Seat:     seatIdx,
	}))
	r.mu.Unlock()

	// The returning player gets the full current snapshot; the engine is
	// untouched by the reattachment.
	payload := protocol.ReconnectedPayload{
		PlayerID:   newClient.GetID(),
		PlayerName: name,
		RoomCode:   r.Code,
		Seat:       seatIdx,
	}
	if eng != nil {
		snap := eng.Snapshot()
		dto := MatchStateDTO(snap)
		payload.MatchState = &dto
		payload.Hand = TilesToInfos(snap.Hands[seatIdx])
	}
	newClient.SendMessage(codec.MustNewMessage(protocol.MsgReconnected, payload))

	go func() { _ = m.store.DeleteSession(context.Background(), oldPlayerID) }()
	m.mirror(r)

	log.Printf("▶️  %s reattached to room %s (seat %d)", name, r.Code, seatIdx)
	return r, nil
}

// forfeitAbandoned runs when a grace window elapses: the opposing team wins
// the match unconditionally, whatever the score.
func (m *Manager) forfeitAbandoned(r *Room, seatIdx int) {
	r.mu.Lock()

	pending, ok := r.reconnects[seatIdx]
	if !ok || r.status != StatusPlaying {
		r.mu.Unlock()
		return
	}
	delete(r.reconnects, seatIdx)
	eng := r.eng
	r.mu.Unlock()

	log.Printf("⏰ %s never returned to room %s, forfeiting seat %d", pending.name, r.Code, seatIdx)

	if eng != nil {
		winner := engine.TeamForSeat(seatIdx).Opponent()
		eng.ResolveByForfeit(winner, fmt.Sprintf("%s abandoned the match", pending.name))
	}
}
