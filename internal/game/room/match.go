package room

import (
	"context"
	"fmt"
	"log"

	"github.com/dpimentel/domino-dominicano/internal/game/engine"
	"github.com/dpimentel/domino-dominicano/internal/protocol"
	"github.com/dpimentel/domino-dominicano/internal/protocol/codec"
)

// startMatchLocked creates the engine for a full table and deals the first
// hand. Caller holds the room lock.
func (m *Manager) startMatchLocked(r *Room) {
	if r.status == StatusPlaying || r.status == StatusFinished {
		return
	}

	var seats [NumSeats]engine.SeatInfo
	for i, s := range r.seats {
		if s == nil {
			return // not actually full, nothing to start
		}
		seats[i] = engine.SeatInfo{ID: s.Client.GetID(), Name: s.Client.GetName()}
	}

	eng := engine.New(engine.Config{
		TargetScore: m.cfg.Game.TargetScore,
		TurnTimeout: m.cfg.Game.TurnTimeoutDuration(),
	}, seats)

	r.eng = eng
	r.status = StatusPlaying
	if r.autofillCancel != nil {
		close(r.autofillCancel)
		r.autofillCancel = nil
	}

	go m.pumpEngineEvents(r, eng)

	log.Printf("🎮 match started in room %s", r.Code)
	if err := eng.StartHand(); err != nil {
		log.Printf("first hand not started in room %s: %v", r.Code, err)
	}
}

// pumpEngineEvents drains the engine's event channel and translates each
// variant into protocol broadcasts. It exits when the match resolves; the
// engine emits nothing after that.
func (m *Manager) pumpEngineEvents(r *Room, eng *engine.Engine) {
	for ev := range eng.Events() {
		switch ev := ev.(type) {
		case engine.StateChangedEvent:
			msgType := protocol.MsgGameUpdate
			if ev.HandStart {
				msgType = protocol.MsgGameStarted
			}
			dto := MatchStateDTO(ev.State)
			if ev.HandStart {
				r.Broadcast(codec.MustNewMessage(msgType, protocol.GameStartedPayload{State: dto}))
			} else {
				r.Broadcast(codec.MustNewMessage(msgType, protocol.GameUpdatePayload{State: dto}))
			}
			m.sendHands(r, ev.State)
			m.mirror(r)

		case engine.ScoreBonusEvent:
			msg := fmt.Sprintf("Pase redondo! Seat %d keeps the turn (+%d for team %s)", ev.Seat, ev.Points, ev.Team)
			if ev.Points == 0 {
				msg = fmt.Sprintf("Pase redondo! Seat %d keeps the turn (no bonus past %d points)",
					ev.Seat, m.cfg.Game.TargetScore-30)
			}
			r.Broadcast(codec.MustNewMessage(protocol.MsgNotification, protocol.NotificationPayload{
				Type:    "pase_redondo",
				Message: msg,
			}))

		case engine.AutoMoveEvent:
			action := "played automatically"
			if ev.Passed {
				action = "passed automatically"
			}
			r.Broadcast(codec.MustNewMessage(protocol.MsgNotification, protocol.NotificationPayload{
				Type:    "timeout",
				Message: fmt.Sprintf("Seat %d ran out of time and %s", ev.Seat, action),
			}))

		case engine.HandResolvedEvent:
			m.handleHandResolved(r, ev)

		case engine.MatchResolvedEvent:
			m.handleMatchResolved(r, ev)
			return
		}
	}
}

// handleHandResolved broadcasts the hand result and re-opens the ready gate
// for the next deal.
func (m *Manager) handleHandResolved(r *Room, ev engine.HandResolvedEvent) {
	rec := ev.Record
	dto := MatchStateDTO(ev.State)
	r.Broadcast(codec.MustNewMessage(protocol.MsgGameUpdate, protocol.GameUpdatePayload{
		State: dto,
		HandResult: &protocol.HandResultDTO{
			HandNumber: rec.Number,
			WinnerSeat: rec.WinnerSeat,
			WinnerTeam: rec.WinnerTeam.String(),
			Reason:     string(rec.Reason),
			Points:     rec.Points,
		},
	}))

	switch rec.Reason {
	case engine.ReasonCapicua:
		r.Broadcast(codec.MustNewMessage(protocol.MsgNotification, protocol.NotificationPayload{
			Type:    "capicua",
			Message: fmt.Sprintf("Capicúa! Seat %d closes both ends (+%d)", rec.WinnerSeat, rec.Points),
		}))
	case engine.ReasonTranque:
		r.Broadcast(codec.MustNewMessage(protocol.MsgNotification, protocol.NotificationPayload{
			Type:    "tranque",
			Message: fmt.Sprintf("Tranque! Seat %d wins the count (+%d)", rec.WinnerSeat, rec.Points),
		}))
	}

	if ev.State.State == engine.StateMatchResolved {
		return // game_over follows, no ready gate
	}

	r.mu.Lock()
	r.clearReadyLocked()
	total := r.playerCountLocked()
	r.broadcastLocked(codec.MustNewMessage(protocol.MsgReadyStatus, protocol.ReadyStatusPayload{
		ReadyCount: 0,
		TotalSeats: total,
		ReadySeats: nil,
	}))
	r.mu.Unlock()
	m.mirror(r)
}

// handleMatchResolved is terminal: broadcast the champion, persist every
// seat's result and mark the room finished.
func (m *Manager) handleMatchResolved(r *Room, ev engine.MatchResolvedEvent) {
	r.mu.Lock()
	r.status = StatusFinished
	for seatIdx, pending := range r.reconnects {
		pending.timer.Stop()
		delete(r.reconnects, seatIdx)
	}
	seats := r.seatInfosLocked()
	r.mu.Unlock()

	r.Broadcast(codec.MustNewMessage(protocol.MsgGameOver, protocol.GameOverPayload{
		ChampionTeam: ev.Champion.String(),
		ScoreTeamA:   ev.Scores[engine.TeamA],
		ScoreTeamB:   ev.Scores[engine.TeamB],
		Reason:       ev.Reason,
	}))

	for _, s := range seats {
		won := s.Team == ev.Champion.String()
		playerID, playerName := s.PlayerID, s.Name
		go func() {
			_ = m.store.RecordMatchResult(context.Background(), playerID, playerName, won)
		}()
	}

	m.markFinished(r.Code)
	m.mirror(r)
	log.Printf("🏆 match in room %s won by team %s (A %d — B %d)",
		r.Code, ev.Champion, ev.Scores[engine.TeamA], ev.Scores[engine.TeamB])
}

// sendHands delivers each seat its own tiles after a state change.
func (m *Manager) sendHands(r *Room, snap engine.Snapshot) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.seats {
		if s == nil || !s.Connected {
			continue
		}
		s.Client.SendMessage(codec.MustNewMessage(protocol.MsgHandUpdate, protocol.HandUpdatePayload{
			Seat:  s.Index,
			Tiles: TilesToInfos(snap.Hands[s.Index]),
		}))
	}
}
