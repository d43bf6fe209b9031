package server

import (
	"context"
	"log"
	"time"

	"github.com/dpimentel/domino-dominicano/internal/protocol"
	"github.com/dpimentel/domino-dominicano/internal/protocol/codec"
)

func (s *Server) handlePing(c *Client, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.PingPayload](msg)
	if err != nil {
		return
	}

	c.SendMessage(codec.MustNewMessage(protocol.MsgPong, protocol.PongPayload{
		ClientTimestamp: payload.Timestamp,
		ServerTimestamp: time.Now().UnixMilli(),
	}))
}

// handleReconnect reattaches a fresh socket to a seat held open by a grace
// window. The token issued at the original connect is the credential.
func (s *Server) handleReconnect(c *Client, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.ReconnectPayload](msg)
	if err != nil {
		c.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	if !s.sessions.Validate(payload.PlayerID, payload.Token) {
		c.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeUnknown, "reconnect token invalid or expired"))
		return
	}

	c.SetName(payload.Name)
	if _, err := s.rooms.ReconnectPlayer(c, payload.PlayerID, payload.Name); err != nil {
		sendError(c, err)
		return
	}

	// The old identity is spent; the new connection already has its own token.
	s.sessions.Remove(payload.PlayerID)
	log.Printf("🔁 %s resumed as %s", payload.PlayerID, c.GetID())
}

// handleClientGoodbye is a polite disconnect: leave any room immediately
// instead of burning the grace window.
func (s *Server) handleClientGoodbye(c *Client) {
	if c.GetRoom() != "" {
		s.rooms.LeaveRoom(c)
	}
	c.Close()
}

func (s *Server) handleGetStats(c *Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	wins, losses, err := s.store.GetPlayerRecord(ctx, c.GetID())
	if err != nil {
		sendError(c, err)
		return
	}

	c.SendMessage(codec.MustNewMessage(protocol.MsgStatsResult, protocol.StatsResultPayload{
		PlayerID: c.GetID(),
		Wins:     wins,
		Losses:   losses,
	}))
}
