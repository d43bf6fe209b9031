package server

import (
	"github.com/dpimentel/domino-dominicano/internal/game/room"
	"github.com/dpimentel/domino-dominicano/internal/protocol"
	"github.com/dpimentel/domino-dominicano/internal/protocol/codec"
)

func (s *Server) handleCreateRoom(c *Client, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.CreateRoomPayload](msg)
	if err != nil {
		c.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}
	c.SetName(payload.Name)

	if c.GetRoom() != "" {
		s.rooms.LeaveRoom(c)
	}

	r, err := s.rooms.CreateRoom(c, payload.IsPrivate)
	if err != nil {
		sendError(c, err)
		return
	}
	s.sendRoomJoined(c, r)
}

func (s *Server) handleJoinRoom(c *Client, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.JoinRoomPayload](msg)
	if err != nil {
		c.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}
	c.SetName(payload.Name)

	if c.GetRoom() != "" {
		s.rooms.LeaveRoom(c)
	}

	r, err := s.rooms.JoinRoom(c, payload.RoomCode)
	if err != nil {
		sendError(c, err)
		return
	}
	s.sendRoomJoined(c, r)
}

func (s *Server) handleLeaveRoom(c *Client) {
	if c.GetRoom() == "" {
		return
	}
	s.rooms.LeaveRoom(c)
	c.SendMessage(codec.MustNewMessage(protocol.MsgNotification, protocol.NotificationPayload{
		Type:    "info",
		Message: "you left the room",
	}))
}

func (s *Server) handleFindMatch(c *Client, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.FindMatchPayload](msg)
	if err != nil {
		c.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}
	c.SetName(payload.Name)

	if c.GetRoom() != "" {
		s.rooms.LeaveRoom(c)
	}

	r, err := s.rooms.FindMatch(c)
	if err != nil {
		sendError(c, err)
		return
	}
	if r != nil {
		s.sendRoomJoined(c, r)
		return
	}
	// Queued; a room will announce itself once four players are waiting.
	c.SendMessage(codec.MustNewMessage(protocol.MsgMatchmakingStarted, protocol.MatchmakingStartedPayload{
		Message:   "looking for players",
		TimeoutMs: s.config.Game.MatchmakingTimeoutDuration().Milliseconds(),
	}))
}

func (s *Server) handleStartMatchmaking(c *Client) {
	if err := s.rooms.StartMatchmaking(c); err != nil {
		sendError(c, err)
	}
}

func (s *Server) handleStartGame(c *Client) {
	if err := s.rooms.StartGame(c); err != nil {
		sendError(c, err)
	}
}

func (s *Server) handlePlayerReady(c *Client) {
	if err := s.rooms.SetPlayerReady(c); err != nil {
		sendError(c, err)
	}
}

func (s *Server) sendRoomJoined(c *Client, r *room.Room) {
	seat := r.SeatOf(c.GetID())
	if seat == nil {
		return
	}
	c.SendMessage(codec.MustNewMessage(protocol.MsgRoomJoined, protocol.RoomJoinedPayload{
		RoomCode:  r.Code,
		IsPrivate: r.IsPrivate,
		Seat:      seat.Index,
		Team:      seat.Team().String(),
		Seats:     r.SeatInfos(),
	}))
}
