package server

import (
	"errors"
	"log"

	"github.com/dpimentel/domino-dominicano/internal/apperrors"
	"github.com/dpimentel/domino-dominicano/internal/logger"
	"github.com/dpimentel/domino-dominicano/internal/protocol"
	"github.com/dpimentel/domino-dominicano/internal/protocol/codec"
)

// handleMessage routes one inbound frame to its handler. A panicking handler
// must not take the process down with it.
func (s *Server) handleMessage(c *Client, msg *protocol.Message) {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
			c.SendMessage(codec.NewErrorMessage(protocol.ErrCodeUnknown))
		}
	}()

	switch msg.Type {
	// connection
	case protocol.MsgPing:
		s.handlePing(c, msg)
	case protocol.MsgReconnect:
		s.handleReconnect(c, msg)
	case protocol.MsgDisconnect:
		s.handleClientGoodbye(c)
	case protocol.MsgGetStats:
		s.handleGetStats(c)

	// rooms
	case protocol.MsgCreateRoom:
		s.handleCreateRoom(c, msg)
	case protocol.MsgJoinRoom:
		s.handleJoinRoom(c, msg)
	case protocol.MsgLeaveRoom:
		s.handleLeaveRoom(c)
	case protocol.MsgFindMatch:
		s.handleFindMatch(c, msg)
	case protocol.MsgStartMatchmaking:
		s.handleStartMatchmaking(c)
	case protocol.MsgStartGame:
		s.handleStartGame(c)
	case protocol.MsgPlayerReady:
		s.handlePlayerReady(c)

	// match play
	case protocol.MsgPlacePiece:
		s.handlePlacePiece(c, msg)
	case protocol.MsgPassTurn:
		s.handlePassTurn(c)

	default:
		log.Printf("⚠️  unknown message type %q from %s (%s)", msg.Type, c.GetName(), c.GetID())
		c.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
	}
}

// sendError maps domain errors onto protocol error codes.
func sendError(c *Client, err error) {
	logger.LogError("client %s: %v", c.GetID(), err)

	var gameErr *apperrors.GameError
	if errors.As(err, &gameErr) {
		c.SendMessage(codec.NewErrorMessage(gameErr.Code))
		return
	}
	c.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeUnknown, err.Error()))
}
