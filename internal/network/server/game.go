package server

import (
	"github.com/dpimentel/domino-dominicano/internal/apperrors"
	"github.com/dpimentel/domino-dominicano/internal/game/engine"
	"github.com/dpimentel/domino-dominicano/internal/game/room"
	"github.com/dpimentel/domino-dominicano/internal/protocol"
	"github.com/dpimentel/domino-dominicano/internal/protocol/codec"
)

// seatedEngine resolves the acting client to its seat and the live engine.
func (s *Server) seatedEngine(c *Client) (*engine.Engine, int, error) {
	r := s.rooms.GetRoom(c.GetRoom())
	if r == nil {
		return nil, 0, apperrors.ErrNotInRoom
	}
	seat := r.SeatOf(c.GetID())
	if seat == nil {
		return nil, 0, apperrors.ErrNotInRoom
	}
	eng, ok := r.Engine()
	if !ok {
		return nil, 0, apperrors.ErrGameNotStart
	}
	return eng, seat.Index, nil
}

func (s *Server) handlePlacePiece(c *Client, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.PlacePiecePayload](msg)
	if err != nil {
		c.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	eng, seat, err := s.seatedEngine(c)
	if err != nil {
		sendError(c, err)
		return
	}

	side := engine.Side(payload.Side)
	if side != engine.SideHead && side != engine.SideTail {
		sendError(c, apperrors.ErrInvalidMove)
		return
	}

	if err := eng.PlacePiece(seat, room.TileFromInfo(payload.Tile), side); err != nil {
		sendError(c, err)
	}
}

func (s *Server) handlePassTurn(c *Client) {
	eng, seat, err := s.seatedEngine(c)
	if err != nil {
		sendError(c, err)
		return
	}

	if err := eng.PassTurn(seat); err != nil {
		sendError(c, err)
	}
}
