package apperrors

import (
	"github.com/dpimentel/domino-dominicano/internal/protocol"
)

// GameError is a rejected request: reported to the acting client, no state
// mutation, never fatal.
type GameError struct {
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

// Predefined errors, keyed to protocol error codes.
var (
	ErrRoomNotFound    = &GameError{Code: protocol.ErrCodeRoomNotFound, Message: "room not found"}
	ErrRoomFull        = &GameError{Code: protocol.ErrCodeRoomFull, Message: "room is full"}
	ErrRoomNotJoinable = &GameError{Code: protocol.ErrCodeRoomNotJoinable, Message: "room cannot be joined right now"}
	ErrNotInRoom       = &GameError{Code: protocol.ErrCodeNotInRoom, Message: "you are not in a room"}
	ErrGameStarted     = &GameError{Code: protocol.ErrCodeGameStarted, Message: "the match already started"}
	ErrGameNotStart    = &GameError{Code: protocol.ErrCodeGameNotStart, Message: "the match has not started"}

	ErrNotYourTurn       = &GameError{Code: protocol.ErrCodeNotYourTurn, Message: "it is not your turn"}
	ErrTileNotHeld       = &GameError{Code: protocol.ErrCodeTileNotHeld, Message: "you do not hold that tile"}
	ErrInvalidMove       = &GameError{Code: protocol.ErrCodeInvalidMove, Message: "that tile does not match the open end"}
	ErrMustOpenDoubleSix = &GameError{Code: protocol.ErrCodeMustOpenDoubleSix, Message: "the first move must be the double six"}
	ErrIllegalPass       = &GameError{Code: protocol.ErrCodeIllegalPass, Message: "you still have a playable tile"}
	ErrMatchEnded        = &GameError{Code: protocol.ErrCodeMatchAlreadyEnded, Message: "the match is over"}
)
