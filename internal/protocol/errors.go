package protocol

// Error codes carried by error messages.
const (
	ErrCodeUnknown    = 1000
	ErrCodeInvalidMsg = 1001

	ErrCodeRoomNotFound    = 2001
	ErrCodeRoomFull        = 2002
	ErrCodeRoomNotJoinable = 2003
	ErrCodeNotInRoom       = 2004
	ErrCodeGameStarted     = 2005
	ErrCodeGameNotStart    = 2006

	ErrCodeNotYourTurn       = 3001
	ErrCodeTileNotHeld       = 3002
	ErrCodeInvalidMove       = 3003
	ErrCodeMustOpenDoubleSix = 3004
	ErrCodeIllegalPass       = 3005
	ErrCodeMatchAlreadyEnded = 3006
)

// ErrorMessages maps codes to user-visible text.
var ErrorMessages = map[int]string{
	ErrCodeUnknown:           "unknown error",
	ErrCodeInvalidMsg:        "invalid message format",
	ErrCodeRoomNotFound:      "room not found",
	ErrCodeRoomFull:          "room is full",
	ErrCodeRoomNotJoinable:   "room cannot be joined right now",
	ErrCodeNotInRoom:         "you are not in a room",
	ErrCodeGameStarted:       "the match already started",
	ErrCodeGameNotStart:      "the match has not started",
	ErrCodeNotYourTurn:       "it is not your turn",
	ErrCodeTileNotHeld:       "you do not hold that tile",
	ErrCodeInvalidMove:       "that tile does not match the open end",
	ErrCodeMustOpenDoubleSix: "the first move must be the double six",
	ErrCodeIllegalPass:       "you still have a playable tile",
	ErrCodeMatchAlreadyEnded: "the match is over",
}
