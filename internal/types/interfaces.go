package types

import (
	"github.com/dpimentel/domino-dominicano/internal/protocol"
)

// ClientInterface is the transport-side view of a connected player. The game
// layer never touches the socket directly.
type ClientInterface interface {
	GetID() string
	GetName() string
	GetRoom() string
	SetRoom(roomCode string)
	SendMessage(msg *protocol.Message)
	Close()
}
