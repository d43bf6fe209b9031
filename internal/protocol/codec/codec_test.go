package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpimentel/domino-dominicano/internal/protocol"
)

func TestMessageRoundTrip(t *testing.T) {
	t.Parallel()

	msg := MustNewMessage(protocol.MsgPlacePiece, protocol.PlacePiecePayload{
		Tile: protocol.TileInfo{A: 6, B: 4},
		Side: "tail",
	})

	data, err := Encode(msg)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, protocol.MsgPlacePiece, decoded.Type)

	payload, err := ParsePayload[protocol.PlacePiecePayload](decoded)
	require.NoError(t, err)
	assert.Equal(t, 6, payload.Tile.A)
	assert.Equal(t, 4, payload.Tile.B)
	assert.Equal(t, "tail", payload.Side)
}

func TestNilPayload(t *testing.T) {
	t.Parallel()

	msg := MustNewMessage(protocol.MsgPassTurn, nil)
	data, err := Encode(msg)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, protocol.MsgPassTurn, decoded.Type)
	assert.Empty(t, decoded.Payload)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := Decode([]byte("not json at all"))
	assert.Error(t, err)
}

func TestParsePayloadRejectsMismatch(t *testing.T) {
	t.Parallel()

	msg := &protocol.Message{Type: protocol.MsgPlacePiece, Payload: []byte(`{"tile": "nope"}`)}
	_, err := ParsePayload[protocol.PlacePiecePayload](msg)
	assert.Error(t, err)
}

func TestNewErrorMessageCarriesKnownText(t *testing.T) {
	t.Parallel()

	msg := NewErrorMessage(protocol.ErrCodeNotYourTurn)
	payload, err := ParsePayload[protocol.ErrorPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, protocol.ErrCodeNotYourTurn, payload.Code)
	assert.Equal(t, protocol.ErrorMessages[protocol.ErrCodeNotYourTurn], payload.Message)

	custom := NewErrorMessageWithText(protocol.ErrCodeUnknown, "redis went away")
	payload, err = ParsePayload[protocol.ErrorPayload](custom)
	require.NoError(t, err)
	assert.Equal(t, "redis went away", payload.Message)
}
