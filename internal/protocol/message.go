package protocol

import "encoding/json"

// Message is the envelope for every frame on the wire. The payload is kept
// raw so each handler decodes exactly the variant it expects.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType discriminates the payload union.
type MessageType string

// Client → server message types.
const (
	// Connection
	MsgPing       MessageType = "ping"
	MsgReconnect  MessageType = "reconnect" // resume a seat after a transport drop
	MsgDisconnect MessageType = "disconnect"

	// Rooms
	MsgCreateRoom       MessageType = "create_room"
	MsgJoinRoom         MessageType = "join_room"
	MsgLeaveRoom        MessageType = "leave_room"
	MsgFindMatch        MessageType = "find_match"
	MsgStartGame        MessageType = "start_game"
	MsgStartMatchmaking MessageType = "start_matchmaking"
	MsgPlayerReady      MessageType = "player_ready"

	// Match
	MsgPlacePiece MessageType = "place_piece"
	MsgPassTurn   MessageType = "pass_turn"

	// Stats
	MsgGetStats MessageType = "get_stats"
)

// Server → client message types.
const (
	// Connection
	MsgConnected     MessageType = "connected"
	MsgReconnected   MessageType = "reconnected"
	MsgPong          MessageType = "pong"
	MsgPlayerOffline MessageType = "player_offline"
	MsgPlayerOnline  MessageType = "player_online"

	// Rooms
	MsgRoomJoined         MessageType = "room_joined"
	MsgPlayerJoined       MessageType = "player_joined"
	MsgPlayerLeft         MessageType = "player_left"
	MsgMatchmakingStarted MessageType = "matchmaking_started"
	MsgMatchmakingFailed  MessageType = "matchmaking_failed"
	MsgReadyStatus        MessageType = "ready_status"

	// Match
	MsgGameStarted  MessageType = "game_started"
	MsgGameUpdate   MessageType = "game_update"
	MsgHandUpdate   MessageType = "hand_update"
	MsgGameOver     MessageType = "game_over"
	MsgNotification MessageType = "notification"

	// Stats
	MsgStatsResult MessageType = "stats_result"

	// Errors
	MsgError MessageType = "error"
)
