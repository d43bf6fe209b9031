package protocol

// --- Shared DTOs ---

// TileInfo is a tile on the wire. Values are 0-6 pips.
type TileInfo struct {
	A int `json:"a"`
	B int `json:"b"`
}

// SeatInfo describes one occupied seat.
type SeatInfo struct {
	Seat      int    `json:"seat"` // 0-3
	Team      string `json:"team"` // "A" or "B"
	PlayerID  string `json:"player_id"`
	Name      string `json:"name"`
	IsHost    bool   `json:"is_host"`
	Connected bool   `json:"connected"`
	TileCount int    `json:"tile_count"`
}

// MatchStateDTO is the public view of a running match. Hands are reported as
// counts only; each player receives their own tiles via hand_update.
type MatchStateDTO struct {
	HandNumber   int        `json:"hand_number"`
	Board        []TileInfo `json:"board"` // oriented head→tail
	HeadValue    int        `json:"head_value"`
	TailValue    int        `json:"tail_value"`
	CurrentTurn  int        `json:"current_turn"`
	TurnDeadline int64      `json:"turn_deadline"` // unix millis
	TileCounts   [4]int     `json:"tile_counts"`
	ScoreTeamA   int        `json:"score_team_a"`
	ScoreTeamB   int        `json:"score_team_b"`
	TargetScore  int        `json:"target_score"`
	Passes       int        `json:"consecutive_passes"`
	MatchOver    bool       `json:"match_over"`
	ChampionTeam string     `json:"champion_team,omitempty"`
}

// HandResultDTO reports how a hand ended.
type HandResultDTO struct {
	HandNumber int    `json:"hand_number"`
	WinnerSeat int    `json:"winner_seat"`
	WinnerTeam string `json:"winner_team"`
	Reason     string `json:"reason"` // domino | tranque | capicua
	Points     int    `json:"points"`
}

// --- Client request payloads ---

// PingPayload carries the client timestamp in millis.
type PingPayload struct {
	Timestamp int64 `json:"timestamp"`
}

// ReconnectPayload resumes a seat after a transport drop.
type ReconnectPayload struct {
	Token    string `json:"token"`
	PlayerID string `json:"player_id"`
	Name     string `json:"name"` // display credential matched against the seat
}

// CreateRoomPayload asks for a fresh room.
type CreateRoomPayload struct {
	Name      string `json:"name"`
	IsPrivate bool   `json:"is_private"`
}

// JoinRoomPayload joins an existing room by its share code.
type JoinRoomPayload struct {
	RoomCode string `json:"room_code"`
	Name     string `json:"name"`
}

// FindMatchPayload enters the matchmaking queue.
type FindMatchPayload struct {
	Name string `json:"name"`
}

// PlacePiecePayload plays a tile on the requested open end.
type PlacePiecePayload struct {
	Tile TileInfo `json:"tile"`
	Side string   `json:"side"` // "head" or "tail"
}

// --- Server response payloads ---

// ConnectedPayload acknowledges a new connection.
type ConnectedPayload struct {
	PlayerID       string `json:"player_id"`
	PlayerName     string `json:"player_name"`
	ReconnectToken string `json:"reconnect_token"`
}

// ReconnectedPayload restores a returning player.
type ReconnectedPayload struct {
	PlayerID   string         `json:"player_id"`
	PlayerName string         `json:"player_name"`
	RoomCode   string         `json:"room_code,omitempty"`
	Seat       int            `json:"seat"`
	MatchState *MatchStateDTO `json:"match_state,omitempty"`
	Hand       []TileInfo     `json:"hand,omitempty"`
}

// PongPayload answers a ping.
type PongPayload struct {
	ClientTimestamp int64 `json:"client_timestamp"`
	ServerTimestamp int64 `json:"server_timestamp"`
}

// RoomJoinedPayload confirms entry into a room.
type RoomJoinedPayload struct {
	RoomCode  string     `json:"room_code"`
	IsPrivate bool       `json:"is_private"`
	Seat      int        `json:"seat"`
	Team      string     `json:"team"`
	Seats     []SeatInfo `json:"seats"`
}

// PlayerJoinedPayload tells room members about a new seat.
type PlayerJoinedPayload struct {
	Seats []SeatInfo `json:"seats"`
}

// PlayerLeftPayload tells room members a seat emptied.
type PlayerLeftPayload struct {
	PlayerID string     `json:"player_id"`
	Name     string     `json:"name"`
	Seat     int        `json:"seat"`
	Seats    []SeatInfo `json:"seats"`
}

// MatchmakingStartedPayload announces autofill is running.
type MatchmakingStartedPayload struct {
	Message   string `json:"message"`
	TimeoutMs int64  `json:"timeout_ms"`
}

// MatchmakingFailedPayload reports an under-filled room after the timeout.
type MatchmakingFailedPayload struct {
	Message string `json:"message"`
}

// ReadyStatusPayload reports progress toward the next hand.
type ReadyStatusPayload struct {
	ReadyCount int   `json:"ready_count"`
	TotalSeats int   `json:"total_seats"`
	ReadySeats []int `json:"ready_seats"`
}

// GameStartedPayload carries the opening state of a hand.
type GameStartedPayload struct {
	State MatchStateDTO `json:"state"`
}

// GameUpdatePayload carries the state after any accepted mutation.
type GameUpdatePayload struct {
	State      MatchStateDTO  `json:"state"`
	HandResult *HandResultDTO `json:"hand_result,omitempty"`
}

// HandUpdatePayload carries one player's own tiles.
type HandUpdatePayload struct {
	Seat  int        `json:"seat"`
	Tiles []TileInfo `json:"tiles"`
}

// GameOverPayload announces the match champion.
type GameOverPayload struct {
	ChampionTeam string `json:"champion_team"`
	ScoreTeamA   int    `json:"score_team_a"`
	ScoreTeamB   int    `json:"score_team_b"`
	Reason       string `json:"reason,omitempty"` // set on forfeit
}

// NotificationPayload is a typed toast for room members.
type NotificationPayload struct {
	Type    string `json:"type"` // pase_redondo | capicua | tranque | forfeit | info
	Message string `json:"message"`
}

// PlayerOfflinePayload announces a dropped seat and the grace window.
type PlayerOfflinePayload struct {
	PlayerID  string `json:"player_id"`
	Name      string `json:"name"`
	Seat      int    `json:"seat"`
	GraceSecs int    `json:"grace_secs"`
}

// PlayerOnlinePayload announces a seat reattached within the grace window.
type PlayerOnlinePayload struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Seat     int    `json:"seat"`
}

// StatsResultPayload returns a player's match record.
type StatsResultPayload struct {
	PlayerID string `json:"player_id"`
	Wins     int64  `json:"wins"`
	Losses   int64  `json:"losses"`
}

// ErrorPayload carries a scoped failure back to the acting client.
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
