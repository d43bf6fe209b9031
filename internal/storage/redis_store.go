package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Redis key prefixes
	roomKeyPrefix    = "room:"
	sessionKeyPrefix = "session:"
	recordKeyPrefix  = "record:"

	// Mirrored room data expires on its own; the in-memory registry is the
	// authority and never reads it back.
	roomExpiration    = 2 * time.Hour
	sessionExpiration = 24 * time.Hour
)

// RoomData is the room mirror written to redis for operational visibility.
type RoomData struct {
	Code      string     `json:"code"`
	Status    string     `json:"status"`
	IsPrivate bool       `json:"is_private"`
	Seats     []SeatData `json:"seats"`
	CreatedAt int64      `json:"created_at"`
	Match     *MatchData `json:"match,omitempty"`
}

// SeatData is one occupied seat in the mirror.
type SeatData struct {
	Seat      int    `json:"seat"`
	Team      string `json:"team"`
	PlayerID  string `json:"player_id"`
	Name      string `json:"name"`
	Connected bool   `json:"connected"`
}

// MatchData is a thin match summary in the mirror.
type MatchData struct {
	HandNumber  int `json:"hand_number"`
	CurrentTurn int `json:"current_turn"`
	ScoreTeamA  int `json:"score_team_a"`
	ScoreTeamB  int `json:"score_team_b"`
}

// SessionData records a player's reconnect credentials.
type SessionData struct {
	PlayerID       string `json:"player_id"`
	PlayerName     string `json:"player_name"`
	ReconnectToken string `json:"token"`
	RoomCode       string `json:"room_code"`
	DisconnectedAt int64  `json:"disconnected_at,omitempty"`
}

// RedisStore wraps the redis client. Every method tolerates a nil client so
// the game layer can run (and be tested) without redis.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates the store. client may be nil.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// --- Room mirror ---

// SaveRoom writes the room mirror.
func (rs *RedisStore) SaveRoom(ctx context.Context, code string, data *RoomData) error {
	if rs.client == nil || data == nil {
		return nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal room data: %w", err)
	}
	return rs.client.Set(ctx, roomKeyPrefix+code, jsonData, roomExpiration).Err()
}

// LoadRoom reads a room mirror, returning nil when absent.
func (rs *RedisStore) LoadRoom(ctx context.Context, code string) (*RoomData, error) {
	if rs.client == nil {
		return nil, nil
	}

	data, err := rs.client.Get(ctx, roomKeyPrefix+code).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var roomData RoomData
	if err := json.Unmarshal(data, &roomData); err != nil {
		return nil, fmt.Errorf("unmarshal room data: %w", err)
	}
	return &roomData, nil
}

// DeleteRoom removes a room mirror.
func (rs *RedisStore) DeleteRoom(ctx context.Context, code string) error {
	if rs.client == nil {
		return nil
	}
	return rs.client.Del(ctx, roomKeyPrefix+code).Err()
}

// --- Sessions ---

// SaveSession stores a player's reconnect record.
func (rs *RedisStore) SaveSession(ctx context.Context, session *SessionData) error {
	if rs.client == nil || session == nil {
		return nil
	}

	data := map[string]any{
		"player_id":   session.PlayerID,
		"player_name": session.PlayerName,
		"token":       session.ReconnectToken,
		"room_code":   session.RoomCode,
	}
	if session.DisconnectedAt != 0 {
		data["disconnected_at"] = session.DisconnectedAt
	}

	key := sessionKeyPrefix + session.PlayerID
	if err := rs.client.HSet(ctx, key, data).Err(); err != nil {
		return err
	}
	return rs.client.Expire(ctx, key, sessionExpiration).Err()
}

// LoadSession reads a player's reconnect record, returning nil when absent.
func (rs *RedisStore) LoadSession(ctx context.Context, playerID string) (*SessionData, error) {
	if rs.client == nil {
		return nil, nil
	}

	data, err := rs.client.HGetAll(ctx, sessionKeyPrefix+playerID).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	return &SessionData{
		PlayerID:       data["player_id"],
		PlayerName:     data["player_name"],
		ReconnectToken: data["token"],
		RoomCode:       data["room_code"],
	}, nil
}

// DeleteSession removes a player's reconnect record.
func (rs *RedisStore) DeleteSession(ctx context.Context, playerID string) error {
	if rs.client == nil {
		return nil
	}
	return rs.client.Del(ctx, sessionKeyPrefix+playerID).Err()
}

// --- Match records ---

// RecordMatchResult bumps a player's win/loss counters.
func (rs *RedisStore) RecordMatchResult(ctx context.Context, playerID, playerName string, won bool) error {
	if rs.client == nil {
		return nil
	}

	key := recordKeyPrefix + playerID
	field := "losses"
	if won {
		field = "wins"
	}

	pipe := rs.client.Pipeline()
	pipe.HSet(ctx, key, "name", playerName)
	pipe.HIncrBy(ctx, key, field, 1)
	_, err := pipe.Exec(ctx)
	return err
}

// GetPlayerRecord returns a player's win/loss counters.
func (rs *RedisStore) GetPlayerRecord(ctx context.Context, playerID string) (wins, losses int64, err error) {
	if rs.client == nil {
		return 0, 0, nil
	}

	data, err := rs.client.HGetAll(ctx, recordKeyPrefix+playerID).Result()
	if err != nil {
		return 0, 0, err
	}

	parse := func(s string) int64 {
		var n int64
		_, _ = fmt.Sscanf(s, "%d", &n)
		return n
	}
	return parse(data["wins"]), parse(data["losses"]), nil
}
