package room

import (
	"context"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/dpimentel/domino-dominicano/internal/config"
	"github.com/dpimentel/domino-dominicano/internal/storage"
)

const (
	cleanupInterval    = time.Minute
	finishedRoomMaxAge = 5 * time.Minute
)

// Manager owns every room. Rooms are only reachable through its operations,
// keyed by room code; different rooms never share state.
type Manager struct {
	store   *storage.RedisStore
	cfg     *config.Config
	matcher *Matcher

	rooms map[string]*Room
	mu    sync.RWMutex

	// finishedAt tracks when a room reached StatusFinished, for cleanup.
	finishedAt map[string]time.Time
}

// NewManager creates the room registry and starts its cleanup loop.
func NewManager(store *storage.RedisStore, cfg *config.Config) *Manager {
	m := &Manager{
		store:      store,
		cfg:        cfg,
		matcher:    NewMatcher(),
		rooms:      make(map[string]*Room),
		finishedAt: make(map[string]time.Time),
	}

	go m.cleanupLoop()

	return m
}

// Matcher returns the shared matchmaking queue.
func (m *Manager) Matcher() *Matcher {
	return m.matcher
}

// GetRoom looks a room up by its share code.
func (m *Manager) GetRoom(code string) *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rooms[code]
}

// GetRoomByPlayerID finds the room currently seating a player.
func (m *Manager) GetRoomByPlayerID(playerID string) *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.rooms {
		if r.SeatOf(playerID) != nil {
			return r
		}
	}
	return nil
}

// FindOpenPublicRoom returns a public room that can still seat players, or
// nil when none exists.
func (m *Manager) FindOpenPublicRoom() *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.rooms {
		r.mu.RLock()
		open := !r.IsPrivate &&
			(r.status == StatusWaiting || r.status == StatusMatchmaking) &&
			r.playerCountLocked() < NumSeats
		r.mu.RUnlock()
		if open {
			return r
		}
	}
	return nil
}

// generateRoomCode produces an unused short numeric share code. Caller holds
// the manager lock.
func (m *Manager) generateRoomCode() string {
	for {
		code := make([]byte, roomCodeLength)
		for i := range code {
			code[i] = roomCodeChars[rand.IntN(len(roomCodeChars))]
		}
		if _, taken := m.rooms[string(code)]; !taken {
			return string(code)
		}
	}
}

// destroyRoom removes a room from the registry and releases its resources.
func (m *Manager) destroyRoom(code string) {
	m.mu.Lock()
	r, exists := m.rooms[code]
	if exists {
		delete(m.rooms, code)
		delete(m.finishedAt, code)
	}
	m.mu.Unlock()

	if !exists {
		return
	}

	r.mu.Lock()
	if r.autofillCancel != nil {
		close(r.autofillCancel)
		r.autofillCancel = nil
	}
	for seat, pending := range r.reconnects {
		pending.timer.Stop()
		delete(r.reconnects, seat)
	}
	if r.eng != nil {
		r.eng.Stop()
	}
	r.mu.Unlock()

	go func() { _ = m.store.DeleteRoom(context.Background(), code) }()
	log.Printf("🏠 room %s destroyed", code)
}

// markFinished records a room's terminal transition for delayed cleanup.
func (m *Manager) markFinished(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.rooms[code]; exists {
		m.finishedAt[code] = time.Now()
	}
}

// cleanupLoop reaps finished rooms that nobody left voluntarily.
func (m *Manager) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		var stale []string
		m.mu.RLock()
		for code, at := range m.finishedAt {
			if time.Since(at) > finishedRoomMaxAge {
				stale = append(stale, code)
			}
		}
		m.mu.RUnlock()

		for _, code := range stale {
			m.destroyRoom(code)
		}
	}
}

// mirror writes the room's state to redis, best effort.
func (m *Manager) mirror(r *Room) {
	go func() {
		_ = m.store.SaveRoom(context.Background(), r.Code, r.ToRoomData())
	}()
}
