package server

import (
	"sync"
)

// sessionTable maps player IDs to their one-time reconnect tokens. Entries
// survive the socket so a dropped player can prove their identity from a
// fresh connection.
type sessionTable struct {
	mu     sync.RWMutex
	tokens map[string]string
}

func newSessionTable() *sessionTable {
	return &sessionTable{tokens: make(map[string]string)}
}

func (t *sessionTable) Register(playerID, token string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tokens[playerID] = token
}

func (t *sessionTable) Validate(playerID, token string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return token != "" && t.tokens[playerID] == token
}

func (t *sessionTable) Remove(playerID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.tokens, playerID)
}
