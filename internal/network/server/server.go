package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/dpimentel/domino-dominicano/internal/config"
	"github.com/dpimentel/domino-dominicano/internal/game/room"
	"github.com/dpimentel/domino-dominicano/internal/protocol"
	"github.com/dpimentel/domino-dominicano/internal/protocol/codec"
	"github.com/dpimentel/domino-dominicano/internal/storage"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server owns the WebSocket listener and every connected client.
type Server struct {
	config *config.Config
	redis  *redis.Client
	store  *storage.RedisStore
	rooms  *room.Manager

	clients   map[string]*Client
	clientsMu sync.RWMutex

	sessions *sessionTable

	httpServer *http.Server
}

// NewServer wires the server against Redis and the room manager. A Redis
// that cannot be reached downgrades the store to a no-op rather than
// blocking startup; match state lives in memory either way.
func NewServer(cfg *config.Config) *Server {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️  redis unreachable at %s, running without persistence: %v", cfg.Redis.Addr, err)
		rdb = nil
	}

	store := storage.NewRedisStore(rdb)

	s := &Server{
		config:   cfg,
		redis:    rdb,
		store:    store,
		clients:  make(map[string]*Client),
		sessions: newSessionTable(),
	}
	s.rooms = room.NewManager(store, cfg)
	return s
}

// Start blocks serving WebSocket upgrades until the listener fails.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	log.Printf("🚀 server listening on ws://%s/ws (CPU cores: %d)", addr, runtime.NumCPU())
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	client := NewClient(s, conn)
	s.registerClient(client)
	s.sessions.Register(client.GetID(), client.ReconnectToken)

	client.SendMessage(codec.MustNewMessage(protocol.MsgConnected, protocol.ConnectedPayload{
		PlayerID:       client.GetID(),
		PlayerName:     client.GetName(),
		ReconnectToken: client.ReconnectToken,
	}))

	log.Printf("✅ player %s (%s) connected", client.GetName(), client.GetID())

	go client.ReadPump()
	go client.WritePump()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) registerClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[client.GetID()] = client
}

func (s *Server) unregisterClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	delete(s.clients, client.GetID())
}

// OnlineCount reports connected sockets, not seated players.
func (s *Server) OnlineCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// Shutdown closes every client connection and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.clientsMu.Lock()
	for _, c := range s.clients {
		c.Close()
	}
	s.clients = make(map[string]*Client)
	s.clientsMu.Unlock()

	if s.redis != nil {
		_ = s.redis.Close()
	}
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
