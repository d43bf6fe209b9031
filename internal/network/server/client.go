package server

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/dpimentel/domino-dominicano/internal/protocol"
	"github.com/dpimentel/domino-dominicano/internal/protocol/codec"
)

const (
	writeWait = 10 * time.Second

	// pong wait; pings must come more often than this
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 4096
)

// Client is one connected player socket.
type Client struct {
	ID             string
	Name           string
	ReconnectToken string

	server *Server
	conn   *websocket.Conn
	send   chan []byte

	mu       sync.RWMutex
	roomCode string
	closed   bool
}

func NewClient(s *Server, conn *websocket.Conn) *Client {
	return &Client{
		ID:             uuid.New().String(),
		Name:           GenerateNickname(),
		ReconnectToken: uuid.New().String(),
		server:         s,
		conn:           conn,
		send:           make(chan []byte, 256),
	}
}

// ReadPump drains inbound frames until the socket dies, then runs the
// disconnect path exactly once.
func (c *Client) ReadPump() {
	defer func() {
		c.handleDisconnect()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("read error from %s: %v", c.ID, err)
			}
			break
		}

		msg, err := codec.Decode(data)
		if err != nil {
			log.Printf("bad frame from %s: %v", c.ID, err)
			c.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
			continue
		}

		c.server.handleMessage(c, msg)
	}
}

// WritePump serializes outbound frames and keeps the connection alive
// with periodic pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendMessage queues a message; a full buffer drops the connection rather
// than blocking the caller.
func (c *Client) SendMessage(msg *protocol.Message) {
	data, err := codec.Encode(msg)
	if err != nil {
		log.Printf("encode error: %v", err)
		return
	}

	// The closed check and the channel send share the lock so Close cannot
	// close the channel between them.
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return
	}
	select {
	case c.send <- data:
		c.mu.RUnlock()
	default:
		c.mu.RUnlock()
		log.Printf("send buffer full for client %s, dropping connection", c.ID)
		c.Close()
	}
}

func (c *Client) handleDisconnect() {
	if c.GetRoom() != "" {
		// The seat may be held open for a grace window; the reconnect token
		// stays valid so the player can claim it back.
		c.server.rooms.NotifyPlayerOffline(c)
	} else {
		c.server.sessions.Remove(c.ID)
	}
	c.server.rooms.Matcher().Remove(c.ID)
	c.server.unregisterClient(c)
	log.Printf("👋 player %s (%s) disconnected", c.GetName(), c.ID)
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *Client) GetID() string { return c.ID }

func (c *Client) GetName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Name
}

func (c *Client) SetName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if name != "" {
		c.Name = name
	}
}

func (c *Client) SetRoom(roomCode string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomCode = roomCode
}

func (c *Client) GetRoom() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomCode
}
