package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin is checked by middleware.WebSocketCORSCheck
	},
}

// Client represents a connected WebSocket client
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	playerID int
	send     chan []byte
}

// Hub maintains the set of active clients, one per player
type Hub struct {
	clients    map[int]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[int]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run processes registrations until the process exits. A player that
// connects again replaces the previous connection.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if old, exists := h.clients[client.playerID]; exists {
				log.Printf("[WS] Player %d reconnecting - closing old connection", client.playerID)
				if old.conn != nil {
					if err := old.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "replaced by new connection"), time.Now().Add(5*time.Second)); err != nil {
						log.Printf("[WS] Error writing close control to old client %d: %v", old.playerID, err)
					}
					old.conn.Close()
				}
				close(old.send)
			}
			h.clients[client.playerID] = client
			h.mu.Unlock()
			log.Printf("[WS] Player %d connected", client.playerID)

		case client := <-h.unregister:
			h.mu.Lock()
			if cur, ok := h.clients[client.playerID]; ok && cur == client {
				delete(h.clients, client.playerID)
				close(client.send)
				log.Printf("[WS] Player %d disconnected", client.playerID)
			}
			h.mu.Unlock()
		}
	}
}

// SendToPlayer sends a message to a specific player
func (h *Hub) SendToPlayer(playerID int, message interface{}) {
	data, ok := encode(message)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if client, exists := h.clients[playerID]; exists {
		client.offer(data, "SendToPlayer")
	}
}

// Broadcast sends a message to every connected player
func (h *Hub) Broadcast(message interface{}) {
	data, ok := encode(message)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		client.offer(data, "Broadcast")
	}
}

func encode(message interface{}) ([]byte, bool) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] Error marshaling message: %v", err)
		return nil, false
	}
	return data, true
}

// offer queues data without blocking; the hub lock must be held so the
// channel cannot be closed underneath.
func (c *Client) offer(data []byte, what string) {
	select {
	case c.send <- data:
	default:
		log.Printf("[WS] %s dropped message for player %d (buffer full)", what, c.playerID)
	}
}

// Connected reports whether the player has a live connection.
func (h *Hub) Connected(playerID int) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[playerID]
	return ok
}

// Message types
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Channel closed: connection replaced or cleaned up.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[WS] write error for player %d: %v", c.playerID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[WS] ping error for player %d: %v", c.playerID, err)
				return
			}
		}
	}
}

// sendJSON queues a message for this client only. Nothing is sent once the
// hub has dropped the client, since its send channel is closed by then.
func (c *Client) sendJSON(message interface{}) {
	data, ok := encode(message)
	if !ok {
		return
	}
	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()
	if c.hub.clients[c.playerID] == c {
		c.offer(data, "reply")
	}
}

// sendError sends an error message to the client
func (c *Client) sendError(message string) {
	c.sendJSON(map[string]interface{}{
		"type":    "error",
		"message": message,
	})
}
