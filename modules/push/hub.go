// Package push delivers board notifications to live WebSocket connections.
// Delivery is fire-and-forget: an offline user simply misses the push, the
// notification row remains the source of truth.
package push

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
)

// Conn is the writable half of a WebSocket connection as the hub sees it.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client represents one WebSocket connection of a user. A user may hold
// several connections (multiple tabs or devices).
type Client struct {
	ID     string
	UserID string
	Conn   Conn

	writeMu sync.Mutex
}

// Write sends one text frame. The hub loop and the connection's own
// read-side acks share the conn, and gorilla allows at most one concurrent
// writer, so every outbound frame goes through this lock.
func (c *Client) Write(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteMessage(websocket.TextMessage, data)
}

// pushMessage carries a payload addressed to one user.
type pushMessage struct {
	UserID  string
	Payload any
}

// Hub manages the user-id to connection registry.
type Hub struct {
	clients    map[string]map[string]*Client // userID -> connID -> Client
	register   chan *Client
	unregister chan *Client
	send       chan *pushMessage
	done       chan struct{}
	mu         sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		send:       make(chan *pushMessage, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's main loop. It accepts a context for graceful shutdown.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			log.Println("[push] Hub shutting down...")
			h.closeAllClients()
			close(h.done)
			return
		case client := <-h.register:
			h.handleRegister(client)
		case client := <-h.unregister:
			h.handleUnregister(client)
		case msg := <-h.send:
			h.handleSend(msg)
		}
	}
}

// Wait blocks until the hub has stopped.
func (h *Hub) Wait() {
	<-h.done
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, conns := range h.clients {
		for _, client := range conns {
			if client.Conn != nil {
				_ = client.Conn.Close()
			}
		}
	}
	h.clients = make(map[string]map[string]*Client)
}

func (h *Hub) handleRegister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.UserID] == nil {
		h.clients[client.UserID] = make(map[string]*Client)
	}
	h.clients[client.UserID][client.ID] = client
	log.Printf("[push] Client %s registered for user %s", client.ID, client.UserID)
}

func (h *Hub) handleUnregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.clients[client.UserID]
	if conns == nil {
		return
	}
	if _, ok := conns[client.ID]; ok {
		delete(conns, client.ID)
		if len(conns) == 0 {
			delete(h.clients, client.UserID)
		}
		log.Printf("[push] Client %s unregistered for user %s", client.ID, client.UserID)
	}
}

func (h *Hub) handleSend(msg *pushMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conns, ok := h.clients[msg.UserID]
	if !ok {
		return
	}

	data, err := json.Marshal(msg.Payload)
	if err != nil {
		log.Printf("[push] Failed to marshal payload for user %s: %v", msg.UserID, err)
		return
	}

	for _, client := range conns {
		if err := client.Write(data); err != nil {
			log.Printf("[push] Failed to send to client %s: %v", client.ID, err)
		}
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Send queues a payload for every live connection of the user. It never
// blocks the caller on a slow consumer: when the queue is full the message
// is dropped.
func (h *Hub) Send(userID string, payload any) {
	select {
	case h.send <- &pushMessage{UserID: userID, Payload: payload}:
	default:
		log.Printf("[push] Send queue full, dropping message for user %s", userID)
	}
}

// IsOnline reports whether the user has at least one live connection.
func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

// ConnectionCount returns the total number of live connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, conns := range h.clients {
		total += len(conns)
	}
	return total
}

// OnlineUsers returns the IDs of users with at least one live connection.
func (h *Hub) OnlineUsers() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	users := make([]string, 0, len(h.clients))
	for userID := range h.clients {
		users = append(users, userID)
	}
	return users
}
