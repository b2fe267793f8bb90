package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/chitram/chitram-backend/pkg/logger"
)

// Client is one admin live-feed session.
type Client struct {
	Hub     *Hub
	Conn    *Conn
	AdminID string
	Send    chan []byte

	// rate limit for inbound frames
	MessageCount  int
	LastResetTime time.Time
	RateMu        sync.Mutex

	// guards Send against writes after close
	sendMu sync.Mutex
	closed bool
}

// enqueue queues msg without blocking. It reports false when the queue is
// full or already closed.
func (c *Client) enqueue(msg []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- msg:
		return true
	default:
		return false
	}
}

// closeSend closes the outbound queue once.
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

// NewClient creates a client with a buffered outbound queue.
func NewClient(hub *Hub, conn *Conn, adminID string) *Client {
	return &Client{
		Hub:     hub,
		Conn:    conn,
		AdminID: adminID,
		Send:    make(chan []byte, 256),
	}
}

// Hub fans domain events out to every connected admin session.
type Hub struct {
	// adminID -> sessions (an admin may have several tabs open)
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}

	mu sync.RWMutex
}

// NewHub creates an idle hub; start it with Run.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan []byte, 1024),
		done:       make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.AdminID] = append(h.clients[client.AdminID], client)
			sessions := len(h.clients[client.AdminID])
			h.mu.Unlock()
			logger.Info("Live feed client registered", map[string]interface{}{
				"admin_id":       client.AdminID,
				"total_sessions": sessions,
			})

		case client := <-h.unregister:
			h.remove(client)

		case message := <-h.broadcast:
			h.mu.RLock()
			for adminID, clientList := range h.clients {
				for _, client := range clientList {
					if !client.enqueue(message) {
						go h.Unregister(client)
						logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
							"admin_id": adminID,
						})
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clientList, ok := h.clients[client.AdminID]
	if !ok {
		return
	}
	remaining := make([]*Client, 0, len(clientList))
	found := false
	for _, c := range clientList {
		if c == client {
			found = true
			continue
		}
		remaining = append(remaining, c)
	}
	if !found {
		return
	}
	if len(remaining) == 0 {
		delete(h.clients, client.AdminID)
	} else {
		h.clients[client.AdminID] = remaining
	}
	client.closeSend()

	logger.Info("Live feed client unregistered", map[string]interface{}{
		"admin_id":           client.AdminID,
		"remaining_sessions": len(remaining),
	})
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for adminID, clientList := range h.clients {
		for _, c := range clientList {
			c.closeSend()
		}
		delete(h.clients, adminID)
	}
}

// Stop ends Run and closes every session queue.
func (h *Hub) Stop() {
	close(h.done)
}

// Broadcast queues v (JSON encoded) for every connected session. A full
// queue drops the message; the live feed is advisory.
func (h *Hub) Broadcast(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Error("Failed to marshal live feed message", err, nil)
		return err
	}

	select {
	case h.broadcast <- data:
	default:
		logger.Warn("Broadcast channel full, message dropped", nil)
	}
	return nil
}

// Register adds a session to the feed.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a session and closes its queue.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// ConnectedAdmins returns the number of admins with at least one session.
func (h *Hub) ConnectedAdmins() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// allowMessage applies the inbound per-second frame limit.
func (c *Client) allowMessage(now time.Time) bool {
	c.RateMu.Lock()
	defer c.RateMu.Unlock()
	if now.Sub(c.LastResetTime) >= time.Second {
		c.MessageCount = 0
		c.LastResetTime = now
	}
	c.MessageCount++
	return c.MessageCount <= maxMessagesPerSecond
}

// handleClientMessage answers {"type":"ping"} frames; anything else is ignored.
func (h *Hub) handleClientMessage(client *Client, message []byte) {
	if !client.allowMessage(time.Now()) {
		logger.Warn("Rate limit exceeded", map[string]interface{}{
			"admin_id": client.AdminID,
		})
		return
	}

	var msg struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(message, &msg); err != nil {
		logger.Warn("Failed to parse client message", map[string]interface{}{
			"admin_id": client.AdminID,
			"error":    err.Error(),
		})
		return
	}

	if msg.Type == "ping" {
		reply, _ := json.Marshal(map[string]string{"type": "pong"})
		client.enqueue(reply)
	}
}
