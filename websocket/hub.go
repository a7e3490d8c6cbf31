package websocket

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Board event types pushed to connected clients
const (
	EventPipelineMove   = "pipeline_move"
	EventPipelineRevert = "pipeline_revert"
	EventLeadCreated    = "lead_created"
	EventLeadDeleted    = "lead_deleted"
)

// Event is a message sent over WebSocket to every session watching a tenant's
// pipeline board.
type Event struct {
	Type     string      `json:"type"`
	Message  string      `json:"message,omitempty"`
	Data     interface{} `json:"data,omitempty"`
	TenantID string      `json:"tenantId,omitempty"`
}

// Client represents a connected WebSocket client scoped to one tenant.
type Client struct {
	UserID   primitive.ObjectID
	TenantID primitive.ObjectID
	Conn     *websocket.Conn
}

// Hub maintains the set of active clients and broadcasts board events
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
			}
			client.Conn.Close()
			h.mu.Unlock()
		}
	}
}

// BroadcastToTenant sends an event to every client watching the tenant.
func (h *Hub) BroadcastToTenant(tenantID primitive.ObjectID, event Event) {
	event.TenantID = tenantID.Hex()

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if client.TenantID == tenantID {
			client.Conn.WriteJSON(event)
		}
	}
}

// SendToUser sends an event to a specific user's sessions.
func (h *Hub) SendToUser(userID primitive.ObjectID, event Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	sent := false
	for client := range h.clients {
		if client.UserID == userID {
			client.Conn.WriteJSON(event)
			sent = true
		}
	}
	if !sent {
		return fmt.Errorf("user not connected")
	}
	return nil
}
