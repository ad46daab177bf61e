// Package notifications provides real-time chat delivery over websockets.
package notifications

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"

	"yatube/internal/observability"

	"github.com/gofiber/websocket/v2"
)

// ChatHub manages websocket connections for group chat. It is group-centric:
// every connection belongs to exactly one group slug, and fan-out is keyed by
// that slug alone. The hub never touches the database; callers persist first
// and broadcast after.
type ChatHub struct {
	mu sync.RWMutex

	// Map: group slug -> set of clients subscribed to that group
	groups map[string]map[*Client]bool
}

// Name returns a human-readable identifier for this hub.
func (h *ChatHub) Name() string { return "chat hub" }

// ChatEvent is the envelope broadcast to every member of a group.
type ChatEvent struct {
	Type     string      `json:"type"` // "message", "history"
	Group    string      `json:"group"`
	Username string      `json:"username,omitempty"`
	Message  string      `json:"message,omitempty"`
	Payload  interface{} `json:"payload,omitempty"`
}

// NewChatHub creates a new ChatHub instance
func NewChatHub() *ChatHub {
	return &ChatHub{
		groups: make(map[string]map[*Client]bool),
	}
}

// Register subscribes a connection to its group and returns the client.
func (h *ChatHub) Register(conn *websocket.Conn, userID uint, username, group string) *Client {
	client := NewClient(h, conn, userID, username, group)
	h.RegisterClient(client)
	return client
}

// RegisterClient adds an already-built client to its group's registry.
func (h *ChatHub) RegisterClient(client *Client) {
	client.Hub = h

	h.mu.Lock()
	if h.groups[client.Group] == nil {
		h.groups[client.Group] = make(map[*Client]bool)
	}
	h.groups[client.Group][client] = true
	size := len(h.groups[client.Group])
	h.mu.Unlock()

	observability.ActiveWebSockets.Inc()
	observability.ChatGroupConnections.WithLabelValues(client.Group).Inc()
	log.Printf("ChatHub: user %d joined group %q (members: %d)", client.UserID, client.Group, size)
}

// UnregisterClient removes a connection from its group. Safe to call more
// than once for the same client.
func (h *ChatHub) UnregisterClient(client *Client) {
	h.mu.Lock()
	clients, ok := h.groups[client.Group]
	if !ok || !clients[client] {
		h.mu.Unlock()
		return
	}
	delete(clients, client)
	if len(clients) == 0 {
		delete(h.groups, client.Group)
	}
	h.mu.Unlock()

	observability.ActiveWebSockets.Dec()
	observability.ChatGroupConnections.WithLabelValues(client.Group).Dec()
	log.Printf("ChatHub: user %d left group %q", client.UserID, client.Group)
}

// GroupSize returns the number of connections subscribed to a group.
func (h *ChatHub) GroupSize(group string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[group])
}

// BroadcastToGroup sends an event to every connection in a group, including
// the sender's own. Slow consumers drop; the sweep never blocks.
func (h *ChatHub) BroadcastToGroup(group string, event ChatEvent) {
	messageJSON, err := json.Marshal(event)
	if err != nil {
		log.Printf("ChatHub: Failed to marshal event for group %q: %v", group, err)
		return
	}

	h.mu.RLock()
	clients := h.groups[group]
	targets := make([]*Client, 0, len(clients))
	for client := range clients {
		targets = append(targets, client)
	}
	h.mu.RUnlock()

	for _, client := range targets {
		client.TrySend(messageJSON)
	}

	observability.ChatMessagesTotal.WithLabelValues(group).Inc()
}

// StartWiring connects the hub to Redis pub/sub so messages published by
// other instances reach clients connected here.
func (h *ChatHub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.StartChatSubscriber(ctx, func(channel, payload string) {
		group := strings.TrimPrefix(channel, chatChannelPrefix)
		if group == channel || group == "" {
			log.Printf("ChatHub: Invalid channel format: %s", channel)
			return
		}

		var event ChatEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			log.Printf("ChatHub: Failed to parse message from channel %s: %v", channel, err)
			return
		}
		if event.Type == "" {
			event.Type = "message"
		}
		event.Group = group

		h.BroadcastToGroup(group, event)
	})
}

// Shutdown gracefully closes all websocket connections
func (h *ChatHub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for group, clients := range h.groups {
		for client := range clients {
			if client.Conn == nil {
				continue
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage,
				[]byte(`{"type":"server_shutdown","message":"Server is shutting down"}`)); err != nil {
				log.Printf("failed to write shutdown message for user %d: %v", client.UserID, err)
			}
			if err := client.Conn.Close(); err != nil {
				log.Printf("failed to close websocket for user %d: %v", client.UserID, err)
			}
		}
		observability.ChatGroupConnections.WithLabelValues(group).Set(0)
	}

	h.groups = make(map[string]map[*Client]bool)
	return nil
}
