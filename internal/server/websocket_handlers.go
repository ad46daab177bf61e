package server

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"yatube/internal/notifications"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// historyEntry is the shape of one message inside the history envelope
// delivered on connect.
type historyEntry struct {
	Username  string    `json:"username"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// WebSocketChatHandler handles WebSocket connections for per-group chat.
// The group slug in the path is the sole routing key: messages sent on this
// connection go to this group and nothing else.
func (s *Server) WebSocketChatHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		ctx := context.Background()

		// userID was set by AuthRequired (ticket or JWT)
		userIDVal := conn.Locals("userID")
		if userIDVal == nil {
			log.Printf("WebSocket Chat: Unauthenticated connection attempt")
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
			_ = conn.Close()
			return
		}
		userID := userIDVal.(uint)

		slug := conn.Params("slug")
		if _, err := s.groupRepo.GetBySlug(ctx, slug); err != nil {
			log.Printf("WebSocket Chat: user %d tried unknown group %q", userID, slug)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"group not found"}`))
			_ = conn.Close()
			return
		}

		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			log.Printf("WebSocket Chat: Failed to get user %d: %v", userID, err)
			_ = conn.Close()
			return
		}
		username := user.Username

		log.Printf("WebSocket: User %d (%s) connected to group %q", userID, username, slug)

		client := s.chatHub.Register(conn, userID, username, slug)

		client.IncomingHandler = func(c *notifications.Client, raw []byte) {
			var incoming struct {
				Message  string `json:"message"`
				Username string `json:"username"`
				Group    string `json:"group"`
			}
			if err := json.Unmarshal(raw, &incoming); err != nil {
				log.Printf("WebSocket: Invalid message format from user %d", userID)
				return
			}

			// The connection's authenticated identity and group win over
			// whatever the client put in the frame.
			saved, err := s.chatService.SaveMessage(ctx, c.Group, c.UserID, incoming.Message)
			if err != nil {
				response := notifications.ChatEvent{
					Type:    "error",
					Group:   c.Group,
					Payload: map[string]string{"message": err.Error()},
				}
				if respJSON, merr := json.Marshal(response); merr == nil {
					c.TrySend(respJSON)
				}
				return
			}

			// The row is on disk before anyone hears about it.
			s.chatService.Broadcast(ctx, c.Group, saved)
		}

		// Replay recent history so a joining client has context.
		if history, herr := s.chatService.History(ctx, slug); herr == nil {
			entries := make([]historyEntry, 0, len(history))
			for _, m := range history {
				entries = append(entries, historyEntry{
					Username:  m.Author.Username,
					Message:   m.Text,
					CreatedAt: m.CreatedAt,
				})
			}
			envelope := notifications.ChatEvent{
				Type:    "history",
				Group:   slug,
				Payload: entries,
			}
			if historyJSON, merr := json.Marshal(envelope); merr == nil {
				client.TrySend(historyJSON)
			}
		} else {
			log.Printf("WebSocket Chat: history load failed for group %q: %v", slug, herr)
		}

		// Write pump in a goroutine; read pump blocks until disconnect.
		go client.WritePump()
		client.ReadPump()
	})
}

// WebSocketUpgradeRequired rejects plain HTTP requests on websocket routes.
func WebSocketUpgradeRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}
