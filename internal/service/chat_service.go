package service

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"yatube/internal/models"
	"yatube/internal/notifications"
	"yatube/internal/repository"
)

// ChatService handles group chat persistence and fan-out. A message is
// persisted before anything is broadcast, so a delivery failure can never
// leave phantom messages on screens that were never stored.
type ChatService struct {
	chatRepo     repository.ChatRepository
	groupRepo    repository.GroupRepository
	hub          *notifications.ChatHub
	notifier     *notifications.Notifier
	historyLimit int
}

func NewChatService(
	chatRepo repository.ChatRepository,
	groupRepo repository.GroupRepository,
	hub *notifications.ChatHub,
	notifier *notifications.Notifier,
	historyLimit int,
) *ChatService {
	return &ChatService{
		chatRepo:     chatRepo,
		groupRepo:    groupRepo,
		hub:          hub,
		notifier:     notifier,
		historyLimit: historyLimit,
	}
}

// History returns the most recent window of a group's messages, oldest first.
func (s *ChatService) History(ctx context.Context, slug string) ([]*models.ChatMessage, error) {
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.chatRepo.History(ctx, group.ID, s.historyLimit)
}

// SaveMessage validates and persists one chat message for the group.
func (s *ChatService) SaveMessage(ctx context.Context, slug string, userID uint, text string) (*models.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, models.NewValidationError("Message is required")
	}
	if len(text) > models.MaxChatMessageLen {
		return nil, models.NewValidationError("Message too long (max 300 characters)")
	}

	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	message := &models.ChatMessage{
		GroupID:  group.ID,
		AuthorID: userID,
		Text:     text,
	}
	if err := s.chatRepo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

// Broadcast fans a persisted message out to the group. With Redis attached
// the event goes through pub/sub so every instance's hub sees it; without,
// it reaches local connections only. Delivery is best effort either way.
func (s *ChatService) Broadcast(ctx context.Context, slug string, message *models.ChatMessage) {
	event := notifications.ChatEvent{
		Type:     "message",
		Group:    slug,
		Username: message.Author.Username,
		Message:  message.Text,
	}

	if s.notifier.Enabled() {
		payload, err := json.Marshal(event)
		if err != nil {
			log.Printf("ChatService: marshal broadcast for group %q: %v", slug, err)
			return
		}
		if err := s.notifier.PublishGroupMessage(ctx, slug, string(payload)); err != nil {
			log.Printf("ChatService: publish to group %q failed, falling back to local: %v", slug, err)
			s.hub.BroadcastToGroup(slug, event)
		}
		return
	}

	s.hub.BroadcastToGroup(slug, event)
}
