package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"yatube/internal/models"
	"yatube/internal/notifications"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatService_SaveMessage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("persists a valid message", func(t *testing.T) {
		t.Parallel()
		var saved *models.ChatMessage
		chatRepo := noopChatRepo()
		chatRepo.createMessageFn = func(_ context.Context, m *models.ChatMessage) error {
			m.ID = 11
			m.Author = models.User{ID: m.AuthorID, Username: "leo"}
			saved = m
			return nil
		}
		svc := NewChatService(chatRepo, noopGroupRepo(), notifications.NewChatHub(), notifications.NewNotifier(nil), 20)

		msg, err := svc.SaveMessage(ctx, "cats", 1, "meow")
		require.NoError(t, err)
		assert.Equal(t, uint(11), msg.ID)
		assert.Equal(t, "meow", saved.Text)
		assert.Equal(t, uint(1), saved.AuthorID)
	})

	t.Run("empty message", func(t *testing.T) {
		t.Parallel()
		svc := NewChatService(noopChatRepo(), noopGroupRepo(), notifications.NewChatHub(), notifications.NewNotifier(nil), 20)
		_, err := svc.SaveMessage(ctx, "cats", 1, "   ")
		assertValidationError(t, err)
	})

	t.Run("message too long", func(t *testing.T) {
		t.Parallel()
		svc := NewChatService(noopChatRepo(), noopGroupRepo(), notifications.NewChatHub(), notifications.NewNotifier(nil), 20)
		_, err := svc.SaveMessage(ctx, "cats", 1, strings.Repeat("x", models.MaxChatMessageLen+1))
		assertValidationError(t, err)
	})

	t.Run("unknown group", func(t *testing.T) {
		t.Parallel()
		groupRepo := noopGroupRepo()
		groupRepo.getBySlugFn = func(_ context.Context, slug string) (*models.Group, error) {
			return nil, models.NewNotFoundError("Group", slug)
		}
		svc := NewChatService(noopChatRepo(), groupRepo, notifications.NewChatHub(), notifications.NewNotifier(nil), 20)
		_, err := svc.SaveMessage(ctx, "ghost", 1, "hello")
		assertNotFoundError(t, err)
	})

	t.Run("persistence failure means no message", func(t *testing.T) {
		t.Parallel()
		chatRepo := noopChatRepo()
		chatRepo.createMessageFn = func(_ context.Context, _ *models.ChatMessage) error {
			return models.NewInternalError(assert.AnError)
		}
		svc := NewChatService(chatRepo, noopGroupRepo(), notifications.NewChatHub(), notifications.NewNotifier(nil), 20)
		_, err := svc.SaveMessage(ctx, "cats", 1, "hello")
		assert.Error(t, err)
	})
}

func TestChatService_History_UsesConfiguredLimit(t *testing.T) {
	t.Parallel()

	var gotLimit int
	chatRepo := noopChatRepo()
	chatRepo.historyFn = func(_ context.Context, _ uint, limit int) ([]*models.ChatMessage, error) {
		gotLimit = limit
		return []*models.ChatMessage{{ID: 1, Text: "hi"}}, nil
	}

	svc := NewChatService(chatRepo, noopGroupRepo(), notifications.NewChatHub(), notifications.NewNotifier(nil), 20)
	msgs, err := svc.History(context.Background(), "cats")
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
	assert.Equal(t, 20, gotLimit)
}

func TestChatService_Broadcast_LocalFanout(t *testing.T) {
	t.Parallel()

	hub := notifications.NewChatHub()
	member := &notifications.Client{UserID: 2, Group: "cats", Send: make(chan []byte, 10)}
	hub.RegisterClient(member)

	svc := NewChatService(noopChatRepo(), noopGroupRepo(), hub, notifications.NewNotifier(nil), 20)
	svc.Broadcast(context.Background(), "cats", &models.ChatMessage{
		Text:   "meow",
		Author: models.User{Username: "leo"},
	})

	raw := <-member.Send
	var event notifications.ChatEvent
	require.NoError(t, json.Unmarshal(raw, &event))
	assert.Equal(t, "message", event.Type)
	assert.Equal(t, "cats", event.Group)
	assert.Equal(t, "leo", event.Username)
	assert.Equal(t, "meow", event.Message)

	_ = hub.Shutdown(context.Background())
}
