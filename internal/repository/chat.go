package repository

import (
	"context"

	"yatube/internal/models"

	"gorm.io/gorm"
)

// ChatRepository defines the interface for chat message persistence
type ChatRepository interface {
	CreateMessage(ctx context.Context, message *models.ChatMessage) error
	History(ctx context.Context, groupID uint, limit int) ([]*models.ChatMessage, error)
}

// chatRepository implements ChatRepository
type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) CreateMessage(ctx context.Context, message *models.ChatMessage) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return models.NewInternalError(err)
	}
	if err := r.db.WithContext(ctx).Preload("Author").First(message, message.ID).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// History returns the most recent messages for a group in chronological
// order. The window is selected newest-first and reversed so clients can
// render it top to bottom.
func (r *chatRepository) History(ctx context.Context, groupID uint, limit int) ([]*models.ChatMessage, error) {
	var messages []*models.ChatMessage
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("group_id = ?", groupID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	// Reverse messages to return them in chronological order (oldest -> newest)
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
