package repository

import (
	"fmt"

	"gorm.io/gorm"

	"medichat/internal/model"
)

type ChatMessageRepository struct {
	db *gorm.DB
}

// ChatMessageWithUser is one chat turn enriched with its owner, for the
// admin-wide history view.
type ChatMessageWithUser struct {
	model.ChatMessage
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

func NewChatMessageRepository(db *gorm.DB) *ChatMessageRepository {
	return &ChatMessageRepository{db: db}
}

func (r *ChatMessageRepository) Create(message *model.ChatMessage) error {
	if err := r.db.Create(message).Error; err != nil {
		return fmt.Errorf("create chat message failed: %w", err)
	}
	return nil
}

// ListByUserID returns the user's turns oldest-first. The secondary order on
// id keeps same-timestamp turns in insertion order.
func (r *ChatMessageRepository) ListByUserID(userID uint) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	if err := r.db.Where("user_id = ?", userID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("list chat messages failed: %w", err)
	}
	return messages, nil
}

func (r *ChatMessageRepository) ListAllWithUsers() ([]ChatMessageWithUser, error) {
	var rows []ChatMessageWithUser
	if err := r.db.Model(&model.ChatMessage{}).
		Select("chat_messages.*, users.name AS user_name, users.email AS user_email").
		Joins("JOIN users ON users.id = chat_messages.user_id").
		Order("chat_messages.created_at ASC").
		Order("chat_messages.id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list all chat messages failed: %w", err)
	}
	return rows, nil
}
