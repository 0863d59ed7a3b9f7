// File: internal/repository/message/message_repository.go
package message

import (
	"context"
	"errors"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/neochat/neochat/internal/domain"
)

type gormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

func (r *gormMessageRepository) Append(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	if msg.ID == "" || msg.ChatID == "" {
		return nil, errors.New("message ID and chat ID are required")
	}

	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		log.Printf("[MessageRepository] Database error appending message to chat %q: %v", msg.ChatID, err)
		return nil, errors.New("database error appending message")
	}
	return msg, nil
}

func (r *gormMessageRepository) FindByChatID(ctx context.Context, chatID string) ([]domain.Message, error) {
	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("timestamp asc, id asc").
		Find(&messages).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error fetching messages for chat %q: %v", chatID, err)
		return nil, errors.New("database error fetching messages")
	}
	return messages, nil
}

func (r *gormMessageRepository) MarkReadForChat(ctx context.Context, chatID, viewer string) error {
	err := r.db.WithContext(ctx).Model(&domain.Message{}).
		Where("chat_id = ? AND LOWER(sender) <> ? AND status <> ?",
			chatID, strings.ToLower(viewer), domain.StatusRead).
		Update("status", domain.StatusRead).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error marking messages read for chat %q: %v", chatID, err)
		return errors.New("database error marking messages read")
	}
	return nil
}

func (r *gormMessageRepository) CountByChatID(ctx context.Context, chatID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Message{}).
		Where("chat_id = ?", chatID).
		Count(&count).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error counting messages for chat %q: %v", chatID, err)
		return 0, errors.New("database error counting messages")
	}
	return count, nil
}

func (r *gormMessageRepository) DeleteAll(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Where("1 = 1").Delete(&domain.Message{}).Error; err != nil {
		log.Printf("[MessageRepository] Database error clearing messages: %v", err)
		return errors.New("database error clearing messages")
	}
	return nil
}
