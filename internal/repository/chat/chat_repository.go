// File: internal/repository/chat/chat_repository.go
package chat

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/neochat/neochat/internal/domain"
)

var ErrChatNotFound = errors.New("chat not found")

type gormChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &gormChatRepository{db: db}
}

func (r *gormChatRepository) Create(ctx context.Context, chat *domain.Chat) (*domain.Chat, error) {
	if chat.ID == "" {
		return nil, errors.New("chat ID is required")
	}
	if len(chat.Participants) < 2 {
		return nil, errors.New("chat requires at least two participants")
	}

	if err := r.db.WithContext(ctx).Create(chat).Error; err != nil {
		log.Printf("[ChatRepository] Database error during chat creation: %v", err)
		return nil, errors.New("database error creating chat")
	}
	return chat, nil
}

func (r *gormChatRepository) FindByID(ctx context.Context, chatID string) (*domain.Chat, error) {
	if chatID == "" {
		return nil, ErrChatNotFound
	}

	var chat domain.Chat
	err := r.db.WithContext(ctx).First(&chat, "id = ?", chatID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatNotFound
		}
		log.Printf("[ChatRepository] Database query error for chat %q: %v", chatID, err)
		return nil, errors.New("database query failed")
	}
	return &chat, nil
}

// FindPrivateBetween scans private chats and matches the participant pair in
// memory. Participants are a JSON column and the collection is small, so a
// linear scan beats fighting the encoding in SQL.
func (r *gormChatRepository) FindPrivateBetween(ctx context.Context, a, b string) (*domain.Chat, error) {
	chats, err := r.FindPrivate(ctx)
	if err != nil {
		return nil, err
	}
	for i := range chats {
		c := &chats[i]
		if len(c.Participants) != 2 {
			continue
		}
		if c.HasParticipant(a) && c.HasParticipant(b) {
			return c, nil
		}
	}
	return nil, ErrChatNotFound
}

func (r *gormChatRepository) FindAll(ctx context.Context) ([]domain.Chat, error) {
	var chats []domain.Chat
	err := r.db.WithContext(ctx).Order("created_at asc, id asc").Find(&chats).Error
	if err != nil {
		log.Printf("[ChatRepository] Database error finding chats: %v", err)
		return nil, errors.New("database error fetching chats")
	}
	return chats, nil
}

func (r *gormChatRepository) FindPrivate(ctx context.Context) ([]domain.Chat, error) {
	var chats []domain.Chat
	err := r.db.WithContext(ctx).
		Where("type = ?", domain.ChatTypePrivate).
		Order("created_at asc, id asc").
		Find(&chats).Error
	if err != nil {
		log.Printf("[ChatRepository] Database error finding private chats: %v", err)
		return nil, errors.New("database error fetching private chats")
	}
	return chats, nil
}

func (r *gormChatRepository) Save(ctx context.Context, chat *domain.Chat) error {
	if chat.ID == "" {
		return ErrChatNotFound
	}
	if err := r.db.WithContext(ctx).Save(chat).Error; err != nil {
		log.Printf("[ChatRepository] Database error saving chat %q: %v", chat.ID, err)
		return errors.New("database error saving chat")
	}
	return nil
}

func (r *gormChatRepository) MarkRead(ctx context.Context, chatID string) error {
	return r.updateOne(ctx, chatID, map[string]interface{}{"unread_count": 0})
}

func (r *gormChatRepository) MarkAllRead(ctx context.Context) error {
	err := r.db.WithContext(ctx).Model(&domain.Chat{}).
		Where("unread_count > 0").
		Update("unread_count", 0).Error
	if err != nil {
		log.Printf("[ChatRepository] Database error marking all chats read: %v", err)
		return errors.New("database error marking all chats read")
	}
	return nil
}

func (r *gormChatRepository) IncrementUnread(ctx context.Context, chatID string) error {
	return r.updateOne(ctx, chatID, map[string]interface{}{
		"unread_count": gorm.Expr("unread_count + 1"),
	})
}

func (r *gormChatRepository) SetPinned(ctx context.Context, chatID string, pinned bool) error {
	return r.updateOne(ctx, chatID, map[string]interface{}{"is_pinned": pinned})
}

func (r *gormChatRepository) TotalUnread(ctx context.Context) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&domain.Chat{}).
		Select("COALESCE(SUM(unread_count), 0)").
		Scan(&total).Error
	if err != nil {
		log.Printf("[ChatRepository] Database error summing unread counts: %v", err)
		return 0, errors.New("database error summing unread counts")
	}
	return int(total), nil
}

func (r *gormChatRepository) DeleteAll(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Where("1 = 1").Delete(&domain.Chat{}).Error; err != nil {
		log.Printf("[ChatRepository] Database error clearing chats: %v", err)
		return errors.New("database error clearing chats")
	}
	return nil
}

func (r *gormChatRepository) updateOne(ctx context.Context, chatID string, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&domain.Chat{}).
		Where("id = ?", chatID).
		Updates(fields)
	if result.Error != nil {
		log.Printf("[ChatRepository] Database error updating chat %q: %v", chatID, result.Error)
		return errors.New("database error updating chat")
	}
	if result.RowsAffected == 0 {
		return ErrChatNotFound
	}
	return nil
}
