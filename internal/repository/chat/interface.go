// File: internal/repository/chat/interface.go
package chat

import (
	"context"

	"github.com/neochat/neochat/internal/domain"
)

// ChatRepository abstracts persistence for chat threads. Lookups on missing
// ids return ErrChatNotFound; mutating callers are expected to treat that as
// a no-op rather than a failure.
type ChatRepository interface {
	Create(ctx context.Context, chat *domain.Chat) (*domain.Chat, error)
	FindByID(ctx context.Context, chatID string) (*domain.Chat, error)
	// FindPrivateBetween returns the private chat whose participant set equals
	// {a, b} (order-insensitive), or ErrChatNotFound.
	FindPrivateBetween(ctx context.Context, a, b string) (*domain.Chat, error)
	FindAll(ctx context.Context) ([]domain.Chat, error)
	FindPrivate(ctx context.Context) ([]domain.Chat, error)
	Save(ctx context.Context, chat *domain.Chat) error
	MarkRead(ctx context.Context, chatID string) error
	MarkAllRead(ctx context.Context) error
	IncrementUnread(ctx context.Context, chatID string) error
	SetPinned(ctx context.Context, chatID string, pinned bool) error
	TotalUnread(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}
