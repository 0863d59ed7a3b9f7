// File: internal/repository/message/interface.go
package message

import (
	"context"

	"github.com/neochat/neochat/internal/domain"
)

// MessageRepository abstracts persistence for per-chat message logs. Logs are
// append-only; the only mutation after creation is the delivery status.
type MessageRepository interface {
	Append(ctx context.Context, msg *domain.Message) (*domain.Message, error)
	FindByChatID(ctx context.Context, chatID string) ([]domain.Message, error)
	// MarkReadForChat flips every message in the chat that was not authored by
	// viewer to the read status.
	MarkReadForChat(ctx context.Context, chatID, viewer string) error
	CountByChatID(ctx context.Context, chatID string) (int64, error)
	DeleteAll(ctx context.Context) error
}
