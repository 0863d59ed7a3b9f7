// File: internal/services/chat_services/chat_service.go
package chat_services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/neochat/neochat/internal/domain"
	"github.com/neochat/neochat/internal/repository/chat"
	"github.com/neochat/neochat/internal/repository/contact"
	"github.com/neochat/neochat/internal/repository/message"
	"github.com/neochat/neochat/internal/repository/user"
)

// ErrChatNotFound is re-exported for callers that only import the service
// layer. Mutating callers no-op on it.
var ErrChatNotFound = chat.ErrChatNotFound

// ChatFilter narrows the chat list.
type ChatFilter string

const (
	ChatsAll    ChatFilter = "all"
	ChatsUnread ChatFilter = "unread"
	ChatsPinned ChatFilter = "pinned"
	ChatsGroups ChatFilter = "groups"
)

// ChatService owns chats, per-chat message logs and the contact set, and
// derives the chat-list summaries.
type ChatService struct {
	chats    chat.ChatRepository
	messages message.MessageRepository
	contacts contact.ContactRepository
	users    user.UserRepository
	logger   Logger
	clock    Clock

	// generation invalidates scheduled simulator callbacks across ClearAll:
	// a callback captured under an older generation must not mutate state.
	generation atomic.Uint64
}

func NewChatService(
	chats chat.ChatRepository,
	messages message.MessageRepository,
	contacts contact.ContactRepository,
	users user.UserRepository,
	logger Logger,
	clock Clock,
) *ChatService {
	return &ChatService{
		chats:    chats,
		messages: messages,
		contacts: contacts,
		users:    users,
		logger:   logger,
		clock:    clock,
	}
}

// Generation returns the current invalidation counter. Scheduled mutations
// capture it and bail out when it has moved on by fire time.
func (s *ChatService) Generation() uint64 { return s.generation.Load() }

// Chat returns the thread by id, or ErrChatNotFound.
func (s *ChatService) Chat(ctx context.Context, chatID string) (*domain.Chat, error) {
	return s.chats.FindByID(ctx, chatID)
}

// FindOrCreatePrivateChat returns the existing private chat between self and
// other, or creates one. The pair is unordered: (A,B) and (B,A) resolve to
// the same thread. Creation adds other to the contact set (idempotent).
func (s *ChatService) FindOrCreatePrivateChat(ctx context.Context, self, other string) (*domain.Chat, error) {
	if existing, err := s.chats.FindPrivateBetween(ctx, self, other); err == nil {
		return existing, nil
	} else if !errors.Is(err, chat.ErrChatNotFound) {
		return nil, err
	}

	peer, err := s.users.FindByUsername(ctx, other)
	if err != nil {
		return nil, fmt.Errorf("cannot start chat with %q: %w", other, err)
	}

	now := s.clock.Now()
	newChat := &domain.Chat{
		ID:            newChatID(now),
		Type:          domain.ChatTypePrivate,
		Participants:  []string{self, peer.Username},
		Title:         peer.DisplayName,
		AvatarLetters: peer.AvatarLetters,
		LastMessage:   "New chat",
		UnreadCount:   0,
		IsPinned:      false,
		CreatedAt:     now,
	}

	created, err := s.chats.Create(ctx, newChat)
	if err != nil {
		return nil, err
	}
	if err := s.contacts.Add(ctx, self, peer.Username); err != nil {
		s.logger.Warn("could not add contact", "owner", self, "contact", peer.Username, "error", err)
	}

	s.logger.Info("private chat created", "chat_id", created.ID, "participants", created.Participants)
	return created, nil
}

// NewMessage builds a message stamped with the service clock.
func (s *ChatService) NewMessage(chatID, sender, text string, status domain.MessageStatus) *domain.Message {
	now := s.clock.Now()
	return &domain.Message{
		ID:        newMessageID(now),
		ChatID:    chatID,
		Sender:    sender,
		Text:      text,
		Time:      now.Format("15:04"),
		Timestamp: now,
		Status:    status,
	}
}

// AppendMessage appends to the chat's log and refreshes the summary: preview
// text, last-message time, and the unread count — which grows only when the
// sender is somebody other than the viewer.
func (s *ChatService) AppendMessage(ctx context.Context, viewer string, msg *domain.Message) error {
	ch, err := s.chats.FindByID(ctx, msg.ChatID)
	if err != nil {
		return err
	}

	if _, err := s.messages.Append(ctx, msg); err != nil {
		return err
	}

	ch.LastMessage = domain.PreviewText(msg.Text)
	ch.LastMessageTime = msg.Timestamp
	if err := s.chats.Save(ctx, ch); err != nil {
		return err
	}

	if !domain.EqualUsernames(msg.Sender, viewer) {
		if err := s.chats.IncrementUnread(ctx, msg.ChatID); err != nil && !errors.Is(err, chat.ErrChatNotFound) {
			return err
		}
	}
	return nil
}

// Messages returns the chat's ordered log.
func (s *ChatService) Messages(ctx context.Context, chatID string) ([]domain.Message, error) {
	return s.messages.FindByChatID(ctx, chatID)
}

// MarkRead zeroes the chat's unread count and flips incoming messages to the
// read status.
func (s *ChatService) MarkRead(ctx context.Context, chatID, viewer string) error {
	if err := s.chats.MarkRead(ctx, chatID); err != nil {
		return err
	}
	return s.messages.MarkReadForChat(ctx, chatID, viewer)
}

// MarkAllRead zeroes every chat's unread count.
func (s *ChatService) MarkAllRead(ctx context.Context) error {
	return s.chats.MarkAllRead(ctx)
}

// TotalUnread sums unread counts over all chats.
func (s *ChatService) TotalUnread(ctx context.Context) (int, error) {
	return s.chats.TotalUnread(ctx)
}

// SetPinned pins or unpins a chat in the list.
func (s *ChatService) SetPinned(ctx context.Context, chatID string, pinned bool) error {
	return s.chats.SetPinned(ctx, chatID, pinned)
}

// ListChats returns chats for the list view: pinned first, then most recent
// activity (creation time for chats without messages). The sort is stable, so
// equal keys keep insertion order.
func (s *ChatService) ListChats(ctx context.Context, filter ChatFilter) ([]domain.Chat, error) {
	all, err := s.chats.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]domain.Chat, 0, len(all))
	for _, c := range all {
		switch filter {
		case ChatsUnread:
			if c.UnreadCount == 0 {
				continue
			}
		case ChatsPinned:
			if !c.IsPinned {
				continue
			}
		case ChatsGroups:
			if c.Type != domain.ChatTypeGroup {
				continue
			}
		}
		filtered = append(filtered, c)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := &filtered[i], &filtered[j]
		if a.IsPinned != b.IsPinned {
			return a.IsPinned
		}
		return a.ActivityTime().After(b.ActivityTime())
	})
	return filtered, nil
}

// PrivateChats returns every private thread (used by the simulator).
func (s *ChatService) PrivateChats(ctx context.Context) ([]domain.Chat, error) {
	return s.chats.FindPrivate(ctx)
}

// Contacts returns the owner's contact set in insertion order.
func (s *ChatService) Contacts(ctx context.Context, owner string) ([]string, error) {
	return s.contacts.List(ctx, owner)
}

// ClearAll empties chats and message logs (history reset). Contacts are
// untouched. Pending scheduled simulations are invalidated via the
// generation counter.
func (s *ChatService) ClearAll(ctx context.Context) error {
	if err := s.messages.DeleteAll(ctx); err != nil {
		return err
	}
	if err := s.chats.DeleteAll(ctx); err != nil {
		return err
	}
	s.generation.Add(1)
	s.logger.Info("chat history cleared")
	return nil
}

func newChatID(now time.Time) string {
	return fmt.Sprintf("chat_%d_%s", now.UnixMilli(), shortID())
}

func newMessageID(now time.Time) string {
	return fmt.Sprintf("msg_%d_%s", now.UnixMilli(), shortID())
}

// shortID is the random suffix that keeps same-millisecond ids unique.
func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
