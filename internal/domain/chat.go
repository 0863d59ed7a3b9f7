// File: internal/domain/chat.go
package domain

import "time"

// ChatType discriminates private (two-participant) and group threads.
type ChatType string

const (
	ChatTypePrivate ChatType = "private"
	ChatTypeGroup   ChatType = "group"
)

// Maximum preview length before the last-message text is cut with an ellipsis.
const previewLimit = 30

// Chat represents a single conversation thread.
//
// Invariant: at most one private chat exists per unordered pair of
// participants; the chat service enforces this on creation.
type Chat struct {
	ID              string    `json:"id" gorm:"primarykey"`
	Type            ChatType  `json:"type" gorm:"not null"`
	Participants    []string  `json:"participants" gorm:"serializer:json"`
	Title           string    `json:"title"`
	AvatarLetters   string    `json:"avatar_letters"`
	LastMessage     string    `json:"last_message"`
	LastMessageTime time.Time `json:"last_message_time"`
	UnreadCount     int       `json:"unread_count"`
	IsPinned        bool      `json:"is_pinned"`
	CreatedAt       time.Time `json:"created_at"`
}

// OtherParticipant returns the participant that is not self. Meaningful for
// private chats only; returns "" when self is the only participant.
func (c *Chat) OtherParticipant(self string) string {
	for _, p := range c.Participants {
		if !EqualUsernames(p, self) {
			return p
		}
	}
	return ""
}

// HasParticipant reports whether username is part of the chat.
func (c *Chat) HasParticipant(username string) bool {
	for _, p := range c.Participants {
		if EqualUsernames(p, username) {
			return true
		}
	}
	return false
}

// ActivityTime is the sort key for the chat list: the last message time, or
// the creation time for chats that have no messages yet.
func (c *Chat) ActivityTime() time.Time {
	if c.LastMessageTime.IsZero() {
		return c.CreatedAt
	}
	return c.LastMessageTime
}

// PreviewText truncates message text for the chat-list preview. Counts runes,
// not bytes, so multi-byte text is never cut mid-character.
func PreviewText(text string) string {
	r := []rune(text)
	if len(r) <= previewLimit {
		return text
	}
	return string(r[:previewLimit]) + "…"
}
