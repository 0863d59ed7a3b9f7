// File: internal/dtos/chat.go
package dtos

import (
	"time"

	"github.com/neochat/neochat/internal/domain"
)

// StartChatRequest opens (or resumes) a private chat with another user.
type StartChatRequest struct {
	Username string `json:"username"`
}

// SendMessageRequest is the send payload.
type SendMessageRequest struct {
	Text string `json:"text"`
}

// PinRequest pins or unpins a chat.
type PinRequest struct {
	Pinned bool `json:"pinned"`
}

// ChatResponse is a chat-list entry.
type ChatResponse struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	Participants    []string  `json:"participants"`
	Title           string    `json:"title"`
	AvatarLetters   string    `json:"avatar_letters"`
	LastMessage     string    `json:"last_message"`
	LastMessageTime time.Time `json:"last_message_time"`
	UnreadCount     int       `json:"unread_count"`
	IsPinned        bool      `json:"is_pinned"`
	CreatedAt       time.Time `json:"created_at"`
}

func NewChatResponse(c *domain.Chat) ChatResponse {
	return ChatResponse{
		ID:              c.ID,
		Type:            string(c.Type),
		Participants:    c.Participants,
		Title:           c.Title,
		AvatarLetters:   c.AvatarLetters,
		LastMessage:     c.LastMessage,
		LastMessageTime: c.LastMessageTime,
		UnreadCount:     c.UnreadCount,
		IsPinned:        c.IsPinned,
		CreatedAt:       c.CreatedAt,
	}
}

// MessageResponse is a thread entry. HTML carries the rendered markdown
// preview when the client asked for it.
type MessageResponse struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chat_id"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	HTML      string    `json:"html,omitempty"`
	Time      string    `json:"time"`
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status"`
}

func NewMessageResponse(m *domain.Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		ChatID:    m.ChatID,
		Sender:    m.Sender,
		Text:      m.Text,
		Time:      m.Time,
		Timestamp: m.Timestamp,
		Status:    string(m.Status),
	}
}
