// File: internal/domain/message.go
package domain

import (
	"strings"
	"time"
)

// MessageStatus is the delivery state of a message.
type MessageStatus string

const (
	StatusSent      MessageStatus = "sent"
	StatusDelivered MessageStatus = "delivered"
	StatusRead      MessageStatus = "read"
)

// Message is a single entry in a chat's log. Messages are append-only: after
// creation only Status may change, and nothing ever deletes a single message.
type Message struct {
	ID        string        `json:"id" gorm:"primarykey"`
	ChatID    string        `json:"chat_id" gorm:"not null;index"`
	Sender    string        `json:"sender" gorm:"not null"`
	Text      string        `json:"text" gorm:"not null"`
	Time      string        `json:"time"`
	Timestamp time.Time     `json:"timestamp" gorm:"index"`
	Status    MessageStatus `json:"status"`
}

// EqualUsernames compares two usernames the way the directory indexes them.
func EqualUsernames(a, b string) bool {
	return strings.EqualFold(a, b)
}
