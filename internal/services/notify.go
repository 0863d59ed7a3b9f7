// File: internal/services/notify.go
package services

import "sync"

// Severity classifies a user-facing notification. An alias, so service
// packages can declare their own Notifier interfaces without importing this
// one.
type Severity = string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification is a single event the presentation layer should surface.
type Notification struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Notifier is the sink core services call after state-changing operations
// (new message arrived, profile updated, settings saved, validation failed).
// The core never calls back into rendering beyond this.
type Notifier interface {
	Notify(message string, severity Severity)
}

// NoopNotifier discards every notification (for tests).
type NoopNotifier struct{}

func (NoopNotifier) Notify(string, Severity) {}

// Broadcaster fans notifications out to any number of subscribers. Used by
// the SSE events endpoint; subscribers that fall behind drop events instead
// of blocking the mutating caller.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[chan Notification]struct{}
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[chan Notification]struct{})}
}

// Notify implements Notifier.
func (b *Broadcaster) Notify(message string, severity Severity) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- Notification{Message: message, Severity: severity}:
		default:
		}
	}
}

// Subscribe registers a new listener. The returned cancel func must be called
// when the listener goes away.
func (b *Broadcaster) Subscribe() (<-chan Notification, func()) {
	ch := make(chan Notification, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		delete(b.subs, ch)
		b.mu.Unlock()
	}
	return ch, cancel
}
