// File: internal/services/chat_services/controller.go
package chat_services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/neochat/neochat/internal/domain"
)

// Canned phrase sets driving the simulated conversation partners.
var replyPhrases = []string{
	"Got it!",
	"Sounds good 👍",
	"Haha, true",
	"Let me check and get back to you",
	"Sure, no problem",
	"Interesting, tell me more",
	"On my way",
	"Can we talk later?",
}

var incomingPhrases = []string{
	"Hey, are you there?",
	"Did you see the news?",
	"What are you up to?",
	"Call me when you're free",
	"Don't forget about tomorrow",
	"Check this out!",
	"Long time no see 🙂",
}

// PresenceDirectory is the slice of the user directory the presence
// simulation needs.
type PresenceDirectory interface {
	All(ctx context.Context) ([]domain.User, error)
	SetOnline(ctx context.Context, username string, online bool) error
}

// ChatController orchestrates user-initiated and simulated message flow on
// top of the chat store. All "network" activity here is fake: replies and
// incoming messages come from canned phrases on randomized timers.
type ChatController struct {
	store     *ChatService
	directory PresenceDirectory
	notifier  Notifier
	logger    Logger
	scheduler Scheduler
	rng       Rand

	replyDelayMin time.Duration
	replyDelayMax time.Duration
	presencePct   int

	// owner resolves the current session user at call time; "" when logged
	// out. The controller never holds the user itself.
	owner func() string

	mu         sync.Mutex
	openChatID string
}

func NewChatController(
	store *ChatService,
	directory PresenceDirectory,
	notifier Notifier,
	logger Logger,
	scheduler Scheduler,
	rng Rand,
	owner func() string,
) *ChatController {
	return &ChatController{
		store:         store,
		directory:     directory,
		notifier:      notifier,
		logger:        logger,
		scheduler:     scheduler,
		rng:           rng,
		replyDelayMin: time.Second,
		replyDelayMax: 3 * time.Second,
		presencePct:   20,
		owner:         owner,
	}
}

// SetReplyDelay overrides the simulated-reply delay window [min, max).
func (c *ChatController) SetReplyDelay(min, max time.Duration) {
	if min > 0 && max > min {
		c.replyDelayMin, c.replyDelayMax = min, max
	}
}

// SetPresenceFlipPercent overrides the per-tick presence flip probability.
func (c *ChatController) SetPresenceFlipPercent(pct int) {
	if pct >= 0 && pct <= 100 {
		c.presencePct = pct
	}
}

// SendMessage appends a user-authored message. Blank text and missing chats
// are silent no-ops. For private chats, exactly one simulated reply is
// scheduled after a randomized delay.
func (c *ChatController) SendMessage(ctx context.Context, chatID, sender, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	ch, err := c.store.Chat(ctx, chatID)
	if err != nil {
		if errors.Is(err, ErrChatNotFound) {
			c.logger.Debug("send into missing chat ignored", "chat_id", chatID)
			return nil
		}
		return err
	}

	msg := c.store.NewMessage(chatID, sender, text, domain.StatusSent)
	if err := c.store.AppendMessage(ctx, sender, msg); err != nil {
		if errors.Is(err, ErrChatNotFound) {
			return nil
		}
		return err
	}

	if ch.Type == domain.ChatTypePrivate {
		c.scheduleReply(chatID)
	}
	return nil
}

// scheduleReply arms a one-shot reply timer. The store generation is captured
// now and re-checked at fire time, so a ClearAll in between turns the
// callback into a no-op instead of resurrecting deleted state.
func (c *ChatController) scheduleReply(chatID string) {
	delay := c.replyDelayMin
	if window := c.replyDelayMax - c.replyDelayMin; window > 0 {
		delay += time.Duration(c.rng.Intn(int(window)))
	}

	gen := c.store.Generation()
	c.scheduler.AfterFunc(delay, func() {
		if c.store.Generation() != gen {
			c.logger.Debug("scheduled reply dropped, history cleared", "chat_id", chatID)
			return
		}
		c.SimulateReply(context.Background(), chatID)
	})
}

// SimulateReply appends a canned reply authored by the chat's other
// participant. Only meaningful for private chats; missing chats are
// tolerated as no-ops since the trigger is a timer.
func (c *ChatController) SimulateReply(ctx context.Context, chatID string) {
	ch, err := c.store.Chat(ctx, chatID)
	if err != nil {
		return
	}
	if ch.Type != domain.ChatTypePrivate {
		return
	}

	viewer := c.owner()
	author := ch.OtherParticipant(viewer)
	if author == "" {
		return
	}

	text := replyPhrases[c.rng.Intn(len(replyPhrases))]
	msg := c.store.NewMessage(chatID, author, text, domain.StatusDelivered)
	if err := c.store.AppendMessage(ctx, viewer, msg); err != nil {
		return
	}

	c.notifier.Notify("New message from "+author, SeverityInfo)
}

// SimulateIncomingMessage picks a random private chat and appends a canned
// message from the other participant. A no-op when no chats exist.
func (c *ChatController) SimulateIncomingMessage(ctx context.Context) {
	chats, err := c.store.PrivateChats(ctx)
	if err != nil || len(chats) == 0 {
		return
	}

	ch := chats[c.rng.Intn(len(chats))]
	viewer := c.owner()
	author := ch.OtherParticipant(viewer)
	if author == "" {
		return
	}

	text := incomingPhrases[c.rng.Intn(len(incomingPhrases))]
	msg := c.store.NewMessage(ch.ID, author, text, domain.StatusDelivered)
	if err := c.store.AppendMessage(ctx, viewer, msg); err != nil {
		return
	}

	c.notifier.Notify("New message from "+author, SeverityInfo)
}

// UpdatePresenceTick flips each user's online flag with a fixed probability,
// stamping or clearing last-seen accordingly. The session owner is skipped.
func (c *ChatController) UpdatePresenceTick(ctx context.Context) {
	users, err := c.directory.All(ctx)
	if err != nil {
		return
	}

	viewer := c.owner()
	for _, u := range users {
		if domain.EqualUsernames(u.Username, viewer) {
			continue
		}
		if c.rng.Intn(100) >= c.presencePct {
			continue
		}
		if err := c.directory.SetOnline(ctx, u.Username, !u.IsOnline); err != nil {
			c.logger.Debug("presence flip skipped", "username", u.Username, "error", err)
		}
	}
}

// Open marks a chat as the single open thread and zeroes its unread count.
// Opening a missing chat is a no-op.
func (c *ChatController) Open(ctx context.Context, chatID string) error {
	viewer := c.owner()
	if err := c.store.MarkRead(ctx, chatID, viewer); err != nil {
		if errors.Is(err, ErrChatNotFound) {
			return nil
		}
		return err
	}

	c.mu.Lock()
	c.openChatID = chatID
	c.mu.Unlock()
	return nil
}

// Close returns to the "no chat open" state.
func (c *ChatController) Close() {
	c.mu.Lock()
	c.openChatID = ""
	c.mu.Unlock()
}

// OpenChatID returns the currently open chat, or "".
func (c *ChatController) OpenChatID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.openChatID
}
