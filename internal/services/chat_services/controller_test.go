// File: internal/services/chat_services/controller_test.go
package chat_services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/neochat/neochat/internal/domain"
	"github.com/neochat/neochat/internal/services"
	"github.com/neochat/neochat/internal/services/user_services"
)

// fakeScheduler captures callbacks so tests fire them deterministically.
type fakeScheduler struct {
	mu      sync.Mutex
	pending []func()
	delays  []time.Duration
}

func (s *fakeScheduler) AfterFunc(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, fn)
	s.delays = append(s.delays, d)
}

// fire runs and drains every pending callback.
func (s *fakeScheduler) fire() {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()
	for _, fn := range pending {
		fn()
	}
}

func (s *fakeScheduler) pendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) Notify(message string, severity string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, severity+": "+message)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}

type controllerFixture struct {
	storeFixture
	controller *ChatController
	scheduler  *fakeScheduler
	notifier   *recordingNotifier
	directory  *user_services.DirectoryService
}

func newControllerFixture(t *testing.T) controllerFixture {
	t.Helper()
	sf := newStoreFixture(t)
	scheduler := &fakeScheduler{}
	notifier := &recordingNotifier{}
	directory := user_services.NewDirectoryService(sf.users, sf.contacts, &services.NoOpLogger{})

	controller := NewChatController(
		sf.store,
		directory,
		notifier,
		&services.NoOpLogger{},
		scheduler,
		NewLockedRand(42),
		func() string { return "alex" },
	)
	return controllerFixture{
		storeFixture: sf,
		controller:   controller,
		scheduler:    scheduler,
		notifier:     notifier,
		directory:    directory,
	}
}

func TestSendMessageSchedulesExactlyOneReply(t *testing.T) {
	f := newControllerFixture(t)
	ctx := context.Background()
	f.addUser(t, "alex", "Alex")
	f.addUser(t, "maria", "Maria")

	ch, err := f.store.FindOrCreatePrivateChat(ctx, "alex", "maria")
	if err != nil {
		t.Fatalf("FindOrCreatePrivateChat failed: %v", err)
	}

	if err := f.controller.SendMessage(ctx, ch.ID, "alex", "Hello"); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if got := f.scheduler.pendingCount(); got != 1 {
		t.Fatalf("%d replies scheduled, want 1", got)
	}

	delay := f.scheduler.delays[0]
	if delay < time.Second || delay >= 3*time.Second {
		t.Errorf("reply delay %v outside [1s, 3s)", delay)
	}

	f.scheduler.fire()

	msgs, err := f.store.Messages(ctx, ch.ID)
	if err != nil {
		t.Fatalf("Messages failed: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want user message plus reply", len(msgs))
	}
	reply := msgs[1]
	if !domain.EqualUsernames(reply.Sender, "maria") {
		t.Errorf("reply authored by %q, want maria", reply.Sender)
	}
	if reply.Status != domain.StatusDelivered {
		t.Errorf("reply status = %q, want delivered", reply.Status)
	}

	// Reply comes from the other side, so it counts as unread for the owner.
	total, _ := f.store.TotalUnread(ctx)
	if total != 1 {
		t.Errorf("total unread after reply = %d, want 1", total)
	}
	if f.notifier.count() != 1 {
		t.Errorf("%d notifications, want 1", f.notifier.count())
	}

	if err := f.store.MarkRead(ctx, ch.ID, "alex"); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	total, _ = f.store.TotalUnread(ctx)
	if total != 0 {
		t.Errorf("total unread after MarkRead = %d, want 0", total)
	}
}

func TestSendMessageBlankTextIsNoop(t *testing.T) {
	f := newControllerFixture(t)
	ctx := context.Background()
	f.addUser(t, "alex", "Alex")
	f.addUser(t, "maria", "Maria")
	ch, _ := f.store.FindOrCreatePrivateChat(ctx, "alex", "maria")

	for _, text := range []string{"", "   ", "\n\t"} {
		if err := f.controller.SendMessage(ctx, ch.ID, "alex", text); err != nil {
			t.Fatalf("SendMessage(%q) failed: %v", text, err)
		}
	}

	msgs, _ := f.store.Messages(ctx, ch.ID)
	if len(msgs) != 0 {
		t.Errorf("blank sends stored %d messages", len(msgs))
	}
	if f.scheduler.pendingCount() != 0 {
		t.Error("blank send scheduled a reply")
	}
}

func TestSendMessageMissingChatIsNoop(t *testing.T) {
	f := newControllerFixture(t)
	if err := f.controller.SendMessage(context.Background(), "ghost", "alex", "Hello"); err != nil {
		t.Fatalf("send into missing chat surfaced an error: %v", err)
	}
	if f.scheduler.pendingCount() != 0 {
		t.Error("missing chat send scheduled a reply")
	}
}

func TestClearAllCancelsPendingReply(t *testing.T) {
	f := newControllerFixture(t)
	ctx := context.Background()
	f.addUser(t, "alex", "Alex")
	f.addUser(t, "maria", "Maria")
	ch, _ := f.store.FindOrCreatePrivateChat(ctx, "alex", "maria")

	if err := f.controller.SendMessage(ctx, ch.ID, "alex", "Hello"); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if err := f.store.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll failed: %v", err)
	}

	// The timer fires after the wipe; the captured generation is stale and
	// the callback must not write anything.
	f.scheduler.fire()

	chats, _ := f.store.ListChats(ctx, ChatsAll)
	if len(chats) != 0 {
		t.Errorf("stale reply resurrected %d chats", len(chats))
	}
	msgs, _ := f.store.Messages(ctx, ch.ID)
	if len(msgs) != 0 {
		t.Errorf("stale reply stored %d messages", len(msgs))
	}
	if f.notifier.count() != 0 {
		t.Error("stale reply raised a notification")
	}
}

func TestSimulateReplyOnMissingChatIsNoop(t *testing.T) {
	f := newControllerFixture(t)
	f.controller.SimulateReply(context.Background(), "ghost")
	if f.notifier.count() != 0 {
		t.Error("reply into missing chat raised a notification")
	}
}

func TestSimulateIncomingMessage(t *testing.T) {
	f := newControllerFixture(t)
	ctx := context.Background()

	// No chats at all: silently does nothing.
	f.controller.SimulateIncomingMessage(ctx)
	if f.notifier.count() != 0 {
		t.Fatal("incoming simulation notified without any chats")
	}

	f.addUser(t, "alex", "Alex")
	f.addUser(t, "maria", "Maria")
	ch, _ := f.store.FindOrCreatePrivateChat(ctx, "alex", "maria")

	f.controller.SimulateIncomingMessage(ctx)

	msgs, _ := f.store.Messages(ctx, ch.ID)
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if !domain.EqualUsernames(msgs[0].Sender, "maria") {
		t.Errorf("incoming message authored by %q, want maria", msgs[0].Sender)
	}
	total, _ := f.store.TotalUnread(ctx)
	if total != 1 {
		t.Errorf("total unread = %d, want 1", total)
	}
}

func TestUpdatePresenceTickSkipsOwner(t *testing.T) {
	f := newControllerFixture(t)
	ctx := context.Background()
	f.addUser(t, "alex", "Alex")
	f.addUser(t, "maria", "Maria")
	f.addUser(t, "jamie", "Jamie")

	// Flip every non-owner on each tick.
	f.controller.SetPresenceFlipPercent(100)
	f.controller.UpdatePresenceTick(ctx)

	all, err := f.directory.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	for _, u := range all {
		if domain.EqualUsernames(u.Username, "alex") {
			if !u.IsOnline {
				t.Error("presence simulation touched the session owner")
			}
			continue
		}
		if u.IsOnline {
			t.Errorf("%q not flipped offline", u.Username)
		}
		if u.LastSeen == nil {
			t.Errorf("%q flipped offline without a last-seen stamp", u.Username)
		}
	}

	// Zero percent: nobody moves.
	f.controller.SetPresenceFlipPercent(0)
	f.controller.UpdatePresenceTick(ctx)
	all, _ = f.directory.All(ctx)
	for _, u := range all {
		if domain.EqualUsernames(u.Username, "alex") {
			continue
		}
		if u.IsOnline {
			t.Errorf("%q flipped with zero probability", u.Username)
		}
	}
}

func TestOpenMarksReadAndTracksChat(t *testing.T) {
	f := newControllerFixture(t)
	ctx := context.Background()
	f.addUser(t, "alex", "Alex")
	f.addUser(t, "maria", "Maria")
	ch, _ := f.store.FindOrCreatePrivateChat(ctx, "alex", "maria")

	msg := f.store.NewMessage(ch.ID, "maria", "ping", domain.StatusDelivered)
	if err := f.store.AppendMessage(ctx, "alex", msg); err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}

	if err := f.controller.Open(ctx, ch.ID); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if f.controller.OpenChatID() != ch.ID {
		t.Errorf("open chat = %q, want %q", f.controller.OpenChatID(), ch.ID)
	}
	total, _ := f.store.TotalUnread(ctx)
	if total != 0 {
		t.Errorf("opening did not clear unread: %d", total)
	}

	f.controller.Close()
	if f.controller.OpenChatID() != "" {
		t.Error("Close did not clear the open chat")
	}
}

func TestOpenMissingChatIsNoop(t *testing.T) {
	f := newControllerFixture(t)
	if err := f.controller.Open(context.Background(), "ghost"); err != nil {
		t.Fatalf("opening a missing chat surfaced an error: %v", err)
	}
	if f.controller.OpenChatID() != "" {
		t.Error("missing chat recorded as open")
	}
}
