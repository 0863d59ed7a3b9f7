// File: internal/services/settings_services/settings_service_test.go
package settings_services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/neochat/neochat/internal/domain"
	"github.com/neochat/neochat/internal/repository/chat"
	"github.com/neochat/neochat/internal/repository/contact"
	"github.com/neochat/neochat/internal/repository/message"
	"github.com/neochat/neochat/internal/repository/prefs"
	"github.com/neochat/neochat/internal/repository/user"
	"github.com/neochat/neochat/internal/services"
	"github.com/neochat/neochat/internal/services/chat_services"
)

type captureNotifier struct {
	mu     sync.Mutex
	events []string
}

func (c *captureNotifier) Notify(message string, severity string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, severity+": "+message)
}

func (c *captureNotifier) last() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.events) == 0 {
		return ""
	}
	return c.events[len(c.events)-1]
}

type fixture struct {
	settings *SettingsService
	chats    *chat_services.ChatService
	users    user.UserRepository
	notifier *captureNotifier
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func newFixture(t *testing.T) fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("getting sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&domain.User{}, &domain.Chat{}, &domain.Message{}, &contact.Contact{}, &prefs.Blob{}); err != nil {
		t.Fatalf("migrating: %v", err)
	}

	users := user.NewGormUserRepository(db)
	chats := chat_services.NewChatService(
		chat.NewChatRepository(db),
		message.NewMessageRepository(db),
		contact.NewContactRepository(db),
		users,
		&services.NoOpLogger{},
		fixedClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
	)
	notifier := &captureNotifier{}
	return fixture{
		settings: NewSettingsService(prefs.NewPrefsRepository(db), chats, notifier, &services.NoOpLogger{}),
		chats:    chats,
		users:    users,
		notifier: notifier,
	}
}

func TestAppSettingsDefaultsWhenUnset(t *testing.T) {
	f := newFixture(t)
	got := f.settings.AppSettings(context.Background())
	if got != domain.DefaultSettings() {
		t.Errorf("unset settings = %+v, want defaults", got)
	}
}

func TestSaveAndReloadAppSettings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	custom := domain.DefaultSettings()
	custom.Theme = "light"
	custom.Sound = false
	custom.BorderRadius = 4

	if err := f.settings.SaveAppSettings(ctx, custom); err != nil {
		t.Fatalf("SaveAppSettings failed: %v", err)
	}
	if f.notifier.last() != "success: Settings saved" {
		t.Errorf("unexpected notification %q", f.notifier.last())
	}

	got := f.settings.AppSettings(ctx)
	if got != custom {
		t.Errorf("reloaded settings = %+v, want %+v", got, custom)
	}
}

func TestResetAppSettings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	custom := domain.DefaultSettings()
	custom.Theme = "light"
	if err := f.settings.SaveAppSettings(ctx, custom); err != nil {
		t.Fatalf("SaveAppSettings failed: %v", err)
	}

	defaults, err := f.settings.ResetAppSettings(ctx)
	if err != nil {
		t.Fatalf("ResetAppSettings failed: %v", err)
	}
	if defaults != domain.DefaultSettings() {
		t.Errorf("reset returned %+v", defaults)
	}
	if got := f.settings.AppSettings(ctx); got != domain.DefaultSettings() {
		t.Errorf("settings after reset = %+v", got)
	}
}

func TestProfileRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if got := f.settings.Profile(ctx); got != (domain.Profile{}) {
		t.Errorf("unset profile = %+v, want empty", got)
	}

	p := domain.Profile{AccentColor: "#ff0066", Banner: "gradient-1"}
	if err := f.settings.SaveProfile(ctx, p); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}
	if got := f.settings.Profile(ctx); got != p {
		t.Errorf("reloaded profile = %+v, want %+v", got, p)
	}
}

func TestClearHistoryKeepsContactsAndSettings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, name := range []string{"alex", "maria"} {
		u := &domain.User{Username: name, DisplayName: name, IsOnline: true}
		if err := u.SetPassword("secret1"); err != nil {
			t.Fatalf("hashing password: %v", err)
		}
		if _, err := f.users.Create(ctx, u); err != nil {
			t.Fatalf("creating user %q: %v", name, err)
		}
	}

	ch, err := f.chats.FindOrCreatePrivateChat(ctx, "alex", "maria")
	if err != nil {
		t.Fatalf("FindOrCreatePrivateChat failed: %v", err)
	}
	msg := f.chats.NewMessage(ch.ID, "alex", "hello", domain.StatusSent)
	if err := f.chats.AppendMessage(ctx, "alex", msg); err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}

	custom := domain.DefaultSettings()
	custom.Theme = "light"
	if err := f.settings.SaveAppSettings(ctx, custom); err != nil {
		t.Fatalf("SaveAppSettings failed: %v", err)
	}

	if err := f.settings.ClearHistory(ctx); err != nil {
		t.Fatalf("ClearHistory failed: %v", err)
	}
	if f.notifier.last() != "success: Chat history cleared" {
		t.Errorf("unexpected notification %q", f.notifier.last())
	}

	chats, _ := f.chats.ListChats(ctx, chat_services.ChatsAll)
	if len(chats) != 0 {
		t.Errorf("%d chats survived ClearHistory", len(chats))
	}
	msgs, _ := f.chats.Messages(ctx, ch.ID)
	if len(msgs) != 0 {
		t.Errorf("%d messages survived ClearHistory", len(msgs))
	}

	contacts, _ := f.chats.Contacts(ctx, "alex")
	if len(contacts) != 1 {
		t.Errorf("contacts wiped by ClearHistory: %v", contacts)
	}
	if got := f.settings.AppSettings(ctx); got != custom {
		t.Errorf("settings wiped by ClearHistory: %+v", got)
	}
}
