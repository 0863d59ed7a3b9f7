// File: internal/services/settings_services/settings_service.go
package settings_services

import (
	"context"
	"encoding/json"

	"github.com/neochat/neochat/internal/domain"
	"github.com/neochat/neochat/internal/repository/prefs"
	"github.com/neochat/neochat/internal/services/chat_services"
)

// Logger interface for the settings service.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Notifier is the sink for user-visible events raised here.
type Notifier interface {
	Notify(message string, severity string)
}

// SettingsService manages the app-level settings blob and the
// profile-customization blob, and drives the history reset. Both blobs are
// opaque to the rest of the core; a missing blob always means defaults.
type SettingsService struct {
	prefs    prefs.PrefsRepository
	chats    *chat_services.ChatService
	notifier Notifier
	logger   Logger
}

func NewSettingsService(prefsRepo prefs.PrefsRepository, chats *chat_services.ChatService, notifier Notifier, logger Logger) *SettingsService {
	return &SettingsService{
		prefs:    prefsRepo,
		chats:    chats,
		notifier: notifier,
		logger:   logger,
	}
}

// AppSettings loads the stored settings, falling back to defaults when the
// key is absent or unreadable.
func (s *SettingsService) AppSettings(ctx context.Context) domain.Settings {
	raw, found, err := s.prefs.Get(ctx, prefs.KeyAppSettings)
	if err != nil || !found {
		return domain.DefaultSettings()
	}

	var settings domain.Settings
	if err := json.Unmarshal(raw, &settings); err != nil {
		s.logger.Warn("stored settings unreadable, using defaults", "error", err)
		return domain.DefaultSettings()
	}
	return settings
}

// SaveAppSettings persists the settings blob.
func (s *SettingsService) SaveAppSettings(ctx context.Context, settings domain.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	if err := s.prefs.Put(ctx, prefs.KeyAppSettings, raw); err != nil {
		return err
	}

	s.notifier.Notify("Settings saved", "success")
	return nil
}

// ResetAppSettings restores and persists the default settings record.
func (s *SettingsService) ResetAppSettings(ctx context.Context) (domain.Settings, error) {
	defaults := domain.DefaultSettings()
	raw, _ := json.Marshal(defaults)
	if err := s.prefs.Put(ctx, prefs.KeyAppSettings, raw); err != nil {
		return defaults, err
	}

	s.notifier.Notify("Settings reset to defaults", "success")
	return defaults, nil
}

// Profile loads the profile-customization blob; an empty profile when absent.
func (s *SettingsService) Profile(ctx context.Context) domain.Profile {
	raw, found, err := s.prefs.Get(ctx, prefs.KeyProfile)
	if err != nil || !found {
		return domain.Profile{}
	}

	var profile domain.Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return domain.Profile{}
	}
	return profile
}

// SaveProfile persists the profile-customization blob.
func (s *SettingsService) SaveProfile(ctx context.Context, profile domain.Profile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	if err := s.prefs.Put(ctx, prefs.KeyProfile, raw); err != nil {
		return err
	}

	s.notifier.Notify("Profile updated", "success")
	return nil
}

// ClearHistory empties all chats and message logs. Contacts survive.
func (s *SettingsService) ClearHistory(ctx context.Context) error {
	if err := s.chats.ClearAll(ctx); err != nil {
		s.notifier.Notify("Could not clear chat history", "error")
		return err
	}

	s.notifier.Notify("Chat history cleared", "success")
	return nil
}
