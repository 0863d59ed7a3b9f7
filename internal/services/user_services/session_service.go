// File: internal/services/user_services/session_service.go
package user_services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/neochat/neochat/internal/domain"
	"github.com/neochat/neochat/internal/repository/prefs"
)

// SessionService is a two-state machine over {LoggedOut, LoggedIn}. It holds
// a non-owning reference to the current user and persists the session
// username so a restart can rehydrate it against the directory.
type SessionService struct {
	directory *DirectoryService
	prefs     prefs.PrefsRepository
	notifier  Notifier
	logger    Logger

	mu      sync.Mutex
	current *domain.User
}

type sessionBlob struct {
	Username string `json:"username"`
}

func NewSessionService(directory *DirectoryService, prefsRepo prefs.PrefsRepository, notifier Notifier, logger Logger) *SessionService {
	return &SessionService{
		directory: directory,
		prefs:     prefsRepo,
		notifier:  notifier,
		logger:    logger,
	}
}

// Login transitions LoggedOut -> LoggedIn on valid credentials; on failure
// the state is unchanged and the auth error is surfaced to the caller.
func (s *SessionService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	u, err := s.directory.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	s.setCurrent(ctx, u)
	s.notifier.Notify("Welcome back, "+u.DisplayName, SeveritySuccess)
	return u, nil
}

// Register creates the account and auto-authenticates it.
func (s *SessionService) Register(ctx context.Context, form RegistrationForm) (*domain.User, error) {
	u, err := s.directory.Register(ctx, form)
	if err != nil {
		if _, ok := AsValidationError(err); ok {
			s.notifier.Notify(err.Error(), SeverityError)
		}
		return nil, err
	}

	s.setCurrent(ctx, u)
	s.notifier.Notify("Account created. Welcome to NeoChat!", SeveritySuccess)
	return u, nil
}

// Logout marks the user offline with a last-seen stamp and clears the held
// session reference. A no-op when already logged out.
func (s *SessionService) Logout(ctx context.Context) {
	s.mu.Lock()
	current := s.current
	s.current = nil
	s.mu.Unlock()

	if current == nil {
		return
	}

	if err := s.directory.SetOnline(ctx, current.Username, false); err != nil && !errors.Is(err, ErrUserNotFound) {
		s.logger.Warn("could not mark user offline on logout", "username", current.Username, "error", err)
	}
	if err := s.prefs.Delete(ctx, prefs.KeySession); err != nil {
		s.logger.Warn("could not clear persisted session", "error", err)
	}
	s.logger.Info("session ended", "username", current.Username)
}

// CurrentUser returns the logged-in user, or nil when logged out.
func (s *SessionService) CurrentUser() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Restore rehydrates the persisted session at startup by re-resolving the
// stored username against the directory. A missing blob or a user that no
// longer exists leaves the session logged out.
func (s *SessionService) Restore(ctx context.Context) {
	raw, found, err := s.prefs.Get(ctx, prefs.KeySession)
	if err != nil || !found {
		return
	}

	var blob sessionBlob
	if err := json.Unmarshal(raw, &blob); err != nil || blob.Username == "" {
		return
	}

	u, err := s.directory.FindByUsername(ctx, blob.Username)
	if err != nil {
		s.logger.Info("persisted session user no longer exists", "username", blob.Username)
		_ = s.prefs.Delete(ctx, prefs.KeySession)
		return
	}

	s.mu.Lock()
	s.current = u
	s.mu.Unlock()
	s.logger.Info("session restored", "username", u.Username)
}

// RefreshCurrent re-reads the current user from the directory so profile
// edits made through other paths are visible on the held reference.
func (s *SessionService) RefreshCurrent(ctx context.Context) {
	s.mu.Lock()
	current := s.current
	s.mu.Unlock()
	if current == nil {
		return
	}

	if u, err := s.directory.FindByUsername(ctx, current.Username); err == nil {
		s.mu.Lock()
		s.current = u
		s.mu.Unlock()
	}
}

func (s *SessionService) setCurrent(ctx context.Context, u *domain.User) {
	s.mu.Lock()
	s.current = u
	s.mu.Unlock()

	raw, _ := json.Marshal(sessionBlob{Username: u.Username})
	if err := s.prefs.Put(ctx, prefs.KeySession, raw); err != nil {
		s.logger.Warn("could not persist session", "username", u.Username, "error", err)
	}
}
