// File: internal/services/user_services/directory_service.go
package user_services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/neochat/neochat/internal/domain"
	"github.com/neochat/neochat/internal/repository/contact"
	"github.com/neochat/neochat/internal/repository/user"
)

var usernameCharsetRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

const (
	usernameMinLength = 3
	usernameMaxLength = 20
	passwordMinLength = 6
)

// SearchFilter narrows directory searches.
type SearchFilter string

const (
	FilterAll      SearchFilter = "all"
	FilterOnline   SearchFilter = "online"
	FilterContacts SearchFilter = "contacts"
)

// RegistrationForm is the raw signup input before validation.
type RegistrationForm struct {
	Username        string
	DisplayName     string
	Password        string
	PasswordConfirm string
	Country         string
	Consent         bool
}

// UserUpdate carries the optional fields a profile edit may change. Nil means
// "leave as is".
type UserUpdate struct {
	DisplayName *string
	Country     *string
	Bio         *string
	Settings    *domain.Settings
}

// DirectoryService owns user records: identity lookup, registration,
// credential checks, search and presence.
type DirectoryService struct {
	users    user.UserRepository
	contacts contact.ContactRepository
	logger   Logger
}

func NewDirectoryService(users user.UserRepository, contacts contact.ContactRepository, logger Logger) *DirectoryService {
	return &DirectoryService{users: users, contacts: contacts, logger: logger}
}

// FindByUsername looks a user up case-insensitively. Absence is reported via
// ErrUserNotFound; callers treat it as "no such user", not a failure.
func (s *DirectoryService) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// Register validates the signup form and inserts a new user. Rules are
// checked in a fixed order and the first violation wins.
func (s *DirectoryService) Register(ctx context.Context, form RegistrationForm) (*domain.User, error) {
	username := strings.TrimSpace(form.Username)

	if username == "" || form.Password == "" || form.PasswordConfirm == "" {
		return nil, newValidationError(ValidationMissingField, "Please fill in all required fields")
	}
	if !form.Consent {
		return nil, newValidationError(ValidationConsent, "You must accept the terms to register")
	}
	if len(username) < usernameMinLength || len(username) > usernameMaxLength {
		return nil, newValidationError(ValidationUsernameLength,
			fmt.Sprintf("Username must be %d-%d characters", usernameMinLength, usernameMaxLength))
	}
	if !usernameCharsetRegex.MatchString(username) {
		return nil, newValidationError(ValidationUsernameCharset,
			"Username may only contain letters, digits and underscore")
	}
	if len(form.Password) < passwordMinLength {
		return nil, newValidationError(ValidationPasswordLength,
			fmt.Sprintf("Password must be at least %d characters", passwordMinLength))
	}
	if form.Password != form.PasswordConfirm {
		return nil, newValidationError(ValidationPasswordMismatch, "Passwords do not match")
	}

	taken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, newValidationError(ValidationUsernameTaken, "This username is already taken")
	}

	displayName := strings.TrimSpace(form.DisplayName)
	if displayName == "" {
		displayName = username
	}

	newUser := &domain.User{
		Username:      username,
		DisplayName:   displayName,
		AvatarLetters: domain.AvatarLetters(displayName),
		Country:       strings.TrimSpace(form.Country),
		IsOnline:      true,
		IsVerified:    false,
		Settings:      domain.DefaultSettings(),
	}
	if err := newUser.SetPassword(form.Password); err != nil {
		return nil, err
	}

	created, err := s.users.Create(ctx, newUser)
	if err != nil {
		s.logger.Error("user creation failed", "username", username, "error", err)
		return nil, err
	}

	s.logger.Info("user registered", "username", created.Username, "user_id", created.ID)
	return created, nil
}

// Authenticate checks credentials and, on success, marks the user online and
// clears the last-seen stamp.
func (s *DirectoryService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			s.logger.Warn("login failed", "username", username, "reason", "user_not_found")
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := u.CheckPassword(password); err != nil {
		s.logger.Warn("login failed", "username", username, "reason", "wrong_password")
		return nil, ErrWrongPassword
	}

	u.IsOnline = true
	u.LastSeen = nil
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("login successful", "username", u.Username, "user_id", u.ID)
	return u, nil
}

// Update merges partial fields into the user record. A changed display name
// recomputes the derived avatar letters.
func (s *DirectoryService) Update(ctx context.Context, username string, update UserUpdate) (*domain.User, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if update.DisplayName != nil {
		u.DisplayName = strings.TrimSpace(*update.DisplayName)
		u.AvatarLetters = domain.AvatarLetters(u.DisplayName)
	}
	if update.Country != nil {
		u.Country = *update.Country
	}
	if update.Bio != nil {
		u.Bio = *update.Bio
	}
	if update.Settings != nil {
		u.Settings = *update.Settings
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Search matches the query case-insensitively against username, display name,
// country and bio, excluding the querying user. Online users come first; the
// rest keep insertion order.
func (s *DirectoryService) Search(ctx context.Context, self, query string, filter SearchFilter) ([]domain.User, error) {
	all, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	contactSet := map[string]bool{}
	if names, err := s.contacts.List(ctx, self); err == nil {
		for _, name := range names {
			contactSet[name] = true
		}
	}

	results := make([]domain.User, 0)
	for _, u := range all {
		if domain.EqualUsernames(u.Username, self) {
			continue
		}
		u.IsContact = contactSet[strings.ToLower(u.Username)]

		if filter == FilterOnline && !u.IsOnline {
			continue
		}
		if filter == FilterContacts && !u.IsContact {
			continue
		}
		if !u.MatchesQuery(query) {
			continue
		}
		results = append(results, u)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].IsOnline && !results[j].IsOnline
	})
	return results, nil
}

// SetOnline toggles presence and stamps or clears the last-seen time.
func (s *DirectoryService) SetOnline(ctx context.Context, username string, online bool) error {
	var lastSeen *time.Time
	if !online {
		now := time.Now()
		lastSeen = &now
	}

	err := s.users.SetOnline(ctx, username, online, lastSeen)
	if errors.Is(err, user.ErrUserNotFound) {
		return ErrUserNotFound
	}
	return err
}

// All returns every user in insertion order. Used by the presence simulator.
func (s *DirectoryService) All(ctx context.Context) ([]domain.User, error) {
	return s.users.FindAll(ctx)
}
