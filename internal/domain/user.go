// File: internal/domain/user.go
package domain

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is a registered account in the local directory.
//
// Username is matched case-insensitively everywhere; the stored value keeps the
// case the user typed at registration. PasswordHash is a bcrypt hash — the
// plaintext never leaves the registration/login call stack.
type User struct {
	ID            uint       `json:"id" gorm:"primarykey"`
	Username      string     `json:"username" gorm:"not null;uniqueIndex"`
	PasswordHash  string     `json:"-" gorm:"not null"`
	DisplayName   string     `json:"display_name"`
	AvatarLetters string     `json:"avatar_letters"`
	Country       string     `json:"country"`
	Bio           string     `json:"bio"`
	IsOnline      bool       `json:"is_online"`
	LastSeen      *time.Time `json:"last_seen,omitempty"`
	IsVerified    bool       `json:"is_verified"`
	Settings      Settings   `json:"settings" gorm:"serializer:json"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// IsContact is relative to the viewing user and is filled in on reads;
	// the contact relation itself lives in the contacts table.
	IsContact bool `json:"is_contact" gorm:"-"`
}

// SetPassword hashes and stores the given plaintext password.
func (u *User) SetPassword(password string) error {
	if len(password) < 6 {
		return errors.New("password must be at least 6 characters")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashed)
	return nil
}

// CheckPassword compares a plaintext password against the stored hash.
func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// MatchesQuery reports whether the user matches a search query. Matching is
// case-insensitive across username, display name, country and bio.
func (u *User) MatchesQuery(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return false
	}
	for _, field := range []string{u.Username, u.DisplayName, u.Country, u.Bio} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// AvatarLetters derives the two-letter avatar shown next to a display name:
// first letters of the first two words, or the first two characters of a
// single-word name, uppercased. An empty name yields a placeholder.
func AvatarLetters(displayName string) string {
	words := strings.Fields(displayName)
	switch {
	case len(words) >= 2:
		return strings.ToUpper(firstRune(words[0]) + firstRune(words[1]))
	case len(words) == 1:
		r := []rune(words[0])
		if len(r) > 2 {
			r = r[:2]
		}
		return strings.ToUpper(string(r))
	default:
		return "??"
	}
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}
