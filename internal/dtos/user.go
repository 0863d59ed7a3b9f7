// File: internal/dtos/user.go
package dtos

import (
	"time"

	"github.com/neochat/neochat/internal/domain"
)

// UserResponse is what user-facing endpoints expose. Credential material
// never leaves the service layer.
type UserResponse struct {
	Username      string     `json:"username"`
	DisplayName   string     `json:"display_name"`
	AvatarLetters string     `json:"avatar_letters"`
	Country       string     `json:"country,omitempty"`
	Bio           string     `json:"bio,omitempty"`
	IsOnline      bool       `json:"is_online"`
	LastSeen      *time.Time `json:"last_seen,omitempty"`
	IsVerified    bool       `json:"is_verified"`
	IsContact     bool       `json:"is_contact"`
	CreatedAt     time.Time  `json:"created_at"`
}

// NewUserResponse maps a domain user onto the response shape.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		Username:      u.Username,
		DisplayName:   u.DisplayName,
		AvatarLetters: u.AvatarLetters,
		Country:       u.Country,
		Bio:           u.Bio,
		IsOnline:      u.IsOnline,
		LastSeen:      u.LastSeen,
		IsVerified:    u.IsVerified,
		IsContact:     u.IsContact,
		CreatedAt:     u.CreatedAt,
	}
}

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Username        string `json:"username"`
	DisplayName     string `json:"display_name"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	Country         string `json:"country"`
	Consent         bool   `json:"consent"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ProfileUpdateRequest carries optional profile edits; absent fields stay
// unchanged.
type ProfileUpdateRequest struct {
	DisplayName *string          `json:"display_name,omitempty"`
	Country     *string          `json:"country,omitempty"`
	Bio         *string          `json:"bio,omitempty"`
	Settings    *domain.Settings `json:"settings,omitempty"`
}
