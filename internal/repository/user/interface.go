// File: internal/repository/user/interface.go
package user

import (
	"context"
	"time"

	"github.com/neochat/neochat/internal/domain"
)

// UserRepository abstracts persistence for user records. Username lookups are
// case-insensitive; absence is reported with ErrUserNotFound, which callers
// treat as "no such user" rather than a failure.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Update(ctx context.Context, user *domain.User) error
	SetOnline(ctx context.Context, username string, online bool, lastSeen *time.Time) error
	// FindAll returns every user in insertion (ID) order. The directory is a
	// small local collection; search and filtering happen in memory.
	FindAll(ctx context.Context) ([]domain.User, error)
}
