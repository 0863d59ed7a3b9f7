// File: internal/repository/contact/contact_repository.go
package contact

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Contact records a standing relationship: owner has started a chat with (or
// explicitly added) username. Both sides are stored lowercased.
type Contact struct {
	ID        uint   `gorm:"primarykey"`
	Owner     string `gorm:"not null;index:idx_contact_pair,unique"`
	Username  string `gorm:"not null;index:idx_contact_pair,unique"`
	CreatedAt time.Time
}

// ContactRepository abstracts persistence for the contact set.
type ContactRepository interface {
	// Add is idempotent: adding an existing contact is a no-op.
	Add(ctx context.Context, owner, username string) error
	Exists(ctx context.Context, owner, username string) (bool, error)
	// List returns the owner's contacts in insertion order.
	List(ctx context.Context, owner string) ([]string, error)
}

type gormContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &gormContactRepository{db: db}
}

func (r *gormContactRepository) Add(ctx context.Context, owner, username string) error {
	rec := Contact{
		Owner:    strings.ToLower(owner),
		Username: strings.ToLower(username),
	}
	err := r.db.WithContext(ctx).
		Where("owner = ? AND username = ?", rec.Owner, rec.Username).
		FirstOrCreate(&rec).Error
	if err != nil {
		log.Printf("[ContactRepository] Database error adding contact %q for %q: %v", username, owner, err)
		return errors.New("database error adding contact")
	}
	return nil
}

func (r *gormContactRepository) Exists(ctx context.Context, owner, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Contact{}).
		Where("owner = ? AND username = ?", strings.ToLower(owner), strings.ToLower(username)).
		Count(&count).Error
	if err != nil {
		log.Printf("[ContactRepository] Database error checking contact: %v", err)
		return false, errors.New("database error checking contact")
	}
	return count > 0, nil
}

func (r *gormContactRepository) List(ctx context.Context, owner string) ([]string, error) {
	var records []Contact
	err := r.db.WithContext(ctx).
		Where("owner = ?", strings.ToLower(owner)).
		Order("id asc").
		Find(&records).Error
	if err != nil {
		log.Printf("[ContactRepository] Database error listing contacts for %q: %v", owner, err)
		return nil, errors.New("database error listing contacts")
	}

	usernames := make([]string, 0, len(records))
	for _, rec := range records {
		usernames = append(usernames, rec.Username)
	}
	return usernames, nil
}
