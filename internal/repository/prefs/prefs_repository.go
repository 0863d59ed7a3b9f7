// File: internal/repository/prefs/prefs_repository.go
package prefs

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"
)

// Well-known blob keys, one per logical collection.
const (
	KeyAppSettings = "app_settings"
	KeyProfile     = "profile_customization"
	KeySession     = "current_session"
)

// Blob is a single persisted key-value entry. Values are opaque JSON.
type Blob struct {
	Key   string `gorm:"primarykey"`
	Value []byte
}

func (Blob) TableName() string { return "prefs" }

// PrefsRepository is the local key-value store for state that is not a real
// collection: app settings, profile customization, the session username. A
// missing key means "use defaults" and is never an error.
type PrefsRepository interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type gormPrefsRepository struct {
	db *gorm.DB
}

func NewPrefsRepository(db *gorm.DB) PrefsRepository {
	return &gormPrefsRepository{db: db}
}

func (r *gormPrefsRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var blob Blob
	err := r.db.WithContext(ctx).First(&blob, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		log.Printf("[PrefsRepository] Database error reading key %q: %v", key, err)
		return nil, false, errors.New("database error reading preference")
	}
	return blob.Value, true, nil
}

func (r *gormPrefsRepository) Put(ctx context.Context, key string, value []byte) error {
	blob := Blob{Key: key, Value: value}
	err := r.db.WithContext(ctx).Save(&blob).Error
	if err != nil {
		log.Printf("[PrefsRepository] Database error writing key %q: %v", key, err)
		return errors.New("database error writing preference")
	}
	return nil
}

func (r *gormPrefsRepository) Delete(ctx context.Context, key string) error {
	err := r.db.WithContext(ctx).Delete(&Blob{}, "key = ?", key).Error
	if err != nil {
		log.Printf("[PrefsRepository] Database error deleting key %q: %v", key, err)
		return errors.New("database error deleting preference")
	}
	return nil
}
