// File: internal/repository/prefs/prefs_repository_test.go
package prefs

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) PrefsRepository {
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
	if err := db.AutoMigrate(&Blob{}); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	return NewPrefsRepository(db)
}

func TestMissingKeyIsNotAnError(t *testing.T) {
	repo := newTestRepo(t)
	value, found, err := repo.Get(context.Background(), KeyAppSettings)
	if err != nil {
		t.Fatalf("Get on missing key failed: %v", err)
	}
	if found {
		t.Error("missing key reported as found")
	}
	if value != nil {
		t.Errorf("missing key returned a value: %q", value)
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Put(ctx, KeyProfile, []byte(`{"accent_color":"#ff0066"}`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	value, found, err := repo.Get(ctx, KeyProfile)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found {
		t.Fatal("stored key reported missing")
	}
	if string(value) != `{"accent_color":"#ff0066"}` {
		t.Errorf("Get returned %q", value)
	}
}

func TestPutOverwrites(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Put(ctx, KeySession, []byte(`{"username":"alex"}`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := repo.Put(ctx, KeySession, []byte(`{"username":"maria"}`)); err != nil {
		t.Fatalf("second Put failed: %v", err)
	}

	value, _, err := repo.Get(ctx, KeySession)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(value) != `{"username":"maria"}` {
		t.Errorf("Get returned %q, want latest write", value)
	}
}

func TestDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Put(ctx, KeySession, []byte(`{}`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := repo.Delete(ctx, KeySession); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	_, found, err := repo.Get(ctx, KeySession)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if found {
		t.Error("key still present after Delete")
	}

	// Deleting a missing key is a no-op.
	if err := repo.Delete(ctx, "never_stored"); err != nil {
		t.Errorf("Delete on missing key failed: %v", err)
	}
}
