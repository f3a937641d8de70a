package service

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"github.com/undergroundpost/touchbase/internal/config"
	"github.com/undergroundpost/touchbase/internal/repository"
)

// newTestDB opens a migrated sqlite database in a per-test temp dir.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &config.DatabaseConfig{
		Driver:      "sqlite",
		Path:        filepath.Join(t.TempDir(), "test.db"),
		AutoMigrate: true,
	}
	db, err := repository.InitDB(cfg)
	if err != nil {
		t.Fatalf("failed to init test database: %v", err)
	}
	return db
}
