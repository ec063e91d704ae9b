package mysql

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"separation-engine/internal/domain/actor"
	"separation-engine/internal/domain/notification"
	domain "separation-engine/internal/domain/separation"
	"separation-engine/internal/domain/template"
)

// openTestDB creates an in-memory sqlite DB with every table migrated.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// every pooled connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&domain.Case{}, &template.Defaults{}, &actor.Account{}, &notification.Notification{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}
