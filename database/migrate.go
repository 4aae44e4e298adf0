package database

import (
	"fmt"

	"github.com/LocalStoryMap/Oz-Backand/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the postgres connection. TranslateError is required so
// unique-constraint violations surface as gorm.ErrDuplicatedKey in the
// repositories.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return db, nil
}

// Migrate runs the schema migration plus the partial unique indexes that
// AutoMigrate cannot express. The single-active-subscription invariant
// lives in these indexes, not in application code.
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("create uuid extension: %w", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Subscribe{},
		&models.PaymentHistory{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	// At most one active subscription per user, and exactly one active row
	// per (user, order). Concurrent provisioning races are settled here.
	indexes := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_subscribes_one_active_per_user
			ON subscribes (user_id) WHERE is_active`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_subscribes_active_merchant_uid
			ON subscribes (user_id, merchant_uid) WHERE is_active`,
	}
	for _, stmt := range indexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}

	return nil
}
