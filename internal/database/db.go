package database

import (
	"fmt"

	"github.com/EDU-jjkr/EDUAI/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the shared connection pool and migrates the schema. The
// returned handle is passed to services by the caller; nothing in this
// package keeps a global.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate applies the schema. Exported separately so tests can run it
// against an in-memory database.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.School{},
		&models.User{},
		&models.ContentArtifact{},
		&models.ContentItem{},
		&models.Chapter{},
		&models.Doubt{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}
	return nil
}
