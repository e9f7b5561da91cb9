package store

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/codapos/pos-agent/internal/config"
	"github.com/codapos/pos-agent/internal/domain/entity"
)

// NewSQLiteDB opens the agent's local database. One file per machine; it
// plays the role browser localStorage plays for the web POS.
func NewSQLiteDB(cfg *config.StoreConfig) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	log.Printf("Local store opened at %s", cfg.Path)
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all locally persisted entities
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.SavedPrinter{},
		&entity.PrinterSettings{},
		&entity.AgentSession{},
	)
}
