package config

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var db *gorm.DB

// ConnectDatabase establishes the database connection. Production uses
// PostgreSQL; the sqlite driver is available for local development
// (DB_DRIVER=sqlite with DATABASE_URL as the file path).
func ConnectDatabase(cfg *Config) error {
	var (
		conn *gorm.DB
		err  error
	)
	// TranslateError turns driver-specific unique violations into
	// gorm.ErrDuplicatedKey, which the services map to ConflictError.
	gormCfg := &gorm.Config{TranslateError: true}
	switch cfg.DBDriver {
	case "sqlite":
		source := cfg.DatabaseURL
		if source == "" {
			source = "apay.db"
		}
		conn, err = gorm.Open(sqlite.Open(source), gormCfg)
	default:
		conn, err = gorm.Open(postgres.Open(cfg.DatabaseURL), gormCfg)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	db = conn
	log.Println("Database connection established successfully")
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return db
}

// SetDB replaces the database instance (primarily for testing).
func SetDB(conn *gorm.DB) {
	db = conn
}
