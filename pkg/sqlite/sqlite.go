// Package sqlite provides the GORM-backed SQLite connection used as the
// system's local datastore.
package sqlite

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Config holds the SQLite connection configuration.
type Config struct {
	Path          string
	BusyTimeoutMS int
	MaxOpenConns  int
	LogLevel      string
}

// DB wraps the GORM database handle.
type DB struct {
	DB *gorm.DB
}

// NewDB opens (creating if necessary) the SQLite database file and returns a
// configured handle. WAL mode is enabled so readers never block the single
// writer.
func NewDB(cfg Config) (*DB, error) {
	if cfg.Path == "" {
		cfg.Path = "data/trading.db"
	}
	if cfg.BusyTimeoutMS <= 0 {
		cfg.BusyTimeoutMS = 5000
	}
	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = 1
	}

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("%s?_busy_timeout=%d&_journal_mode=WAL&_foreign_keys=on",
		cfg.Path, cfg.BusyTimeoutMS)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(parseLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)

	return &DB{DB: db}, nil
}

func parseLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
