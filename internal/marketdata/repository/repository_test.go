package repository

import (
	"path/filepath"
	"testing"

	"options-trading-backend/internal/entity"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testDB opens a throwaway SQLite database with the full schema.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path+"?_busy_timeout=5000&_journal_mode=WAL"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&entity.Candle{},
		&entity.OptionQuote{},
		&entity.TradingSignal{},
		&entity.SystemConfig{},
		&entity.PerformanceMetric{},
		&entity.ServiceHealthCheck{},
	))
	return db
}
