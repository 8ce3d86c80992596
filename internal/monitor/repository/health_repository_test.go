package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"options-trading-backend/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.ServiceHealthCheck{}))
	return db
}

func check(service string, state entity.HealthState, at time.Time) *entity.ServiceHealthCheck {
	return &entity.ServiceHealthCheck{
		Service:   service,
		URL:       "http://localhost:8001/healthz",
		State:     state,
		CheckedAt: at,
	}
}

func TestHealthRepository_LatestPerService(t *testing.T) {
	repo := NewHealthRepository(testDB(t))
	ctx := context.Background()
	base := time.Date(2026, 8, 21, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, check("a", entity.HealthStateHealthy, base)))
	require.NoError(t, repo.Create(ctx, check("a", entity.HealthStateDown, base.Add(time.Minute))))
	require.NoError(t, repo.Create(ctx, check("b", entity.HealthStateHealthy, base)))

	latest, err := repo.LatestPerService(ctx)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, "a", latest[0].Service)
	assert.Equal(t, entity.HealthStateDown, latest[0].State)
	assert.Equal(t, "b", latest[1].Service)
	assert.Equal(t, entity.HealthStateHealthy, latest[1].State)
}

func TestHealthRepository_History(t *testing.T) {
	repo := NewHealthRepository(testDB(t))
	ctx := context.Background()
	base := time.Date(2026, 8, 21, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, check("a", entity.HealthStateHealthy, base.Add(time.Duration(i)*time.Minute))))
	}

	history, err := repo.History(ctx, "a", 3)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.True(t, history[0].CheckedAt.After(history[1].CheckedAt))
}

func TestHealthRepository_UptimeSince(t *testing.T) {
	repo := NewHealthRepository(testDB(t))
	ctx := context.Background()
	base := time.Date(2026, 8, 21, 10, 0, 0, 0, time.UTC)

	states := []entity.HealthState{
		entity.HealthStateHealthy,
		entity.HealthStateHealthy,
		entity.HealthStateHealthy,
		entity.HealthStateDown,
	}
	for i, st := range states {
		require.NoError(t, repo.Create(ctx, check("a", st, base.Add(time.Duration(i)*time.Minute))))
	}

	uptime, err := repo.UptimeSince(ctx, "a", base)
	require.NoError(t, err)
	assert.InDelta(t, 75.0, uptime, 0.001)

	// No observations reports zero, not an error.
	uptime, err = repo.UptimeSince(ctx, "unknown", base)
	require.NoError(t, err)
	assert.Zero(t, uptime)
}
