package repository

import (
	"context"
	"testing"
	"time"

	"options-trading-backend/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candle(symbol, timeframe string, ts time.Time, close float64) entity.Candle {
	return entity.Candle{
		Symbol:    symbol,
		Timeframe: timeframe,
		Timestamp: ts,
		Open:      close - 5,
		High:      close + 10,
		Low:       close - 10,
		Close:     close,
		Volume:    1000,
	}
}

func TestCandleRepository_UpsertIsIdempotent(t *testing.T) {
	repo := NewCandleRepository(testDB(t))
	ctx := context.Background()
	ts := time.Date(2026, 8, 21, 9, 15, 0, 0, time.UTC)

	batch := []entity.Candle{
		candle("NIFTY", "5min", ts, 24500),
		candle("NIFTY", "5min", ts.Add(5*time.Minute), 24510),
	}
	require.NoError(t, repo.UpsertBatch(ctx, batch))

	// Re-inserting the same timestamps updates in place.
	batch[0].Close = 24505
	require.NoError(t, repo.UpsertBatch(ctx, batch))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	found, err := repo.Find(ctx, "NIFTY", "5min", 10)
	require.NoError(t, err)
	require.Len(t, found, 2)
	// Newest first.
	assert.Equal(t, 24510.0, found[0].Close)
	assert.Equal(t, 24505.0, found[1].Close)
}

func TestCandleRepository_FindFiltersAndLimits(t *testing.T) {
	repo := NewCandleRepository(testDB(t))
	ctx := context.Background()
	ts := time.Date(2026, 8, 21, 9, 15, 0, 0, time.UTC)

	var batch []entity.Candle
	for i := 0; i < 5; i++ {
		batch = append(batch, candle("NIFTY", "5min", ts.Add(time.Duration(i)*5*time.Minute), 24500+float64(i)))
	}
	batch = append(batch, candle("BANKNIFTY", "5min", ts, 52000))
	batch = append(batch, candle("NIFTY", "daily", ts, 24400))
	require.NoError(t, repo.UpsertBatch(ctx, batch))

	found, err := repo.Find(ctx, "NIFTY", "5min", 3)
	require.NoError(t, err)
	require.Len(t, found, 3)
	assert.Equal(t, 24504.0, found[0].Close)

	for _, c := range found {
		assert.Equal(t, "NIFTY", c.Symbol)
		assert.Equal(t, "5min", c.Timeframe)
	}
}

func TestCandleRepository_LatestClosePrefers5Min(t *testing.T) {
	repo := NewCandleRepository(testDB(t))
	ctx := context.Background()
	ts := time.Date(2026, 8, 21, 9, 15, 0, 0, time.UTC)

	require.NoError(t, repo.UpsertBatch(ctx, []entity.Candle{
		candle("NIFTY", "daily", ts.Add(time.Hour), 24400),
		candle("NIFTY", "5min", ts, 24500),
	}))

	latest, err := repo.LatestClose(ctx, "NIFTY")
	require.NoError(t, err)
	assert.Equal(t, 24500.0, latest.Close)
	assert.Equal(t, "5min", latest.Timeframe)
}

func TestCandleRepository_LatestCloseFallsBack(t *testing.T) {
	repo := NewCandleRepository(testDB(t))
	ctx := context.Background()
	ts := time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.UpsertBatch(ctx, []entity.Candle{
		candle("NIFTY", "daily", ts, 24400),
	}))

	latest, err := repo.LatestClose(ctx, "NIFTY")
	require.NoError(t, err)
	assert.Equal(t, 24400.0, latest.Close)

	_, err = repo.LatestClose(ctx, "UNKNOWN")
	assert.Error(t, err)
}
