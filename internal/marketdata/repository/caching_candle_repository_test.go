package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"options-trading-backend/internal/entity"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCandleRepo struct {
	findCalls   int
	upsertCalls int
	candles     []entity.Candle
}

func (c *countingCandleRepo) Find(ctx context.Context, symbol, timeframe string, limit int) ([]entity.Candle, error) {
	c.findCalls++
	return c.candles, nil
}

func (c *countingCandleRepo) UpsertBatch(ctx context.Context, candles []entity.Candle) error {
	c.upsertCalls++
	return nil
}

func (c *countingCandleRepo) LatestClose(ctx context.Context, symbol string) (*entity.Candle, error) {
	if len(c.candles) == 0 {
		return nil, nil
	}
	return &c.candles[0], nil
}

func (c *countingCandleRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(c.candles)), nil
}

func TestCachingCandleRepository_NilRedisBypasses(t *testing.T) {
	inner := &countingCandleRepo{candles: []entity.Candle{{Symbol: "NIFTY", Close: 24500}}}
	repo := NewCachingCandleRepository(nil, time.Minute, inner)

	out, err := repo.Find(context.Background(), "NIFTY", "5min", 10)
	require.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, 1, inner.findCalls)
}

func TestCachingCandleRepository_CacheMissThenSet(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	inner := &countingCandleRepo{candles: []entity.Candle{{Symbol: "NIFTY", Timeframe: "5min", Close: 24500}}}
	repo := NewCachingCandleRepository(rdb, time.Minute, inner)

	key := "cache:candles:NIFTY:5min:10"
	payload, err := json.Marshal(inner.candles)
	require.NoError(t, err)

	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, payload, time.Minute).SetVal("OK")

	out, err := repo.Find(context.Background(), "NIFTY", "5min", 10)
	require.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, 1, inner.findCalls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingCandleRepository_CacheHitSkipsStore(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	inner := &countingCandleRepo{}
	repo := NewCachingCandleRepository(rdb, time.Minute, inner)

	cached := []entity.Candle{{Symbol: "NIFTY", Timeframe: "5min", Close: 24510}}
	payload, err := json.Marshal(cached)
	require.NoError(t, err)

	mock.ExpectGet("cache:candles:NIFTY:5min:10").SetVal(string(payload))

	out, err := repo.Find(context.Background(), "NIFTY", "5min", 10)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 24510.0, out[0].Close)
	assert.Zero(t, inner.findCalls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingCandleRepository_UpsertInvalidates(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	inner := &countingCandleRepo{}
	repo := NewCachingCandleRepository(rdb, time.Minute, inner)

	key := "cache:candles:NIFTY:5min:10"
	mock.ExpectScan(0, "cache:candles:NIFTY:5min:*", 100).SetVal([]string{key}, 0)
	mock.ExpectDel(key).SetVal(1)

	err := repo.UpsertBatch(context.Background(), []entity.Candle{
		{Symbol: "NIFTY", Timeframe: "5min", Timestamp: time.Now(), Close: 24500},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
