package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"options-trading-backend/internal/entity"
	"options-trading-backend/pkg/common"

	"github.com/redis/go-redis/v9"
)

// CachingCandleRepository decorates a CandleRepository with a read-through
// Redis cache. Writes invalidate the affected symbol+timeframe keys. A nil
// Redis client disables caching entirely.
type CachingCandleRepository struct {
	inner CandleRepository
	rdb   *redis.Client
	ttl   time.Duration
}

// NewCachingCandleRepository decorates inner with Redis caching. A ttl of 0
// defaults to 5 minutes.
func NewCachingCandleRepository(rdb *redis.Client, ttl time.Duration, inner CandleRepository) *CachingCandleRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachingCandleRepository{inner: inner, rdb: rdb, ttl: ttl}
}

// UpsertBatch writes through to the store and invalidates cache entries for
// every touched symbol+timeframe pair.
func (c *CachingCandleRepository) UpsertBatch(ctx context.Context, candles []entity.Candle) error {
	if err := c.inner.UpsertBatch(ctx, candles); err != nil {
		return err
	}
	if c.rdb == nil || len(candles) == 0 {
		return nil
	}

	seen := map[string]struct{}{}
	for _, cd := range candles {
		prefix := c.keyPrefix(cd.Symbol, cd.Timeframe)
		if _, ok := seen[prefix]; ok {
			continue
		}
		seen[prefix] = struct{}{}
		// Best effort: a stale entry expires on its own via TTL.
		_ = c.deleteByPattern(ctx, prefix+"*")
	}
	return nil
}

// Find checks the cache first and falls back to the store on a miss.
func (c *CachingCandleRepository) Find(ctx context.Context, symbol, timeframe string, limit int) ([]entity.Candle, error) {
	if c.rdb == nil {
		return c.inner.Find(ctx, symbol, timeframe, limit)
	}

	key := c.key(symbol, timeframe, limit)

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Candle
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		_ = c.rdb.Del(ctx, key).Err()
	}

	out, err := c.inner.Find(ctx, symbol, timeframe, limit)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
	return out, nil
}

// LatestClose is never cached: it backs spot price lookups, which must see
// fresh data.
func (c *CachingCandleRepository) LatestClose(ctx context.Context, symbol string) (*entity.Candle, error) {
	return c.inner.LatestClose(ctx, symbol)
}

// Count delegates to the store.
func (c *CachingCandleRepository) Count(ctx context.Context) (int64, error) {
	return c.inner.Count(ctx)
}

func (c *CachingCandleRepository) keyPrefix(symbol, timeframe string) string {
	return fmt.Sprintf("%s:%s:%s:", common.RedisKeyCandleCache, symbol, timeframe)
}

func (c *CachingCandleRepository) key(symbol, timeframe string, limit int) string {
	return fmt.Sprintf("%s%d", c.keyPrefix(symbol, timeframe), limit)
}

func (c *CachingCandleRepository) deleteByPattern(ctx context.Context, pattern string) error {
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
