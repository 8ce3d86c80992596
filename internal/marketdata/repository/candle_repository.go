package repository

import (
	"context"

	"options-trading-backend/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CandleRepository defines the interface for candle data operations.
type CandleRepository interface {
	UpsertBatch(ctx context.Context, candles []entity.Candle) error
	Find(ctx context.Context, symbol, timeframe string, limit int) ([]entity.Candle, error)
	LatestClose(ctx context.Context, symbol string) (*entity.Candle, error)
	Count(ctx context.Context) (int64, error)
}

// NewCandleRepository creates a new GORM-based candle repository.
func NewCandleRepository(db *gorm.DB) CandleRepository {
	return &candleRepository{db: db}
}

type candleRepository struct {
	db *gorm.DB
}

// UpsertBatch inserts candles, replacing OHLCV on the
// (symbol, timeframe, timestamp) conflict key. Idempotent per candle.
func (r *candleRepository) UpsertBatch(ctx context.Context, candles []entity.Candle) error {
	if len(candles) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}, {Name: "timeframe"}, {Name: "timestamp"}},
		DoUpdates: clause.AssignmentColumns([]string{"open", "high", "low", "close", "volume"}),
	}).Create(&candles).Error
}

// Find retrieves the newest candles first for a symbol and timeframe.
func (r *candleRepository) Find(ctx context.Context, symbol, timeframe string, limit int) ([]entity.Candle, error) {
	var candles []entity.Candle
	err := r.db.WithContext(ctx).
		Where("symbol = ? AND timeframe = ?", symbol, timeframe).
		Order("timestamp DESC").
		Limit(limit).
		Find(&candles).Error
	if err != nil {
		return nil, err
	}
	return candles, nil
}

// LatestClose returns the most recent candle for the symbol, preferring the
// 5min series when present.
func (r *candleRepository) LatestClose(ctx context.Context, symbol string) (*entity.Candle, error) {
	var candle entity.Candle
	err := r.db.WithContext(ctx).
		Where("symbol = ? AND timeframe = ?", symbol, "5min").
		Order("timestamp DESC").
		First(&candle).Error
	if err == nil {
		return &candle, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("timestamp DESC").
		First(&candle).Error; err != nil {
		return nil, err
	}
	return &candle, nil
}

// Count returns the total number of stored candles.
func (r *candleRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&entity.Candle{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
