package repository

import (
	"context"
	"time"

	"options-trading-backend/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OptionChainRepository defines the interface for options chain operations.
type OptionChainRepository interface {
	StoreBatch(ctx context.Context, quotes []entity.OptionQuote) error
	FindChain(ctx context.Context, symbol string, expiry *time.Time) ([]entity.OptionQuote, error)
	Expiries(ctx context.Context, symbol string, after time.Time) ([]time.Time, error)
	Count(ctx context.Context) (int64, error)
}

// NewOptionChainRepository creates a new GORM-based options chain repository.
func NewOptionChainRepository(db *gorm.DB) OptionChainRepository {
	return &optionChainRepository{db: db}
}

type optionChainRepository struct {
	db *gorm.DB
}

// StoreBatch inserts a chain snapshot, replacing quote fields when the same
// contract was already captured at the same instant.
func (r *optionChainRepository) StoreBatch(ctx context.Context, quotes []entity.OptionQuote) error {
	if len(quotes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "symbol"}, {Name: "expiry"}, {Name: "strike"},
			{Name: "option_type"}, {Name: "captured_at"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"ltp", "bid", "ask", "volume", "oi",
			"delta", "gamma", "theta", "vega", "rho", "iv",
			"intrinsic_value", "time_value",
		}),
	}).Create(&quotes).Error
}

// FindChain returns the latest row per contract for a symbol, strike-ordered.
// Chains for different expiries arrive as separate batches, so the latest
// captured_at is resolved per contract rather than across the whole selection.
func (r *optionChainRepository) FindChain(ctx context.Context, symbol string, expiry *time.Time) ([]entity.OptionQuote, error) {
	latest := r.db.WithContext(ctx).
		Model(&entity.OptionQuote{}).
		Select("expiry AS l_expiry, strike AS l_strike, option_type AS l_type, MAX(captured_at) AS l_captured_at").
		Where("symbol = ?", symbol).
		Group("expiry, strike, option_type")

	q := r.db.WithContext(ctx).
		Joins(`JOIN (?) latest ON options_chain.expiry = latest.l_expiry
			AND options_chain.strike = latest.l_strike
			AND options_chain.option_type = latest.l_type
			AND options_chain.captured_at = latest.l_captured_at`, latest).
		Where("options_chain.symbol = ?", symbol)
	if expiry != nil {
		q = q.Where("options_chain.expiry = ?", *expiry)
	}

	var quotes []entity.OptionQuote
	if err := q.Order("options_chain.expiry, options_chain.strike, options_chain.option_type").Find(&quotes).Error; err != nil {
		return nil, err
	}
	return quotes, nil
}

// Expiries lists distinct expiries for a symbol on or after the given date.
func (r *optionChainRepository) Expiries(ctx context.Context, symbol string, after time.Time) ([]time.Time, error) {
	var expiries []time.Time
	err := r.db.WithContext(ctx).
		Model(&entity.OptionQuote{}).
		Distinct("expiry").
		Where("symbol = ? AND expiry >= ?", symbol, after).
		Order("expiry").
		Pluck("expiry", &expiries).Error
	if err != nil {
		return nil, err
	}
	return expiries, nil
}

// Count returns the total number of stored option quotes.
func (r *optionChainRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&entity.OptionQuote{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
