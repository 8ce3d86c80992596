package repository

import (
	"context"

	"options-trading-backend/internal/entity"

	"gorm.io/gorm"
)

// SignalRepository defines the interface for trading signal operations.
type SignalRepository interface {
	Create(ctx context.Context, signal *entity.TradingSignal) error
	FindByID(ctx context.Context, id int64) (*entity.TradingSignal, error)
	Find(ctx context.Context, symbol string, status entity.SignalStatus) ([]entity.TradingSignal, error)
	UpdateStatus(ctx context.Context, id int64, status entity.SignalStatus) error
	CountByStatus(ctx context.Context, status entity.SignalStatus) (int64, error)
}

// NewSignalRepository creates a new GORM-based signal repository.
func NewSignalRepository(db *gorm.DB) SignalRepository {
	return &signalRepository{db: db}
}

type signalRepository struct {
	db *gorm.DB
}

// Create stores a new trading signal.
func (r *signalRepository) Create(ctx context.Context, signal *entity.TradingSignal) error {
	return r.db.WithContext(ctx).Create(signal).Error
}

// FindByID retrieves a signal by its ID.
func (r *signalRepository) FindByID(ctx context.Context, id int64) (*entity.TradingSignal, error) {
	var signal entity.TradingSignal
	if err := r.db.WithContext(ctx).First(&signal, id).Error; err != nil {
		return nil, err
	}
	return &signal, nil
}

// Find retrieves signals, newest first, optionally filtered by symbol and
// status. Empty filter values match everything.
func (r *signalRepository) Find(ctx context.Context, symbol string, status entity.SignalStatus) ([]entity.TradingSignal, error) {
	q := r.db.WithContext(ctx).Model(&entity.TradingSignal{})
	if symbol != "" {
		q = q.Where("symbol = ?", symbol)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var signals []entity.TradingSignal
	if err := q.Order("created_at DESC").Find(&signals).Error; err != nil {
		return nil, err
	}
	return signals, nil
}

// UpdateStatus sets the status of a signal.
func (r *signalRepository) UpdateStatus(ctx context.Context, id int64, status entity.SignalStatus) error {
	res := r.db.WithContext(ctx).
		Model(&entity.TradingSignal{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountByStatus returns the number of signals in the given status.
func (r *signalRepository) CountByStatus(ctx context.Context, status entity.SignalStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&entity.TradingSignal{}).
		Where("status = ?", status).
		Count(&n).Error
	if err != nil {
		return 0, err
	}
	return n, nil
}
