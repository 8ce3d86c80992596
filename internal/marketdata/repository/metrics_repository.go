package repository

import (
	"context"
	"time"

	"options-trading-backend/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MetricsRepository defines the interface for daily performance metrics.
type MetricsRepository interface {
	Upsert(ctx context.Context, metric *entity.PerformanceMetric) error
	FindByDate(ctx context.Context, date time.Time) (*entity.PerformanceMetric, error)
	FindRange(ctx context.Context, from, to time.Time) ([]entity.PerformanceMetric, error)
}

// NewMetricsRepository creates a new GORM-based metrics repository.
func NewMetricsRepository(db *gorm.DB) MetricsRepository {
	return &metricsRepository{db: db}
}

type metricsRepository struct {
	db *gorm.DB
}

// Upsert inserts or replaces the metric row for its date.
func (r *metricsRepository) Upsert(ctx context.Context, metric *entity.PerformanceMetric) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_pnl", "realized_pnl", "unrealized_pnl", "number_of_trades",
			"win_rate", "avg_win", "avg_loss", "max_drawdown", "sharpe_ratio",
			"portfolio_value",
		}),
	}).Create(metric).Error
}

// FindByDate retrieves the metric row for a given date.
func (r *metricsRepository) FindByDate(ctx context.Context, date time.Time) (*entity.PerformanceMetric, error) {
	var metric entity.PerformanceMetric
	if err := r.db.WithContext(ctx).Where("date = ?", date).First(&metric).Error; err != nil {
		return nil, err
	}
	return &metric, nil
}

// FindRange retrieves metrics between from and to inclusive, oldest first.
func (r *metricsRepository) FindRange(ctx context.Context, from, to time.Time) ([]entity.PerformanceMetric, error) {
	var metrics []entity.PerformanceMetric
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", from, to).
		Order("date").
		Find(&metrics).Error
	if err != nil {
		return nil, err
	}
	return metrics, nil
}
