package service

import (
	"context"
	"fmt"
	"time"

	"options-trading-backend/internal/entity"
	"options-trading-backend/internal/marketdata/dto"
	"options-trading-backend/internal/marketdata/repository"
	"options-trading-backend/pkg/logger"

	"gorm.io/gorm"
)

// MetricsService defines the interface for daily performance metrics.
type MetricsService interface {
	Record(ctx context.Context, req *dto.PerformanceMetricDTO) (*dto.PerformanceMetricDTO, error)
	GetByDate(ctx context.Context, date string) (*dto.PerformanceMetricDTO, error)
	GetRange(ctx context.Context, from, to string) ([]*dto.PerformanceMetricDTO, error)
}

// NewMetricsService creates a new metrics service.
func NewMetricsService(metricsRepo repository.MetricsRepository, logger *logger.Logger) MetricsService {
	return &metricsService{metricsRepo: metricsRepo, logger: logger}
}

type metricsService struct {
	metricsRepo repository.MetricsRepository
	logger      *logger.Logger
}

// Record upserts the metric row for its date.
func (s *metricsService) Record(ctx context.Context, req *dto.PerformanceMetricDTO) (*dto.PerformanceMetricDTO, error) {
	date, err := parseMetricDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	metric := &entity.PerformanceMetric{
		Date:           date,
		TotalPnL:       req.TotalPnL,
		RealizedPnL:    req.RealizedPnL,
		UnrealizedPnL:  req.UnrealizedPnL,
		NumberOfTrades: req.NumberOfTrades,
		WinRate:        req.WinRate,
		AvgWin:         req.AvgWin,
		AvgLoss:        req.AvgLoss,
		MaxDrawdown:    req.MaxDrawdown,
		SharpeRatio:    req.SharpeRatio,
		PortfolioValue: req.PortfolioValue,
	}
	if err := s.metricsRepo.Upsert(ctx, metric); err != nil {
		s.logger.Error("Failed to record metrics", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to record metrics: %w", err)
	}
	return mapMetric(metric), nil
}

// GetByDate retrieves the metric row for one date.
func (s *metricsService) GetByDate(ctx context.Context, dateStr string) (*dto.PerformanceMetricDTO, error) {
	date, err := parseMetricDate(dateStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	metric, err := s.metricsRepo.FindByDate(ctx, date)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: no metrics for %s", ErrNotFound, dateStr)
		}
		return nil, fmt.Errorf("failed to get metrics: %w", err)
	}
	return mapMetric(metric), nil
}

// GetRange retrieves metrics between two dates inclusive.
func (s *metricsService) GetRange(ctx context.Context, fromStr, toStr string) ([]*dto.PerformanceMetricDTO, error) {
	from, err := parseMetricDate(fromStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	to, err := parseMetricDate(toStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	metrics, err := s.metricsRepo.FindRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics range: %w", err)
	}

	out := make([]*dto.PerformanceMetricDTO, 0, len(metrics))
	for i := range metrics {
		out = append(out, mapMetric(&metrics[i]))
	}
	return out, nil
}

func mapMetric(m *entity.PerformanceMetric) *dto.PerformanceMetricDTO {
	return &dto.PerformanceMetricDTO{
		Date:           m.Date.Format("2006-01-02"),
		TotalPnL:       m.TotalPnL,
		RealizedPnL:    m.RealizedPnL,
		UnrealizedPnL:  m.UnrealizedPnL,
		NumberOfTrades: m.NumberOfTrades,
		WinRate:        m.WinRate,
		AvgWin:         m.AvgWin,
		AvgLoss:        m.AvgLoss,
		MaxDrawdown:    m.MaxDrawdown,
		SharpeRatio:    m.SharpeRatio,
		PortfolioValue: m.PortfolioValue,
	}
}

func parseMetricDate(value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be YYYY-MM-DD, got %q", value)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
