package repository

import (
	"context"
	"time"

	"options-trading-backend/internal/entity"

	"gorm.io/gorm"
)

// HealthRepository stores and queries health check observations.
type HealthRepository interface {
	Create(ctx context.Context, check *entity.ServiceHealthCheck) error
	LatestPerService(ctx context.Context) ([]entity.ServiceHealthCheck, error)
	History(ctx context.Context, service string, limit int) ([]entity.ServiceHealthCheck, error)
	UptimeSince(ctx context.Context, service string, since time.Time) (float64, error)
}

// NewHealthRepository creates a new HealthRepository.
func NewHealthRepository(db *gorm.DB) HealthRepository {
	return &healthRepository{db: db}
}

type healthRepository struct {
	db *gorm.DB
}

func (r *healthRepository) Create(ctx context.Context, check *entity.ServiceHealthCheck) error {
	return r.db.WithContext(ctx).Create(check).Error
}

// LatestPerService returns the newest observation for every monitored service.
func (r *healthRepository) LatestPerService(ctx context.Context) ([]entity.ServiceHealthCheck, error) {
	var checks []entity.ServiceHealthCheck
	sub := r.db.WithContext(ctx).Model(&entity.ServiceHealthCheck{}).
		Select("service, MAX(checked_at) AS max_checked_at").
		Group("service")
	err := r.db.WithContext(ctx).
		Joins("JOIN (?) latest ON service_health_checks.service = latest.service AND service_health_checks.checked_at = latest.max_checked_at", sub).
		Order("service_health_checks.service ASC").
		Find(&checks).Error
	if err != nil {
		return nil, err
	}
	return checks, nil
}

func (r *healthRepository) History(ctx context.Context, service string, limit int) ([]entity.ServiceHealthCheck, error) {
	var checks []entity.ServiceHealthCheck
	err := r.db.WithContext(ctx).
		Where("service = ?", service).
		Order("checked_at DESC").
		Limit(limit).
		Find(&checks).Error
	if err != nil {
		return nil, err
	}
	return checks, nil
}

// UptimeSince returns the share of HEALTHY observations since a cutoff, in
// percent. A service with no observations reports 0.
func (r *healthRepository) UptimeSince(ctx context.Context, service string, since time.Time) (float64, error) {
	var total, healthy int64
	base := r.db.WithContext(ctx).Model(&entity.ServiceHealthCheck{}).
		Where("service = ? AND checked_at >= ?", service, since)
	if err := base.Count(&total).Error; err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}
	err := r.db.WithContext(ctx).Model(&entity.ServiceHealthCheck{}).
		Where("service = ? AND checked_at >= ? AND state = ?", service, since, entity.HealthStateHealthy).
		Count(&healthy).Error
	if err != nil {
		return 0, err
	}
	return float64(healthy) / float64(total) * 100, nil
}
