package repository

import (
	"context"

	"options-trading-backend/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConfigRepository defines the interface for system configuration storage.
type ConfigRepository interface {
	Get(ctx context.Context, key string) (*entity.SystemConfig, error)
	Upsert(ctx context.Context, cfg *entity.SystemConfig) error
	FindAll(ctx context.Context) ([]entity.SystemConfig, error)
}

// NewConfigRepository creates a new GORM-based config repository.
func NewConfigRepository(db *gorm.DB) ConfigRepository {
	return &configRepository{db: db}
}

type configRepository struct {
	db *gorm.DB
}

// Get retrieves a configuration entry by key.
func (r *configRepository) Get(ctx context.Context, key string) (*entity.SystemConfig, error) {
	var cfg entity.SystemConfig
	if err := r.db.WithContext(ctx).Where("config_key = ?", key).First(&cfg).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Upsert inserts or replaces a configuration entry by key.
func (r *configRepository) Upsert(ctx context.Context, cfg *entity.SystemConfig) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "config_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"config_value", "config_type", "description"}),
	}).Create(cfg).Error
}

// FindAll retrieves all configuration entries ordered by key.
func (r *configRepository) FindAll(ctx context.Context) ([]entity.SystemConfig, error) {
	var cfgs []entity.SystemConfig
	if err := r.db.WithContext(ctx).Order("config_key").Find(&cfgs).Error; err != nil {
		return nil, err
	}
	return cfgs, nil
}
