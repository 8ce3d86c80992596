package config

import (
	pkgconfig "options-trading-backend/pkg/config"
)

// Config holds the analytics service configuration.
type Config struct {
	App      pkgconfig.App      `mapstructure:"app"`
	Logger   pkgconfig.Logger   `mapstructure:"logger"`
	Database pkgconfig.Database `mapstructure:"database"`
	API      pkgconfig.API      `mapstructure:"api"`
	Analysis Analysis           `mapstructure:"analysis"`
}

// Analysis holds analysis engine tuning.
type Analysis struct {
	CacheTTL     string  `mapstructure:"cache_ttl"`
	RiskFreeRate float64 `mapstructure:"risk_free_rate"`
}

// Load loads the analytics service configuration from a file.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := pkgconfig.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
