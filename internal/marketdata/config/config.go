package config

import (
	pkgconfig "options-trading-backend/pkg/config"
)

// Config holds the market data service configuration.
type Config struct {
	App      pkgconfig.App      `mapstructure:"app"`
	Logger   pkgconfig.Logger   `mapstructure:"logger"`
	Database pkgconfig.Database `mapstructure:"database"`
	Redis    pkgconfig.Redis    `mapstructure:"redis"`
	API      pkgconfig.API      `mapstructure:"api"`
	Cache    Cache              `mapstructure:"cache"`
}

// Cache holds candle cache configuration.
type Cache struct {
	Enabled bool   `mapstructure:"enabled"`
	TTL     string `mapstructure:"ttl"`
}

// Load loads the market data service configuration from a file.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := pkgconfig.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
