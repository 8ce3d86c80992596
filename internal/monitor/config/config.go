package config

import (
	pkgconfig "options-trading-backend/pkg/config"
)

// Config holds the monitor service configuration.
type Config struct {
	App      pkgconfig.App      `mapstructure:"app"`
	Logger   pkgconfig.Logger   `mapstructure:"logger"`
	Database pkgconfig.Database `mapstructure:"database"`
	Redis    pkgconfig.Redis    `mapstructure:"redis"`
	API      pkgconfig.API      `mapstructure:"api"`
	Telegram pkgconfig.Telegram `mapstructure:"telegram"`
	Monitor  Monitor            `mapstructure:"monitor"`
}

// Monitor holds probe targets and cadence.
type Monitor struct {
	PollInterval   string   `mapstructure:"poll_interval"`
	RequestTimeout string   `mapstructure:"request_timeout"`
	SummaryCron    string   `mapstructure:"summary_cron"`
	Targets        []Target `mapstructure:"targets"`
}

// Target is one service to probe.
type Target struct {
	Name string `mapstructure:"name"`
	URL  string `mapstructure:"url"`
}

// Load loads the monitor service configuration from a file.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := pkgconfig.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
