package config

import (
	"time"

	"golang-idea-radar/pkg/config"
)

// Scheduler holds scheduler-specific configuration.
type Scheduler struct {
	PollingInterval  time.Duration `mapstructure:"polling_interval"`
	DefaultRunLimit  int           `mapstructure:"default_run_limit"`
	MaxRunLimit      int           `mapstructure:"max_run_limit"`
	MaxWait          time.Duration `mapstructure:"max_wait"`
	WaitPollInterval time.Duration `mapstructure:"wait_poll_interval"`
	CancelFlagTTL    time.Duration `mapstructure:"cancel_flag_ttl"`
}

// Config holds the full configuration for the scheduler service.
type Config struct {
	App       config.App      `mapstructure:"app"`
	Logger    config.Logger   `mapstructure:"logger"`
	Database  config.Database `mapstructure:"database"`
	Redis     config.Redis    `mapstructure:"redis"`
	API       config.API      `mapstructure:"api"`
	Scheduler Scheduler       `mapstructure:"scheduler"`
}

// Load loads the scheduler configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills unset values.
func (c *Config) ApplyDefaults() {
	if c.Scheduler.PollingInterval <= 0 {
		c.Scheduler.PollingInterval = 30 * time.Second
	}
	if c.Scheduler.DefaultRunLimit <= 0 {
		c.Scheduler.DefaultRunLimit = 25
	}
	if c.Scheduler.MaxRunLimit <= 0 {
		c.Scheduler.MaxRunLimit = 500
	}
	if c.Scheduler.MaxWait <= 0 {
		c.Scheduler.MaxWait = 5 * time.Minute
	}
	if c.Scheduler.WaitPollInterval <= 0 {
		c.Scheduler.WaitPollInterval = 500 * time.Millisecond
	}
	if c.Scheduler.CancelFlagTTL <= 0 {
		c.Scheduler.CancelFlagTTL = 6 * time.Hour
	}
	if c.API.Port == 0 {
		c.API.Port = 8080
	}
	if c.Redis.StreamMaxLen <= 0 {
		c.Redis.StreamMaxLen = 1000
	}
}
