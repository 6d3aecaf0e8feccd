package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
)

type Config struct {
	TelegramToken string  `env:"TELEGRAM_TOKEN,required"`
	AdminIDs      []int64 `env:"ADMIN_IDS" envSeparator:","`
	Debug         bool    `env:"DEBUG" envDefault:"false"`

	DataDir        string        `env:"DATA_DIR" envDefault:"data"`
	CacheTTL       time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	BackupInterval time.Duration `env:"BACKUP_INTERVAL" envDefault:"6h"`
	MaxBackups     int           `env:"MAX_BACKUPS" envDefault:"10"`

	// SessionTTL is the conversation timeout: a registration with no input
	// for this long is discarded.
	SessionTTL           time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	SessionSweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"10m"`

	RateLimitMax           int           `env:"RATE_LIMIT_MAX" envDefault:"30"`
	RateLimitWindow        time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
	RateLimitSweepInterval time.Duration `env:"RATE_LIMIT_SWEEP_INTERVAL" envDefault:"1h"`

	// RedisAddr switches session storage to redis when set; empty means
	// in-memory sessions.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if len(cfg.AdminIDs) == 0 {
		return nil, fmt.Errorf("at least one admin ID is required")
	}

	return &cfg, nil
}
