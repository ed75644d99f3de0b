package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/shopspring/decimal"
)

// Config holds all application configuration.
type Config struct {
	// Vesting ledger
	ConversionRate  string        `env:"CONVERSION_RATE" envDefault:"1000000000"`
	VestingDuration time.Duration `env:"VESTING_DURATION" envDefault:"24h"`

	// Journal database (optional - leave empty to run without a journal)
	DatabaseURL      string        `env:"DATABASE_URL"       envDefault:""`
	DatabaseMaxConns int           `env:"DATABASE_MAX_CONNS" envDefault:"25"`
	DatabaseMinConns int           `env:"DATABASE_MIN_CONNS" envDefault:"5"`
	DatabaseTimeout  time.Duration `env:"DATABASE_TIMEOUT"   envDefault:"30s"`
	MigrationsPath   string        `env:"MIGRATIONS_PATH"    envDefault:"migrations"`

	// Redis (optional - leave empty to disable request idempotency)
	RedisURL string `env:"REDIS_URL" envDefault:""`

	// Event publishing
	PublishInterval  time.Duration `env:"PUBLISH_INTERVAL"   envDefault:"5s"`
	PublishBatchSize int           `env:"PUBLISH_BATCH_SIZE" envDefault:"100"`

	// HTTP Server
	HTTPPort            string        `env:"HTTP_PORT"             envDefault:"8080"`
	HTTPReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"30s"`
	HTTPWriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"30s"`
	HTTPIdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT"     envDefault:"60s"`
	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Idempotency
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`

	// ConsistencyCacheTTL bounds how stale a cached consistency report
	// may be. Zero disables caching.
	ConsistencyCacheTTL time.Duration `env:"CONSISTENCY_CACHE_TTL" envDefault:"10s"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	if _, err := cfg.Rate(); err != nil {
		return nil, err
	}

	if cfg.VestingDuration <= 0 {
		return nil, fmt.Errorf("vesting duration must be positive, got %s", cfg.VestingDuration)
	}

	return cfg, nil
}

// Rate parses the conversion rate (internal units per external asset unit).
func (c *Config) Rate() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(c.ConversionRate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid conversion rate %q: %w", c.ConversionRate, err)
	}

	if rate.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("conversion rate must be positive, got %s", rate)
	}

	return rate, nil
}
