package config_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/vestlock/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("CONVERSION_RATE", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL != "" {
		t.Fatalf("expected journal database to be disabled by default, got %q", cfg.DatabaseURL)
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.VestingDuration != 24*time.Hour {
		t.Fatalf("expected default vesting duration 24h, got %s", cfg.VestingDuration)
	}

	rate, err := cfg.Rate()
	if err != nil {
		t.Fatalf("unexpected error parsing rate: %v", err)
	}

	if !rate.Equal(decimal.New(1, 9)) {
		t.Fatalf("expected default rate 1e9, got %s", rate)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("CONVERSION_RATE", "1000000")
	t.Setenv("VESTING_DURATION", "72h")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL != "postgres://example" {
		t.Fatalf("expected custom database URL, got %s", cfg.DatabaseURL)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.DatabaseTimeout != 45*time.Second {
		t.Fatalf("expected database timeout override, got %s", cfg.DatabaseTimeout)
	}

	if cfg.VestingDuration != 72*time.Hour {
		t.Fatalf("expected vesting duration override, got %s", cfg.VestingDuration)
	}

	rate, err := cfg.Rate()
	if err != nil {
		t.Fatalf("unexpected error parsing rate: %v", err)
	}

	if !rate.Equal(decimal.New(1, 6)) {
		t.Fatalf("expected rate override 1e6, got %s", rate)
	}
}

func TestLoadInvalidRate(t *testing.T) {
	t.Setenv("CONVERSION_RATE", "not-a-number")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid rate")
	}
}

func TestLoadNonPositiveRate(t *testing.T) {
	t.Setenv("CONVERSION_RATE", "0")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for zero rate")
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("VESTING_DURATION", "not-a-duration")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}
