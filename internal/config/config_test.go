package config

import (
	"testing"
	"time"
)

func TestLoadReadsTTLsInMilliseconds(t *testing.T) {
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "hotel")
	t.Setenv("JWT_SECRET", "c2VjcmV0")
	t.Setenv("ACCESS_TOKEN_TTL_MS", "900000")
	t.Setenv("REFRESH_TOKEN_TTL_MS", "604800000")

	cfg := Load()
	if cfg.AccessTTL != 15*time.Minute {
		t.Fatalf("AccessTTL = %v, want 15m", cfg.AccessTTL)
	}
	if cfg.RefreshTTL != 7*24*time.Hour {
		t.Fatalf("RefreshTTL = %v, want 168h", cfg.RefreshTTL)
	}
	if cfg.Env != "dev" || cfg.Port != "8080" {
		t.Fatalf("defaults not applied: env=%q port=%q", cfg.Env, cfg.Port)
	}
	if cfg.BcryptCost != 10 {
		t.Fatalf("BcryptCost = %d, want default 10", cfg.BcryptCost)
	}
	if cfg.DBMaxOpenConns != 25 || cfg.DBMaxIdleConns != 25 || cfg.DBConnMaxLifetime != 30*time.Minute {
		t.Fatalf("pool defaults not applied: open=%d idle=%d lifetime=%v",
			cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetime)
	}
	if cfg.PricingStrategy != "" {
		t.Fatalf("PricingStrategy = %q, want empty default", cfg.PricingStrategy)
	}
}

func TestLoadPoolOverrides(t *testing.T) {
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "hotel")
	t.Setenv("JWT_SECRET", "c2VjcmV0")
	t.Setenv("ACCESS_TOKEN_TTL_MS", "900000")
	t.Setenv("REFRESH_TOKEN_TTL_MS", "604800000")
	t.Setenv("DB_MAX_OPEN_CONNS", "50")
	t.Setenv("DB_MAX_IDLE_CONNS", "10")
	t.Setenv("DB_CONN_MAX_LIFETIME", "5m")

	cfg := Load()
	if cfg.DBMaxOpenConns != 50 || cfg.DBMaxIdleConns != 10 || cfg.DBConnMaxLifetime != 5*time.Minute {
		t.Fatalf("pool overrides not applied: open=%d idle=%d lifetime=%v",
			cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetime)
	}
}

func TestRateLimitConfigClamping(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-2")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "junk")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	if cfg.Capacity != 1 {
		t.Fatalf("Capacity = %d, want clamped to 1", cfg.Capacity)
	}
	if cfg.RefillTokens != 1 {
		t.Fatalf("RefillTokens = %d, want clamped to 1", cfg.RefillTokens)
	}
	if cfg.RefillInterval != time.Second {
		t.Fatalf("RefillInterval = %v, want fallback 1s", cfg.RefillInterval)
	}
	if cfg.TTL < 5*cfg.RefillInterval {
		t.Fatalf("TTL = %v, want at least five refill intervals", cfg.TTL)
	}
}

func TestCacheConfigDefaults(t *testing.T) {
	cfg := LoadCacheConfig()
	if !cfg.Enabled {
		t.Fatalf("cache should default to enabled")
	}
	if cfg.TTL != 30*time.Second {
		t.Fatalf("TTL = %v, want 30s", cfg.TTL)
	}
	if cfg.MaxBodyBytes != 1048576 {
		t.Fatalf("MaxBodyBytes = %d, want 1 MiB", cfg.MaxBodyBytes)
	}
}
