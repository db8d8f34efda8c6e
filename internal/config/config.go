package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values. Token TTLs are supplied
// in milliseconds (ACCESS_TOKEN_TTL_MS, REFRESH_TOKEN_TTL_MS) and exposed
// as durations. JWTSecret is the base64-encoded HMAC signing key.
type Config struct {
	Env               string
	Port              string
	DBUser            string
	DBPass            string
	DBHost            string
	DBPort            string
	DBName            string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	JWTSecret         string // base64
	AccessTTL         time.Duration
	RefreshTTL        time.Duration
	BcryptCost        int
	PricingStrategy   string // empty = pick per stay length
}

// Load reads configuration from environment variables. Missing required
// values abort startup with a fatal log message.
func Load() Config {
	return Config{
		Env:               getenv("APP_ENV", "dev"),
		Port:              getenv("APP_PORT", "8080"),
		DBUser:            must("DB_USER"),
		DBPass:            os.Getenv("DB_PASS"), // empty allowed
		DBHost:            must("DB_HOST"),
		DBPort:            must("DB_PORT"),
		DBName:            must("DB_NAME"),
		DBMaxOpenConns:    atoi(getenv("DB_MAX_OPEN_CONNS", "25")),
		DBMaxIdleConns:    atoi(getenv("DB_MAX_IDLE_CONNS", "25")),
		DBConnMaxLifetime: parseDur(getenv("DB_CONN_MAX_LIFETIME", "30m")),
		JWTSecret:         must("JWT_SECRET"),
		AccessTTL:         time.Duration(mustInt64("ACCESS_TOKEN_TTL_MS")) * time.Millisecond,
		RefreshTTL:        time.Duration(mustInt64("REFRESH_TOKEN_TTL_MS")) * time.Millisecond,
		BcryptCost:        atoi(getenv("BCRYPT_COST", "10")),
		PricingStrategy:   getenv("PRICING_STRATEGY", ""),
	}
}

func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func mustInt64(key string) int64 {
	s := must(key)
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
