// File: /config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	GinMode     string
	DBDriver    string
	DatabaseURL string
	JWTSecret   string

	// Comma separated list of origins allowed by CORS, "*" for any
	AllowedOrigins []string

	// Rate limiting
	RateLimitPerMinute int
	RateLimitBurst     int

	// Expired post cleanup
	CleanupInterval  time.Duration
	ExpiredPostGrace time.Duration

	// Post cache
	CacheSize int
	CacheTTL  time.Duration

	// Email Configuration
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
}

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Load reads configuration from the environment, after merging a .env file
// from the working directory if one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	var errs []string
	intVar := func(key, def string) int {
		v, err := strconv.Atoi(getEnv(key, def))
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s must be an integer", key))
		}
		return v
	}
	durationVar := func(key, def string) time.Duration {
		v, err := time.ParseDuration(getEnv(key, def))
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s must be a duration", key))
		}
		return v
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", DriverMySQL)),
		DatabaseURL: getEnv("DATABASE_URL", "user:password@tcp(localhost:3306)/foodshare?charset=utf8mb4&parseTime=True&loc=UTC"),
		JWTSecret:   getEnv("JWT_SECRET", "your-secret-key"),

		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),

		RateLimitPerMinute: intVar("RATE_LIMIT_PER_MINUTE", "100"),
		RateLimitBurst:     intVar("RATE_LIMIT_BURST", "10"),

		CleanupInterval:  durationVar("CLEANUP_INTERVAL", "1h"),
		ExpiredPostGrace: durationVar("EXPIRED_POST_GRACE", "24h"),

		CacheSize: intVar("CACHE_SIZE", "256"),
		CacheTTL:  durationVar("CACHE_TTL", "30s"),

		// Email is off unless SMTP_HOST is set
		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     intVar("SMTP_PORT", "2525"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		FromEmail:    getEnv("FROM_EMAIL", "noreply@foodshare.local"),
		FromName:     getEnv("FROM_NAME", "FoodShare"),
	}

	switch cfg.DBDriver {
	case DriverMySQL, DriverPostgres, DriverSQLite, DriverMemory:
	default:
		errs = append(errs, fmt.Sprintf("DB_DRIVER %q is not one of mysql, postgres, sqlite, memory", cfg.DBDriver))
	}
	if cfg.CleanupInterval <= 0 {
		errs = append(errs, "CLEANUP_INTERVAL must be positive")
	}
	if cfg.RateLimitPerMinute <= 0 {
		errs = append(errs, "RATE_LIMIT_PER_MINUTE must be positive")
	}
	if cfg.RateLimitBurst <= 0 {
		errs = append(errs, "RATE_LIMIT_BURST must be positive")
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

// EmailEnabled reports whether notification emails should be sent
func (c *Config) EmailEnabled() bool {
	return c.SMTPHost != ""
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
