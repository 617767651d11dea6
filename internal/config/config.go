// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/scheduler and cmd/api.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Config struct, populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Database
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Scheduler cadences
	BreakPollInterval time.Duration // break reminder poll loop
	TaskPollInterval  time.Duration // lower-priority task reminder loop

	// Agent operating timezone. All break window comparisons happen in
	// local clock time, not UTC.
	AgentTimezone string

	// Notification timing policy
	AvailableSoonLead time.Duration // lead before window start
	ReminderInterval  time.Duration // recurrence inside a window
	ReminderTolerance time.Duration // band absorbing poll drift
	EndingSoonMin     time.Duration // lower edge of ending-soon band
	EndingSoonMax     time.Duration // upper edge of ending-soon band

	// Ops alerting (optional; empty token disables Slack alerts)
	SlackToken   string
	SlackChannel string

	// Migrations
	MigrationsDir string

	// Cache
	CacheEnabled bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	dbURL := envOr("DATABASE_URL", "")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set")
	}

	return &Config{
		DatabaseURL:    dbURL,
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		BreakPollInterval: envDuration("BREAK_POLL_INTERVAL", 2*time.Second),
		TaskPollInterval:  envDuration("TASK_POLL_INTERVAL", 5*time.Minute),

		AgentTimezone: envOr("AGENT_TIMEZONE", "Asia/Manila"),

		AvailableSoonLead: envDuration("AVAILABLE_SOON_LEAD", 15*time.Minute),
		ReminderInterval:  envDuration("REMINDER_INTERVAL", 30*time.Minute),
		ReminderTolerance: envDuration("REMINDER_TOLERANCE", 3*time.Minute),
		EndingSoonMin:     envDuration("ENDING_SOON_MIN", 12*time.Minute),
		EndingSoonMax:     envDuration("ENDING_SOON_MAX", 18*time.Minute),

		SlackToken:   envOr("SLACK_TOKEN", ""),
		SlackChannel: envOr("SLACK_CHANNEL", "#workforce-ops"),

		MigrationsDir: envOr("MIGRATIONS_DIR", "migrations"),

		CacheEnabled: envBool("CACHE_ENABLED", true),
	}, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Location resolves the configured agent timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.AgentTimezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.AgentTimezone, err)
	}
	return loc, nil
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
