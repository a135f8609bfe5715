package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"

	"nexus/database"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken string `env:"DISCORD_TOKEN"`

	// Database configuration
	DatabaseURL      string `env:"DATABASE_URL"`
	DatabaseName     string `env:"DATABASE_NAME"`
	DatabaseMaxConns int32  `env:"DATABASE_MAX_CONNS" envDefault:"10"`

	// Liveness endpoint polled by uptime monitors
	LivenessAddr string `env:"LIVENESS_ADDR" envDefault:":8080"`

	// NATS configuration, empty disables event export
	NATSServers string `env:"NATS_SERVERS"`

	// Redis configuration, empty disables the leaderboard cache
	RedisAddr           string        `env:"REDIS_ADDR"`
	RedisPassword       string        `env:"REDIS_PASSWORD"`
	RedisDB             int           `env:"REDIS_DB" envDefault:"0"`
	// Cached leaderboards are dropped on level-up only. XP gained without a
	// level-up can reorder members of equal level, which shows after at most this TTL.
	LeaderboardCacheTTL time.Duration `env:"LEADERBOARD_CACHE_TTL" envDefault:"5m"`

	// Economy configuration
	DailyReward   int64         `env:"DAILY_REWARD" envDefault:"500"`
	DailyCooldown time.Duration `env:"DAILY_COOLDOWN" envDefault:"24h"`
	WorkMinPay    int64         `env:"WORK_MIN_PAY" envDefault:"100"`
	WorkMaxPay    int64         `env:"WORK_MAX_PAY" envDefault:"300"`
	WorkCooldown  time.Duration `env:"WORK_COOLDOWN" envDefault:"1h"`
	RobCooldown   time.Duration `env:"ROB_COOLDOWN" envDefault:"2h"`

	// Leveling configuration
	XPPerMessage int64         `env:"XP_PER_MESSAGE" envDefault:"15"`
	XPCooldown   time.Duration `env:"XP_COOLDOWN" envDefault:"60s"`

	// Moderation configuration
	MuteRoleName      string        `env:"MUTE_ROLE_NAME" envDefault:"Silenciado"`
	MuteSweepInterval time.Duration `env:"MUTE_SWEEP_INTERVAL" envDefault:"1m"`

	// OpenTelemetry configuration
	OTelEnabled              bool   `env:"OTEL_ENABLED" envDefault:"false"`
	OTelServiceName          string `env:"OTEL_SERVICE_NAME" envDefault:"nexus"`
	OTelExporterType         string `env:"OTEL_EXPORTER_TYPE" envDefault:"none"`
	OTelOTLPEndpoint         string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4317"`
	OTelExportIntervalMillis int    `env:"OTEL_EXPORT_INTERVAL_MILLIS" envDefault:"60000"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Environment
	Environment string `env:"ENVIRONMENT" envDefault:"development"` // "development", "production" or "test"
}

var (
	// ErrMissingToken is returned when DISCORD_TOKEN is not set
	ErrMissingToken = errors.New("DISCORD_TOKEN is required")
	// ErrMissingDatabaseURL is returned when DATABASE_URL is not set
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is required")
)

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance.
// Callers that need to fail gracefully on a bad environment should call Load first.
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = Load()
		if err != nil {
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// Load parses and validates configuration from the environment
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks required settings. The test environment skips secrets.
func (c *Config) Validate() error {
	if c.Environment != "test" {
		if strings.TrimSpace(c.DiscordToken) == "" {
			return ErrMissingToken
		}
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return ErrMissingDatabaseURL
		}
	}

	if c.WorkMinPay < 0 || c.WorkMaxPay < c.WorkMinPay {
		return fmt.Errorf("invalid work pay range %d-%d", c.WorkMinPay, c.WorkMaxPay)
	}
	if c.XPPerMessage < 0 {
		return fmt.Errorf("XP_PER_MESSAGE cannot be negative")
	}

	return nil
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:         "test",
		DiscordToken:        "test-token",
		LivenessAddr:        "127.0.0.1:0",
		LeaderboardCacheTTL: time.Minute,
		DailyReward:         500,
		DailyCooldown:       24 * time.Hour,
		WorkMinPay:          100,
		WorkMaxPay:          300,
		WorkCooldown:        time.Hour,
		RobCooldown:         2 * time.Hour,
		XPPerMessage:        15,
		XPCooldown:          60 * time.Second,
		MuteRoleName:        "Silenciado",
		MuteSweepInterval:   time.Minute,
		OTelExporterType:    "none",
		LogLevel:            "debug",
	}
}
