package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the dashboard
type Config struct {
	// Server settings
	Port         int
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Backup server
	BackupServerURL string
	UpstreamTimeout time.Duration

	// Security
	AllowedOrigins []string
	RateLimitRPS   int

	// Logging
	LogLevel string

	// Dashboard behaviour
	DisplayTimezone string
	PollInterval    time.Duration
	EventInterval   time.Duration
	RowsCacheTTL    time.Duration

	EnvFile string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	envFile := getEnvFile()

	// Load .env file if it exists
	_ = godotenv.Load(envFile)

	cfg := &Config{
		Port:            getEnvInt("PORT", 8092),
		Host:            getEnv("HOST", "0.0.0.0"),
		ReadTimeout:     time.Duration(getEnvInt("READ_TIMEOUT_SECONDS", 30)) * time.Second,
		WriteTimeout:    time.Duration(getEnvInt("WRITE_TIMEOUT_SECONDS", 300)) * time.Second,
		BackupServerURL: getEnv("BACKUP_SERVER_URL", "http://localhost:5000"),
		UpstreamTimeout: time.Duration(getEnvInt("UPSTREAM_TIMEOUT_SECONDS", 0)) * time.Second,
		AllowedOrigins:  getEnvSlice("ALLOWED_ORIGINS", []string{"*"}),
		RateLimitRPS:    getEnvInt("RATE_LIMIT_RPS", 100),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DisplayTimezone: getEnv("DISPLAY_TIMEZONE", "Local"),
		PollInterval:    time.Duration(getEnvInt("POLL_INTERVAL_SECONDS", 0)) * time.Second,
		EventInterval:   time.Duration(getEnvInt("EVENT_INTERVAL_SECONDS", 2)) * time.Second,
		RowsCacheTTL:    time.Duration(getEnvInt("ROWS_CACHE_TTL_SECONDS", 300)) * time.Second,
		EnvFile:         envFile,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the values that cannot fall back to a default
func (c *Config) Validate() error {
	u, err := url.Parse(c.BackupServerURL)
	if err != nil {
		return fmt.Errorf("invalid BACKUP_SERVER_URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("BACKUP_SERVER_URL must be an absolute http(s) URL, got %q", c.BackupServerURL)
	}

	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid DISPLAY_TIMEZONE: %w", err)
	}

	if c.EventInterval <= 0 {
		c.EventInterval = 2 * time.Second
	}

	return nil
}

// getEnvFile returns the path to the .env file
func getEnvFile() string {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		return envFile
	}

	if _, err := os.Stat(".env"); err == nil {
		return ".env"
	}

	// Fall back to the directory holding the binary
	exe, err := os.Executable()
	if err == nil {
		dir := strings.TrimSuffix(exe, "/backupdeck")
		envPath := dir + "/.env"
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	return ".env"
}

// LoadWithDefaults loads config with defaults for testing
func LoadWithDefaults() *Config {
	return &Config{
		Port:            8092,
		Host:            "0.0.0.0",
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    300 * time.Second,
		BackupServerURL: "http://localhost:5000",
		AllowedOrigins:  []string{"*"},
		RateLimitRPS:    100,
		LogLevel:        "info",
		DisplayTimezone: "UTC",
		EventInterval:   2 * time.Second,
		RowsCacheTTL:    5 * time.Minute,
	}
}

// Addr returns the server address string
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Location resolves DisplayTimezone. "Local" and "" map to the host zone.
func (c *Config) Location() (*time.Location, error) {
	if c.DisplayTimezone == "" || c.DisplayTimezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.DisplayTimezone)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
