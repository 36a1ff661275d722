package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: every environment variable is read here and nowhere else
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Pipeline
	Pipeline PipelineConfig

	// Fetch
	Fetch FetchConfig

	// Database (optional; persistence and the API need it)
	Database DatabaseConfig

	// Logging
	LogLevel  string
	LogFormat string

	// Scheduler
	ScheduleCron string
}

// PipelineConfig holds the file paths and randomness knobs for a run
type PipelineConfig struct {
	PopsPath   string // raw population counts (input CSV)
	OutputPath string // aggregated cohort dataset (output CSV)
	ModelPath  string // fitted rate model artifact (JSON)
	Seed       int64  // RNG seed; 0 means time-seeded
	NoiseSD    float64
}

// FetchConfig holds the population source settings
type FetchConfig struct {
	URL     string
	Format  string // csv or html
	Timeout time.Duration
	// Requests per second against the source host
	RateLimit float64
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Load reads configuration from environment variables
// ⭐ SSOT: this is the only function that calls os.Getenv()
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		Pipeline: PipelineConfig{
			PopsPath:   getEnv("POPS_PATH", "pops.csv"),
			OutputPath: getEnv("OUTPUT_PATH", "roadInj_data.csv"),
			ModelPath:  getEnv("MODEL_PATH", "roadInj_lamModel.json"),
			Seed:       getEnvAsInt64("SEED", 0),
			NoiseSD:    getEnvAsFloat("NOISE_SD", 0),
		},

		Fetch: FetchConfig{
			URL:       getEnv("FETCH_URL", ""),
			Format:    getEnv("FETCH_FORMAT", "csv"),
			Timeout:   getEnvAsDuration("FETCH_TIMEOUT", "30s"),
			RateLimit: getEnvAsFloat("FETCH_RATE_LIMIT", 2),
		},

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),

		// Scheduler: nightly at 02:00 (cron spec with seconds field)
		ScheduleCron: getEnv("SCHEDULE_CRON", "0 0 2 * * *"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// HasDatabase reports whether Postgres persistence is configured
func (c *Config) HasDatabase() bool {
	return c.Database.URL != ""
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Fetch.Format != "csv" && c.Fetch.Format != "html" {
		return fmt.Errorf("FETCH_FORMAT must be csv or html")
	}

	if c.Pipeline.NoiseSD < 0 {
		return fmt.Errorf("NOISE_SD must be >= 0")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env", // Current directory
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
