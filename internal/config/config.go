package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverSQLite   = "sqlite"
)

type Config struct {
	Database DatabaseConfig
	Storage  StorageConfig
	JWT      JWTConfig
	App      AppConfig
	Sweep    SweepConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// StorageConfig selects the attendance store
type StorageConfig struct {
	Driver     string
	SQLitePath string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port               int
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string
}

// SweepConfig controls the force-close sweep and its trigger
type SweepConfig struct {
	Secret            string
	SecretHash        string
	TrustedHeader     string
	Interval          time.Duration
	InProcess         bool
	TenantConcurrency int
	RowConcurrency    int
	LookbackDays      int
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "fieldops"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	config.Storage = StorageConfig{
		Driver:     getEnv("STORAGE_DRIVER", StorageDriverPostgres),
		SQLitePath: getEnv("SQLITE_PATH", "fieldops.db"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:               appPort,
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Sweep configuration
	interval, err := time.ParseDuration(getEnv("SWEEP_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SWEEP_INTERVAL: %w", err)
	}
	inProcess, err := strconv.ParseBool(getEnv("SWEEP_IN_PROCESS", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid SWEEP_IN_PROCESS: %w", err)
	}
	tenantConcurrency, err := strconv.Atoi(getEnv("SWEEP_TENANT_CONCURRENCY", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid SWEEP_TENANT_CONCURRENCY: %w", err)
	}
	rowConcurrency, err := strconv.Atoi(getEnv("SWEEP_ROW_CONCURRENCY", "8"))
	if err != nil {
		return nil, fmt.Errorf("invalid SWEEP_ROW_CONCURRENCY: %w", err)
	}
	lookbackDays, err := strconv.Atoi(getEnv("SWEEP_LOOKBACK_DAYS", "7"))
	if err != nil {
		return nil, fmt.Errorf("invalid SWEEP_LOOKBACK_DAYS: %w", err)
	}

	config.Sweep = SweepConfig{
		Secret:            getEnv("CRON_SECRET", ""),
		SecretHash:        getEnv("CRON_SECRET_HASH", ""),
		TrustedHeader:     getEnv("CRON_TRUSTED_HEADER", "X-Cron-Trigger"),
		Interval:          interval,
		InProcess:         inProcess,
		TenantConcurrency: tenantConcurrency,
		RowConcurrency:    rowConcurrency,
		LookbackDays:      lookbackDays,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageDriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case StorageDriverSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Sweep.TenantConcurrency <= 0 || c.Sweep.RowConcurrency <= 0 {
		return fmt.Errorf("sweep concurrency must be positive")
	}
	if c.Sweep.LookbackDays <= 0 {
		return fmt.Errorf("SWEEP_LOOKBACK_DAYS must be positive")
	}
	if c.Sweep.Interval <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string, fallback []string) []string {
	value := getEnv(env, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
