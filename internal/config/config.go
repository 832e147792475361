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
	// Environment
	GoEnv string `env:"GO_ENV" default:"development"`

	// Service Ports
	HTTPPort int `env:"HTTP_PORT" default:"8080"`

	// Database
	DatabaseURL    string `env:"DATABASE_URL" required:"true"`
	DBMaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" default:"10"`

	// Authentication
	JWTSecret string        `env:"JWT_SECRET" required:"true"`
	JWTExpiry time.Duration `env:"JWT_EXPIRY" default:"168h"`

	// Redis Cache (empty URL disables the movie list cache)
	RedisURL      string `env:"REDIS_URL"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	CacheTTL      int    `env:"CACHE_TTL" default:"60"`

	// Events (empty URL disables publishing)
	NATSURL string `env:"NATS_URL"`

	// External APIs
	TMDBAPIURL      string `env:"TMDB_API_URL" default:"https://api.themoviedb.org/3"`
	TMDBAPIKey      string `env:"TMDB_API_KEY"`
	TMDBSyncPages   int    `env:"TMDB_SYNC_PAGES" default:"1"`
	TMDBSyncWorkers int    `env:"TMDB_SYNC_WORKERS" default:"4"`

	// Development
	LogLevel  string `env:"LOG_LEVEL" default:"debug"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// a missing .env is fine, system env vars still apply
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	config := &Config{}

	if err := loadEnvString(&config.GoEnv, "GO_ENV", "development"); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.HTTPPort, "HTTP_PORT", 8080); err != nil {
		return nil, err
	}

	// Database
	if err := loadEnvStringRequired(&config.DatabaseURL, "DATABASE_URL"); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.DBMaxOpenConns, "DB_MAX_OPEN_CONNS", 10); err != nil {
		return nil, err
	}

	// Authentication
	if err := loadEnvStringRequired(&config.JWTSecret, "JWT_SECRET"); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.JWTExpiry, "JWT_EXPIRY", 7*24*time.Hour); err != nil {
		return nil, err
	}

	// Redis
	if err := loadEnvString(&config.RedisURL, "REDIS_URL", ""); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.RedisPassword, "REDIS_PASSWORD", ""); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.CacheTTL, "CACHE_TTL", 60); err != nil {
		return nil, err
	}

	// Events
	if err := loadEnvString(&config.NATSURL, "NATS_URL", ""); err != nil {
		return nil, err
	}

	// External APIs
	if err := loadEnvString(&config.TMDBAPIURL, "TMDB_API_URL", "https://api.themoviedb.org/3"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.TMDBAPIKey, "TMDB_API_KEY", ""); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.TMDBSyncPages, "TMDB_SYNC_PAGES", 1); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.TMDBSyncWorkers, "TMDB_SYNC_WORKERS", 4); err != nil {
		return nil, err
	}

	// Development
	if err := loadEnvString(&config.LogLevel, "LOG_LEVEL", "debug"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.LogFormat, "LOG_FORMAT", "text"); err != nil {
		return nil, err
	}
	return config, nil
}

// Helper functions for type conversion and validation
func loadEnvString(target *string, key, defaultValue string) error {
	if value := os.Getenv(key); value != "" {
		*target = value
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvStringRequired(target *string, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return fmt.Errorf("required environment variable %s is not set", key)
	}
	*target = value
	return nil
}

func loadEnvInt(target *int, key string, defaultValue int) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvDuration(target *time.Duration, key string, defaultValue time.Duration) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

// Validate performs validation on the loaded configuration
func (c *Config) Validate() error {
	var errors []string

	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		errors = append(errors, "HTTP_PORT must be between 1 and 65535")
	}
	if c.DBMaxOpenConns < 1 {
		errors = append(errors, "DB_MAX_OPEN_CONNS must be positive")
	}
	if c.JWTExpiry <= 0 {
		errors = append(errors, "JWT_EXPIRY must be positive")
	}
	if c.CacheTTL < 0 {
		errors = append(errors, "CACHE_TTL must not be negative")
	}
	if c.TMDBSyncPages < 1 {
		errors = append(errors, "TMDB_SYNC_PAGES must be at least 1")
	}
	if c.TMDBSyncWorkers < 1 {
		errors = append(errors, "TMDB_SYNC_WORKERS must be at least 1")
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: %s", strings.Join(validLogLevels, ", ")))
	}

	validLogFormats := []string{"text", "json"}
	if !contains(validLogFormats, c.LogFormat) {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: %s", strings.Join(validLogFormats, ", ")))
	}

	// short secrets are tolerated locally but not in production
	if c.IsProduction() && len(c.JWTSecret) < 32 {
		errors = append(errors, "JWT_SECRET should be at least 32 characters long")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// CacheTTLDuration returns CACHE_TTL as a duration.
func (c *Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
