package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort      string
	DatabaseType    string
	DatabasePath    string
	DatabaseURL     string
	MigrationsPath  string
	SeedPath        string
	SessionSecret   string
	SessionDuration time.Duration
	AdminKeyHash    string
	AppBaseURL      string

	// Review reminder emails (disabled when FromEmail is empty)
	AWSRegion string
	FromEmail string
	FromName  string

	// Requests allowed per client IP per rate limit window
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is loaded first if present.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env file")
	}

	return &Config{
		ServerPort:        getEnv("PORT", "8080"),
		DatabaseType:      getEnv("DATABASE_TYPE", "sqlite"),
		DatabasePath:      getEnv("DB_PATH", "./strokeclash.db"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		MigrationsPath:    getEnv("MIGRATIONS_PATH", "./migrations"),
		SeedPath:          getEnv("SEED_PATH", "./seed/characters.toml"),
		SessionSecret:     getEnv("SESSION_SECRET", "strokeclash-dev-secret"),
		SessionDuration:   getEnvDuration("SESSION_DURATION", 24*time.Hour),
		AdminKeyHash:      getEnv("ADMIN_KEY_HASH", ""),
		AppBaseURL:        getEnv("APP_BASE_URL", "http://localhost:8080"),
		AWSRegion:         getEnv("AWS_REGION", "us-east-1"),
		FromEmail:         getEnv("SES_FROM_EMAIL", ""),
		FromName:          getEnv("SES_FROM_NAME", "StrokeClash"),
		RateLimitRequests: getEnvInt("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Warning: invalid value for %s, using default %d", key, defaultValue)
	}
	return defaultValue
}

// getEnvDuration reads a duration environment variable or returns a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Warning: invalid value for %s, using default %s", key, defaultValue)
	}
	return defaultValue
}
