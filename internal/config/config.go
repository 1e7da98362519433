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
	ServerPort     string
	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string

	// AuthTokenSecret verifies bearer tokens issued by the external auth
	// service; the reading core never issues tokens itself.
	AuthTokenSecret string

	// Abandoned open sessions idle longer than this are finalized by the
	// background sweeper.
	SessionIdleTimeout time.Duration

	// SES settings for parent notifications; email is disabled when
	// SESFromEmail is empty.
	AWSRegion    string
	SESFromEmail string
	SESFromName  string
	AppBaseURL   string

	Debug bool
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is applied first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env file: %v", err)
	}

	return &Config{
		ServerPort:         getEnv("PORT", "8080"),
		DatabaseType:       getEnv("DB_TYPE", "sqlite"),
		DatabasePath:       getEnv("DB_PATH", "./storynest.db"),
		DatabaseURL:        getEnv("DB_URL", ""),
		MigrationsPath:     getEnv("MIGRATIONS_PATH", "./migrations"),
		AuthTokenSecret:    getEnv("AUTH_TOKEN_SECRET", ""),
		SessionIdleTimeout: getDurationEnv("SESSION_IDLE_TIMEOUT", 6*time.Hour),
		AWSRegion:          getEnv("AWS_REGION", "eu-west-1"),
		SESFromEmail:       getEnv("SES_FROM_EMAIL", ""),
		SESFromName:        getEnv("SES_FROM_NAME", "StoryNest"),
		AppBaseURL:         getEnv("APP_BASE_URL", "http://localhost:8080"),
		Debug:              getBoolEnv("DEBUG", false),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv reads a duration environment variable or returns a default
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid %s value %q, using default %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

// getBoolEnv reads a boolean environment variable or returns a default
func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
