package config

import (
	"errors"
	"os"
	"strconv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort    int
	DatabasePath  string
	ImagesDir     string
	SweepSchedule string // cron expression for the orphaned-image sweep
	JWTSecret     string
}

// Load loads configuration from environment variables or sets defaults.
// JWT_SECRET has deliberately no default: the process refuses to start
// without an injected signing secret.
func Load() (*Config, error) {
	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET must be set")
	}

	return &Config{
		ServerPort:    port,
		DatabasePath:  getEnv("DATABASE_PATH", "./feed.db"),
		ImagesDir:     getEnv("IMAGES_DIR", "./images"),
		SweepSchedule: getEnv("IMAGE_SWEEP_SCHEDULE", "@hourly"),
		JWTSecret:     secret,
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
