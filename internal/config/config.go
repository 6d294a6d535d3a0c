// Package config centralises configuration parsing for the fitness tracker.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures runtime configuration values for the fitness tracker.
type Config struct {
	HTTPAddress     string
	LogMode         string
	CSRFKey         string // 32 bytes; empty disables CSRF protection.
	CSRFSecure      bool   // Marks the CSRF cookie Secure; turn off for plain-HTTP local dev.
	SeedEntries     bool
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Load reads environment variables into Config, applying sensible defaults for local dev.
// Variables from the given dotenv files (default ".env") are applied first without
// overriding the real environment; missing files are ignored.
func Load(envFiles ...string) Config {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			_ = godotenv.Load(f)
		}
	}

	return Config{
		HTTPAddress:     getEnv("HTTP_ADDRESS", ":8080"),
		LogMode:         getEnv("LOG_MODE", "dev"),
		CSRFKey:         getEnv("CSRF_KEY", ""),
		CSRFSecure:      getBoolEnv("CSRF_SECURE", true),
		SeedEntries:     getBoolEnv("SEED_ENTRIES", true),
		ReadTimeout:     getDurationEnv("HTTP_READ_TIMEOUT", 5*time.Second),
		WriteTimeout:    getDurationEnv("HTTP_WRITE_TIMEOUT", 10*time.Second),
		IdleTimeout:     getDurationEnv("HTTP_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 15*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return fallback
}
