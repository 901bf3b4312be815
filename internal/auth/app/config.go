package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	AdminUser     string // Optional: server admin username for HTTP basic authentication
	AdminPassword string // Optional: server admin password (hashed on startup, never stored)

	KeyStorageMode  string        // Optional: key storage mode (ephemeral, persistent) (default: ephemeral)
	MasterKeyPath   string        // Optional: path to master encryption key file (for persistent keys)
	DatabaseFile    string        // Optional: path to SQLite database file (default: ./pgpauth.db)
	ChallengeWindow time.Duration // Optional: login challenge validity window (default: 15s)
	SessionTTL      time.Duration // Optional: cookie session lifetime (default: 10m)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		AdminUser:     os.Getenv("PGPAUTH_ADMIN_USER"),
		AdminPassword: os.Getenv("PGPAUTH_ADMIN_PASSWORD"),

		KeyStorageMode:  getEnvOrDefault("PGPAUTH_KEY_STORAGE_MODE", "ephemeral"),
		MasterKeyPath:   os.Getenv("PGPAUTH_MASTER_KEY_PATH"),
		DatabaseFile:    getEnvOrDefault("PGPAUTH_DATABASE_FILE", "pgpauth.db"),
		ChallengeWindow: getEnvDurationOrDefault("PGPAUTH_CHALLENGE_WINDOW", 15*time.Second),
		SessionTTL:      getEnvDurationOrDefault("PGPAUTH_SESSION_TTL", 10*time.Minute),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
