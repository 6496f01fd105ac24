package app

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ClientID     string // Required: provider application client id
	ClientSecret string // Required: provider application client secret
	RedirectURI  string // Required for the user flow: registered callback URL

	Scopes        []string // Optional: space-delimited scopes requested during authorization
	SessionSecret string   // Optional: HMAC secret for the web session cookie (default: random per boot)

	DatabaseFile         string        // Optional: path to SQLite database file (default: ./crescendo.db)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired token cleanup interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		ClientID:             os.Getenv("SPOTIFY_CLIENT_ID"),
		ClientSecret:         os.Getenv("SPOTIFY_CLIENT_SECRET"),
		RedirectURI:          os.Getenv("SPOTIFY_REDIRECT_URI"),
		Scopes:               strings.Fields(os.Getenv("SPOTIFY_SCOPES")),
		SessionSecret:        os.Getenv("SESSION_SECRET"),
		DatabaseFile:         getEnvOrDefault("DATABASE_FILE", "crescendo.db"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

// Validate reports missing required settings before any component is built,
// so a misconfigured deployment fails at boot rather than on the first
// outbound call.
func (c Config) Validate() error {
	if c.ClientID == "" {
		return errors.New("SPOTIFY_CLIENT_ID is required")
	}
	if c.ClientSecret == "" {
		return errors.New("SPOTIFY_CLIENT_SECRET is required")
	}
	if c.RedirectURI == "" {
		return errors.New("SPOTIFY_REDIRECT_URI is required")
	}
	return nil
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

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
