// Package config loads and validates application configuration from
// environment variables. A .env file in the working directory is honored for
// local development; real deployments set the environment directly.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the API server and the ingestion
// command. Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// MasternautURL is the root of the fleet-tracking API, without trailing
	// slash. Required when ingestion runs.
	MasternautURL string

	// MasternautUser and MasternautPassword are the API basic auth
	// credentials. Required when ingestion runs.
	MasternautUser     string
	MasternautPassword string

	// MetricsAddr is the listen address for the Prometheus endpoint
	// (e.g. ":9102"). Empty disables the metrics server.
	MetricsAddr string
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	// Load .env into the environment (ignore if missing).
	_ = godotenv.Load()

	cfg := Config{
		Port:               getEnv("PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSOrigins:        splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		MasternautURL:      strings.TrimSuffix(os.Getenv("MASTERNAUT_URL"), "/"),
		MasternautUser:     os.Getenv("MASTERNAUT_USER"),
		MasternautPassword: os.Getenv("MASTERNAUT_PASSWORD"),
		MetricsAddr:        os.Getenv("METRICS_ADDR"),
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// RequireMasternaut checks the variables only the ingestion path needs.
// The API server can run without them; the ingest command cannot.
func (c Config) RequireMasternaut() error {
	var missing []string
	if c.MasternautURL == "" {
		missing = append(missing, "MASTERNAUT_URL")
	}
	if c.MasternautUser == "" {
		missing = append(missing, "MASTERNAUT_USER")
	}
	if c.MasternautPassword == "" {
		missing = append(missing, "MASTERNAUT_PASSWORD")
	}
	if len(missing) > 0 {
		return fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}
	return nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
