// Package config loads and validates application configuration from
// environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values for the farewatch processes
// (API server and one-shot tracker). Values are populated by Load from
// environment variables.
type Config struct {
	// DataDir is the directory holding routes.json, notify_config.json and
	// the audit log. Defaults to "./data". Created on first use.
	DataDir string

	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// LogFormat selects the slog handler: "json" (default) or "text"
	// (tint, colorized, for local development).
	LogFormat string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// CallTimeout bounds each outbound PriceSource/Notifier call made during
	// a tracking pass. A timed-out call skips that tick and the pass
	// continues. Defaults to 30s.
	CallTimeout time.Duration

	// PriceSource selects the price source implementation. "simulated"
	// (default) is the only in-tree source; a real flight-search client is
	// wired as an external collaborator.
	PriceSource string

	// SyncEnabled turns on the best-effort git-backed durability sync.
	// When false the sync layer is fully inert.
	SyncEnabled bool

	// SyncRemoteURL is the HTTPS URL of the remote git repository receiving
	// the data dir. Required when SyncEnabled.
	SyncRemoteURL string

	// SyncToken authenticates the push. Required when SyncEnabled.
	SyncToken string

	// SyncBranch is the branch pushed to. Defaults to "main".
	SyncBranch string

	// NotifyFrom and NotifyAPIKey are transport credentials passed through to
	// the Notifier collaborator. The core never interprets them.
	NotifyFrom   string
	NotifyAPIKey string
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	cfg := Config{
		DataDir:      getEnv("DATA_DIR", "./data"),
		Port:         getEnv("PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
		CORSOrigins:  splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		PriceSource:  getEnv("PRICE_SOURCE", "simulated"),
		SyncBranch:   getEnv("SYNC_BRANCH", "main"),
		NotifyFrom:   os.Getenv("NOTIFY_FROM"),
		NotifyAPIKey: os.Getenv("NOTIFY_API_KEY"),
	}

	timeout, err := time.ParseDuration(getEnv("CALL_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid CALL_TIMEOUT: %w", err)
	}
	cfg.CallTimeout = timeout

	cfg.SyncEnabled, err = strconv.ParseBool(getEnv("SYNC_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid SYNC_ENABLED: %w", err)
	}

	var missing []string

	if cfg.SyncEnabled {
		cfg.SyncRemoteURL = os.Getenv("SYNC_REMOTE_URL")
		if cfg.SyncRemoteURL == "" {
			missing = append(missing, "SYNC_REMOTE_URL")
		}
		cfg.SyncToken = os.Getenv("SYNC_TOKEN")
		if cfg.SyncToken == "" {
			missing = append(missing, "SYNC_TOKEN")
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
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
