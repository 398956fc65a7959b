// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends accepted by STORAGE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// StorageBackend selects where the trip document lives: memory, sqlite,
	// postgres or redis. Defaults to "sqlite".
	StorageBackend string

	// StorageKey is the slot name the trip document is stored under.
	// Defaults to "trip_data".
	StorageKey string

	// SQLitePath is the database file used by the sqlite backend.
	SQLitePath string

	// DatabaseURL is the Postgres connection string. Required for the postgres backend.
	DatabaseURL string

	// RedisURL is the Redis connection URL. Required for the redis backend.
	RedisURL string

	// DeviceBridgeURL is the base URL of the device bridge serving location
	// and map requests. Empty means location and map routes answer 503.
	DeviceBridgeURL string

	// DeviceBridgeTimeout bounds each call to the device bridge. Defaults to 10s.
	DeviceBridgeTimeout time.Duration

	// CoordinateType is the coordinate system requested for the current
	// location. Defaults to "gcj02".
	CoordinateType string

	// MapScale is the zoom level used when opening the native map. Defaults to 14.
	MapScale int

	// MapPage is the in-app page that renders a marker overview.
	MapPage string

	// MaxBodyBytes caps request body sizes. Defaults to 1 MiB.
	MaxBodyBytes int64
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error naming every variable that is missing or invalid.
func Load() (Config, error) {
	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", "info")),
		CORSOrigins:     splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		StorageBackend:  strings.ToLower(getEnv("STORAGE_BACKEND", BackendSQLite)),
		StorageKey:      getEnv("STORAGE_KEY", "trip_data"),
		SQLitePath:      getEnv("SQLITE_PATH", "trips.db"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		DeviceBridgeURL: os.Getenv("DEVICE_BRIDGE_URL"),
		CoordinateType:  getEnv("COORDINATE_TYPE", "gcj02"),
		MapPage:         getEnv("MAP_PAGE", "/pages/map/map"),
	}

	var errs []error

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL: unknown level %q", cfg.LogLevel))
	}

	if n, err := strconv.Atoi(cfg.Port); err != nil || n < 1 || n > 65535 {
		errs = append(errs, fmt.Errorf("PORT: %q is not a valid port", cfg.Port))
	}

	switch cfg.StorageBackend {
	case BackendMemory, BackendSQLite:
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL: required when STORAGE_BACKEND=postgres"))
		}
	case BackendRedis:
		if cfg.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL: required when STORAGE_BACKEND=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE_BACKEND: unknown backend %q", cfg.StorageBackend))
	}

	var err error
	if cfg.DeviceBridgeTimeout, err = getDuration("DEVICE_BRIDGE_TIMEOUT", 10*time.Second); err != nil {
		errs = append(errs, err)
	}
	if cfg.MapScale, err = getInt("MAP_SCALE", 14); err != nil {
		errs = append(errs, err)
	} else if cfg.MapScale < 3 || cfg.MapScale > 20 {
		errs = append(errs, fmt.Errorf("MAP_SCALE: %d is outside [3, 20]", cfg.MapScale))
	}
	maxBody, err := getInt("MAX_BODY_BYTES", 1<<20)
	if err != nil {
		errs = append(errs, err)
	}
	cfg.MaxBodyBytes = int64(maxBody)

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
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

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: %q is not an integer", key, v)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback, fmt.Errorf("%s: %q is not a positive duration", key, v)
	}
	return d, nil
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
