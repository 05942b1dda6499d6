// Package config provides application configuration loaded from environment variables.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Remote  RemoteConfig
	Storage StorageConfig
	Session SessionConfig
	Import  ImportConfig
	Images  ImagesConfig
	App     AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string
	ReadTimeout    int // seconds
	WriteTimeout   int // seconds
	IdleTimeout    int // seconds
	AllowedOrigins []string
}

// RemoteConfig points at the remote data service.
type RemoteConfig struct {
	BaseURL       string
	Timeout       time.Duration
	RefreshWindow time.Duration
}

// StorageConfig selects the local cache backend.
type StorageConfig struct {
	Driver string // sqlite or postgres
	Path   string // sqlite file
	DSN    string // postgres
	Debug  bool   // log every SQL statement
}

// SessionConfig holds cookie signing settings.
type SessionConfig struct {
	Secret string
	TTL    time.Duration
}

// ImportConfig tunes spreadsheet imports.
type ImportConfig struct {
	RowDelay time.Duration
	UseBatch bool
}

// ImagesConfig holds the product image hosting location.
type ImagesConfig struct {
	BaseURL string
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev bool
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			ReadTimeout:    getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout:   getEnvInt("SERVER_WRITE_TIMEOUT", 60),
			IdleTimeout:    getEnvInt("SERVER_IDLE_TIMEOUT", 60),
			AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		},
		Remote: RemoteConfig{
			BaseURL:       strings.TrimRight(getEnv("REMOTE_API_URL", "http://localhost:3000/api"), "/"),
			Timeout:       getEnvDuration("REMOTE_TIMEOUT", 30*time.Second),
			RefreshWindow: getEnvDuration("REMOTE_REFRESH_WINDOW", 5*time.Minute),
		},
		Storage: StorageConfig{
			Driver: getEnv("STORAGE_DRIVER", "sqlite"),
			Path:   getEnv("STORAGE_PATH", "cotizaciones.db"),
			DSN:    getEnv("DATABASE_URL", ""),
			Debug:  getEnvBool("DB_DEBUG", false),
		},
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", ""),
			TTL:    getEnvDuration("SESSION_TTL", 12*time.Hour),
		},
		Import: ImportConfig{
			RowDelay: getEnvDuration("IMPORT_ROW_DELAY", 100*time.Millisecond),
			UseBatch: getEnvBool("IMPORT_USE_BATCH", false),
		},
		Images: ImagesConfig{
			BaseURL: strings.TrimRight(getEnv("IMAGES_BASE_URL", ""), "/"),
		},
		App: AppConfig{
			Dev: getEnvBool("DEV", true),
		},
	}
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}

// getEnvDuration accepts Go durations ("250ms") or plain milliseconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}

// getEnvList splits a comma-separated variable.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
