// Package config provides centralized configuration for the roster audit
// service. Settings come from environment variables with sensible defaults
// and are validated on startup to fail fast on misconfiguration.
package config

import (
	"fmt"
	"time"
)

// Storage backend names.
const (
	BackendLocal    = "local"
	BackendPostgres = "postgres"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Store   StoreConfig
	Audit   AuditConfig
	CORS    CORSConfig
	Logging LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading a request (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout per request (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`

	// MaxImportBytes caps the size of an uploaded import file (default: 20MB)
	MaxImportBytes int64 `env:"SERVER_MAX_IMPORT_BYTES" default:"20971520"`
}

// Addr returns the host:port to listen on.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StoreConfig selects and tunes the persistence backend.
type StoreConfig struct {
	// Backend is "local" (JSON files) or "postgres" (default: local)
	Backend string `env:"STORE_BACKEND" default:"local"`

	// DataDir is the local backend's data directory (default: data)
	DataDir string `env:"STORE_DATA_DIR" default:"data"`

	// DatabaseURL is the PostgreSQL connection string; required when
	// Backend is "postgres". Supports DATABASE_URL and DB_URL.
	DatabaseURL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum pool size (default: 10)
	MaxConns int `env:"DB_MAX_CONNS" default:"10"`

	// MinConns is the minimum pool size (default: 2)
	MinConns int `env:"DB_MIN_CONNS" default:"2"`
}

// AuditConfig tunes the compliance engine.
type AuditConfig struct {
	// FuzzyThreshold is the club/team similarity cutoff for loaned-player
	// detection, in (0,1] (default: 0.80)
	FuzzyThreshold float64 `env:"AUDIT_FUZZY_THRESHOLD" default:"0.80"`
}

// CORSConfig holds cross-origin settings for the JSON API.
type CORSConfig struct {
	// AllowedOrigins is a comma-separated origin list (default: *)
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is debug, info, warn or error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is "text" or "json" (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}
