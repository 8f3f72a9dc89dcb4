// Package config provides centralized configuration for the wizard and the
// proxy. It loads settings from environment variables with sensible defaults
// and validates them on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	API     APIConfig
	Auth    AuthConfig
	Wizard  WizardConfig
	Proxy   ProxyConfig
	History HistoryConfig
	Logging LoggingConfig
}

// APIConfig holds remote analysis/processing API settings.
type APIConfig struct {
	// BaseURL is the API root (default: http://localhost:5000/api)
	BaseURL string `env:"API_BASE_URL" default:"http://localhost:5000/api"`

	// Timeout bounds a single HTTP attempt (default: 60s)
	Timeout time.Duration `env:"API_TIMEOUT" default:"60s"`

	// MaxRetries applies to idempotent GETs only (default: 2)
	MaxRetries int `env:"API_MAX_RETRIES" default:"2"`

	// RateLimit is requests per second (default: 5)
	RateLimit float64 `env:"API_RATE_LIMIT" default:"5"`

	// RateBurst is the token bucket size (default: 2)
	RateBurst int `env:"API_RATE_BURST" default:"2"`
}

// AuthConfig holds the bearer credential source.
type AuthConfig struct {
	// Token is a fixed bearer token
	Token string `env:"API_TOKEN"`

	// TokenFile is a session file holding the token, re-read on every call.
	// Takes precedence over Token.
	TokenFile string `env:"API_TOKEN_FILE"`
}

// WizardConfig holds terminal client settings.
type WizardConfig struct {
	// DownloadDir receives processed files (default: .)
	DownloadDir string `env:"DOWNLOAD_DIR" default:"."`

	// PreviewUpload renders a local preview of the upload after analysis (default: true)
	PreviewUpload bool `env:"PREVIEW_RAW_UPLOAD" default:"true"`

	// LogFile receives logs while the TUI owns the terminal (default: tidyflow.log)
	LogFile string `env:"WIZARD_LOG_FILE" default:"tidyflow.log"`
}

// ProxyConfig holds CORS proxy settings.
type ProxyConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"PROXY_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8888)
	Port int `env:"PROXY_PORT" default:"8888"`

	// Target is the upstream origin, e.g. https://api.example.com (required for the proxy)
	Target string `env:"PROXY_TARGET"`

	// MaxConcurrent bounds simultaneous upload forwards (default: 4)
	MaxConcurrent int `env:"PROXY_MAX_CONCURRENT" default:"4"`

	// MaxWait is how long an upload waits for a slot (default: 30s)
	MaxWait time.Duration `env:"PROXY_MAX_WAIT" default:"30s"`

	// ReadTimeout is the maximum duration for reading a request (default: 30s)
	ReadTimeout time.Duration `env:"PROXY_READ_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"PROXY_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown (default: 15s)
	ShutdownTimeout time.Duration `env:"PROXY_SHUTDOWN_TIMEOUT" default:"15s"`

	// AllowedOrigins is a comma-separated CORS origin list (default: *)
	AllowedOrigins []string `env:"PROXY_ALLOWED_ORIGINS" default:"*"`
}

// HistoryConfig holds the optional run journal database.
type HistoryConfig struct {
	// DatabaseURL is a PostgreSQL connection string; empty disables the journal.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	DatabaseURL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of pooled connections (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the proxy listen address in host:port format.
func (c *ProxyConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// HistoryEnabled reports whether a journal database is configured.
func (c *Config) HistoryEnabled() bool {
	return c.History.DatabaseURL != ""
}
