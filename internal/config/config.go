// Package config loads settings for the shapetable binaries from
// environment variables, applying defaults and validating the result so
// misconfiguration fails at startup.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all settings. Every field can be set through the
// environment variable named in its env tag.
type Config struct {
	Server   ServerConfig
	Ingest   IngestConfig
	Sort     SortConfig
	Database DatabaseConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`

	// MaxDocuments caps the number of documents held open at once (default: 64)
	MaxDocuments int `env:"SERVER_MAX_DOCUMENTS" default:"64"`
}

// IngestConfig holds parsing and detection settings.
type IngestConfig struct {
	// ProbeLines is the number of rows parsed per candidate dialect (default: 10)
	ProbeLines int `env:"INGEST_PROBE_LINES" default:"10"`

	// UTF8SniffLimit is the input size from which UTF-8 validation is skipped (default: 200 MiB)
	UTF8SniffLimit int64 `env:"INGEST_UTF8_SNIFF_LIMIT" default:"209715200"`

	// ProgressEvery is the row interval between progress reports (default: 25000)
	ProgressEvery int `env:"INGEST_PROGRESS_EVERY" default:"25000"`

	// MaxUploadSize is the largest accepted upload in bytes (default: 100 MiB)
	MaxUploadSize int64 `env:"INGEST_MAX_UPLOAD_SIZE" default:"104857600"`

	// ResizeRows pads every row to the widest row (default: true)
	ResizeRows bool `env:"INGEST_RESIZE_ROWS" default:"true"`
}

// SortConfig holds sort settings.
type SortConfig struct {
	// YieldEvery is the comparison interval between two yields (default: 50000)
	YieldEvery int `env:"SORT_YIELD_EVERY" default:"50000"`
}

// DatabaseConfig holds the optional PostgreSQL export target.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string. Empty disables export.
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	MaxConns        int           `env:"DB_MAX_CONNS" default:"4"`
	MinConns        int           `env:"DB_MIN_CONNS" default:"0"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// Enabled reports whether a database is configured.
func (c *DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
