// Package core holds the shared configuration, error, and lifecycle
// primitives used by every other part of the service. Nothing in this
// package touches pixel data; it exists so the engine packages stay free
// of environment concerns.
package core

import (
	"net"
	"path/filepath"
	"strconv"
)

// Default configuration values. Every variable has a default so the server
// starts with zero configuration; .env and the process environment only
// override.
const (
	DefaultHost            = "localhost"
	DefaultPort            = 3000
	DefaultDataDir         = "./data"
	DefaultMigrationsPath  = "file://db/migrations"
	DefaultLogLevel        = "info"
	DefaultMaxUploadBytes  = 32 * BytesPerMB
	DefaultMaxPixels       = 64 * 1024 * 1024
	DefaultPresetsFile     = "presets.yaml"
	DefaultHistoryCapacity = 100
)

// Config holds the complete service configuration, loaded from the
// environment by LoadConfig.
type Config struct {
	// HTTP bind address parts.
	Host string
	Port int

	// DataDir is the root directory for the database and log files.
	DataDir string
	// DBPath is the SQLite history database file. Defaults to
	// <DataDir>/pixlab.db.
	DBPath string
	// MigrationsPath is the golang-migrate source URL for the history schema.
	MigrationsPath string

	// LogFile is the rotated JSON log destination. Defaults to
	// <DataDir>/logs/pixlab.log.
	LogFile string
	// LogLevel is the minimum zap level (debug, info, warn, error).
	LogLevel string
	// DevMode switches logging to console-friendly output with no file core.
	DevMode bool

	// MaxUploadBytes caps the HTTP request body size.
	MaxUploadBytes int64
	// MaxPixels caps the declared width*height of any transform request.
	// Zero disables the cap.
	MaxPixels int64

	// APIKey, when non-empty, requires clients to present it via the
	// X-API-Key header. May be a plaintext key or a bcrypt hash.
	APIKey string

	// PresetsFile is the YAML pipeline presets file. A missing file is not
	// an error; the server simply runs without presets.
	PresetsFile string

	// HistoryCapacity is the size of the in-memory recent-operation ring.
	HistoryCapacity int

	// EnableGzip turns on gzip response compression.
	EnableGzip bool
}

// LoadConfig reads the service configuration from the environment and
// validates it. Callers should load .env (if any) into the environment
// before calling this.
func LoadConfig() (*Config, error) {
	dataDir := GetEnvOrDefault("PIXLAB_DATA_DIR", DefaultDataDir)

	cfg := &Config{
		Host:            GetEnvOrDefault("PIXLAB_HOST", DefaultHost),
		Port:            ParseIntEnv("PIXLAB_PORT", DefaultPort),
		DataDir:         dataDir,
		DBPath:          GetEnvOrDefault("PIXLAB_DB_PATH", filepath.Join(dataDir, "pixlab.db")),
		MigrationsPath:  GetEnvOrDefault("PIXLAB_MIGRATIONS_PATH", DefaultMigrationsPath),
		LogFile:         GetEnvOrDefault("PIXLAB_LOG_FILE", filepath.Join(dataDir, "logs", "pixlab.log")),
		LogLevel:        GetEnvOrDefault("PIXLAB_LOG_LEVEL", DefaultLogLevel),
		DevMode:         ParseBoolEnv("DEV_MODE", false),
		MaxUploadBytes:  ParseBytesEnv("PIXLAB_MAX_UPLOAD_BYTES", DefaultMaxUploadBytes),
		MaxPixels:       ParseInt64Env("PIXLAB_MAX_PIXELS", DefaultMaxPixels),
		APIKey:          GetEnvOrDefault("PIXLAB_API_KEY", ""),
		PresetsFile:     GetEnvOrDefault("PIXLAB_PRESETS_FILE", DefaultPresetsFile),
		HistoryCapacity: ParseIntEnv("PIXLAB_HISTORY_CAPACITY", DefaultHistoryCapacity),
		EnableGzip:      ParseBoolEnv("PIXLAB_GZIP", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values that cannot work at runtime.
// Returns the first problem as a *ConfigError.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return ErrInvalidPort(c.Port)
	}
	if c.DataDir == "" {
		return ErrMissingConfig("PIXLAB_DATA_DIR")
	}
	if c.MaxUploadBytes <= 0 {
		return ErrInvalidLimit("PIXLAB_MAX_UPLOAD_BYTES", c.MaxUploadBytes)
	}
	if c.MaxPixels < 0 {
		return ErrInvalidLimit("PIXLAB_MAX_PIXELS", c.MaxPixels)
	}
	if c.HistoryCapacity < 1 {
		return ErrInvalidLimit("PIXLAB_HISTORY_CAPACITY", int64(c.HistoryCapacity))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel(c.LogLevel)
	}
	return nil
}

// Addr returns the HTTP bind address in host:port form.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// RequiresAuth reports whether clients must present an API key.
func (c *Config) RequiresAuth() bool {
	return c.APIKey != ""
}
