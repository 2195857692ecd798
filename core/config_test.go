package core

import (
	"os"
	"path/filepath"
	"testing"
)

// pixlabEnvKeys lists every environment variable LoadConfig reads.
var pixlabEnvKeys = []string{
	"PIXLAB_HOST",
	"PIXLAB_PORT",
	"PIXLAB_DATA_DIR",
	"PIXLAB_DB_PATH",
	"PIXLAB_MIGRATIONS_PATH",
	"PIXLAB_LOG_FILE",
	"PIXLAB_LOG_LEVEL",
	"PIXLAB_MAX_UPLOAD_BYTES",
	"PIXLAB_MAX_PIXELS",
	"PIXLAB_API_KEY",
	"PIXLAB_PRESETS_FILE",
	"PIXLAB_HISTORY_CAPACITY",
	"PIXLAB_GZIP",
	"DEV_MODE",
}

// clearPixlabEnv removes every service variable from the environment so a
// test sees pure defaults. t.Setenv registers the restores.
func clearPixlabEnv(t *testing.T) {
	t.Helper()
	for _, key := range pixlabEnvKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

// TestLoadConfig_Defaults verifies that a bare environment produces the
// documented defaults, including the paths derived from the data directory.
func TestLoadConfig_Defaults(t *testing.T) {
	clearPixlabEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Host != "localhost" {
		t.Errorf("Host = %q, want %q", cfg.Host, "localhost")
	}
	if cfg.Port != 3000 {
		t.Errorf("Port = %d, want 3000", cfg.Port)
	}
	if cfg.DataDir != "./data" {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, "./data")
	}
	if want := filepath.Join("./data", "pixlab.db"); cfg.DBPath != want {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, want)
	}
	if want := filepath.Join("./data", "logs", "pixlab.log"); cfg.LogFile != want {
		t.Errorf("LogFile = %q, want %q", cfg.LogFile, want)
	}
	if cfg.MigrationsPath != "file://db/migrations" {
		t.Errorf("MigrationsPath = %q, want %q", cfg.MigrationsPath, "file://db/migrations")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.DevMode {
		t.Error("DevMode = true, want false")
	}
	if cfg.MaxUploadBytes != 32*BytesPerMB {
		t.Errorf("MaxUploadBytes = %d, want %d", cfg.MaxUploadBytes, 32*BytesPerMB)
	}
	if cfg.MaxPixels != 64*1024*1024 {
		t.Errorf("MaxPixels = %d, want %d", cfg.MaxPixels, 64*1024*1024)
	}
	if cfg.APIKey != "" {
		t.Errorf("APIKey = %q, want empty", cfg.APIKey)
	}
	if cfg.PresetsFile != "presets.yaml" {
		t.Errorf("PresetsFile = %q, want %q", cfg.PresetsFile, "presets.yaml")
	}
	if cfg.HistoryCapacity != 100 {
		t.Errorf("HistoryCapacity = %d, want 100", cfg.HistoryCapacity)
	}
	if !cfg.EnableGzip {
		t.Error("EnableGzip = false, want true")
	}
}

// TestLoadConfig_Overrides verifies that environment variables override
// defaults and that explicit DB/log paths win over the derived ones.
func TestLoadConfig_Overrides(t *testing.T) {
	clearPixlabEnv(t)
	t.Setenv("PIXLAB_HOST", "0.0.0.0")
	t.Setenv("PIXLAB_PORT", "8080")
	t.Setenv("PIXLAB_DATA_DIR", "/var/lib/pixlab")
	t.Setenv("PIXLAB_DB_PATH", "/tmp/history.db")
	t.Setenv("PIXLAB_LOG_LEVEL", "debug")
	t.Setenv("PIXLAB_MAX_UPLOAD_BYTES", "16MB")
	t.Setenv("PIXLAB_API_KEY", "secret")
	t.Setenv("PIXLAB_GZIP", "off")
	t.Setenv("DEV_MODE", "true")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Host != "0.0.0.0" {
		t.Errorf("Host = %q, want %q", cfg.Host, "0.0.0.0")
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.DBPath != "/tmp/history.db" {
		t.Errorf("DBPath = %q, want explicit override", cfg.DBPath)
	}
	// Log file still derives from the overridden data dir.
	if want := filepath.Join("/var/lib/pixlab", "logs", "pixlab.log"); cfg.LogFile != want {
		t.Errorf("LogFile = %q, want %q", cfg.LogFile, want)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.MaxUploadBytes != 16*BytesPerMB {
		t.Errorf("MaxUploadBytes = %d, want %d", cfg.MaxUploadBytes, 16*BytesPerMB)
	}
	if !cfg.RequiresAuth() {
		t.Error("RequiresAuth() = false with API key set")
	}
	if cfg.EnableGzip {
		t.Error("EnableGzip = true, want false")
	}
	if !cfg.DevMode {
		t.Error("DevMode = false, want true")
	}
}

// TestLoadConfig_Invalid verifies that broken values surface as ConfigErrors
// with the right code instead of silently starting a misconfigured server.
func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		wantCode string
	}{
		{name: "port too large", key: "PIXLAB_PORT", value: "70000", wantCode: ErrCodeInvalidPort},
		{name: "port zero", key: "PIXLAB_PORT", value: "0", wantCode: ErrCodeInvalidPort},
		{name: "negative pixel cap", key: "PIXLAB_MAX_PIXELS", value: "-1", wantCode: ErrCodeInvalidLimit},
		{name: "zero history capacity", key: "PIXLAB_HISTORY_CAPACITY", value: "0", wantCode: ErrCodeInvalidLimit},
		{name: "bad log level", key: "PIXLAB_LOG_LEVEL", value: "verbose", wantCode: ErrCodeInvalidLogLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearPixlabEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := LoadConfig()
			if err == nil {
				t.Fatal("LoadConfig() succeeded, want error")
			}
			if code := GetErrorCode(err); code != tt.wantCode {
				t.Errorf("error code = %q, want %q (err: %v)", code, tt.wantCode, err)
			}
		})
	}
}

// TestConfig_Addr verifies host:port joining, including IPv6 bracketing.
func TestConfig_Addr(t *testing.T) {
	tests := []struct {
		name string
		host string
		port int
		want string
	}{
		{name: "hostname", host: "localhost", port: 3000, want: "localhost:3000"},
		{name: "wildcard", host: "0.0.0.0", port: 80, want: "0.0.0.0:80"},
		{name: "ipv6", host: "::1", port: 3000, want: "[::1]:3000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Host: tt.host, Port: tt.port}
			if got := cfg.Addr(); got != tt.want {
				t.Errorf("Addr() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestConfig_Validate exercises Validate directly on a hand-built Config.
func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Host:            "localhost",
			Port:            3000,
			DataDir:         "./data",
			MaxUploadBytes:  1024,
			MaxPixels:       0, // zero disables the cap
			LogLevel:        "info",
			HistoryCapacity: 10,
		}
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("Validate() on valid config = %v", err)
	}

	t.Run("empty data dir", func(t *testing.T) {
		cfg := valid()
		cfg.DataDir = ""
		if code := GetErrorCode(cfg.Validate()); code != ErrCodeMissingConfig {
			t.Errorf("error code = %q, want %q", code, ErrCodeMissingConfig)
		}
	})

	t.Run("zero upload cap", func(t *testing.T) {
		cfg := valid()
		cfg.MaxUploadBytes = 0
		if code := GetErrorCode(cfg.Validate()); code != ErrCodeInvalidLimit {
			t.Errorf("error code = %q, want %q", code, ErrCodeInvalidLimit)
		}
	})
}
