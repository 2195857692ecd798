package core

import (
	"fmt"
)

// ConfigError represents a configuration-related error with actionable instructions.
type ConfigError struct {
	Code    string // Error code for programmatic handling
	Message string // Human-readable error message
	Action  string // Actionable instruction for resolution
}

func (e *ConfigError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("%s. %s", e.Message, e.Action)
	}
	return e.Message
}

// Error codes for configuration errors
const (
	ErrCodeInvalidPort      = "INVALID_PORT"
	ErrCodeInvalidDataDir   = "INVALID_DATA_DIR"
	ErrCodeInvalidLimit     = "INVALID_LIMIT"
	ErrCodeInvalidLogLevel  = "INVALID_LOG_LEVEL"
	ErrCodeInvalidPresets   = "INVALID_PRESETS"
	ErrCodeDatabaseUnusable = "DATABASE_UNUSABLE"
	ErrCodeMissingConfig    = "MISSING_CONFIG"
)

// ErrInvalidPort returns an error for an out-of-range HTTP port.
func ErrInvalidPort(port int) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidPort,
		Message: fmt.Sprintf("Invalid PIXLAB_PORT value: %d", port),
		Action:  "Set PIXLAB_PORT to a port number between 1 and 65535",
	}
}

// ErrInvalidDataDir returns an error for an unusable data directory.
func ErrInvalidDataDir(path string, reason string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidDataDir,
		Message: fmt.Sprintf("Data directory %s is not usable: %s", path, reason),
		Action:  "Set PIXLAB_DATA_DIR to a writable directory",
	}
}

// ErrInvalidLimit returns an error for a non-positive request or pixel limit.
func ErrInvalidLimit(varName string, value int64) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidLimit,
		Message: fmt.Sprintf("Invalid %s value: %d", varName, value),
		Action:  fmt.Sprintf("Set %s to a positive number, or unset it to use the default", varName),
	}
}

// ErrInvalidLogLevel returns an error for an unrecognized log level.
func ErrInvalidLogLevel(level string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidLogLevel,
		Message: fmt.Sprintf("Invalid PIXLAB_LOG_LEVEL value: %s", level),
		Action:  "Set PIXLAB_LOG_LEVEL to one of: debug, info, warn, error",
	}
}

// ErrInvalidPresets returns an error for a presets file that exists but cannot be parsed.
func ErrInvalidPresets(path string, reason string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidPresets,
		Message: fmt.Sprintf("Presets file %s is invalid: %s", path, reason),
		Action:  "Fix the YAML in the presets file, or unset PIXLAB_PRESETS_FILE to run without presets",
	}
}

// ErrDatabaseUnusable returns an error when the history database cannot be opened.
func ErrDatabaseUnusable(path string, reason string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeDatabaseUnusable,
		Message: fmt.Sprintf("Cannot open history database at %s: %s", path, reason),
		Action:  "Check that PIXLAB_DB_PATH points to a writable location",
	}
}

// ErrMissingConfig returns an error for missing required configuration.
func ErrMissingConfig(varName string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeMissingConfig,
		Message: fmt.Sprintf("Missing required configuration: %s", varName),
		Action:  fmt.Sprintf("Set %s in your environment or .env file", varName),
	}
}

// IsConfigError checks if an error is a ConfigError and returns it if so.
func IsConfigError(err error) (*ConfigError, bool) {
	if configErr, ok := err.(*ConfigError); ok {
		return configErr, true
	}
	return nil, false
}

// GetErrorCode extracts the error code from an error if it's a ConfigError.
func GetErrorCode(err error) string {
	if configErr, ok := IsConfigError(err); ok {
		return configErr.Code
	}
	return ""
}
