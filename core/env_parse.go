package core

// This file contains the environment parsing atoms used by LoadConfig.
// Each helper reads a single variable and falls back to the caller's
// default when the variable is unset, empty, or unparseable.

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// GetEnvOrDefault returns the value of the environment variable key,
// or defaultValue when the variable is unset or empty.
//
// This is a pure function with no side effects beyond reading the environment.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// ParseIntEnv reads an integer environment variable.
// Returns defaultValue when the variable is unset, empty, or not a valid integer.
func ParseIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return defaultValue
	}
	return parsed
}

// ParseInt64Env reads a 64-bit integer environment variable.
// Returns defaultValue when the variable is unset, empty, or not a valid integer.
func ParseInt64Env(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// ParseFloat64Env reads a floating-point environment variable.
// Returns defaultValue when the variable is unset, empty, or not a valid float.
func ParseFloat64Env(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// ParseBoolEnv reads a boolean environment variable.
// Accepts true/1/yes/on and false/0/no/off (case-insensitive).
// Returns defaultValue when the variable is unset, empty, or unrecognized.
func ParseBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}

// ParseDurationEnv reads a duration environment variable expressed in seconds.
// Returns defaultSeconds (as a Duration) when the variable is unset, empty,
// or not a valid integer.
func ParseDurationEnv(key string, defaultSeconds int) time.Duration {
	seconds := ParseIntEnv(key, defaultSeconds)
	return time.Duration(seconds) * time.Second
}

// ParseBytesEnv reads a byte-count environment variable. The value may be a
// plain integer ("33554432") or carry a unit suffix ("32MB", "1.5 GB").
// Returns defaultBytes when the variable is unset, empty, or unparseable.
func ParseBytesEnv(key string, defaultBytes int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultBytes
	}
	parsed, err := ParseBytes(value)
	if err != nil {
		return defaultBytes
	}
	return parsed
}
