package logging

import (
	"regexp"
	"strings"
)

// RedactedPlaceholder is the string used to replace sensitive data
const RedactedPlaceholder = "[REDACTED]"

// sensitivePatterns contains compiled regex patterns for detecting sensitive data.
// These patterns are compiled once at package initialization for performance.
var sensitivePatterns = []*regexp.Regexp{
	// Generic 32-char hex strings - the usual shape of generated API keys
	regexp.MustCompile(`(?i)([a-f0-9]{32})`),

	// bcrypt hashes - the stored form of the service API key must never be logged
	regexp.MustCompile(`(\$2[aby]\$\d{2}\$[./A-Za-z0-9]{53})`),

	// Auth header values
	regexp.MustCompile(`(?i)(bearer\s+[a-zA-Z0-9._-]{16,})`),
	regexp.MustCompile(`(?i)(x-api-key\s*[:=]\s*[^\s,;]+)`),

	// Generic secret assignments
	regexp.MustCompile(`(?i)(password\s*[:=]\s*[^\s,;]{8,})`), // password= or password:
	regexp.MustCompile(`(?i)(secret\s*[:=]\s*[^\s,;]{8,})`),   // secret= or secret:
	regexp.MustCompile(`(?i)(token\s*[:=]\s*[^\s,;]{8,})`),    // token= or token:
	regexp.MustCompile(`(?i)(api_key\s*[:=]\s*[^\s,;]{8,})`),  // api_key= or api_key:
	regexp.MustCompile(`(?i)(apikey\s*[:=]\s*[^\s,;]{8,})`),   // apikey= or apikey:
}

// sensitiveFieldMarkers are field name fragments that indicate sensitive data
var sensitiveFieldMarkers = []string{
	"PIXLAB_API_KEY",
	"PASSWORD",
	"PASSWD",
	"SECRET",
	"TOKEN",
	"API_KEY",
	"API-KEY", // the X-API-Key request header
	"APIKEY",
}

// RedactSensitiveData scans a string value and redacts any detected sensitive data.
// This is a pure function - it takes a string and returns a sanitized string.
//
// Patterns detected:
//   - 32-character hex strings (generated API keys)
//   - bcrypt hashes
//   - Bearer tokens and X-API-Key header values
//   - Generic password/secret/token/api_key assignments
//
// Example:
//
//	input := "auth failed for key 0123456789abcdef0123456789abcdef"
//	output := RedactSensitiveData(input)
//	// output: "auth failed for key [REDACTED]"
func RedactSensitiveData(value string) string {
	if value == "" {
		return value
	}

	result := value
	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllString(result, RedactedPlaceholder)
	}
	return result
}

// RedactField redacts a field value if the field name indicates sensitive data.
// This is useful for structured logging where field names are known.
//
// This is a pure function with no side effects.
//
// Example:
//
//	value := RedactField("PIXLAB_API_KEY", "0123456789abcdef...")
//	// value: "[REDACTED]"
//
//	value := RedactField("op", "grayscale")
//	// value: "grayscale" (unchanged)
func RedactField(fieldName, fieldValue string) string {
	upperName := strings.ToUpper(fieldName)

	// Check if field name indicates sensitive data
	for _, marker := range sensitiveFieldMarkers {
		if strings.Contains(upperName, marker) {
			return RedactedPlaceholder
		}
	}

	// Also scan the value itself for sensitive patterns
	return RedactSensitiveData(fieldValue)
}

// IsSensitiveField returns true if the field name indicates sensitive data.
// This is a pure function that only checks the field name, not the value.
//
// Example:
//
//	IsSensitiveField("PIXLAB_API_KEY")  // true
//	IsSensitiveField("op")              // false
func IsSensitiveField(fieldName string) bool {
	upperName := strings.ToUpper(fieldName)

	for _, marker := range sensitiveFieldMarkers {
		if strings.Contains(upperName, marker) {
			return true
		}
	}
	return false
}

// ContainsSensitiveData returns true if the value contains any sensitive data patterns.
// This is a pure function that scans the value for known patterns.
//
// Example:
//
//	ContainsSensitiveData("password=hunter2hunter2")  // true
//	ContainsSensitiveData("hello world")              // false
func ContainsSensitiveData(value string) bool {
	if value == "" {
		return false
	}

	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(value) {
			return true
		}
	}
	return false
}
