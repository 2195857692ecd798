// Package logging provides structured logging for the PixLab service.
//
// The package is organized in layers:
//   - atoms: encoder configs, log level parsing, sensitive data redaction
//   - molecules: FileWriter (rotation), MultiCore (console + file tee),
//     field helpers for transform operations
//   - organisms: Logger (the main structured logger) and OpLogger
//     (operation timing instrumentation)
//
// Every log entry is written to both the console and a rotating log file.
// Field values are scanned for credentials before they are written, so an
// API key that leaks into a log call never reaches disk.
package logging

import "go.uber.org/zap"

// NewNop returns a Logger that discards everything it is given.
// Useful in tests that need a non-nil Logger but no output.
func NewNop() *Logger {
	z := zap.NewNop()
	return &Logger{
		zap:   z,
		sugar: z.Sugar(),
	}
}
