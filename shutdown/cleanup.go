package shutdown

// This file contains ready-made cleanup hooks for the service's shutdown
// sequence: drain the HTTP server, flush the buffered history writer, close
// the database, sync the logs. Each returns a core.ShutdownFunc for
// Manager.Register.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"pixlab/core"

	"go.uber.org/zap"
)

// Flusher drains buffered writes, reporting whether everything was flushed.
// db.AsyncWriter satisfies this.
type Flusher interface {
	Flush() bool
}

// Syncer flushes buffered log output. Both *zap.Logger and the logging
// package's Logger satisfy this.
type Syncer interface {
	Sync() error
}

// DrainHTTPServer returns a shutdown function that stops the HTTP server,
// letting in-flight requests finish within the shutdown context's deadline.
//
// Priority recommendation: 0-9 (stop intake before anything else closes)
//
// Usage:
//
//	manager.Register("http-server", 5, shutdown.DrainHTTPServer(logger, srv))
func DrainHTTPServer(logger *zap.Logger, srv *http.Server) core.ShutdownFunc {
	return func(ctx context.Context) error {
		if srv == nil {
			return nil
		}
		logger.Info("Draining HTTP server", zap.String("addr", srv.Addr))
		if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("HTTP server drain did not finish cleanly", zap.Error(err))
			return fmt.Errorf("http server drain: %w", err)
		}
		logger.Info("HTTP server drained")
		return nil
	}
}

// FlushWriter returns a shutdown function that drains a buffered writer.
// Returns an error when the flush times out with writes still pending, so
// the loss is visible in the shutdown report.
//
// Priority recommendation: 10-19 (after intake stops, before storage closes)
//
// Usage:
//
//	manager.Register("history-writer", 15, shutdown.FlushWriter(logger, "history-writer", writer))
func FlushWriter(logger *zap.Logger, name string, w Flusher) core.ShutdownFunc {
	return func(ctx context.Context) error {
		if w == nil {
			return nil
		}
		logger.Info("Flushing buffered writes", zap.String("writer", name))
		if !w.Flush() {
			logger.Warn("Flush timed out with writes pending", zap.String("writer", name))
			return fmt.Errorf("%s: flush timed out with writes pending", name)
		}
		logger.Info("Buffered writes flushed", zap.String("writer", name))
		return nil
	}
}

// CloseResource returns a shutdown function that closes an io.Closer and
// reports any failure.
//
// Priority recommendation: 20-29 (storage and connections)
//
// Usage:
//
//	manager.Register("database", 25, shutdown.CloseResource(logger, "database", database))
func CloseResource(logger *zap.Logger, name string, c io.Closer) core.ShutdownFunc {
	return func(ctx context.Context) error {
		if c == nil {
			return nil
		}
		logger.Info("Closing resource", zap.String("resource", name))
		if err := c.Close(); err != nil {
			logger.Error("Failed to close resource",
				zap.String("resource", name),
				zap.Error(err),
			)
			return fmt.Errorf("close %s: %w", name, err)
		}
		logger.Info("Resource closed", zap.String("resource", name))
		return nil
	}
}

// SyncLogs returns a shutdown function that flushes buffered log output.
// Sync failures are swallowed: the process is exiting and a sync error must
// not mark the shutdown as failed.
//
// Priority recommendation: 30+ (last, so earlier hooks still log)
//
// Usage:
//
//	manager.Register("logs", 35, shutdown.SyncLogs(log))
func SyncLogs(s Syncer) core.ShutdownFunc {
	return func(ctx context.Context) error {
		if s == nil {
			return nil
		}
		_ = s.Sync()
		return nil
	}
}
