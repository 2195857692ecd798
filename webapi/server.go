// Package webapi exposes the transform engine over HTTP.
// This file contains the Server organism that wires together the API
// handlers and middleware.
package webapi

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"

	"pixlab/db"
	"pixlab/metrics"
	"pixlab/transform"
)

// Server is the main HTTP server organism for the transform service.
// It wires together:
//   - TransformAPI for the REST endpoints
//   - LoggingMiddleware for request logging
//   - APIKeyAuth for optional key-based authentication
//   - gzhttp for optional response compression
//
// Methods:
//   - NewServer() creates a configured server instance
//   - Start() begins listening on the configured address
//   - Shutdown() gracefully shuts down the server
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	config     ServerConfig
	logger     *zap.Logger
	api        *TransformAPI
	auth       *APIKeyAuth
	loggingMw  *LoggingMiddleware
}

// ServerConfig configures the Server.
type ServerConfig struct {
	// Host to bind to (default: "localhost")
	Host string

	// Port to listen on (default: 3000)
	Port int

	// ReadTimeout for HTTP requests (default: 30s)
	ReadTimeout time.Duration

	// WriteTimeout for HTTP responses (default: 30s)
	WriteTimeout time.Duration

	// IdleTimeout for keep-alive connections (default: 120s)
	IdleTimeout time.Duration

	// APIKey enables X-API-Key authentication when non-empty. May be a
	// plaintext key or a bcrypt hash.
	APIKey string

	// EnableGzip compresses responses for clients that accept it
	EnableGzip bool

	// DevMode switches request logging to colored terminal output
	DevMode bool

	// LogSkipPaths are paths to skip request logging
	LogSkipPaths []string

	// API configures the TransformAPI (limits, body cap, version info)
	API TransformAPIConfig
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "localhost",
		Port:         3000,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		EnableGzip:   true,
		LogSkipPaths: []string{"/health"},
		API:          DefaultTransformAPIConfig(),
	}
}

// NewServer creates a new Server with the given configuration.
// It wires together all the middleware and handlers.
// The history repository and preset library may be nil (see TransformAPI).
func NewServer(
	config ServerConfig,
	dispatcher *transform.Dispatcher,
	store metrics.Collector,
	history *db.HistoryRepository,
	presets *PresetLibrary,
	logger *zap.Logger,
) (*Server, error) {
	if dispatcher == nil {
		return nil, fmt.Errorf("webapi: dispatcher cannot be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("webapi: metrics store cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	api := NewTransformAPI(dispatcher, store, history, presets, logger, config.API)

	// Dev mode logs colored lines to the terminal; production logs
	// structured entries through zap.
	var requestLogger RequestLogger = &ZapRequestLogger{Logger: logger}
	if config.DevMode {
		requestLogger = &ColorRequestLogger{}
	}
	loggingMw := NewLoggingMiddleware(LoggingMiddlewareConfig{
		Logger:    requestLogger,
		SkipPaths: config.LogSkipPaths,
	})

	var auth *APIKeyAuth
	if config.APIKey != "" {
		var err error
		auth, err = NewAPIKeyAuth(config.APIKey, logger)
		if err != nil {
			return nil, fmt.Errorf("webapi: configure api key auth: %w", err)
		}
	}

	server := &Server{
		mux:       http.NewServeMux(),
		config:    config,
		logger:    logger,
		api:       api,
		auth:      auth,
		loggingMw: loggingMw,
	}

	server.setupRoutes()

	addr := net.JoinHostPort(config.Host, strconv.Itoa(config.Port))
	server.httpServer = &http.Server{
		Addr:         addr,
		Handler:      server.rootHandler(),
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	logger.Info("API server created",
		zap.String("addr", addr),
		zap.Bool("auth_enabled", auth != nil),
		zap.Bool("gzip_enabled", config.EnableGzip),
	)

	return server, nil
}

// setupRoutes configures all the HTTP routes.
func (s *Server) setupRoutes() {
	// Health check endpoint (no auth required)
	s.mux.HandleFunc("/health", s.handleHealth)

	// API endpoints, behind auth when a key is configured
	apiMux := http.NewServeMux()
	s.api.RegisterRoutes(apiMux)

	var apiHandler http.Handler = apiMux
	if s.auth != nil {
		apiHandler = s.auth.Middleware(apiHandler)
	}
	s.mux.Handle("/api/", apiHandler)
}

// rootHandler wraps the mux with middleware. Logging sits outside the
// compression layer so it records the status the client actually received;
// the request ID middleware wraps everything so the correlation ID is in
// the context before any logging happens.
func (s *Server) rootHandler() http.Handler {
	var handler http.Handler = s.mux

	if s.config.EnableGzip {
		handler = gzhttp.GzipHandler(handler)
	}

	handler = s.loggingMw.Handler(handler)
	handler = RequestIDMiddleware(handler)

	return handler
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// Start begins listening for HTTP requests.
// This method blocks until the server is shut down.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("API server starting",
		zap.String("addr", s.httpServer.Addr),
	)

	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server, draining in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("http shutdown error: %w", err)
	}

	s.logger.Info("API server stopped")
	return nil
}

// Addr returns the server's address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// HTTPServer returns the underlying http.Server for shutdown hooks.
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// API returns the TransformAPI for direct access in tests.
func (s *Server) API() *TransformAPI {
	return s.api
}

// HasAuth returns whether API-key authentication is enabled.
func (s *Server) HasAuth() bool {
	return s.auth != nil
}
