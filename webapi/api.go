// Package webapi exposes the transform engine over HTTP.
// This file contains the TransformAPI organism for the REST endpoints.
package webapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"pixlab/db"
	"pixlab/imagemeta"
	"pixlab/metrics"
	"pixlab/transform"
)

// TransformAPI is an organism that provides the REST API handlers.
// It composes the transform dispatcher for execution, the metrics store for
// stats, the history repository for persistence, and the preset library.
//
// Endpoints:
// - GET  /api/status         - Service health, version, and totals
// - GET  /api/ops            - Operation catalog with parameter hints
// - POST /api/transform/{op} - Run a single operation
// - POST /api/pipeline       - Run inline steps or a named preset
// - GET  /api/presets        - Loaded presets
// - POST /api/metadata       - Inspect an encoded image header
// - GET  /api/history        - Recent operations from SQLite (limit param)
// - GET  /api/stats          - Aggregate metrics from the in-memory store
type TransformAPI struct {
	dispatcher   *transform.Dispatcher
	store        metrics.Collector
	history      *db.HistoryRepository
	presets      *PresetLibrary
	logger       *zap.Logger
	versionInfo  VersionInfo
	defaultLimit int
	maxLimit     int
	maxBodyBytes int64
}

// VersionInfo contains version metadata for the status endpoint.
type VersionInfo struct {
	Version   string `json:"version"`
	BuildDate string `json:"build_date,omitempty"`
	GitCommit string `json:"git_commit,omitempty"`
}

// TransformAPIConfig configures the TransformAPI behavior.
type TransformAPIConfig struct {
	// DefaultLimit is the default number of items in list endpoints
	DefaultLimit int

	// MaxLimit is the maximum number of items that can be requested
	MaxLimit int

	// MaxBodyBytes caps request bodies via http.MaxBytesReader
	MaxBodyBytes int64

	// VersionInfo contains application version metadata
	VersionInfo VersionInfo
}

// DefaultTransformAPIConfig returns a default configuration.
func DefaultTransformAPIConfig() TransformAPIConfig {
	return TransformAPIConfig{
		DefaultLimit: 20,
		MaxLimit:     100,
		MaxBodyBytes: 32 << 20,
		VersionInfo: VersionInfo{
			Version: "0.0.0",
		},
	}
}

// NewTransformAPI creates a new TransformAPI.
// The history repository and preset library are optional and may be nil;
// the corresponding endpoints degrade (503 for history, empty presets).
func NewTransformAPI(
	dispatcher *transform.Dispatcher,
	store metrics.Collector,
	history *db.HistoryRepository,
	presets *PresetLibrary,
	logger *zap.Logger,
	config TransformAPIConfig,
) *TransformAPI {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.DefaultLimit < 1 {
		config.DefaultLimit = 20
	}
	if config.MaxLimit < 1 {
		config.MaxLimit = 100
	}
	if config.MaxBodyBytes < 1 {
		config.MaxBodyBytes = 32 << 20
	}

	return &TransformAPI{
		dispatcher:   dispatcher,
		store:        store,
		history:      history,
		presets:      presets,
		logger:       logger,
		versionInfo:  config.VersionInfo,
		defaultLimit: config.DefaultLimit,
		maxLimit:     config.MaxLimit,
		maxBodyBytes: config.MaxBodyBytes,
	}
}

// RegisterRoutes registers all API routes on the given ServeMux.
func (api *TransformAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/status", api.HandleStatus)
	mux.HandleFunc("/api/ops", api.HandleOps)
	mux.HandleFunc("/api/transform/", api.HandleTransform)
	mux.HandleFunc("/api/pipeline", api.HandlePipeline)
	mux.HandleFunc("/api/presets", api.HandlePresets)
	mux.HandleFunc("/api/metadata", api.HandleMetadata)
	mux.HandleFunc("/api/history", api.HandleHistory)
	mux.HandleFunc("/api/stats", api.HandleStats)
}

// StatusResponse represents the JSON response for /api/status.
type StatusResponse struct {
	Health         string    `json:"health"`
	Version        string    `json:"version"`
	BuildDate      string    `json:"build_date,omitempty"`
	GitCommit      string    `json:"git_commit,omitempty"`
	Uptime         string    `json:"uptime"`
	UptimeSecs     float64   `json:"uptime_secs"`
	LastCheck      time.Time `json:"last_check"`
	TotalProcessed int64     `json:"total_processed"`
	TotalErrors    int64     `json:"total_errors"`
}

// HandleStatus handles GET /api/status requests.
func (api *TransformAPI) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	status := api.store.GetSystemStatus()
	totals := api.store.GetOpMetrics()

	writeJSON(w, http.StatusOK, StatusResponse{
		Health:         status.Health,
		Version:        api.versionInfo.Version,
		BuildDate:      api.versionInfo.BuildDate,
		GitCommit:      api.versionInfo.GitCommit,
		Uptime:         FormatDuration(status.Uptime),
		UptimeSecs:     status.Uptime.Seconds(),
		LastCheck:      status.LastCheck,
		TotalProcessed: totals.TotalProcessed,
		TotalErrors:    totals.TotalErrors,
	})
}

// OpsResponse represents the JSON response for /api/ops.
type OpsResponse struct {
	Ops   []transform.OpInfo `json:"ops"`
	Count int                `json:"count"`
}

// HandleOps handles GET /api/ops requests.
func (api *TransformAPI) HandleOps(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ops := transform.Ops()
	writeJSON(w, http.StatusOK, OpsResponse{Ops: ops, Count: len(ops)})
}

// PresetsResponse represents the JSON response for /api/presets.
type PresetsResponse struct {
	Presets []Preset `json:"presets"`
	Count   int      `json:"count"`
}

// HandlePresets handles GET /api/presets requests.
func (api *TransformAPI) HandlePresets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	all := api.presets.All()
	if all == nil {
		all = []Preset{}
	}
	writeJSON(w, http.StatusOK, PresetsResponse{Presets: all, Count: len(all)})
}

// HandleMetadata handles POST /api/metadata requests. The body is the raw
// encoded image (PNG, JPEG, GIF, WebP); the response is the header report.
// Undecodable bodies still produce a 200 with format "unknown" and an
// explanatory message.
func (api *TransformAPI) HandleMetadata(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, api.maxBodyBytes)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeMaxBytesOrBadRequest(w, err, "failed to read request body")
		return
	}

	writeJSON(w, http.StatusOK, imagemeta.Inspect(data))
}

// HistoryEntry is the JSON projection of one history row.
type HistoryEntry struct {
	ID           int64     `json:"id"`
	OpID         string    `json:"op_id"`
	Op           string    `json:"op"`
	PipelineID   string    `json:"pipeline_id,omitempty"`
	Status       string    `json:"status"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	OutputWidth  int       `json:"output_width"`
	OutputHeight int       `json:"output_height"`
	InputBytes   int       `json:"input_bytes"`
	OutputBytes  int       `json:"output_bytes"`
	DurationMS   int       `json:"duration_ms"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// HistoryResponse represents the JSON response for /api/history.
type HistoryResponse struct {
	Operations []HistoryEntry `json:"operations"`
	Count      int            `json:"count"`
	Limit      int            `json:"limit"`
}

// HandleHistory handles GET /api/history requests.
// Query parameters:
// - limit: number of operations to return (default: 20, max: 100)
func (api *TransformAPI) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if api.history == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "history persistence not configured")
		return
	}

	limit := api.parseLimit(r)

	records, err := api.history.QueryRecent(r.Context(), limit)
	if err != nil {
		api.logger.Error("history query failed", zap.Error(err))
		writeJSONError(w, http.StatusInternalServerError, "failed to query operation history")
		return
	}

	entries := make([]HistoryEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, HistoryEntry{
			ID:           rec.ID,
			OpID:         rec.OpID,
			Op:           rec.Op,
			PipelineID:   rec.PipelineID,
			Status:       rec.Status,
			Width:        rec.Width,
			Height:       rec.Height,
			OutputWidth:  rec.OutputWidth,
			OutputHeight: rec.OutputHeight,
			InputBytes:   rec.InputBytes,
			OutputBytes:  rec.OutputBytes,
			DurationMS:   rec.DurationMS,
			ErrorMessage: rec.ErrorMessage,
			CreatedAt:    rec.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, HistoryResponse{
		Operations: entries,
		Count:      len(entries),
		Limit:      limit,
	})
}

// StatsResponse represents the JSON response for /api/stats.
type StatsResponse struct {
	TotalProcessed int64                             `json:"total_processed"`
	TotalSuccess   int64                             `json:"total_success"`
	TotalErrors    int64                             `json:"total_errors"`
	SuccessRate    float64                           `json:"success_rate"`
	BytesIn        int64                             `json:"bytes_in"`
	BytesOut       int64                             `json:"bytes_out"`
	ByOp           map[string]*metrics.OpTypeMetrics `json:"by_op"`
}

// HandleStats handles GET /api/stats requests.
func (api *TransformAPI) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	opMetrics := api.store.GetOpMetrics()

	var successRate float64
	if opMetrics.TotalProcessed > 0 {
		successRate = float64(opMetrics.TotalSuccess) / float64(opMetrics.TotalProcessed) * 100
	}

	writeJSON(w, http.StatusOK, StatsResponse{
		TotalProcessed: opMetrics.TotalProcessed,
		TotalSuccess:   opMetrics.TotalSuccess,
		TotalErrors:    opMetrics.TotalErrors,
		SuccessRate:    successRate,
		BytesIn:        opMetrics.BytesIn,
		BytesOut:       opMetrics.BytesOut,
		ByOp:           opMetrics.ByOp,
	})
}

// parseLimit reads the limit query parameter, clamped to the configured max.
func (api *TransformAPI) parseLimit(r *http.Request) int {
	limit := api.defaultLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > api.maxLimit {
		limit = api.maxLimit
	}
	return limit
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Best effort - headers already written
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// writeJSONError writes an error response with the standard body shape.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}
