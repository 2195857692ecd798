// Package webapi exposes the transform engine over HTTP.
// This file contains the transform and pipeline POST handlers.
package webapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"pixlab/db"
	"pixlab/filters"
	"pixlab/kernel"
	"pixlab/metrics"
	"pixlab/transform"
)

// TransformRequest is the JSON body for POST /api/transform/{op}.
type TransformRequest struct {
	// Data is the base64-encoded RGBA pixel buffer
	Data string `json:"data"`

	// Width and Height are the image dimensions in pixels
	Width  int `json:"width"`
	Height int `json:"height"`

	// Params carries operation-specific parameters
	Params transform.Params `json:"params"`
}

// TransformResponse is the JSON body of a successful transform.
type TransformResponse struct {
	Data      string  `json:"data"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	OpID      string  `json:"op_id"`
	ElapsedMS float64 `json:"elapsed_ms"`
}

// PipelineRequest is the JSON body for POST /api/pipeline. Exactly one of
// Steps and Preset must be set.
type PipelineRequest struct {
	Data   string           `json:"data"`
	Width  int              `json:"width"`
	Height int              `json:"height"`
	Steps  []transform.Step `json:"steps,omitempty"`
	Preset string           `json:"preset,omitempty"`
}

// PipelineResponse is the JSON body of a successful pipeline run.
type PipelineResponse struct {
	Data       string  `json:"data"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	PipelineID string  `json:"pipeline_id"`
	Steps      int     `json:"steps"`
	ElapsedMS  float64 `json:"elapsed_ms"`
}

// HandleTransform handles POST /api/transform/{op} requests.
// The operation name comes from the URL path; the pixel buffer, dimensions,
// and parameters come from the JSON body.
func (api *TransformAPI) HandleTransform(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	op := strings.TrimPrefix(r.URL.Path, "/api/transform/")
	if op == "" || strings.Contains(op, "/") {
		writeJSONError(w, http.StatusNotFound, fmt.Sprintf("unknown operation %q", op))
		return
	}

	var req TransformRequest
	if !api.decodeJSON(w, r, &req) {
		return
	}

	pixels, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid base64 pixel data: "+err.Error())
		return
	}

	res, err := api.dispatcher.Apply(transform.Request{
		Op:     op,
		Pixels: pixels,
		Width:  req.Width,
		Height: req.Height,
		Params: req.Params,
	})
	if err != nil {
		api.recordHistory(r.Context(), failureRecord(op, "", req.Width, req.Height, len(pixels), err))
		writeJSONError(w, statusForError(err), err.Error())
		return
	}

	api.recordHistory(r.Context(), db.OperationRecord{
		OpID:         res.OpID,
		Op:           res.Op,
		Status:       metrics.OpStatusSuccess,
		Width:        req.Width,
		Height:       req.Height,
		OutputWidth:  res.Width,
		OutputHeight: res.Height,
		InputBytes:   len(pixels),
		OutputBytes:  len(res.Pixels),
		DurationMS:   int(res.Elapsed.Milliseconds()),
	})

	writeJSON(w, http.StatusOK, TransformResponse{
		Data:      base64.StdEncoding.EncodeToString(res.Pixels),
		Width:     res.Width,
		Height:    res.Height,
		OpID:      res.OpID,
		ElapsedMS: durationMS(res.Elapsed),
	})
}

// HandlePipeline handles POST /api/pipeline requests. The steps come either
// inline or from a named preset; the buffer threads through them in order.
func (api *TransformAPI) HandlePipeline(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req PipelineRequest
	if !api.decodeJSON(w, r, &req) {
		return
	}

	steps := req.Steps
	if req.Preset != "" {
		if len(req.Steps) > 0 {
			writeJSONError(w, http.StatusBadRequest, "specify either steps or preset, not both")
			return
		}
		preset, ok := api.presets.Get(req.Preset)
		if !ok {
			writeJSONError(w, http.StatusNotFound, fmt.Sprintf("unknown preset %q", req.Preset))
			return
		}
		steps = preset.Steps
	}

	pixels, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid base64 pixel data: "+err.Error())
		return
	}

	res, err := api.dispatcher.RunPipeline(pixels, req.Width, req.Height, steps)
	if err != nil {
		if !errors.Is(err, transform.ErrEmptyPipeline) {
			api.recordHistory(r.Context(), failureRecord("pipeline", "", req.Width, req.Height, len(pixels), err))
		}
		writeJSONError(w, statusForError(err), err.Error())
		return
	}

	api.recordHistory(r.Context(), db.OperationRecord{
		OpID:         res.PipelineID,
		Op:           "pipeline",
		PipelineID:   res.PipelineID,
		Status:       metrics.OpStatusSuccess,
		Width:        req.Width,
		Height:       req.Height,
		OutputWidth:  res.Width,
		OutputHeight: res.Height,
		InputBytes:   len(pixels),
		OutputBytes:  len(res.Pixels),
		DurationMS:   int(res.Elapsed.Milliseconds()),
	})

	writeJSON(w, http.StatusOK, PipelineResponse{
		Data:       base64.StdEncoding.EncodeToString(res.Pixels),
		Width:      res.Width,
		Height:     res.Height,
		PipelineID: res.PipelineID,
		Steps:      res.Steps,
		ElapsedMS:  durationMS(res.Elapsed),
	})
}

// decodeJSON decodes the request body into dst with the body cap applied.
// On failure it writes the error response and returns false.
func (api *TransformAPI) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, api.maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeMaxBytesOrBadRequest(w, err, "malformed JSON request: "+err.Error())
		return false
	}
	return true
}

// writeMaxBytesOrBadRequest distinguishes an oversized body (413) from a
// plain decode failure (400).
func writeMaxBytesOrBadRequest(w http.ResponseWriter, err error, message string) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		writeJSONError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit))
		return
	}
	writeJSONError(w, http.StatusBadRequest, message)
}

// statusForError maps an engine error to its HTTP status: unknown op 404,
// oversized image 413, delegate failure 502, validation failures 400,
// anything unrecognized 500.
func statusForError(err error) int {
	var delegateErr *kernel.DelegateError
	var lengthErr *filters.LengthMismatchError

	switch {
	case errors.Is(err, transform.ErrUnknownOp):
		return http.StatusNotFound
	case errors.Is(err, transform.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &delegateErr):
		return http.StatusBadGateway
	case errors.As(err, &lengthErr),
		errors.Is(err, filters.ErrNegativeDimension),
		errors.Is(err, filters.ErrOutOfBoundsWidth),
		errors.Is(err, filters.ErrOutOfBoundsHeight),
		errors.Is(err, filters.ErrZeroDimension),
		errors.Is(err, kernel.ErrInvalidRadius),
		errors.Is(err, kernel.ErrInvalidDimensions),
		errors.Is(err, transform.ErrEmptyPipeline):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// failureRecord builds the history row for a failed invocation. The op ID
// is recovered from the dispatcher's error when present.
func failureRecord(op, pipelineID string, width, height, inputBytes int, err error) db.OperationRecord {
	opID := ""
	var opErr *transform.OpError
	if errors.As(err, &opErr) {
		opID = opErr.OpID
	}

	return db.OperationRecord{
		OpID:         opID,
		Op:           op,
		PipelineID:   pipelineID,
		Status:       metrics.OpStatusError,
		Width:        width,
		Height:       height,
		InputBytes:   inputBytes,
		ErrorMessage: err.Error(),
	}
}

// recordHistory persists one operation row, if history is configured.
// Insert failures are logged and never affect the HTTP response.
func (api *TransformAPI) recordHistory(ctx context.Context, record db.OperationRecord) {
	if api.history == nil {
		return
	}
	if _, err := api.history.InsertOperation(ctx, record); err != nil {
		api.logger.Warn("failed to record operation history",
			zap.String("op", record.Op),
			zap.String("request_id", RequestIDFromContext(ctx)),
			zap.Error(err),
		)
	}
}

// durationMS converts a duration to fractional milliseconds for JSON.
func durationMS(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}
