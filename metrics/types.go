// Package metrics provides pure data types for the transform metrics system.
// This file contains atom-level type definitions with no behavior.
package metrics

import "time"

// OpRecord represents a single transform operation execution.
// This is a pure data structure for tracking individual pixel operations.
type OpRecord struct {
	// ID is the unique identifier assigned to this operation by the dispatcher
	ID string `json:"id"`

	// Op is the operation name (e.g., "rotate_90_cw", "brightness", "blur")
	Op string `json:"op"`

	// Status indicates the outcome: "success" or "error"
	Status string `json:"status"`

	// StartTime is when the operation began
	StartTime time.Time `json:"start_time"`

	// EndTime is when the operation completed
	EndTime time.Time `json:"end_time,omitempty"`

	// Duration is the total execution time
	Duration time.Duration `json:"duration"`

	// InputBytes is the size of the input pixel buffer
	InputBytes int `json:"input_bytes"`

	// OutputBytes is the size of the produced buffer (zero on error)
	OutputBytes int `json:"output_bytes"`

	// ErrorMsg contains error details if Status is "error"
	ErrorMsg string `json:"error_msg,omitempty"`
}

// SystemStatus represents the overall engine health and status.
// This is a pure data structure with no behavior.
type SystemStatus struct {
	// Health indicates the system state: "running" or "error"
	Health string `json:"health"`

	// Version is the application version string
	Version string `json:"version"`

	// Uptime is the duration since the application started
	Uptime time.Duration `json:"uptime"`

	// LastCheck is the timestamp of the last health evaluation
	LastCheck time.Time `json:"last_check"`
}

// OpMetrics represents aggregated operation statistics.
// This is a pure data structure with no behavior.
type OpMetrics struct {
	// TotalProcessed is the total number of operations processed
	TotalProcessed int64 `json:"total_processed"`

	// TotalSuccess is the count of successful operations
	TotalSuccess int64 `json:"total_success"`

	// TotalErrors is the count of failed operations
	TotalErrors int64 `json:"total_errors"`

	// BytesIn is the total input bytes consumed by all operations
	BytesIn int64 `json:"bytes_in"`

	// BytesOut is the total output bytes produced by all operations
	BytesOut int64 `json:"bytes_out"`

	// ByOp contains per-operation statistics keyed by operation name
	ByOp map[string]*OpTypeMetrics `json:"by_op"`
}

// OpTypeMetrics represents statistics for a specific operation name.
// This is a pure data structure with no behavior.
type OpTypeMetrics struct {
	// Count is the total number of executions of this operation
	Count int64 `json:"count"`

	// SuccessRate is the percentage of successful executions (0-100)
	SuccessRate float64 `json:"success_rate"`

	// AvgDuration is the average execution time for this operation
	AvgDuration time.Duration `json:"avg_duration"`
}

// Status constants for OpRecord
const (
	OpStatusSuccess = "success"
	OpStatusError   = "error"
)

// Health constants for SystemStatus
const (
	SystemHealthRunning = "running"
	SystemHealthError   = "error"
)
