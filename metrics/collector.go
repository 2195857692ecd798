// Package metrics provides the Collector interface for aggregating metrics.
// This is a molecule that composes the atom-level types from types.go.
package metrics

// Collector defines the interface for recording and querying operation
// metrics. The transform dispatcher records through it; the HTTP stats
// endpoints read through it.
//
// Implementation strategy:
// - Implementations must be concurrency-safe: operations are recorded from
//   whichever goroutine serves the request.
// - Zero values should be returned for unavailable metrics.
type Collector interface {
	// RecordOp logs a completed operation execution.
	// Aggregates OpRecord atoms into the metrics system.
	RecordOp(op OpRecord)

	// GetOpMetrics returns aggregated operation statistics.
	// Composes multiple OpRecord atoms into an OpMetrics summary.
	GetOpMetrics() OpMetrics

	// GetRecentOps returns the N most recent operation records, most
	// recent first.
	GetRecentOps(limit int) []OpRecord

	// GetSystemStatus returns the overall engine health status.
	GetSystemStatus() SystemStatus
}
