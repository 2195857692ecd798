// Package metrics provides the Store organism for in-memory metrics storage.
// This file contains the Store which implements the Collector interface.
package metrics

import (
	"sync"
	"time"
)

// Store is an in-memory storage organism for transform metrics.
// It implements the Collector interface and provides thread-safe access to
// operation records and their aggregates.
//
// This is an organism-level component that composes:
// - a fixed-capacity ring of recent OpRecord atoms
// - sync.RWMutex for thread-safety
// - per-operation aggregation
//
// Usage:
//
//	store := metrics.NewStore(metrics.DefaultStoreConfig(), time.Now())
//	store.RecordOp(record)
//	summary := store.GetOpMetrics()
type Store struct {
	mu sync.RWMutex

	// Recent-operation ring
	opHistory []OpRecord
	opCap     int
	opHead    int
	opSize    int

	// Aggregation
	totalOps     int64
	totalSuccess int64
	totalErrors  int64
	bytesIn      int64
	bytesOut     int64
	byOp         map[string]*opStats

	// System metadata
	startTime time.Time
	version   string
}

// opStats holds per-operation aggregation data
type opStats struct {
	count         int64
	successCount  int64
	totalDuration time.Duration
}

// StoreConfig configures the Store behavior.
type StoreConfig struct {
	// HistoryCapacity is the max number of records to retain in the ring
	HistoryCapacity int
	// Version is the application version string
	Version string
}

// DefaultStoreConfig returns a default configuration.
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		HistoryCapacity: 100,
		Version:         "0.0.0",
	}
}

// NewStore creates a new Store with the specified configuration.
// The startTime is used to calculate uptime.
func NewStore(config StoreConfig, startTime time.Time) *Store {
	capacity := config.HistoryCapacity
	if capacity < 1 {
		capacity = 100
	}

	return &Store{
		opHistory: make([]OpRecord, capacity),
		opCap:     capacity,
		byOp:      make(map[string]*opStats),
		startTime: startTime,
		version:   config.Version,
	}
}

// RecordOp logs a completed operation execution.
// This implements part of the Collector interface.
func (s *Store) RecordOp(op OpRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.opHistory[s.opHead] = op
	s.opHead = (s.opHead + 1) % s.opCap
	if s.opSize < s.opCap {
		s.opSize++
	}

	s.totalOps++
	s.bytesIn += int64(op.InputBytes)
	s.bytesOut += int64(op.OutputBytes)

	if op.Status == OpStatusSuccess {
		s.totalSuccess++
	} else if op.Status == OpStatusError {
		s.totalErrors++
	}

	stats, ok := s.byOp[op.Op]
	if !ok {
		stats = &opStats{}
		s.byOp[op.Op] = stats
	}
	stats.count++
	if op.Status == OpStatusSuccess {
		stats.successCount++
	}
	stats.totalDuration += op.Duration
}

// GetOpMetrics returns aggregated operation statistics.
// This implements part of the Collector interface.
func (s *Store) GetOpMetrics() OpMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := OpMetrics{
		TotalProcessed: s.totalOps,
		TotalSuccess:   s.totalSuccess,
		TotalErrors:    s.totalErrors,
		BytesIn:        s.bytesIn,
		BytesOut:       s.bytesOut,
		ByOp:           make(map[string]*OpTypeMetrics),
	}

	for name, stats := range s.byOp {
		var successRate float64
		if stats.count > 0 {
			successRate = float64(stats.successCount) / float64(stats.count) * 100
		}

		var avgDuration time.Duration
		if stats.count > 0 {
			avgDuration = stats.totalDuration / time.Duration(stats.count)
		}

		summary.ByOp[name] = &OpTypeMetrics{
			Count:       stats.count,
			SuccessRate: successRate,
			AvgDuration: avgDuration,
		}
	}

	return summary
}

// GetRecentOps returns the N most recent operation records, most recent
// first. If limit exceeds available records, all available are returned.
// This implements part of the Collector interface.
func (s *Store) GetRecentOps(limit int) []OpRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || s.opSize == 0 {
		return []OpRecord{}
	}

	if limit > s.opSize {
		limit = s.opSize
	}

	result := make([]OpRecord, limit)
	for i := 0; i < limit; i++ {
		// Walk backwards from the head so index 0 is the newest record
		idx := (s.opHead - 1 - i + s.opCap) % s.opCap
		result[i] = s.opHistory[idx]
	}

	return result
}

// GetSystemStatus returns the overall engine health status.
// Health degrades to "error" only when operations have been recorded and
// none of them ever succeeded, which in practice means the delegate library
// or the host wiring is broken.
// This implements part of the Collector interface.
func (s *Store) GetSystemStatus() SystemStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	health := SystemHealthRunning
	if s.totalOps > 0 && s.totalSuccess == 0 {
		health = SystemHealthError
	}

	return SystemStatus{
		Health:    health,
		Version:   s.version,
		Uptime:    time.Since(s.startTime),
		LastCheck: time.Now(),
	}
}
