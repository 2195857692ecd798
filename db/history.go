// Package db provides SQLite persistence for operation history.
// This file contains the history repository organism over the
// operation_history table.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// OperationRecord represents a row in the operation_history table.
// It captures one transform execution: the op, its dimensions, byte counts,
// timing, and outcome.
type OperationRecord struct {
	ID           int64     // Auto-incremented primary key
	OpID         string    // UUID assigned by the dispatcher
	Op           string    // Operation name (e.g., "rotate_90_cw", "blur")
	PipelineID   string    // UUID shared by steps of one pipeline run, empty for single ops
	Status       string    // "success" or "error"
	Width        int       // Input width in pixels
	Height       int       // Input height in pixels
	OutputWidth  int       // Output width in pixels (zero on error)
	OutputHeight int       // Output height in pixels (zero on error)
	InputBytes   int       // Input buffer length in bytes
	OutputBytes  int       // Output buffer length in bytes (zero on error)
	DurationMS   int       // Execution time in milliseconds
	ErrorMessage string    // Error detail when Status is "error"
	CreatedAt    time.Time // Timestamp when the record was created
}

// operationColumns is the SELECT column list shared by all history queries,
// with NULLs coalesced so rows scan into plain Go types.
const operationColumns = `id, op_id, op, COALESCE(pipeline_id, ''), status,
	width, height, output_width, output_height,
	input_bytes, output_bytes, duration_ms,
	COALESCE(error_message, ''), created_at`

// HistoryRepository provides typed access to the operation_history table.
//
// Writes go through the AsyncWriter when one is configured and running, so
// the transform hot path never blocks on disk; reads are always synchronous.
type HistoryRepository struct {
	db          *Database
	asyncWriter *AsyncWriter
}

// NewHistoryRepository creates a new HistoryRepository.
// The asyncWriter parameter is optional; if nil, all writes are synchronous.
func NewHistoryRepository(db *Database, asyncWriter *AsyncWriter) *HistoryRepository {
	return &HistoryRepository{
		db:          db,
		asyncWriter: asyncWriter,
	}
}

// InsertOperation persists an operation record.
// If an asyncWriter is configured and started, the write is queued and the
// returned ID is 0; a full queue falls back to a synchronous write.
func (r *HistoryRepository) InsertOperation(ctx context.Context, record OperationRecord) (int64, error) {
	if r.db == nil {
		return 0, fmt.Errorf("database connection is nil")
	}

	query := `
		INSERT INTO operation_history (
			op_id, op, pipeline_id, status,
			width, height, output_width, output_height,
			input_bytes, output_bytes, duration_ms, error_message
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	args := []interface{}{
		record.OpID,
		record.Op,
		nullString(record.PipelineID),
		record.Status,
		record.Width,
		record.Height,
		record.OutputWidth,
		record.OutputHeight,
		record.InputBytes,
		record.OutputBytes,
		record.DurationMS,
		nullString(record.ErrorMessage),
	}

	if r.asyncWriter != nil && r.asyncWriter.IsStarted() {
		op := asyncInsertOp{
			query: query,
			args:  args,
		}
		if r.asyncWriter.Write(op) {
			return 0, nil // Queued successfully
		}
		// Fall through to sync write if the channel is full
	}

	result, err := r.db.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert operation record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return id, nil
}

// QueryRecent retrieves the most recent operation records, newest first.
func (r *HistoryRepository) QueryRecent(ctx context.Context, limit int) ([]OperationRecord, error) {
	if r.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	if limit <= 0 {
		limit = 10 // Default limit
	}

	query := `
		SELECT ` + operationColumns + `
		FROM operation_history
		ORDER BY created_at DESC, id DESC
		LIMIT ?`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query operation history: %w", err)
	}
	defer rows.Close()

	return collectOperations(rows)
}

// QueryByPipelineID retrieves all records sharing a pipeline ID, in the
// order the steps ran.
func (r *HistoryRepository) QueryByPipelineID(ctx context.Context, pipelineID string) ([]OperationRecord, error) {
	if r.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	query := `
		SELECT ` + operationColumns + `
		FROM operation_history
		WHERE pipeline_id = ?
		ORDER BY id ASC`

	rows, err := r.db.Query(query, pipelineID)
	if err != nil {
		return nil, fmt.Errorf("failed to query operation history: %w", err)
	}
	defer rows.Close()

	return collectOperations(rows)
}

// GetByOpID retrieves the record for a single operation ID.
// Returns nil without error when no such record exists.
func (r *HistoryRepository) GetByOpID(ctx context.Context, opID string) (*OperationRecord, error) {
	if r.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	query := `
		SELECT ` + operationColumns + `
		FROM operation_history
		WHERE op_id = ?
		LIMIT 1`

	rows, err := r.db.Query(query, opID)
	if err != nil {
		return nil, fmt.Errorf("failed to query operation history: %w", err)
	}
	defer rows.Close()

	records, err := collectOperations(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// CountOperations returns the total number of history records.
func (r *HistoryRepository) CountOperations(ctx context.Context) (int64, error) {
	if r.db == nil {
		return 0, fmt.Errorf("database connection is nil")
	}

	var count int64
	err := r.db.QueryRow("SELECT COUNT(*) FROM operation_history").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count operation history: %w", err)
	}

	return count, nil
}

// collectOperations scans all rows into OperationRecord values.
func collectOperations(rows *sql.Rows) ([]OperationRecord, error) {
	var records []OperationRecord
	for rows.Next() {
		var rec OperationRecord
		var createdAt string

		err := rows.Scan(
			&rec.ID,
			&rec.OpID,
			&rec.Op,
			&rec.PipelineID,
			&rec.Status,
			&rec.Width,
			&rec.Height,
			&rec.OutputWidth,
			&rec.OutputHeight,
			&rec.InputBytes,
			&rec.OutputBytes,
			&rec.DurationMS,
			&rec.ErrorMessage,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan operation history row: %w", err)
		}

		// Parse SQLite datetime
		rec.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", createdAt)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating operation history rows: %w", err)
	}

	return records, nil
}

// asyncInsertOp is an internal type for async insert operations.
type asyncInsertOp struct {
	query string
	args  []interface{}
}

// CreateAsyncWriteHandler creates a WriteHandler that executes queued
// asyncInsertOp operations against the repository's database.
func (r *HistoryRepository) CreateAsyncWriteHandler() WriteHandler {
	return func(op WriteOperation) error {
		insertOp, ok := op.Data.(asyncInsertOp)
		if !ok {
			return fmt.Errorf("invalid operation type: expected asyncInsertOp")
		}

		_, err := r.db.Exec(insertOp.query, insertOp.args...)
		return err
	}
}

// nullString converts an empty string to sql.NullString for NULL storage.
func nullString(s string) interface{} {
	if s == "" {
		return sql.NullString{String: "", Valid: false}
	}
	return s
}
