package db

import (
	"context"
	"testing"
	"time"
)

// sampleRecord builds a successful rotate record with a distinct op ID.
func sampleRecord(opID string) OperationRecord {
	return OperationRecord{
		OpID:         opID,
		Op:           "rotate_90_cw",
		Status:       "success",
		Width:        640,
		Height:       480,
		OutputWidth:  480,
		OutputHeight: 640,
		InputBytes:   640 * 480 * 4,
		OutputBytes:  640 * 480 * 4,
		DurationMS:   12,
	}
}

// TestHistoryRepository_InsertAndQuery verifies a synchronous round trip.
func TestHistoryRepository_InsertAndQuery(t *testing.T) {
	database := newTestDatabase(t)
	repo := NewHistoryRepository(database, nil)
	ctx := context.Background()

	id, err := repo.InsertOperation(ctx, sampleRecord("op-abc"))
	if err != nil {
		t.Fatalf("InsertOperation() error = %v", err)
	}
	if id == 0 {
		t.Error("synchronous insert should return a non-zero row id")
	}

	records, err := repo.QueryRecent(ctx, 10)
	if err != nil {
		t.Fatalf("QueryRecent() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	rec := records[0]
	if rec.OpID != "op-abc" {
		t.Errorf("OpID = %q, want %q", rec.OpID, "op-abc")
	}
	if rec.Op != "rotate_90_cw" {
		t.Errorf("Op = %q, want %q", rec.Op, "rotate_90_cw")
	}
	if rec.Status != "success" {
		t.Errorf("Status = %q, want %q", rec.Status, "success")
	}
	if rec.OutputWidth != 480 || rec.OutputHeight != 640 {
		t.Errorf("output dims = %dx%d, want 480x640", rec.OutputWidth, rec.OutputHeight)
	}
	if rec.PipelineID != "" {
		t.Errorf("PipelineID = %q, want empty", rec.PipelineID)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("CreatedAt was not populated")
	}
}

// TestHistoryRepository_QueryRecentOrdering verifies newest-first ordering
// and the limit.
func TestHistoryRepository_QueryRecentOrdering(t *testing.T) {
	database := newTestDatabase(t)
	repo := NewHistoryRepository(database, nil)
	ctx := context.Background()

	for _, opID := range []string{"op-1", "op-2", "op-3"} {
		if _, err := repo.InsertOperation(ctx, sampleRecord(opID)); err != nil {
			t.Fatalf("InsertOperation(%s) error = %v", opID, err)
		}
	}

	records, err := repo.QueryRecent(ctx, 2)
	if err != nil {
		t.Fatalf("QueryRecent() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].OpID != "op-3" || records[1].OpID != "op-2" {
		t.Errorf("order = [%s, %s], want [op-3, op-2]", records[0].OpID, records[1].OpID)
	}
}

// TestHistoryRepository_QueryRecentDefaultLimit verifies a non-positive
// limit falls back to the default.
func TestHistoryRepository_QueryRecentDefaultLimit(t *testing.T) {
	database := newTestDatabase(t)
	repo := NewHistoryRepository(database, nil)
	ctx := context.Background()

	if _, err := repo.InsertOperation(ctx, sampleRecord("op-x")); err != nil {
		t.Fatalf("InsertOperation() error = %v", err)
	}

	records, err := repo.QueryRecent(ctx, 0)
	if err != nil {
		t.Fatalf("QueryRecent(0) error = %v", err)
	}
	if len(records) != 1 {
		t.Errorf("got %d records, want 1", len(records))
	}
}

// TestHistoryRepository_ErrorRecord verifies NULL-able columns round trip.
func TestHistoryRepository_ErrorRecord(t *testing.T) {
	database := newTestDatabase(t)
	repo := NewHistoryRepository(database, nil)
	ctx := context.Background()

	rec := OperationRecord{
		OpID:         "op-err",
		Op:           "crop",
		Status:       "error",
		Width:        10,
		Height:       10,
		InputBytes:   400,
		ErrorMessage: "crop area exceeds image width: x(8) + width(4) > 10",
	}
	if _, err := repo.InsertOperation(ctx, rec); err != nil {
		t.Fatalf("InsertOperation() error = %v", err)
	}

	records, err := repo.QueryRecent(ctx, 1)
	if err != nil {
		t.Fatalf("QueryRecent() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	got := records[0]
	if got.Status != "error" {
		t.Errorf("Status = %q, want %q", got.Status, "error")
	}
	if got.ErrorMessage == "" {
		t.Error("ErrorMessage was not stored")
	}
	if got.OutputBytes != 0 {
		t.Errorf("OutputBytes = %d, want 0", got.OutputBytes)
	}
}

// TestHistoryRepository_QueryByPipelineID verifies pipeline steps come back
// in execution order.
func TestHistoryRepository_QueryByPipelineID(t *testing.T) {
	database := newTestDatabase(t)
	repo := NewHistoryRepository(database, nil)
	ctx := context.Background()

	for i, opID := range []string{"step-0", "step-1"} {
		rec := sampleRecord(opID)
		rec.PipelineID = "pipe-1"
		rec.DurationMS = i
		if _, err := repo.InsertOperation(ctx, rec); err != nil {
			t.Fatalf("InsertOperation(%s) error = %v", opID, err)
		}
	}
	// An unrelated single op must not appear
	if _, err := repo.InsertOperation(ctx, sampleRecord("op-solo")); err != nil {
		t.Fatalf("InsertOperation(op-solo) error = %v", err)
	}

	records, err := repo.QueryByPipelineID(ctx, "pipe-1")
	if err != nil {
		t.Fatalf("QueryByPipelineID() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].OpID != "step-0" || records[1].OpID != "step-1" {
		t.Errorf("order = [%s, %s], want [step-0, step-1]", records[0].OpID, records[1].OpID)
	}
	for _, rec := range records {
		if rec.PipelineID != "pipe-1" {
			t.Errorf("PipelineID = %q, want %q", rec.PipelineID, "pipe-1")
		}
	}
}

// TestHistoryRepository_GetByOpID verifies lookup by operation ID.
func TestHistoryRepository_GetByOpID(t *testing.T) {
	database := newTestDatabase(t)
	repo := NewHistoryRepository(database, nil)
	ctx := context.Background()

	if _, err := repo.InsertOperation(ctx, sampleRecord("op-find-me")); err != nil {
		t.Fatalf("InsertOperation() error = %v", err)
	}

	rec, err := repo.GetByOpID(ctx, "op-find-me")
	if err != nil {
		t.Fatalf("GetByOpID() error = %v", err)
	}
	if rec == nil {
		t.Fatal("GetByOpID() returned nil for an existing record")
	}
	if rec.OpID != "op-find-me" {
		t.Errorf("OpID = %q, want %q", rec.OpID, "op-find-me")
	}

	missing, err := repo.GetByOpID(ctx, "op-nope")
	if err != nil {
		t.Fatalf("GetByOpID(missing) error = %v", err)
	}
	if missing != nil {
		t.Errorf("GetByOpID(missing) = %+v, want nil", missing)
	}
}

// TestHistoryRepository_CountOperations verifies the count query.
func TestHistoryRepository_CountOperations(t *testing.T) {
	database := newTestDatabase(t)
	repo := NewHistoryRepository(database, nil)
	ctx := context.Background()

	count, err := repo.CountOperations(ctx)
	if err != nil {
		t.Fatalf("CountOperations() error = %v", err)
	}
	if count != 0 {
		t.Errorf("fresh count = %d, want 0", count)
	}

	for _, opID := range []string{"a", "b", "c"} {
		if _, err := repo.InsertOperation(ctx, sampleRecord(opID)); err != nil {
			t.Fatalf("InsertOperation() error = %v", err)
		}
	}

	count, err = repo.CountOperations(ctx)
	if err != nil {
		t.Fatalf("CountOperations() error = %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}

// TestHistoryRepository_AsyncInsert verifies queued writes land after a
// drain.
func TestHistoryRepository_AsyncInsert(t *testing.T) {
	database := newTestDatabase(t)
	ctx := context.Background()

	handler := NewHistoryRepository(database, nil).CreateAsyncWriteHandler()
	writer := NewAsyncWriter(handler)
	writer.Start()

	repo := NewHistoryRepository(database, writer)

	id, err := repo.InsertOperation(ctx, sampleRecord("op-async"))
	if err != nil {
		t.Fatalf("InsertOperation() error = %v", err)
	}
	if id != 0 {
		t.Errorf("async insert id = %d, want 0", id)
	}

	// Stop drains the queue before returning
	writer.Stop()

	count, err := repo.CountOperations(ctx)
	if err != nil {
		t.Fatalf("CountOperations() error = %v", err)
	}
	if count != 1 {
		t.Errorf("count after drain = %d, want 1", count)
	}
}

// TestHistoryRepository_NilDatabase verifies nil-database guards.
func TestHistoryRepository_NilDatabase(t *testing.T) {
	repo := NewHistoryRepository(nil, nil)
	ctx := context.Background()

	if _, err := repo.InsertOperation(ctx, sampleRecord("x")); err == nil {
		t.Error("InsertOperation() with nil db should return error")
	}
	if _, err := repo.QueryRecent(ctx, 5); err == nil {
		t.Error("QueryRecent() with nil db should return error")
	}
	if _, err := repo.QueryByPipelineID(ctx, "p"); err == nil {
		t.Error("QueryByPipelineID() with nil db should return error")
	}
	if _, err := repo.GetByOpID(ctx, "x"); err == nil {
		t.Error("GetByOpID() with nil db should return error")
	}
	if _, err := repo.CountOperations(ctx); err == nil {
		t.Error("CountOperations() with nil db should return error")
	}
}

// TestHistoryRepository_CreatedAtParses verifies the SQLite datetime parses
// into a usable time.
func TestHistoryRepository_CreatedAtParses(t *testing.T) {
	database := newTestDatabase(t)
	repo := NewHistoryRepository(database, nil)
	ctx := context.Background()

	before := time.Now().UTC().Add(-time.Minute)

	if _, err := repo.InsertOperation(ctx, sampleRecord("op-time")); err != nil {
		t.Fatalf("InsertOperation() error = %v", err)
	}

	records, err := repo.QueryRecent(ctx, 1)
	if err != nil {
		t.Fatalf("QueryRecent() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	created := records[0].CreatedAt
	if created.Before(before) {
		t.Errorf("CreatedAt = %v, want after %v", created, before)
	}
	if created.After(time.Now().UTC().Add(time.Minute)) {
		t.Errorf("CreatedAt = %v is in the future", created)
	}
}
