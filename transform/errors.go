package transform

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the dispatcher before an operation runs.
// Use errors.Is to test for them through the OpError wrapper.
var (
	// ErrUnknownOp is returned when the request names no known operation.
	ErrUnknownOp = errors.New("transform: unknown operation")

	// ErrImageTooLarge is returned when width*height exceeds the configured
	// pixel budget.
	ErrImageTooLarge = errors.New("transform: image exceeds pixel limit")

	// ErrEmptyPipeline is returned by RunPipeline when no steps are given.
	ErrEmptyPipeline = errors.New("transform: pipeline has no steps")
)

// OpError wraps any failure from a dispatched operation with the operation
// name and the invocation ID, so callers and logs can correlate failures
// with history records.
type OpError struct {
	// Op is the operation name from the request
	Op string

	// OpID is the invocation ID assigned by the dispatcher
	OpID string

	// Err is the underlying failure
	Err error
}

// Error implements the error interface.
func (e *OpError) Error() string {
	return fmt.Sprintf("transform: %s (op_id %s): %v", e.Op, e.OpID, e.Err)
}

// Unwrap returns the underlying error for errors.Is/errors.As.
func (e *OpError) Unwrap() error {
	return e.Err
}
