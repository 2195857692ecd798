// Package kernel is the boundary to the external image-processing library.
// This file contains the error atoms for the boundary contract.
package kernel

import (
	"errors"
	"fmt"
)

// Boundary validation errors. These belong to the core, not the delegate:
// they are raised before the external library is ever invoked.
var (
	ErrInvalidRadius     = errors.New("kernel: radius must be positive")
	ErrInvalidDimensions = errors.New("kernel: target dimensions must be positive")
)

// DelegateError wraps a failure reported by the external image-processing
// library. The message is propagated opaquely; the core never interprets or
// recovers from library-internal errors.
type DelegateError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *DelegateError) Error() string {
	return fmt.Sprintf("kernel: %s delegate failure: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying library error for errors.Is/As chains.
func (e *DelegateError) Unwrap() error {
	return e.Err
}
