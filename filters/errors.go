// Package filters implements the PixLab pixel-buffer transform engine:
// flips, rotations, rectangular crop, and brightness adjustment over flat
// RGBA byte buffers.
// This file contains the error atoms shared by all transforms.
package filters

import (
	"errors"
	"fmt"
)

// Validation errors. Crop violations are reported in a fixed order (width,
// then height, then zero-dimension) so callers always see the same first
// error when several coexist.
var (
	ErrNegativeDimension = errors.New("filters: dimensions must be non-negative")
	ErrOutOfBoundsWidth  = errors.New("filters: crop area exceeds image width")
	ErrOutOfBoundsHeight = errors.New("filters: crop area exceeds image height")
	ErrZeroDimension     = errors.New("filters: crop dimensions must be non-zero")
)

// LengthMismatchError reports a pixel buffer whose length does not match the
// declared dimensions. Expected is always width * height * 4.
type LengthMismatchError struct {
	Expected int
	Actual   int
}

// Error implements the error interface.
func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("filters: invalid image data length: expected %d, got %d", e.Expected, e.Actual)
}
