// Package filters implements the PixLab pixel-buffer transform engine.
// This file contains the buffer-validation atoms that every transform runs
// before touching pixel data.
package filters

import "fmt"

// BytesPerPixel is the RGBA pixel stride: one byte each for R, G, B, A.
const BytesPerPixel = 4

// Rect describes a crop rectangle in source-image coordinates.
// X and Y locate the top-left corner; Width and Height are the crop size.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// BufferSize calculates the byte length of an RGBA buffer for the given
// dimensions.
// This is a pure helper function.
func BufferSize(width, height int) int {
	return width * height * BytesPerPixel
}

// ValidateBuffer checks that pixels has exactly width * height * 4 bytes.
// It is the single bounds-safety gate for the engine: every transform calls
// it before any indexing, so the per-pixel loops never need their own range
// checks.
//
// Returns nil on success, *LengthMismatchError carrying the expected and
// actual byte counts on mismatch. Negative dimensions (unrepresentable in
// the wire contract, but expressible as Go ints) are rejected first with
// ErrNegativeDimension.
// This is a pure function with no side effects.
func ValidateBuffer(pixels []byte, width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: %dx%d", ErrNegativeDimension, width, height)
	}
	expected := BufferSize(width, height)
	if len(pixels) != expected {
		return &LengthMismatchError{Expected: expected, Actual: len(pixels)}
	}
	return nil
}

// ValidateCropRect checks that rect lies fully inside an image of the given
// dimensions and selects a non-empty area. Checks run in a deterministic
// order so callers can rely on the first reported violation:
//
//  1. negative rect fields -> ErrNegativeDimension
//  2. x + width > origWidth -> ErrOutOfBoundsWidth
//  3. y + height > origHeight -> ErrOutOfBoundsHeight
//  4. width or height == 0 -> ErrZeroDimension
//
// This is a pure function with no side effects.
func ValidateCropRect(rect Rect, origWidth, origHeight int) error {
	if rect.X < 0 || rect.Y < 0 || rect.Width < 0 || rect.Height < 0 {
		return fmt.Errorf("%w: rect (%d,%d) %dx%d", ErrNegativeDimension, rect.X, rect.Y, rect.Width, rect.Height)
	}
	if rect.X+rect.Width > origWidth {
		return fmt.Errorf("%w: x(%d) + width(%d) > %d", ErrOutOfBoundsWidth, rect.X, rect.Width, origWidth)
	}
	if rect.Y+rect.Height > origHeight {
		return fmt.Errorf("%w: y(%d) + height(%d) > %d", ErrOutOfBoundsHeight, rect.Y, rect.Height, origHeight)
	}
	if rect.Width == 0 || rect.Height == 0 {
		return fmt.Errorf("%w: %dx%d", ErrZeroDimension, rect.Width, rect.Height)
	}
	return nil
}
