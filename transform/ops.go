// Package transform dispatches pixel-buffer operations to the pure filter
// functions and the image-library engine, adding operation IDs, timing,
// logging, and metrics recording on top of them.
//
// This package is organized as:
//   - ops.go: operation names, request/result types, and the catalog (atoms)
//   - errors.go: the error types the dispatcher wraps failures in (atoms)
//   - dispatcher.go: the Dispatcher organism that routes and instruments ops
//   - pipeline.go: sequential multi-step execution (molecule over Dispatcher)
package transform

import (
	"time"

	"pixlab/filters"
)

// Operation names. These are the wire identifiers accepted by Apply and the
// HTTP API; they never change once published.
const (
	OpFlipHorizontal = "flip_horizontal"
	OpFlipVertical   = "flip_vertical"
	OpRotate90       = "rotate_90_cw"
	OpRotate180      = "rotate_180"
	OpRotate270      = "rotate_270_cw"
	OpCrop           = "crop"
	OpBrightness     = "brightness"
	OpGrayscale      = "grayscale"
	OpBlur           = "blur"
	OpResize         = "resize"
)

// Params carries the per-operation parameters. Only the fields the
// operation needs are read; the rest are ignored.
type Params struct {
	// Adjustment is the brightness delta in [-255, 255] (brightness)
	Adjustment float64 `json:"adjustment,omitempty"`

	// Radius is the blur strength; must be positive (blur)
	Radius float64 `json:"radius,omitempty"`

	// Rect is the crop rectangle in source coordinates (crop)
	Rect filters.Rect `json:"rect,omitempty"`

	// TargetWidth and TargetHeight are the output dimensions (resize)
	TargetWidth  int `json:"target_width,omitempty"`
	TargetHeight int `json:"target_height,omitempty"`
}

// Request describes a single transform invocation.
type Request struct {
	// Op is one of the operation name constants
	Op string

	// Pixels is the raw RGBA buffer, exactly Width*Height*4 bytes
	Pixels []byte

	// Width and Height are the image dimensions in pixels
	Width  int
	Height int

	// Params carries operation-specific parameters
	Params Params
}

// Result is the outcome of a successful transform.
type Result struct {
	// Pixels is the transformed RGBA buffer
	Pixels []byte

	// Width and Height are the result dimensions. Rotations by 90 and 270
	// degrees swap them; crop and resize replace them.
	Width  int
	Height int

	// Op is the operation that produced this result
	Op string

	// OpID uniquely identifies this invocation in logs and history
	OpID string

	// Elapsed is the time the operation took
	Elapsed time.Duration
}

// OpInfo describes one catalog entry for the operation listing endpoint.
type OpInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Params      []string `json:"params,omitempty"`
}

// catalog lists every operation in a stable order.
var catalog = []OpInfo{
	{Name: OpFlipHorizontal, Description: "Mirror the image across its vertical axis"},
	{Name: OpFlipVertical, Description: "Mirror the image across its horizontal axis"},
	{Name: OpRotate90, Description: "Rotate the image 90 degrees clockwise"},
	{Name: OpRotate180, Description: "Rotate the image 180 degrees"},
	{Name: OpRotate270, Description: "Rotate the image 270 degrees clockwise"},
	{Name: OpCrop, Description: "Extract a rectangular region", Params: []string{"rect"}},
	{Name: OpBrightness, Description: "Adjust brightness by a delta in [-255, 255]", Params: []string{"adjustment"}},
	{Name: OpGrayscale, Description: "Convert to grayscale, preserving alpha", Params: nil},
	{Name: OpBlur, Description: "Apply a Gaussian blur", Params: []string{"radius"}},
	{Name: OpResize, Description: "Resample to new dimensions", Params: []string{"target_width", "target_height"}},
}

// Ops returns the operation catalog in a stable order.
// The returned slice is a copy; callers may modify it freely.
func Ops() []OpInfo {
	out := make([]OpInfo, len(catalog))
	copy(out, catalog)
	return out
}

// IsValidOp reports whether name is a known operation.
// This is a pure function with no side effects.
func IsValidOp(name string) bool {
	switch name {
	case OpFlipHorizontal, OpFlipVertical,
		OpRotate90, OpRotate180, OpRotate270,
		OpCrop, OpBrightness, OpGrayscale, OpBlur, OpResize:
		return true
	}
	return false
}
