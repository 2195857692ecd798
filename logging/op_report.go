package logging

import (
	"time"

	"go.uber.org/zap/zapcore"
)

// OpReport represents metrics collected for a single transform operation.
// Implements zapcore.ObjectMarshaler for structured logging.
//
// This is a pure data structure with no dependencies on other logging atoms.
//
// Example:
//
//	report := OpReport{
//		Op:                  "rotate_90_cw",
//		OpID:                "8f14e45f-...",
//		Width:               1920,
//		Height:              1080,
//		OutputWidth:         1080,
//		OutputHeight:        1920,
//		InputBytes:          8294400,
//		OutputBytes:         8294400,
//		Duration:            12 * time.Millisecond,
//		MegapixelsPerSecond: 172.8,
//	}
//	logger.Info("transform complete", zap.Object("transform", report))
type OpReport struct {
	// Op identifies which transform operation ran
	Op string `json:"op"`

	// OpID is the unique identifier assigned to this invocation
	OpID string `json:"op_id"`

	// Width and Height are the input image dimensions in pixels
	Width  int `json:"width"`
	Height int `json:"height"`

	// OutputWidth and OutputHeight are the result dimensions in pixels.
	// They differ from the input for rotations, crops, and resizes.
	OutputWidth  int `json:"output_width"`
	OutputHeight int `json:"output_height"`

	// InputBytes and OutputBytes are the raw buffer sizes
	InputBytes  int `json:"input_bytes"`
	OutputBytes int `json:"output_bytes"`

	// Duration is the total time taken for the operation
	Duration time.Duration `json:"duration"`

	// MegapixelsPerSecond is the throughput rate over the input image
	MegapixelsPerSecond float64 `json:"megapixels_per_second"`
}

// MarshalLogObject implements zapcore.ObjectMarshaler for structured logging.
// This allows OpReport to be logged as a nested JSON object in zap logs.
//
// Duration is encoded in milliseconds for readability.
func (r OpReport) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("op", r.Op)
	enc.AddString("op_id", r.OpID)
	enc.AddInt("width", r.Width)
	enc.AddInt("height", r.Height)
	enc.AddInt("output_width", r.OutputWidth)
	enc.AddInt("output_height", r.OutputHeight)
	enc.AddInt("input_bytes", r.InputBytes)
	enc.AddInt("output_bytes", r.OutputBytes)
	enc.AddInt64("duration_ms", r.Duration.Milliseconds())
	enc.AddFloat64("megapixels_per_second", r.MegapixelsPerSecond)
	return nil
}

// MegapixelsPerSecond calculates throughput from image dimensions and duration.
// Returns 0 if duration is zero or negative.
func MegapixelsPerSecond(width, height int, duration time.Duration) float64 {
	if duration.Seconds() <= 0 {
		return 0
	}
	return float64(width*height) / 1e6 / duration.Seconds()
}
