// Package logging provides structured logging for the PixLab service.
// This file contains molecule-level helper functions that compose the OpReport
// atom into convenient zap.Field helpers for structured logging.
package logging

import (
	"time"

	"go.uber.org/zap"
)

// OpFields creates a structured zap field from an operation report.
// This is a molecule that composes the OpReport atom into a ready-to-use zap.Field.
//
// Example:
//
//	report := logging.OpReport{
//		Op:       "grayscale",
//		OpID:     "8f14e45f-...",
//		Width:    1920,
//		Height:   1080,
//		Duration: 12 * time.Millisecond,
//	}
//	logger.Info("transform complete", logging.OpFields(report))
func OpFields(report OpReport) zap.Field {
	return zap.Object("transform", report)
}

// DimensionFields creates a slice of zap fields for image dimensions.
// This is a convenience function for logging dimensions without a full OpReport.
//
// Example:
//
//	logger.Debug("buffer validated", logging.DimensionFields(1920, 1080)...)
func DimensionFields(width, height int) []zap.Field {
	return []zap.Field{
		zap.Int("width", width),
		zap.Int("height", height),
	}
}

// SizeFields creates a slice of zap fields for buffer sizes.
//
// Example:
//
//	logger.Info("buffers allocated", logging.SizeFields(8294400, 8294400)...)
func SizeFields(inputBytes, outputBytes int) []zap.Field {
	return []zap.Field{
		zap.Int("input_bytes", inputBytes),
		zap.Int("output_bytes", outputBytes),
	}
}

// TimingFields creates a slice of zap fields for operation timing.
// This is a convenience function that computes the duration from the endpoints.
//
// Example:
//
//	start := time.Now()
//	// ... apply transform ...
//	end := time.Now()
//	rate := logging.MegapixelsPerSecond(width, height, end.Sub(start))
//	logger.Info("timing", logging.TimingFields(start, end, rate)...)
func TimingFields(startTime, endTime time.Time, megapixelsPerSecond float64) []zap.Field {
	return []zap.Field{
		zap.Time("start_time", startTime),
		zap.Time("end_time", endTime),
		zap.Duration("duration", endTime.Sub(startTime)),
		zap.Float64("megapixels_per_second", megapixelsPerSecond),
	}
}
