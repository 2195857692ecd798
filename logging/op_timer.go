// Package logging provides structured logging for the PixLab service.
//
// op_timer.go is an organism that provides a unified API for operation
// timing and throughput logging. It composes:
//   - OpReport atom (operation metrics)
//   - OpFields, TimingFields molecules (zap field helpers)
//
// This organism provides high-level functions for logging transform
// operations with automatic duration capture and structured output.
package logging

import (
	"time"

	"go.uber.org/zap"
)

// OpLogger provides structured logging for transform operations.
// It wraps a Logger and provides convenience methods for timed operations.
//
// Example:
//
//	logger, _ := NewLogger(true, "pixlab.log")
//	ol := NewOpLogger(logger)
//
//	timer := ol.StartOp("rotate_90_cw", opID, width, height, len(pixels))
//	// ... apply transform ...
//	ol.EndOp(timer, outWidth, outHeight, len(out))
type OpLogger struct {
	logger *Logger
}

// NewOpLogger creates an OpLogger wrapping the given Logger.
func NewOpLogger(logger *Logger) *OpLogger {
	return &OpLogger{logger: logger}
}

// OpTimer tracks timing for a single transform operation.
// Use StartOp to create and EndOp or FailOp to complete.
type OpTimer struct {
	Op         string
	OpID       string
	Width      int
	Height     int
	InputBytes int
	StartTime  time.Time
}

// StartOp begins timing a transform operation.
// Call EndOp when the operation completes, or FailOp if it fails.
//
// Example:
//
//	timer := ol.StartOp("crop", opID, 1920, 1080, len(pixels))
//	// ... apply transform ...
//	ol.EndOp(timer, 640, 480, len(out))
func (ol *OpLogger) StartOp(op, opID string, width, height, inputBytes int) *OpTimer {
	return &OpTimer{
		Op:         op,
		OpID:       opID,
		Width:      width,
		Height:     height,
		InputBytes: inputBytes,
		StartTime:  time.Now(),
	}
}

// EndOp completes timing and logs the operation metrics at info level.
// Returns the completed OpReport for further use if needed.
//
// Example:
//
//	timer := ol.StartOp("blur", opID, w, h, len(pixels))
//	// ... apply transform ...
//	report := ol.EndOp(timer, w, h, len(out))
func (ol *OpLogger) EndOp(timer *OpTimer, outputWidth, outputHeight, outputBytes int) OpReport {
	report := finishOp(timer, outputWidth, outputHeight, outputBytes)
	ol.logger.Info("transform complete", OpFields(report))
	return report
}

// FailOp completes timing for a failed operation and logs it at warn level.
// The returned report carries zero output dimensions; its Duration covers
// the time until the failure.
func (ol *OpLogger) FailOp(timer *OpTimer, err error) OpReport {
	report := finishOp(timer, 0, 0, 0)
	ol.logger.Warn("transform failed", OpFields(report), zap.Error(err))
	return report
}

// finishOp builds the OpReport for a finished timer.
func finishOp(timer *OpTimer, outputWidth, outputHeight, outputBytes int) OpReport {
	duration := time.Since(timer.StartTime)
	return OpReport{
		Op:                  timer.Op,
		OpID:                timer.OpID,
		Width:               timer.Width,
		Height:              timer.Height,
		OutputWidth:         outputWidth,
		OutputHeight:        outputHeight,
		InputBytes:          timer.InputBytes,
		OutputBytes:         outputBytes,
		Duration:            duration,
		MegapixelsPerSecond: MegapixelsPerSecond(timer.Width, timer.Height, duration),
	}
}

// Debug logs a debug message through the wrapped logger.
func (ol *OpLogger) Debug(msg string, fields ...zap.Field) {
	ol.logger.Debug(msg, fields...)
}

// Info logs an info message through the wrapped logger.
func (ol *OpLogger) Info(msg string, fields ...zap.Field) {
	ol.logger.Info(msg, fields...)
}

// Warn logs a warning message through the wrapped logger.
func (ol *OpLogger) Warn(msg string, fields ...zap.Field) {
	ol.logger.Warn(msg, fields...)
}

// Error logs an error message through the wrapped logger.
func (ol *OpLogger) Error(msg string, fields ...zap.Field) {
	ol.logger.Error(msg, fields...)
}

// WithPipeline returns an OpLogger with pipeline context.
// All subsequent logs will include the pipeline ID.
//
// Example:
//
//	pl := ol.WithPipeline("4bd2a6f1-...")
//	pl.Info("pipeline started")
func (ol *OpLogger) WithPipeline(pipelineID string) *OpLogger {
	return &OpLogger{
		logger: ol.logger.With(zap.String("pipeline_id", pipelineID)),
	}
}

// Logger returns the underlying Logger for direct access.
func (ol *OpLogger) Logger() *Logger {
	return ol.logger
}
