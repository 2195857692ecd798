package transform

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pixlab/filters"
	"pixlab/kernel"
	"pixlab/logging"
	"pixlab/metrics"
)

// DefaultMaxPixels is the default width*height budget per request: 64
// megapixels, or a 256 MiB RGBA buffer.
const DefaultMaxPixels = 64 << 20

// DispatcherConfig holds the optional pieces of a Dispatcher.
type DispatcherConfig struct {
	// Collector receives a record per invocation for stats and history.
	// May be nil to disable recording.
	Collector metrics.Collector

	// MaxPixels rejects images whose width*height exceeds it.
	// Zero disables the guard; use DefaultDispatcherConfig for the default.
	MaxPixels int
}

// DefaultDispatcherConfig returns a config with the default pixel budget
// and no collector.
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		MaxPixels: DefaultMaxPixels,
	}
}

// Dispatcher routes transform requests to the pure filter functions and the
// image-library engine. Every invocation gets a unique operation ID, timing
// instrumentation, structured logs, and an optional metrics record.
//
// Thread-Safety:
//   - Dispatcher is safe for concurrent use
//   - It holds no mutable state; the filters are pure and the engine and
//     collector manage their own synchronization
type Dispatcher struct {
	engine    kernel.Engine
	resizer   kernel.Resizer
	logger    *logging.Logger
	ops       *logging.OpLogger
	collector metrics.Collector
	maxPixels int
}

// NewDispatcher creates a transform dispatcher.
//
// Parameters:
//   - engine: the image-library delegate for grayscale and blur
//   - resizer: the resampling delegate for resize
//   - logger: structured logger for operation tracking
//   - config: collector and pixel budget; see DefaultDispatcherConfig
func NewDispatcher(engine kernel.Engine, resizer kernel.Resizer, logger *logging.Logger, config DispatcherConfig) (*Dispatcher, error) {
	if engine == nil {
		return nil, fmt.Errorf("transform: engine cannot be nil")
	}
	if resizer == nil {
		return nil, fmt.Errorf("transform: resizer cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("transform: logger cannot be nil")
	}

	named := logger.Named("transform")
	return &Dispatcher{
		engine:    engine,
		resizer:   resizer,
		logger:    named,
		ops:       logging.NewOpLogger(named),
		collector: config.Collector,
		maxPixels: config.MaxPixels,
	}, nil
}

// Apply runs a single transform request.
//
// On success the Result holds the output buffer and its dimensions, which
// differ from the input for rotations, crops, and resizes. On failure the
// returned error is an *OpError wrapping the underlying cause; errors.Is
// and errors.As see through it.
func (d *Dispatcher) Apply(req Request) (*Result, error) {
	return d.applyWith(d.ops, req)
}

// applyWith runs a request with the given op logger, so pipeline steps can
// carry pipeline context in their log entries.
func (d *Dispatcher) applyWith(ops *logging.OpLogger, req Request) (*Result, error) {
	opID := uuid.NewString()

	if !IsValidOp(req.Op) {
		err := fmt.Errorf("%w: %q", ErrUnknownOp, req.Op)
		// Recorded as "unknown" so arbitrary client strings don't grow the
		// per-op metrics map.
		return nil, d.reject(ops, opID, req, "unknown", err)
	}
	if d.maxPixels > 0 && req.Width > 0 && req.Height > 0 && req.Width*req.Height > d.maxPixels {
		err := fmt.Errorf("%w: %d pixels, limit %d", ErrImageTooLarge, req.Width*req.Height, d.maxPixels)
		return nil, d.reject(ops, opID, req, req.Op, err)
	}

	startFields := append([]zap.Field{
		zap.String("op", req.Op),
		zap.String("op_id", opID),
	}, logging.DimensionFields(req.Width, req.Height)...)
	ops.Debug("transform started", startFields...)

	timer := ops.StartOp(req.Op, opID, req.Width, req.Height, len(req.Pixels))

	out, outWidth, outHeight, err := d.route(req)
	if err != nil {
		report := ops.FailOp(timer, err)
		d.record(report, timer.StartTime, err)
		return nil, &OpError{Op: req.Op, OpID: opID, Err: err}
	}

	report := ops.EndOp(timer, outWidth, outHeight, len(out))
	d.record(report, timer.StartTime, nil)

	return &Result{
		Pixels:  out,
		Width:   outWidth,
		Height:  outHeight,
		Op:      req.Op,
		OpID:    opID,
		Elapsed: report.Duration,
	}, nil
}

// route maps the request to its implementation and returns the output
// buffer with its dimensions.
func (d *Dispatcher) route(req Request) ([]byte, int, int, error) {
	switch req.Op {
	case OpFlipHorizontal:
		out, err := filters.FlipHorizontal(req.Pixels, req.Width, req.Height)
		return out, req.Width, req.Height, err

	case OpFlipVertical:
		out, err := filters.FlipVertical(req.Pixels, req.Width, req.Height)
		return out, req.Width, req.Height, err

	case OpRotate90:
		// Quarter turns swap the output dimensions
		out, err := filters.Rotate90(req.Pixels, req.Width, req.Height)
		return out, req.Height, req.Width, err

	case OpRotate180:
		out, err := filters.Rotate180(req.Pixels, req.Width, req.Height)
		return out, req.Width, req.Height, err

	case OpRotate270:
		out, err := filters.Rotate270(req.Pixels, req.Width, req.Height)
		return out, req.Height, req.Width, err

	case OpCrop:
		out, err := filters.Crop(req.Pixels, req.Width, req.Height, req.Params.Rect)
		return out, req.Params.Rect.Width, req.Params.Rect.Height, err

	case OpBrightness:
		out, err := filters.Brightness(req.Pixels, req.Width, req.Height, req.Params.Adjustment)
		return out, req.Width, req.Height, err

	case OpGrayscale:
		out, err := d.engine.Grayscale(req.Pixels, req.Width, req.Height)
		return out, req.Width, req.Height, err

	case OpBlur:
		out, err := d.engine.Blur(req.Pixels, req.Width, req.Height, req.Params.Radius)
		return out, req.Width, req.Height, err

	case OpResize:
		out, err := d.resizer.Resize(req.Pixels, req.Width, req.Height, req.Params.TargetWidth, req.Params.TargetHeight)
		return out, req.Params.TargetWidth, req.Params.TargetHeight, err

	default:
		// Unreachable: Apply validates the op name first
		return nil, 0, 0, fmt.Errorf("%w: %q", ErrUnknownOp, req.Op)
	}
}

// reject logs and records a request that failed before its operation ran,
// and wraps the cause in an *OpError.
func (d *Dispatcher) reject(ops *logging.OpLogger, opID string, req Request, recordOp string, err error) error {
	ops.Warn("transform rejected",
		zap.String("op", req.Op),
		zap.String("op_id", opID),
		zap.Error(err))

	if d.collector != nil {
		now := time.Now()
		d.collector.RecordOp(metrics.OpRecord{
			ID:         opID,
			Op:         recordOp,
			Status:     metrics.OpStatusError,
			StartTime:  now,
			EndTime:    now,
			InputBytes: len(req.Pixels),
			ErrorMsg:   err.Error(),
		})
	}

	return &OpError{Op: req.Op, OpID: opID, Err: err}
}

// record forwards a finished operation to the collector, if one is set.
func (d *Dispatcher) record(report logging.OpReport, start time.Time, opErr error) {
	if d.collector == nil {
		return
	}

	record := metrics.OpRecord{
		ID:          report.OpID,
		Op:          report.Op,
		Status:      metrics.OpStatusSuccess,
		StartTime:   start,
		EndTime:     start.Add(report.Duration),
		Duration:    report.Duration,
		InputBytes:  report.InputBytes,
		OutputBytes: report.OutputBytes,
	}
	if opErr != nil {
		record.Status = metrics.OpStatusError
		record.ErrorMsg = opErr.Error()
	}

	d.collector.RecordOp(record)
}

// FlipHorizontal mirrors the image across its vertical axis.
func (d *Dispatcher) FlipHorizontal(pixels []byte, width, height int) (*Result, error) {
	return d.Apply(Request{Op: OpFlipHorizontal, Pixels: pixels, Width: width, Height: height})
}

// FlipVertical mirrors the image across its horizontal axis.
func (d *Dispatcher) FlipVertical(pixels []byte, width, height int) (*Result, error) {
	return d.Apply(Request{Op: OpFlipVertical, Pixels: pixels, Width: width, Height: height})
}

// Rotate90 rotates the image 90 degrees clockwise. The result dimensions
// are swapped relative to the input.
func (d *Dispatcher) Rotate90(pixels []byte, width, height int) (*Result, error) {
	return d.Apply(Request{Op: OpRotate90, Pixels: pixels, Width: width, Height: height})
}

// Rotate180 rotates the image 180 degrees.
func (d *Dispatcher) Rotate180(pixels []byte, width, height int) (*Result, error) {
	return d.Apply(Request{Op: OpRotate180, Pixels: pixels, Width: width, Height: height})
}

// Rotate270 rotates the image 270 degrees clockwise. The result dimensions
// are swapped relative to the input.
func (d *Dispatcher) Rotate270(pixels []byte, width, height int) (*Result, error) {
	return d.Apply(Request{Op: OpRotate270, Pixels: pixels, Width: width, Height: height})
}

// Crop extracts the rectangular region rect from the image.
func (d *Dispatcher) Crop(pixels []byte, width, height int, rect filters.Rect) (*Result, error) {
	return d.Apply(Request{
		Op: OpCrop, Pixels: pixels, Width: width, Height: height,
		Params: Params{Rect: rect},
	})
}

// Brightness adjusts brightness by the given delta, clamped to [-255, 255].
func (d *Dispatcher) Brightness(pixels []byte, width, height int, adjustment float64) (*Result, error) {
	return d.Apply(Request{
		Op: OpBrightness, Pixels: pixels, Width: width, Height: height,
		Params: Params{Adjustment: adjustment},
	})
}

// Grayscale converts the image to grayscale, preserving alpha.
func (d *Dispatcher) Grayscale(pixels []byte, width, height int) (*Result, error) {
	return d.Apply(Request{Op: OpGrayscale, Pixels: pixels, Width: width, Height: height})
}

// Blur applies a Gaussian blur with the given radius.
func (d *Dispatcher) Blur(pixels []byte, width, height int, radius float64) (*Result, error) {
	return d.Apply(Request{
		Op: OpBlur, Pixels: pixels, Width: width, Height: height,
		Params: Params{Radius: radius},
	})
}

// Resize resamples the image to the target dimensions.
func (d *Dispatcher) Resize(pixels []byte, width, height, targetWidth, targetHeight int) (*Result, error) {
	return d.Apply(Request{
		Op: OpResize, Pixels: pixels, Width: width, Height: height,
		Params: Params{TargetWidth: targetWidth, TargetHeight: targetHeight},
	})
}
