package transform

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pixlab/logging"
)

// Step is one stage of a pipeline: an operation plus its parameters.
// The pixel buffer and dimensions flow from step to step, so a step sees
// the output of the one before it.
type Step struct {
	Op     string `json:"op"`
	Params Params `json:"params"`
}

// PipelineResult is the outcome of a completed pipeline.
type PipelineResult struct {
	// Pixels is the final RGBA buffer after all steps
	Pixels []byte

	// Width and Height are the final dimensions
	Width  int
	Height int

	// PipelineID uniquely identifies this run in logs
	PipelineID string

	// Steps is the number of steps executed
	Steps int

	// Elapsed is the total wall time across all steps
	Elapsed time.Duration
}

// RunPipeline executes steps in order, threading each result into the next
// step. Dimensions follow the data: a rotate step swaps them, a crop or
// resize step replaces them, and the following step sees the new values.
//
// The first failing step aborts the run; the returned error names the step
// index and wraps the step's *OpError, so errors.Is still matches the
// underlying cause. An empty step list is rejected with ErrEmptyPipeline.
func (d *Dispatcher) RunPipeline(pixels []byte, width, height int, steps []Step) (*PipelineResult, error) {
	if len(steps) == 0 {
		return nil, ErrEmptyPipeline
	}

	pipelineID := uuid.NewString()
	ops := d.ops.WithPipeline(pipelineID)

	startFields := append([]zap.Field{
		zap.Int("steps", len(steps)),
	}, logging.DimensionFields(width, height)...)
	ops.Info("pipeline started", startFields...)

	start := time.Now()
	current, curWidth, curHeight := pixels, width, height

	for i, step := range steps {
		res, err := d.applyWith(ops, Request{
			Op:     step.Op,
			Pixels: current,
			Width:  curWidth,
			Height: curHeight,
			Params: step.Params,
		})
		if err != nil {
			ops.Warn("pipeline aborted",
				zap.Int("step", i),
				zap.String("op", step.Op),
				zap.Error(err))
			return nil, fmt.Errorf("transform: pipeline step %d (%s): %w", i, step.Op, err)
		}
		current, curWidth, curHeight = res.Pixels, res.Width, res.Height
	}

	elapsed := time.Since(start)
	doneFields := append([]zap.Field{
		zap.Int("steps", len(steps)),
		zap.Duration("elapsed", elapsed),
	}, logging.DimensionFields(curWidth, curHeight)...)
	ops.Info("pipeline complete", doneFields...)

	return &PipelineResult{
		Pixels:     current,
		Width:      curWidth,
		Height:     curHeight,
		PipelineID: pipelineID,
		Steps:      len(steps),
		Elapsed:    elapsed,
	}, nil
}
