package detector

import (
	"context"

	"github.com/screenager/ocrcore/internal/pixbuf"
	"github.com/screenager/ocrcore/internal/runner"
)

// Detector wraps a model runner with resize/pad pre-processing and
// relief-map post-processing.
type Detector struct {
	run *runner.Runner
}

// New wraps an already-constructed runner (owning its own model session
// and executor) as a Detector stage.
func New(run *runner.Runner) *Detector {
	return &Detector{run: run}
}

// Detect runs the full pre-process -> inference -> post-process pipeline
// for a single image and returns its detected text regions.
func (d *Detector) Detect(ctx context.Context, img pixbuf.Buffer) ([]Region, error) {
	prep, err := preprocess(img)
	if err != nil {
		return nil, err
	}

	h := d.run.Run(ctx, prep.t)
	out, err := h.Wait()
	if err != nil {
		return nil, err
	}

	return postprocess(out, prep)
}

// QueueDepth exposes the underlying runner's queue depth to the tuner.
func (d *Detector) QueueDepth() int { return d.run.QueueDepth() }

// IncrementParallelism raises the underlying runner's parallelism cap.
func (d *Detector) IncrementParallelism() { d.run.IncrementParallelism() }

// DecrementParallelism lowers the underlying runner's parallelism cap.
func (d *Detector) DecrementParallelism() { d.run.DecrementParallelism() }

// MaxParallelism returns the underlying runner's current cap.
func (d *Detector) MaxParallelism() int { return d.run.MaxParallelism() }
