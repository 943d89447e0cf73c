// Package recognizer implements region crop -> resize/normalize ->
// inference -> greedy CTC decode.
package recognizer

import (
	"context"

	"github.com/screenager/ocrcore/internal/ctc"
	"github.com/screenager/ocrcore/internal/geometry"
	"github.com/screenager/ocrcore/internal/pixbuf"
	"github.com/screenager/ocrcore/internal/runner"
)

// Recognizer wraps a model runner with region-crop pre-processing and
// CTC-decode post-processing.
type Recognizer struct {
	run *runner.Runner
}

// New wraps an already-constructed runner as a Recognizer stage.
func New(run *runner.Runner) *Recognizer {
	return &Recognizer{run: run}
}

// Recognize decodes the text within region of img. A zero-area region
// returns an empty string with confidence 0, not an error.
func (r *Recognizer) Recognize(ctx context.Context, img pixbuf.Buffer, region geometry.OrientedRectangle) (ctc.Result, error) {
	in, ok := preprocess(img, region)
	if !ok {
		return ctc.Result{}, nil
	}

	h := r.run.Run(ctx, in)
	out, err := h.Wait()
	if err != nil {
		return ctc.Result{}, err
	}

	if len(out.Shape) != 2 {
		return ctc.Result{}, nil
	}
	return ctc.Decode(toFloat64(out.Data), out.Shape[0], out.Shape[1]), nil
}

// RecognizeAll decodes every region in img. Zero regions returns an empty
// slice, not an error.
func (r *Recognizer) RecognizeAll(ctx context.Context, img pixbuf.Buffer, regions []geometry.OrientedRectangle) ([]ctc.Result, error) {
	results := make([]ctc.Result, 0, len(regions))
	for _, region := range regions {
		res, err := r.Recognize(ctx, img, region)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// QueueDepth exposes the underlying runner's queue depth to the tuner.
func (r *Recognizer) QueueDepth() int { return r.run.QueueDepth() }

// IncrementParallelism raises the underlying runner's parallelism cap.
func (r *Recognizer) IncrementParallelism() { r.run.IncrementParallelism() }

// DecrementParallelism lowers the underlying runner's parallelism cap.
func (r *Recognizer) DecrementParallelism() { r.run.DecrementParallelism() }

// MaxParallelism returns the underlying runner's current cap.
func (r *Recognizer) MaxParallelism() int { return r.run.MaxParallelism() }

func toFloat64(data []float32) []float64 {
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = float64(v)
	}
	return out
}
