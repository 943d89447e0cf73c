// Package runner abstracts a model runtime behind a uniform
// run(tensor, shape) -> tensor, shape contract, serializing concurrent
// calls through an executor.
package runner

import (
	"context"
	"fmt"

	"github.com/screenager/ocrcore/internal/executor"
	"github.com/screenager/ocrcore/internal/logbook"
	"github.com/screenager/ocrcore/internal/model"
	"github.com/screenager/ocrcore/internal/ocrerr"
	"github.com/screenager/ocrcore/internal/tensor"
)

// Handle is the two-level future ExecuteSingle hands back: Admitted
// resolves when the call is accepted by the executor's permit (admission);
// the handle itself resolves (via Wait) when inference completes.
type Handle = executor.Handle[tensor.Tensor]

// Runner owns a single model session and serializes concurrent Run calls
// through an Executor whose max-parallelism the tuner adjusts live.
type Runner struct {
	exec *executor.Executor[tensor.Tensor, tensor.Tensor]
}

// New wraps m behind an executor with the given initial parallelism
// (typically 1 on the CPU path — batch-size/parallelism
// open question).
func New(m model.Model, initialParallelism int, lb *logbook.LogBook) *Runner {
	f := func(_ context.Context, in tensor.Tensor) (tensor.Tensor, error) {
		if len(in.Shape) < 1 {
			return tensor.Tensor{}, fmt.Errorf("runner: %w", ocrerr.BadShape)
		}
		batched := tensor.New(in.Data, prependOne(in.Shape))
		out, err := m.Run(batched)
		if err != nil {
			return tensor.Tensor{}, fmt.Errorf("runner: %w", ocrerr.InferenceFailed)
		}
		return tensor.New(out.Data, stripOne(out.Shape)), nil
	}
	return &Runner{exec: executor.New(f, initialParallelism, lb)}
}

// Run submits in for inference. The caller can await Handle.Admitted()
// first to observe queue admission, then Handle.Wait() for the result —
// the separation the tuner's QueueDepth relies on. An invalid shape still
// takes a permit and surfaces BadShape from Wait(), since the dispatched
// Func is where the check lives.
func (r *Runner) Run(ctx context.Context, in tensor.Tensor) *Handle {
	return r.exec.ExecuteSingle(ctx, in)
}

// QueueDepth reports jobs awaiting admission, for the tuner.
func (r *Runner) QueueDepth() int { return r.exec.QueueDepth() }

// IncrementParallelism raises the executor's max-parallelism cap by one.
func (r *Runner) IncrementParallelism() { r.exec.IncrementParallelism() }

// DecrementParallelism lowers the executor's max-parallelism cap by one.
func (r *Runner) DecrementParallelism() { r.exec.DecrementParallelism() }

// MaxParallelism returns the current cap.
func (r *Runner) MaxParallelism() int { return r.exec.MaxParallelism() }

func prependOne(shape []int) []int {
	out := make([]int, len(shape)+1)
	out[0] = 1
	copy(out[1:], shape)
	return out
}

func stripOne(shape []int) []int {
	if len(shape) <= 1 {
		return nil
	}
	return shape[1:]
}
