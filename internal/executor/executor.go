// Package executor wraps a user function with bounded-parallel dispatch: a
// semaphore sized to a live-adjustable max-parallelism, a pause latch for
// safely shrinking that cap, and log-book instrumentation on every job.
package executor

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/screenager/ocrcore/internal/logbook"
	"github.com/screenager/ocrcore/internal/ocrerr"
)

// Func is the user work a job dispatches. It runs on a worker goroutine
// once a permit has been acquired.
type Func[In, Out any] func(ctx context.Context, in In) (Out, error)

// Handle is the two-level future returned by ExecuteSingle: the outer level
// (Admitted) resolves once the job is admitted to the semaphore and has
// begun running; the inner level (Done) resolves when f itself returns.
// This separation is what makes Executor.QueueDepth meaningful to the
// tuner: queue depth only counts jobs that have not yet been admitted.
type Handle[Out any] struct {
	admitted chan struct{}
	done     chan struct{}
	result   Out
	err      error
}

// Admitted returns a channel that closes once the job has acquired a
// permit and started running.
func (h *Handle[Out]) Admitted() <-chan struct{} { return h.admitted }

// Done returns a channel that closes once f has returned (success or
// failure).
func (h *Handle[Out]) Done() <-chan struct{} { return h.done }

// Wait blocks until the job completes and returns its result.
func (h *Handle[Out]) Wait() (Out, error) {
	<-h.done
	return h.result, h.err
}

// maxSemCapacity bounds how high current_max_parallelism can ever climb.
// The semaphore is a buffered channel allocated once at this capacity (so
// IncrementParallelism only ever needs to add a token to existing headroom,
// never resize); a pool this large is far beyond anything a CPU-bound
// detector/recognizer executor would realistically be tuned to.
const maxSemCapacity = 1 << 16

// Executor dispatches Func calls through a bounded-parallel pool whose cap
// can be grown or shrunk live.
type Executor[In, Out any] struct {
	f  Func[In, Out]
	lb *logbook.LogBook

	sem chan struct{}

	maxParallelism atomic.Int64
	queueDepth     atomic.Int64

	// paused is the pause latch: while true, it blocks new jobs from
	// acquiring a permit. DecrementParallelism raises it before waiting on the
	// semaphore so it never holds the semaphore and the latch at once.
	pauseMu   sync.Mutex
	pauseCond *sync.Cond
	paused    bool
}

// New creates an Executor around f with an initial max-parallelism.
// lb receives LogStart/LogEnd events for every dispatched job.
func New[In, Out any](f Func[In, Out], initialParallelism int, lb *logbook.LogBook) *Executor[In, Out] {
	if initialParallelism < 1 {
		initialParallelism = 1
	}
	e := &Executor[In, Out]{
		f:   f,
		lb:  lb,
		sem: make(chan struct{}, maxSemCapacity),
	}
	e.maxParallelism.Store(int64(initialParallelism))
	e.pauseCond = sync.NewCond(&e.pauseMu)
	for i := 0; i < initialParallelism; i++ {
		e.sem <- struct{}{}
	}
	return e
}

// MaxParallelism returns the current cap.
func (e *Executor[In, Out]) MaxParallelism() int {
	return int(e.maxParallelism.Load())
}

// QueueDepth returns the number of jobs currently waiting for admission.
func (e *Executor[In, Out]) QueueDepth() int {
	return int(e.queueDepth.Load())
}

// ExecuteSingle submits in for execution. It returns immediately with a
// Handle; cancelling ctx before admission aborts the job with
// ocrerr.Cancelled without invoking f.
func (e *Executor[In, Out]) ExecuteSingle(ctx context.Context, in In) *Handle[Out] {
	h := &Handle[Out]{admitted: make(chan struct{}), done: make(chan struct{})}

	e.queueDepth.Add(1)
	go func() {
		defer close(h.done)

		if !e.acquirePermit(ctx) {
			e.queueDepth.Add(-1)
			close(h.admitted)
			h.err = ocrerr.Cancelled
			return
		}
		e.queueDepth.Add(-1)
		close(h.admitted)

		tok := e.lb.LogStart()
		defer func() {
			e.lb.LogEnd(tok)
			e.releasePermit()
		}()

		if ctx.Err() != nil {
			h.err = ocrerr.Cancelled
			return
		}

		out, err := e.runProtected(ctx, in)
		h.result = out
		h.err = err
	}()

	return h
}

// runProtected calls f, converting a panic into an error so a single job
// can never leak the permit acquired for it.
func (e *Executor[In, Out]) runProtected(ctx context.Context, in In) (out Out, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ocrerr.InferenceFailed
		}
	}()
	return e.f(ctx, in)
}

// acquirePermit waits for a semaphore slot, respecting the pause latch: if
// the latch is held when a permit would otherwise be acquired, the permit
// is released immediately and the goroutine waits for the latch to clear
// before retrying. This means a paused executor never holds a permit idle
// across the pause.
func (e *Executor[In, Out]) acquirePermit(ctx context.Context) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case _, ok := <-e.sem:
			if !ok {
				return false
			}
		}

		e.pauseMu.Lock()
		if !e.paused {
			e.pauseMu.Unlock()
			return true
		}
		// A pause is in effect: give the permit back and wait it out.
		e.sem <- struct{}{}
		for e.paused {
			e.pauseCond.Wait()
		}
		e.pauseMu.Unlock()
	}
}

func (e *Executor[In, Out]) releasePermit() {
	e.sem <- struct{}{}
}

// IncrementParallelism raises the cap by one and makes the extra permit
// available immediately.
func (e *Executor[In, Out]) IncrementParallelism() {
	e.sem <- struct{}{}
	e.maxParallelism.Add(1)
}

// DecrementParallelism lowers the cap by one. It raises the pause latch so
// no new job begins running, waits for one in-flight slot to drain (taking
// that permit out of circulation), then lowers the latch and decrements the
// cap. This ordering — latch first, then block on the semaphore — is
// required: reversing it can deadlock against a workload that fully
// occupies the semaphore, since the latch must be visible to waiters before
// they would otherwise reacquire a permit and race the shrink.
func (e *Executor[In, Out]) DecrementParallelism() {
	e.pauseMu.Lock()
	e.paused = true
	e.pauseMu.Unlock()

	<-e.sem // absorb one permit permanently

	e.pauseMu.Lock()
	e.paused = false
	e.pauseCond.Broadcast()
	e.pauseMu.Unlock()

	e.maxParallelism.Add(-1)
}
