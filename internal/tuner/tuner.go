// Package tuner implements the background loop that observes executor
// queue depth and grows parallelism.
package tuner

import (
	"context"
	"math"
	"time"
)

// SubSamples is how many equally-spaced queue-depth reads make up one
// tuning cycle's time-averaged parallelism estimate.
const SubSamples = 10

// Interval is the fixed tuner tick rate; each cycle spends this much time
// collecting SubSamples equally-spaced queue-depth readings.
const Interval = 250 * time.Millisecond

// Tunable is the subset of Executor the tuner needs. Keeping it narrow
// lets tests use a fake without pulling in the full executor package.
type Tunable interface {
	QueueDepth() int
	IncrementParallelism()
}

// Tuner adjusts the recognition and detection executors once per cycle.
// Recognition is evaluated first because it is the latency bottleneck; if
// recognition is incremented this cycle, detection is left alone. The
// tuner never decrements — only an administrative request does that.
type Tuner struct {
	recognition Tunable
	detection   Tunable
	interval    time.Duration
	sleep       func(time.Duration)
}

// New creates a Tuner managing the given executors.
func New(recognition, detection Tunable) *Tuner {
	return &Tuner{
		recognition: recognition,
		detection:   detection,
		interval:    Interval,
		sleep:       time.Sleep,
	}
}

// Run cycles until ctx is cancelled. Cancellation awaits the in-flight
// cycle before returning.
func (t *Tuner) Run(ctx context.Context) {
	for ctx.Err() == nil {
		t.Cycle(ctx)
	}
}

// Cycle collects one interval's worth of sub-samples for each executor and
// applies the decision rule, recognition first. Exported so tests can drive
// single cycles with an injected sleep function.
func (t *Tuner) Cycle(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	recIncremented := t.evaluate(ctx, t.recognition)
	if !recIncremented {
		t.evaluate(ctx, t.detection)
	}
}

// evaluate samples e's queue depth SubSamples times, evenly spaced across
// Interval, and increments parallelism if the latest queue_depth reading is
// non-zero and >= ceil(observed_parallelism * 0.5), where
// observed_parallelism is the mean of the sub-samples. An empty queue never
// triggers an increment. Returns whether it incremented.
func (t *Tuner) evaluate(ctx context.Context, e Tunable) bool {
	if e == nil {
		return false
	}
	perSample := t.interval / SubSamples

	var sum int
	var last int
	for i := 0; i < SubSamples; i++ {
		last = e.QueueDepth()
		sum += last
		if i < SubSamples-1 {
			if ctx.Err() != nil {
				return false
			}
			t.sleep(perSample)
		}
	}
	observed := float64(sum) / float64(SubSamples)
	threshold := int(math.Ceil(observed * 0.5))

	if last > 0 && last >= threshold {
		e.IncrementParallelism()
		return true
	}
	return false
}
