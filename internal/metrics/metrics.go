// Package metrics exposes the on-demand telemetry snapshot a sink polls:
// queue depth, max parallelism, average job duration, throughput, and mean
// parallelism. Queue wait time and batch size are not reported.
package metrics

import (
	"time"

	"github.com/screenager/ocrcore/internal/logbook"
)

// Tunable mirrors the subset of executor/runner/detector/recognizer
// behavior a telemetry source exposes.
type Tunable interface {
	QueueDepth() int
	MaxParallelism() int
}

// Snapshot is a point-in-time read of one stage's telemetry.
type Snapshot struct {
	QueueDepth      int
	MaxParallelism  int
	AvgDuration     time.Duration
	AvgThroughput   float64
	AvgParallelism  float64
}

// Sample reads stage's current queue depth and cap, plus lb's summary
// over the trailing window [now-window, now], with the start clamped to 0.
func Sample(stage Tunable, lb *logbook.LogBook, now, window time.Duration) Snapshot {
	start := now - window
	if start < 0 {
		start = 0
	}
	summary := lb.GetSummary(start, now)
	return Snapshot{
		QueueDepth:     stage.QueueDepth(),
		MaxParallelism: stage.MaxParallelism(),
		AvgDuration:    summary.AvgDuration,
		AvgThroughput:  summary.AvgThroughput,
		AvgParallelism: summary.AvgParallelism,
	}
}
