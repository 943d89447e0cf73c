package logbook

import (
	"sync"
	"testing"
	"time"

	"github.com/screenager/ocrcore/internal/clock"
)

func TestLogStartEndBasic(t *testing.T) {
	lb := New()
	tok := lb.LogStart()
	time.Sleep(5 * time.Millisecond)
	if err := lb.LogEnd(tok); err != nil {
		t.Fatalf("LogEnd: %v", err)
	}
}

func TestForeignToken(t *testing.T) {
	lb1 := New()
	lb2 := New()
	tok := lb1.LogStart()
	if err := lb2.LogEnd(tok); err == nil {
		t.Fatal("expected ForeignToken error, got nil")
	}
}

func TestSummaryEmptyWindow(t *testing.T) {
	lb := New()
	s := lb.GetSummary(0, time.Hour)
	if s.AvgDuration != 0 || s.AvgThroughput != 0 || s.AvgParallelism != 0 {
		t.Fatalf("expected zero summary, got %+v", s)
	}
}

func TestSummaryEndBeforeStart(t *testing.T) {
	lb := New()
	s := lb.GetSummary(time.Second, 0)
	if s != (Summary{}) {
		t.Fatalf("expected zero summary for end < start, got %+v", s)
	}
}

func TestSummarySingleJob(t *testing.T) {
	lb := New()
	start := time.Now()
	tok := lb.LogStart()
	time.Sleep(20 * time.Millisecond)
	lb.LogEnd(tok)
	elapsed := time.Since(start)

	s := lb.GetSummary(0, elapsed+time.Second)
	if s.AvgDuration < 15*time.Millisecond || s.AvgDuration > 200*time.Millisecond {
		t.Errorf("avg duration out of expected range: %v", s.AvgDuration)
	}
	if s.AvgParallelism < 1 {
		t.Errorf("expected parallelism >= 1 for a job that ran, got %v", s.AvgParallelism)
	}
	if s.AvgThroughput <= 0 {
		t.Errorf("expected positive throughput, got %v", s.AvgThroughput)
	}
}

func TestSummaryConcurrentJobs(t *testing.T) {
	lb := New()
	const n = 5
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			tok := lb.LogStart()
			time.Sleep(30 * time.Millisecond)
			lb.LogEnd(tok)
		}()
	}
	wg.Wait()

	s := lb.GetSummary(0, clock.Now()+time.Hour)
	if s.AvgParallelism < 1 {
		t.Errorf("expected mean parallelism >= 1, got %v", s.AvgParallelism)
	}
	if s.AvgThroughput <= 0 {
		t.Errorf("expected positive throughput, got %v", s.AvgThroughput)
	}
}

func TestPruneNonInterference(t *testing.T) {
	lb := New()
	tok1 := lb.LogStart()
	time.Sleep(5 * time.Millisecond)
	lb.LogEnd(tok1)

	pruneAt := clock.Now()
	time.Sleep(5 * time.Millisecond)

	tok2 := lb.LogStart()
	time.Sleep(5 * time.Millisecond)
	lb.LogEnd(tok2)

	windowEnd := clock.Now() + time.Hour
	before := lb.GetSummary(pruneAt, windowEnd)

	lb.Prune(pruneAt)
	after := lb.GetSummary(pruneAt, windowEnd)

	if before != after {
		t.Fatalf("prune changed a summary strictly after the prune point: before=%+v after=%+v", before, after)
	}
}
