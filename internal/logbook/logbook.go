// Package logbook records start/end timestamps for jobs and produces
// window summaries (average duration, throughput, mean parallelism) used by
// the tuner and exposed to telemetry.
package logbook

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/screenager/ocrcore/internal/clock"
	"github.com/screenager/ocrcore/internal/ocrerr"
)

// Token is an opaque job identifier minted by LogStart. It must be
// surrendered exactly once via LogEnd. A Token value created any way other
// than through a LogBook's own LogStart is "foreign" and LogEnd rejects it.
type Token struct {
	id    uint64
	owner *LogBook
}

// LogBook is the thread-safe job start/end registry. The zero value is not
// usable; use New.
type LogBook struct {
	counter atomic.Uint64

	starts sync.Map // uint64 -> time.Duration
	ends   sync.Map // uint64 -> time.Duration

	// summaryMu serializes GetSummary and Prune with each other. It does
	// NOT serialize against LogStart/LogEnd, which remain lock-free.
	summaryMu sync.Mutex
}

// New returns an empty log-book.
func New() *LogBook {
	return &LogBook{}
}

// LogStart records the current time under a freshly minted token. O(1),
// safe to call concurrently with everything else.
func (lb *LogBook) LogStart() Token {
	id := lb.counter.Add(1)
	lb.starts.Store(id, clock.Now())
	return Token{id: id, owner: lb}
}

// LogEnd records the current time for tok. Returns ForeignToken if tok was
// not minted by this log-book. Calling LogEnd again for the same token
// overwrites its end time — callers promise to call it at most once.
func (lb *LogBook) LogEnd(tok Token) error {
	if tok.owner != lb {
		return ocrerr.ForeignToken
	}
	lb.ends.Store(tok.id, clock.Now())
	return nil
}

// Summary is the result of GetSummary over a time window.
type Summary struct {
	AvgDuration    time.Duration
	AvgThroughput  float64 // completed jobs per second
	AvgParallelism float64
}

type pair struct {
	id    uint64
	start time.Duration
	end   time.Duration
}

// GetSummary computes duration/throughput/parallelism statistics for jobs
// that both started and ended within [start, end]. Requires end >= start.
// Returns a zero Summary if no job both started and ended in the window.
func (lb *LogBook) GetSummary(start, end time.Duration) Summary {
	if end < start {
		return Summary{}
	}

	lb.summaryMu.Lock()
	defer lb.summaryMu.Unlock()

	// Snapshot end-times first, then start-times, so any end observed here
	// has a corresponding start observed in the second snapshot.
	endSnap := make(map[uint64]time.Duration)
	lb.ends.Range(func(k, v any) bool {
		endSnap[k.(uint64)] = v.(time.Duration)
		return true
	})
	startSnap := make(map[uint64]time.Duration)
	lb.starts.Range(func(k, v any) bool {
		startSnap[k.(uint64)] = v.(time.Duration)
		return true
	})

	var selected []pair
	var allJobs []pair
	for id, e := range endSnap {
		s, ok := startSnap[id]
		if !ok {
			continue
		}
		p := pair{id: id, start: s, end: e}
		if e <= end {
			allJobs = append(allJobs, p)
		}
		if s >= start && s <= end && e >= start && e <= end {
			selected = append(selected, p)
		}
	}

	if len(selected) == 0 {
		return Summary{}
	}

	var durSum time.Duration
	for _, p := range selected {
		durSum += p.end - p.start
	}
	avgDuration := durSum / time.Duration(len(selected))

	activeTime, weightedParallelism := sweep(selected, allJobs)

	var throughput, parallelism float64
	if activeTime > 0 {
		throughput = float64(len(selected)) / activeTime.Seconds()
		parallelism = weightedParallelism / activeTime.Seconds()
	}

	return Summary{
		AvgDuration:    avgDuration,
		AvgThroughput:  throughput,
		AvgParallelism: parallelism,
	}
}

type event struct {
	t        time.Duration
	selDelta int
	allDelta int
}

// sweep performs the single event-sweep that computes both the active-time
// denominator (total time at least one selected job is in flight) and the
// time-weighted sum of concurrently running "all" jobs restricted to that
// same active window.
func sweep(selected, all []pair) (activeTime time.Duration, weightedParallelism float64) {
	events := make([]event, 0, 2*(len(selected)+len(all)))
	for _, p := range selected {
		events = append(events, event{t: p.start, selDelta: 1})
		events = append(events, event{t: p.end, selDelta: -1})
	}
	for _, p := range all {
		events = append(events, event{t: p.start, allDelta: 1})
		events = append(events, event{t: p.end, allDelta: -1})
	}
	sort.Slice(events, func(i, j int) bool { return events[i].t < events[j].t })

	var selCount, allCount int
	var prevT time.Duration
	first := true
	for i := 0; i < len(events); {
		t := events[i].t
		if !first && t > prevT && selCount > 0 {
			d := t - prevT
			activeTime += d
			weightedParallelism += float64(allCount) * d.Seconds()
		}
		for i < len(events) && events[i].t == t {
			selCount += events[i].selDelta
			allCount += events[i].allDelta
			i++
		}
		prevT = t
		first = false
	}
	return activeTime, weightedParallelism
}

// Prune removes every token whose end-time is < before. Callers promise
// never to call GetSummary with start <= before afterwards: each removed
// pair's start and end events cancel in the sweep above, so removing it
// cannot change any window strictly after "before".
func (lb *LogBook) Prune(before time.Duration) {
	lb.summaryMu.Lock()
	defer lb.summaryMu.Unlock()

	var toRemove []uint64
	lb.ends.Range(func(k, v any) bool {
		if v.(time.Duration) < before {
			toRemove = append(toRemove, k.(uint64))
		}
		return true
	})
	for _, id := range toRemove {
		lb.ends.Delete(id)
		lb.starts.Delete(id)
	}
}
