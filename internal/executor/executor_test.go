package executor

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/screenager/ocrcore/internal/logbook"
)

func TestConcurrencyCapNeverExceeded(t *testing.T) {
	lb := logbook.New()
	var inFlight, maxObserved atomic.Int64

	f := func(ctx context.Context, in int) (int, error) {
		n := inFlight.Add(1)
		for {
			old := maxObserved.Load()
			if n <= old || maxObserved.CompareAndSwap(old, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		inFlight.Add(-1)
		return in * 2, nil
	}

	e := New(f, 3, lb)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h := e.ExecuteSingle(context.Background(), i)
			h.Wait()
		}(i)
	}
	wg.Wait()

	if maxObserved.Load() > 3 {
		t.Fatalf("observed %d concurrent jobs, cap was 3", maxObserved.Load())
	}
}

func TestIncrementParallelismTakesEffect(t *testing.T) {
	lb := logbook.New()
	release := make(chan struct{})
	var inFlight atomic.Int64

	f := func(ctx context.Context, in int) (int, error) {
		inFlight.Add(1)
		<-release
		inFlight.Add(-1)
		return in, nil
	}
	e := New(f, 1, lb)

	h1 := e.ExecuteSingle(context.Background(), 1)
	<-h1.Admitted()

	// Second job should queue behind the single permit.
	h2 := e.ExecuteSingle(context.Background(), 2)
	time.Sleep(10 * time.Millisecond)
	if inFlight.Load() != 1 {
		t.Fatalf("expected 1 in flight before increment, got %d", inFlight.Load())
	}

	e.IncrementParallelism()
	select {
	case <-h2.Admitted():
	case <-time.After(time.Second):
		t.Fatal("second job never admitted after increment")
	}

	close(release)
	h1.Wait()
	h2.Wait()
}

func TestDecrementParallelismEnforcesNewCap(t *testing.T) {
	lb := logbook.New()
	f := func(ctx context.Context, in int) (int, error) { return in, nil }
	e := New(f, 2, lb)

	e.DecrementParallelism()
	if e.MaxParallelism() != 1 {
		t.Fatalf("expected max parallelism 1 after decrement, got %d", e.MaxParallelism())
	}

	release := make(chan struct{})
	blocker := func(ctx context.Context, in int) (int, error) {
		<-release
		return in, nil
	}
	e.f = blocker
	h1 := e.ExecuteSingle(context.Background(), 1)
	<-h1.Admitted()

	h2 := e.ExecuteSingle(context.Background(), 2)
	select {
	case <-h2.Admitted():
		t.Fatal("second job admitted despite cap of 1")
	case <-time.After(30 * time.Millisecond):
	}
	close(release)
	h1.Wait()
	h2.Wait()
}

func TestCancelBeforeAdmissionAbortsWithoutRunning(t *testing.T) {
	lb := logbook.New()
	ran := atomic.Bool{}
	f := func(ctx context.Context, in int) (int, error) {
		ran.Store(true)
		return in, nil
	}
	e := New(f, 1, lb)

	// Occupy the only permit first.
	block := make(chan struct{})
	e.f = func(ctx context.Context, in int) (int, error) { <-block; return in, nil }
	h1 := e.ExecuteSingle(context.Background(), 1)
	<-h1.Admitted()

	ctx, cancel := context.WithCancel(context.Background())
	e.f = f
	h2 := e.ExecuteSingle(ctx, 2)
	cancel()
	<-h2.Done()
	if ran.Load() {
		t.Fatal("f ran despite cancellation before admission")
	}
	close(block)
	h1.Wait()
}

func TestPanicReleasesPermit(t *testing.T) {
	lb := logbook.New()
	f := func(ctx context.Context, in int) (int, error) {
		panic("boom")
	}
	e := New(f, 1, lb)
	h1 := e.ExecuteSingle(context.Background(), 1)
	_, err := h1.Wait()
	if err == nil {
		t.Fatal("expected error from panicking job")
	}

	// A second job must still be able to acquire the single permit.
	e.f = func(ctx context.Context, in int) (int, error) { return in, nil }
	h2 := e.ExecuteSingle(context.Background(), 2)
	select {
	case <-h2.Admitted():
	case <-time.After(time.Second):
		t.Fatal("permit leaked after panic")
	}
	h2.Wait()
}
