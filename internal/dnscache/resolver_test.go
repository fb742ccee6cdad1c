package dnscache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestResolveAllCachesAnswers(t *testing.T) {
	var calls int32
	r := New(func(_ context.Context, domain string) (string, error) {
		atomic.AddInt32(&calls, 1)
		if domain == "bad.example" {
			return "", errors.New("nxdomain")
		}
		return "10.0.0.1", nil
	})

	resolved, err := r.ResolveAll(context.Background(), []string{"good.example", "bad.example", "good.example", ""})
	if err != nil {
		t.Fatalf("ResolveAll returned error %v", err)
	}
	if resolved != 1 {
		t.Fatalf("ResolveAll resolved %d domains, want 1", resolved)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("lookup called %d times, want 2 (deduplicated)", got)
	}

	if got := r.Get("good.example"); got != "10.0.0.1" {
		t.Fatalf("Get(good.example) returned %q, want %q", got, "10.0.0.1")
	}
	if got := r.Get("bad.example"); got != "N/A" {
		t.Fatalf("Get(bad.example) returned %q, want %q", got, "N/A")
	}
	if got := r.Get("unseen.example"); got != "" {
		t.Fatalf("Get(unseen.example) returned %q, want empty", got)
	}
}

func TestResolveAllSkipsCached(t *testing.T) {
	var calls int32
	r := New(func(_ context.Context, _ string) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "10.0.0.2", nil
	})

	domains := []string{"a.example", "b.example"}
	if _, err := r.ResolveAll(context.Background(), domains); err != nil {
		t.Fatalf("first ResolveAll returned error %v", err)
	}
	if _, err := r.ResolveAll(context.Background(), domains); err != nil {
		t.Fatalf("second ResolveAll returned error %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("lookup called %d times across both passes, want 2", got)
	}
}

func TestClearRetriesFailures(t *testing.T) {
	var calls int32
	r := New(func(_ context.Context, _ string) (string, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return "", errors.New("timeout")
		}
		return "10.0.0.3", nil
	})

	r.ResolveAll(context.Background(), []string{"flaky.example"})
	if got := r.Get("flaky.example"); got != "N/A" {
		t.Fatalf("first pass cached %q, want N/A", got)
	}

	// Cached failures are sticky until a clear.
	r.ResolveAll(context.Background(), []string{"flaky.example"})
	if got := r.Get("flaky.example"); got != "N/A" {
		t.Fatalf("second pass without clear cached %q, want N/A", got)
	}

	r.Clear()
	if r.Size() != 0 {
		t.Fatalf("Size after Clear = %d, want 0", r.Size())
	}
	r.ResolveAll(context.Background(), []string{"flaky.example"})
	if got := r.Get("flaky.example"); got != "10.0.0.3" {
		t.Fatalf("post-clear pass cached %q, want 10.0.0.3", got)
	}
}

func TestResolveAllBoundsConcurrency(t *testing.T) {
	var mu sync.Mutex
	inFlight, peak := 0, 0
	gate := make(chan struct{})

	r := New(func(_ context.Context, _ string) (string, error) {
		mu.Lock()
		inFlight++
		if inFlight > peak {
			peak = inFlight
		}
		mu.Unlock()

		<-gate

		mu.Lock()
		inFlight--
		mu.Unlock()
		return "10.0.0.4", nil
	})

	domains := make([]string, 20)
	for i := range domains {
		domains[i] = string(rune('a'+i)) + ".example"
	}

	done := make(chan struct{})
	go func() {
		r.ResolveAll(context.Background(), domains)
		close(done)
	}()
	close(gate)
	<-done

	if peak > resolveWorkerLimit {
		t.Fatalf("observed %d concurrent lookups, limit is %d", peak, resolveWorkerLimit)
	}
}
