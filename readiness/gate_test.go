package readiness

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestGate_AwaitAfterReady(t *testing.T) {
	g := New()
	g.SignalReady()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := g.Await(ctx); err != nil {
		t.Fatalf("await after ready: %v", err)
	}
	if g.State() != Ready {
		t.Fatalf("state = %v, want ready", g.State())
	}
}

func TestGate_BroadcastReleasesAllWaiters(t *testing.T) {
	g := New()
	const n = 20

	errs := make(chan error, n)
	var started sync.WaitGroup
	for i := 0; i < n; i++ {
		started.Add(1)
		go func() {
			started.Done()
			errs <- g.Await(context.Background())
		}()
	}
	started.Wait()

	g.SignalReady()

	for i := 0; i < n; i++ {
		select {
		case err := <-errs:
			if err != nil {
				t.Fatalf("waiter %d: %v", i, err)
			}
		case <-time.After(time.Second):
			t.Fatalf("waiter %d not released", i)
		}
	}
}

func TestGate_FailedReleasesWithReason(t *testing.T) {
	g := New()
	reason := fmt.Errorf("navigation failed")

	done := make(chan error, 1)
	go func() { done <- g.Await(context.Background()) }()

	g.SignalFailed(reason)

	select {
	case err := <-done:
		if !errors.Is(err, reason) {
			t.Fatalf("waiter err = %v, want %v", err, reason)
		}
	case <-time.After(time.Second):
		t.Fatal("waiter not released on failure")
	}

	// Future waiters fail immediately and permanently.
	if err := g.Await(context.Background()); !errors.Is(err, reason) {
		t.Fatalf("late waiter err = %v, want %v", err, reason)
	}
	if g.State() != Failed {
		t.Fatalf("state = %v, want failed", g.State())
	}
}

func TestGate_AwaitTimeout(t *testing.T) {
	g := New()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := g.Await(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
	if g.State() != NotReady {
		t.Fatalf("state = %v, want not-ready", g.State())
	}
}

func TestGate_SignalsAreFirstWins(t *testing.T) {
	g := New()

	g.SignalReady()
	g.SignalReady()
	g.SignalFailed(fmt.Errorf("too late"))

	if g.State() != Ready {
		t.Fatalf("state = %v, want ready", g.State())
	}
	if err := g.Await(context.Background()); err != nil {
		t.Fatalf("await: %v", err)
	}

	g2 := New()
	reason := fmt.Errorf("boom")
	g2.SignalFailed(reason)
	g2.SignalFailed(fmt.Errorf("other"))
	g2.SignalReady()

	if g2.State() != Failed {
		t.Fatalf("state = %v, want failed", g2.State())
	}
	if err := g2.Await(context.Background()); !errors.Is(err, reason) {
		t.Fatalf("await err = %v, want first failure %v", err, reason)
	}
}

func TestGate_SettlementWinsTieOverContext(t *testing.T) {
	g := New()
	g.SignalReady()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Gate settled before Await; the canceled context must not mask it.
	if err := g.Await(ctx); err != nil {
		t.Fatalf("await on settled gate with dead ctx: %v", err)
	}
}
