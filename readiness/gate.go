package readiness

import (
	"context"
	"sync"
)

// State is the gate's lifecycle position.
type State int

const (
	NotReady State = iota
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case NotReady:
		return "not-ready"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Gate blocks callers until the environment signals readiness.
//
// The zero value is not usable; call New. SignalReady and SignalFailed are
// both idempotent and mutually exclusive: whichever arrives first decides
// the terminal state, and later signals of either kind are no-ops.
type Gate struct {
	mu      sync.Mutex
	settled chan struct{}
	state   State
	reason  error
}

// New creates a gate in the NotReady state.
func New() *Gate {
	return &Gate{
		settled: make(chan struct{}),
	}
}

// Await blocks until the gate settles or ctx ends. It returns nil once
// Ready, the recorded reason once Failed, and ctx.Err() if the caller's
// context expires first. Callers arriving after settlement return
// immediately.
func (g *Gate) Await(ctx context.Context) error {
	select {
	case <-g.settled:
	case <-ctx.Done():
		// Settlement wins a tie so an already-open gate never reports the
		// caller's deadline.
		select {
		case <-g.settled:
		default:
			return ctx.Err()
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == Failed {
		return g.reason
	}
	return nil
}

// SignalReady opens the gate, releasing all current and future waiters.
// A second call, or a call after SignalFailed, is a no-op.
func (g *Gate) SignalReady() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != NotReady {
		return
	}
	g.state = Ready
	close(g.settled)
}

// SignalFailed records a permanent startup failure. All current and future
// waiters receive reason. A call after SignalReady or a prior failure is a
// no-op.
func (g *Gate) SignalFailed(reason error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != NotReady {
		return
	}
	g.state = Failed
	g.reason = reason
	close(g.settled)
}

// State returns the gate's current state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}
