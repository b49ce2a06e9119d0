package bridge

import (
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/xid"
	"go.uber.org/zap"

	scriptbridge "github.com/wippyai/script-bridge"
	"github.com/wippyai/script-bridge/correlate"
	"github.com/wippyai/script-bridge/errors"
	"github.com/wippyai/script-bridge/readiness"
)

// Bridge correlates script dispatches with their side-channel responses.
//
// Create one per environment with New. All methods are safe for concurrent
// use. The bridge registers itself as the environment's Events receiver; the
// environment holds only that interface value and may keep delivering after
// Close, at which point everything inbound is dropped.
type Bridge struct {
	env       scriptbridge.Environment
	cfg       Config
	table     *correlate.Table
	gate      *readiness.Gate
	closed    atomic.Bool
	closeOnce sync.Once
}

// New creates a bridge over env and attaches it for environment events.
// Zero Config fields take their defaults.
func New(env scriptbridge.Environment, cfg Config) *Bridge {
	b := &Bridge{
		env:   env,
		cfg:   cfg.withDefaults(),
		table: correlate.New(),
		gate:  readiness.New(),
	}
	env.Attach(b)
	return b
}

// Evaluate submits script to the environment and suspends until its tagged
// response arrives, the per-call deadline passes, or ctx ends.
//
// The returned value is whatever the script's final expression produced, as
// delivered by the environment. Failures map onto the bridge taxonomy:
// readiness timeout or permanent readiness failure, dispatch rejection,
// script-reported error, evaluation timeout, caller cancellation, or a
// closed bridge.
func (b *Bridge) Evaluate(ctx context.Context, script string) (any, error) {
	if b.closed.Load() {
		return nil, errors.Closed()
	}

	if err := b.awaitReady(ctx); err != nil {
		return nil, err
	}

	// Close may have raced the readiness wait; requests registered after
	// CancelAll would otherwise hang until their timeout.
	if b.closed.Load() {
		return nil, errors.Closed()
	}

	id := xid.New().String()
	slot, err := b.table.Register(id)
	if err != nil {
		return nil, err
	}

	Logger().Debug("dispatching script",
		zap.String("id", id),
		zap.Int("script_bytes", len(script)))

	b.env.Dispatch(wrapScript(id, script), func(derr error) {
		if derr == nil {
			return
		}
		// Host-level rejection before the script body ran. Resolve now
		// instead of letting the request wait out its deadline.
		if b.table.Resolve(id, correlate.Outcome{Err: errors.DispatchRejected(id, derr)}) {
			Logger().Warn("environment rejected dispatch",
				zap.String("id", id),
				zap.Error(derr))
		}
	})

	timer := time.NewTimer(b.cfg.EvalTimeout)
	defer timer.Stop()

	select {
	case out := <-slot.Done():
		return out.Value, out.Err

	case <-ctx.Done():
		evict := errors.Canceled(id, ctx.Err())
		if b.table.Resolve(id, correlate.Outcome{Err: evict}) {
			Logger().Debug("evaluation canceled by caller", zap.String("id", id))
			return nil, evict
		}
		// The environment won the race; its outcome is already buffered.
		out := <-slot.Done()
		return out.Value, out.Err

	case <-timer.C:
		evict := errors.EvaluationTimeout(id, b.cfg.EvalTimeout)
		if b.table.Resolve(id, correlate.Outcome{Err: evict}) {
			Logger().Debug("evaluation timed out",
				zap.String("id", id),
				zap.Duration("deadline", b.cfg.EvalTimeout))
			return nil, evict
		}
		out := <-slot.Done()
		return out.Value, out.Err
	}
}

// awaitReady blocks on the readiness gate under the smaller of ctx and
// ReadyTimeout, mapping gate outcomes onto the bridge taxonomy.
func (b *Bridge) awaitReady(ctx context.Context) error {
	rctx, cancel := context.WithTimeout(ctx, b.cfg.ReadyTimeout)
	defer cancel()

	err := b.gate.Await(rctx)
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, context.Canceled):
		return errors.Canceled("", err)
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.ReadinessTimeout(b.cfg.ReadyTimeout)
	default:
		return errors.ReadinessFailed(err)
	}
}

// Pending returns the number of in-flight requests. Intended for
// introspection and tests.
func (b *Bridge) Pending() int {
	return b.table.Len()
}

// Close tears the bridge down: every pending request resolves with a closed
// error and later calls fail fast. Idempotent. Close does not stop the
// environment; inbound events after Close are dropped.
func (b *Bridge) Close() {
	b.closeOnce.Do(func() {
		b.closed.Store(true)
		b.table.CancelAll(errors.Closed())
		Logger().Debug("bridge closed")
	})
}
