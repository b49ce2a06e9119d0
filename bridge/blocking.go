package bridge

import (
	"context"
	"time"

	"github.com/wippyai/script-bridge/errors"
)

// EvaluateBlocking submits script from a synchronous control path. It starts
// the evaluation on a background context and blocks the calling goroutine on
// a one-shot result, bounded by Config.BlockingTimeout.
//
// Expiry returns an evaluation timeout like any other; the abandoned
// evaluation is canceled and evicts its own table entry in the background.
func (b *Bridge) EvaluateBlocking(script string) (any, error) {
	type result struct {
		value any
		err   error
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan result, 1)
	go func() {
		v, err := b.Evaluate(ctx, script)
		done <- result{value: v, err: err}
	}()

	timer := time.NewTimer(b.cfg.BlockingTimeout)
	defer timer.Stop()

	select {
	case r := <-done:
		return r.value, r.err
	case <-timer.C:
		return nil, errors.EvaluationTimeout("", b.cfg.BlockingTimeout)
	}
}
