// Package bridge provides the execution bridge between Go callers and a
// script environment.
//
// # Quick Start
//
//	b := bridge.New(env, bridge.DefaultConfig())
//	defer b.Close()
//
//	// Suspending form: honors the caller's context.
//	v, err := b.Evaluate(ctx, "1 + 2")
//
//	// Blocking form: bounded by Config.BlockingTimeout.
//	v, err = b.EvaluateBlocking("1 + 2")
//
//	// Typed results.
//	n, err := bridge.EvaluateAs[int](ctx, b, "6 * 7")
//
// # Request Lifecycle
//
// Each evaluation waits for environment readiness, registers a fresh
// correlation id, wraps the snippet so the script tags its own result with
// that id, and dispatches the wrapped script. The caller then suspends on
// the request's completion slot, racing the per-call deadline. Exactly one
// of the following resolves the request, and whichever arrives first wins:
//
//   - a side-channel message carrying the tagged value or thrown message
//   - a host-level dispatch rejection reported by the environment
//   - the per-call deadline or the caller's context, which evicts the entry
//   - Close, which cancels everything still pending
//
// A resolution that loses the race is discarded by the correlation table's
// at-most-once contract; it is never delivered to a caller.
//
// # Thread Safety
//
// Bridge is safe for concurrent use. Concurrent evaluations never share a
// correlation id or a tagged wrapper. Environment callbacks may arrive on
// any goroutine.
package bridge
