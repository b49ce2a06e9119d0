package scriptbridge

// Environment is the external single-threaded script execution engine.
//
// Implementations own their execution context. Dispatch must not run the
// script synchronously on the caller's goroutine; it hands the wrapped script
// to the engine's own loop and returns. Results travel exclusively through
// Events.OnMessage.
type Environment interface {
	// Dispatch submits a wrapped script for execution. done is invoked at
	// most once, from the environment's context, with a non-nil error only
	// when the environment rejects the script before its body runs (a
	// host-level failure such as a parse error). done never carries a
	// result value.
	Dispatch(script string, done func(error))

	// Attach registers the receiver for environment events. At most one
	// Events receiver is active at a time; attaching replaces any prior
	// registration.
	Attach(events Events)
}

// Events is the set of callbacks an Environment delivers to its attached
// receiver. The bridge implements Events; environments must tolerate the
// receiver outliving or predating their own lifecycle and must never assume
// which goroutine handles a callback.
type Events interface {
	// OnMessage delivers one raw side-channel payload. The receiver parses
	// and validates it; malformed payloads are dropped, not errors.
	OnMessage(raw any)

	// OnReady signals the one-time transition to accepting dispatches.
	OnReady()

	// OnReadyFailed signals permanent startup failure.
	OnReadyFailed(reason error)
}

// Message is the parsed shape of a side-channel payload: a correlation id
// plus exactly one of a result value or an error text.
type Message struct {
	ID       string
	Value    any
	Err      string
	HasValue bool
}

// PostHook is the global function name wrapped scripts call to deliver their
// tagged result into the side channel. Environments install it; the bridge
// emits calls to it.
const PostHook = "__scriptbridge_post"
