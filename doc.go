// Package scriptbridge turns a fire-and-forget script engine into a
// request/response API.
//
// An external, single-threaded script environment accepts script text and
// reports results asynchronously through a side channel of tagged messages.
// This library supplies the correlation and completion machinery between a Go
// caller and such an environment: every evaluation gets a unique correlation
// id, a completion slot that resolves at most once, and a result delivered
// back through either a context-aware call or a bounded blocking call.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	scriptbridge/        Root package with the Environment and Events interfaces
//	├── bridge/          ExecutionBridge: evaluate calls, dispatch, timeouts
//	├── correlate/       Correlation table of at-most-once completion slots
//	├── readiness/       One-shot broadcast gate for environment startup
//	├── errors/          Structured error types for the bridge taxonomy
//	├── jsenv/           Reference environment backed by the goja interpreter
//	└── testbed/         End-to-end tests of bridge + jsenv
//
// # Quick Start
//
// Evaluate a snippet against the bundled JS environment:
//
//	env := jsenv.New(jsenv.DefaultConfig())
//	b := bridge.New(env, bridge.DefaultConfig())
//	defer b.Close()
//	defer env.Close()
//	env.Start()
//
//	v, err := b.Evaluate(ctx, "6 * 7")
//	fmt.Println(v) // 42
//
// Typed results decode through an interchange round trip:
//
//	n, err := bridge.EvaluateAs[int](ctx, b, "6 * 7")
//
// # The Environment Contract
//
// Any engine can sit behind the bridge by implementing Environment. Dispatch
// must be fire-and-forget: the engine executes on its own single-threaded
// context and reports results only through Events.OnMessage. The per-dispatch
// done callback exists solely to surface host-level rejection (for example a
// parse failure before the script body runs); it never carries a result.
//
// Message delivery order is not trusted and does not matter. Correctness
// rests entirely on id correlation: late, duplicate, or malformed messages
// are dropped at the boundary without affecting any pending request.
package scriptbridge
