// Package jsenv provides a reference script environment backed by the goja
// JavaScript interpreter.
//
// A single goroutine owns the interpreter, which keeps the engine strictly
// single-threaded: Dispatch marshals work onto that goroutine's queue and
// returns immediately. Scripts report results by calling the posting hook
// the environment installs (scriptbridge.PostHook); the exported payload
// reaches the attached Events receiver as a plain Go value.
//
//	env := jsenv.New(jsenv.DefaultConfig())
//	b := bridge.New(env, bridge.DefaultConfig())
//	env.Start()
//	defer env.Close()
//
// Startup runs the configured init scripts and then signals readiness; an
// init failure signals permanent readiness failure, after which every
// dispatch is rejected. An optional per-script watchdog interrupts runaway
// scripts so one spinning snippet cannot wedge the loop forever.
package jsenv
