package jsenv

import (
	"fmt"
	"sync"
	"time"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	scriptbridge "github.com/wippyai/script-bridge"
)

// Script is one named source unit run during startup.
type Script struct {
	Name   string
	Source string
}

// Config holds the environment's configuration.
type Config struct {
	// InitScripts run in order on the engine goroutine before readiness
	// is signaled. A failure makes readiness fail permanently.
	InitScripts []Script
	// ScriptTimeout interrupts any single dispatched script running
	// longer. Zero disables the watchdog.
	ScriptTimeout time.Duration
	// QueueSize bounds the dispatch queue.
	QueueSize int
}

// DefaultConfig provides sensible defaults for an embedded interpreter.
func DefaultConfig() Config {
	return Config{
		ScriptTimeout: 30 * time.Second,
		QueueSize:     64,
	}
}

type job struct {
	script string
	done   func(error)
}

// Env is a scriptbridge.Environment over a goja runtime.
//
// The zero value is not usable; call New, Attach a receiver, then Start.
// Dispatch before Start queues; the queued scripts run once the loop is up
// and readiness has been decided.
type Env struct {
	cfg       Config
	jobs      chan job
	quit      chan struct{}
	wg        sync.WaitGroup
	startOnce sync.Once
	closeOnce sync.Once

	mu     sync.Mutex
	events scriptbridge.Events
}

// New creates a stopped environment. Zero Config fields take their defaults.
func New(cfg Config) *Env {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultConfig().QueueSize
	}
	return &Env{
		cfg:  cfg,
		jobs: make(chan job, cfg.QueueSize),
		quit: make(chan struct{}),
	}
}

// Attach registers the receiver for side-channel and readiness events,
// replacing any prior registration.
func (e *Env) Attach(events scriptbridge.Events) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = events
}

// Start launches the engine goroutine. Idempotent.
func (e *Env) Start() {
	e.startOnce.Do(func() {
		e.wg.Add(1)
		go e.loop()
	})
}

// Dispatch queues script for execution on the engine goroutine. done is
// invoked from that goroutine with a non-nil error when the script is
// rejected before its body completes: a parse failure, a watchdog
// interrupt, an init-failed environment, or a closed one.
func (e *Env) Dispatch(script string, done func(error)) {
	select {
	case e.jobs <- job{script: script, done: done}:
	case <-e.quit:
		if done != nil {
			go done(fmt.Errorf("environment closed"))
		}
	}
}

// Close stops the engine goroutine and rejects everything still queued.
// Idempotent.
func (e *Env) Close() {
	e.closeOnce.Do(func() {
		close(e.quit)
		e.wg.Wait()

		for {
			select {
			case j := <-e.jobs:
				if j.done != nil {
					j.done(fmt.Errorf("environment closed"))
				}
			default:
				return
			}
		}
	})
}

// loop owns the goja runtime for the environment's whole life.
func (e *Env) loop() {
	defer e.wg.Done()

	vm := goja.New()
	if err := vm.Set(scriptbridge.PostHook, func(call goja.FunctionCall) goja.Value {
		e.deliver(call.Argument(0).Export())
		return goja.Undefined()
	}); err != nil {
		e.notifyReadyFailed(fmt.Errorf("install posting hook: %w", err))
		e.rejectUntilQuit(fmt.Errorf("environment unavailable"))
		return
	}

	var initErr error
	for _, s := range e.cfg.InitScripts {
		if _, err := vm.RunScript(s.Name, s.Source); err != nil {
			initErr = fmt.Errorf("init script %s: %w", s.Name, err)
			break
		}
	}

	if initErr != nil {
		Logger().Warn("environment startup failed", zap.Error(initErr))
		e.notifyReadyFailed(initErr)
		e.rejectUntilQuit(fmt.Errorf("environment unavailable: %w", initErr))
		return
	}

	Logger().Debug("environment ready",
		zap.Int("init_scripts", len(e.cfg.InitScripts)))
	e.notifyReady()

	for {
		select {
		case <-e.quit:
			return
		case j := <-e.jobs:
			e.run(vm, j)
		}
	}
}

// run executes one dispatched script, arming the watchdog if configured.
func (e *Env) run(vm *goja.Runtime, j job) {
	var watchdog *time.Timer
	if e.cfg.ScriptTimeout > 0 {
		watchdog = time.AfterFunc(e.cfg.ScriptTimeout, func() {
			vm.Interrupt("script timeout")
		})
	}

	_, err := vm.RunScript("dispatch", j.script)

	if watchdog != nil {
		watchdog.Stop()
		vm.ClearInterrupt()
	}
	if err != nil {
		Logger().Debug("script rejected", zap.Error(err))
	}
	if j.done != nil {
		j.done(err)
	}
}

// rejectUntilQuit keeps draining dispatches on a dead environment so
// callers get an immediate rejection instead of a hang.
func (e *Env) rejectUntilQuit(reason error) {
	for {
		select {
		case <-e.quit:
			return
		case j := <-e.jobs:
			if j.done != nil {
				j.done(reason)
			}
		}
	}
}

func (e *Env) deliver(raw any) {
	e.mu.Lock()
	ev := e.events
	e.mu.Unlock()
	if ev != nil {
		ev.OnMessage(raw)
	}
}

func (e *Env) notifyReady() {
	e.mu.Lock()
	ev := e.events
	e.mu.Unlock()
	if ev != nil {
		ev.OnReady()
	}
}

func (e *Env) notifyReadyFailed(reason error) {
	e.mu.Lock()
	ev := e.events
	e.mu.Unlock()
	if ev != nil {
		ev.OnReadyFailed(reason)
	}
}
