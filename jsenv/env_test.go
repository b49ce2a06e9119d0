package jsenv

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// recorder captures Events deliveries for inspection.
type recorder struct {
	mu     sync.Mutex
	msgs   []any
	ready  chan struct{}
	failed chan error
}

func newRecorder() *recorder {
	return &recorder{
		ready:  make(chan struct{}, 1),
		failed: make(chan error, 1),
	}
}

func (r *recorder) OnMessage(raw any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, raw)
}

func (r *recorder) OnReady() { r.ready <- struct{}{} }

func (r *recorder) OnReadyFailed(reason error) { r.failed <- reason }

func (r *recorder) messages() []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]any(nil), r.msgs...)
}

func startEnv(t *testing.T, cfg Config) (*Env, *recorder) {
	t.Helper()
	env := New(cfg)
	rec := newRecorder()
	env.Attach(rec)
	env.Start()
	t.Cleanup(env.Close)
	return env, rec
}

func awaitReady(t *testing.T, rec *recorder) {
	t.Helper()
	select {
	case <-rec.ready:
	case err := <-rec.failed:
		t.Fatalf("environment failed to start: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("environment never became ready")
	}
}

func dispatchWait(t *testing.T, env *Env, script string) error {
	t.Helper()
	done := make(chan error, 1)
	env.Dispatch(script, func(err error) { done <- err })
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("dispatch never completed")
		return nil
	}
}

func TestEnv_ReadyThenPost(t *testing.T) {
	env, rec := startEnv(t, DefaultConfig())
	awaitReady(t, rec)

	err := dispatchWait(t, env, `__scriptbridge_post({ id: "x", value: 6 * 7 });`)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	msgs := rec.messages()
	if len(msgs) != 1 {
		t.Fatalf("messages = %d, want 1", len(msgs))
	}
	body, ok := msgs[0].(map[string]any)
	if !ok {
		t.Fatalf("message type = %T, want map", msgs[0])
	}
	if body["id"] != "x" {
		t.Errorf("id = %v, want x", body["id"])
	}
	if body["value"] != int64(42) {
		t.Errorf("value = %v (%T), want int64 42", body["value"], body["value"])
	}
}

func TestEnv_InitScriptsRunBeforeReadiness(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitScripts = []Script{
		{Name: "helpers.js", Source: `function twice(n) { return n * 2; }`},
	}
	env, rec := startEnv(t, cfg)
	awaitReady(t, rec)

	if err := dispatchWait(t, env, `__scriptbridge_post({ id: "a", value: twice(21) });`); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	msgs := rec.messages()
	if len(msgs) != 1 {
		t.Fatalf("messages = %d, want 1", len(msgs))
	}
	if body := msgs[0].(map[string]any); body["value"] != int64(42) {
		t.Fatalf("value = %v, want 42", body["value"])
	}
}

func TestEnv_InitFailureIsPermanent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitScripts = []Script{
		{Name: "broken.js", Source: `this is not javascript`},
	}
	env, rec := startEnv(t, cfg)

	select {
	case <-rec.failed:
	case <-rec.ready:
		t.Fatal("environment became ready despite broken init script")
	case <-time.After(5 * time.Second):
		t.Fatal("no readiness signal at all")
	}

	// Dispatches against a dead environment are rejected, not queued forever.
	if err := dispatchWait(t, env, `1 + 1`); err == nil {
		t.Fatal("dispatch against failed environment succeeded")
	}
}

func TestEnv_ParseFailureReportsHostError(t *testing.T) {
	env, rec := startEnv(t, DefaultConfig())
	awaitReady(t, rec)

	err := dispatchWait(t, env, `function ( { nope`)
	if err == nil {
		t.Fatal("parse failure not reported through done")
	}
	if len(rec.messages()) != 0 {
		t.Fatal("parse failure produced a side-channel message")
	}
}

func TestEnv_WatchdogInterruptsRunawayScript(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ScriptTimeout = 100 * time.Millisecond
	env, rec := startEnv(t, cfg)
	awaitReady(t, rec)

	if err := dispatchWait(t, env, `while (true) {}`); err == nil {
		t.Fatal("runaway script not interrupted")
	}

	// The loop survives and runs the next script.
	if err := dispatchWait(t, env, `__scriptbridge_post({ id: "after", value: 1 });`); err != nil {
		t.Fatalf("dispatch after interrupt: %v", err)
	}
	if len(rec.messages()) != 1 {
		t.Fatalf("messages = %d, want 1", len(rec.messages()))
	}
}

func TestEnv_SequentialStateSurvivesDispatches(t *testing.T) {
	env, rec := startEnv(t, DefaultConfig())
	awaitReady(t, rec)

	for i := 0; i < 3; i++ {
		script := fmt.Sprintf(`
			if (typeof counter === "undefined") { counter = 0; }
			counter++;
			__scriptbridge_post({ id: "c%d", value: counter });`, i)
		if err := dispatchWait(t, env, script); err != nil {
			t.Fatalf("dispatch %d: %v", i, err)
		}
	}

	msgs := rec.messages()
	if len(msgs) != 3 {
		t.Fatalf("messages = %d, want 3", len(msgs))
	}
	for i, m := range msgs {
		if body := m.(map[string]any); body["value"] != int64(i+1) {
			t.Fatalf("message %d value = %v, want %d", i, body["value"], i+1)
		}
	}
}

func TestEnv_CloseRejectsDispatch(t *testing.T) {
	env := New(DefaultConfig())
	rec := newRecorder()
	env.Attach(rec)
	env.Start()
	awaitReady(t, rec)

	env.Close()
	env.Close() // idempotent

	done := make(chan error, 1)
	env.Dispatch(`1`, func(err error) { done <- err })
	select {
	case err := <-done:
		if err == nil {
			t.Fatal("dispatch after close succeeded")
		}
	case <-time.After(time.Second):
		t.Fatal("dispatch after close never resolved")
	}
}
