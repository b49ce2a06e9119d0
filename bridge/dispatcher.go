package bridge

import (
	"encoding/json"

	"go.uber.org/zap"

	scriptbridge "github.com/wippyai/script-bridge"
	"github.com/wippyai/script-bridge/correlate"
	"github.com/wippyai/script-bridge/errors"
)

// The bridge is the environment's Events receiver. Everything in this file
// runs on the environment's delivery context: it must only touch the table
// and the gate, and must never call back into the environment.

// OnMessage routes one raw side-channel payload to its pending request.
// Malformed payloads and resolutions for unknown or already-settled ids are
// dropped silently; they are expected races at an untrusted boundary.
func (b *Bridge) OnMessage(raw any) {
	if b.closed.Load() {
		return
	}

	msg, ok := parseMessage(raw)
	if !ok {
		Logger().Debug("dropping malformed side-channel message")
		return
	}

	var out correlate.Outcome
	if msg.HasValue {
		out = correlate.Outcome{Value: msg.Value}
	} else {
		out = correlate.Outcome{Err: errors.Script(msg.ID, msg.Err)}
	}

	if !b.table.Resolve(msg.ID, out) {
		Logger().Debug("dropping late or unknown response", zap.String("id", msg.ID))
	}
}

// OnReady opens the readiness gate, releasing queued evaluations.
func (b *Bridge) OnReady() {
	if b.closed.Load() {
		return
	}
	Logger().Debug("environment ready")
	b.gate.SignalReady()
}

// OnReadyFailed records permanent startup failure and cancels anything
// already pending.
func (b *Bridge) OnReadyFailed(reason error) {
	if b.closed.Load() {
		return
	}
	Logger().Warn("environment failed to become ready", zap.Error(reason))
	b.gate.SignalFailed(reason)
	b.table.CancelAll(errors.ReadinessFailed(reason))
}

// parseMessage validates a raw payload into the id/value-or-error shape.
// Accepted forms: a map (the usual engine export) or JSON text as []byte or
// string. An error field wins over a value field when both are present.
func parseMessage(raw any) (scriptbridge.Message, bool) {
	var body map[string]any

	switch v := raw.(type) {
	case map[string]any:
		body = v
	case []byte:
		if json.Unmarshal(v, &body) != nil {
			return scriptbridge.Message{}, false
		}
	case string:
		if json.Unmarshal([]byte(v), &body) != nil {
			return scriptbridge.Message{}, false
		}
	default:
		return scriptbridge.Message{}, false
	}

	id, ok := body["id"].(string)
	if !ok || id == "" {
		return scriptbridge.Message{}, false
	}

	if errText, ok := body["error"].(string); ok {
		return scriptbridge.Message{ID: id, Err: errText}, true
	}
	if value, ok := body["value"]; ok {
		return scriptbridge.Message{ID: id, Value: value, HasValue: true}, true
	}

	// Neither a value nor an error: nothing to resolve with.
	return scriptbridge.Message{}, false
}
