package bridge

import (
	"time"
)

// Config holds the bridge's timing configuration.
type Config struct {
	// EvalTimeout bounds each evaluation's wait for a side-channel
	// response once the script has been dispatched.
	EvalTimeout time.Duration
	// ReadyTimeout bounds how long an evaluation waits for the
	// environment to become ready before giving up.
	ReadyTimeout time.Duration
	// BlockingTimeout bounds EvaluateBlocking end to end, readiness wait
	// included. Expiry is an ordinary recoverable error.
	BlockingTimeout time.Duration
}

// DefaultConfig provides sensible defaults for an embedded script engine.
func DefaultConfig() Config {
	return Config{
		EvalTimeout:     10 * time.Second,
		ReadyTimeout:    15 * time.Second,
		BlockingTimeout: 30 * time.Second,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.EvalTimeout <= 0 {
		c.EvalTimeout = def.EvalTimeout
	}
	if c.ReadyTimeout <= 0 {
		c.ReadyTimeout = def.ReadyTimeout
	}
	if c.BlockingTimeout <= 0 {
		c.BlockingTimeout = def.BlockingTimeout
	}
	return c
}
