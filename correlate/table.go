package correlate

import (
	"sync"

	"github.com/wippyai/script-bridge/errors"
)

// Outcome is the resolution of one request: a value or an error, never both.
type Outcome struct {
	Value any
	Err   error
}

// Slot is the completion slot for one pending request. It resolves at most
// once; the outcome arrives on Done.
type Slot struct {
	done chan Outcome
}

// Done returns the channel carrying the slot's single outcome.
func (s *Slot) Done() <-chan Outcome {
	return s.done
}

// Table is a thread-safe map from correlation id to pending completion slot.
//
// The invariant: an id is present exactly while its slot is unresolved. The
// first Resolve removes the entry before delivering, so no caller can ever
// receive two outcomes for one request.
type Table struct {
	mu      sync.Mutex
	pending map[string]*Slot
}

// New creates an empty correlation table.
func New() *Table {
	return &Table{
		pending: make(map[string]*Slot),
	}
}

// Register creates a pending entry for id and returns its slot. Ids are
// generated unique upstream; a collision returns DuplicateID and leaves the
// existing entry untouched.
func (t *Table) Register(id string) (*Slot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.pending[id]; exists {
		return nil, errors.DuplicateID(id)
	}

	// Buffered so resolution never blocks on a caller that has not yet
	// reached its receive.
	s := &Slot{done: make(chan Outcome, 1)}
	t.pending[id] = s
	return s, nil
}

// Resolve completes and removes the entry for id. It reports whether an
// entry was resolved; an absent id (already resolved, evicted, or never
// known) is a silent no-op.
func (t *Table) Resolve(id string, out Outcome) bool {
	t.mu.Lock()
	s, ok := t.pending[id]
	if ok {
		delete(t.pending, id)
	}
	t.mu.Unlock()

	if !ok {
		return false
	}

	// The entry is already gone from the map, so this send is the only one
	// the slot will ever see; the buffer guarantees it cannot block.
	s.done <- out
	return true
}

// CancelAll resolves every pending entry with err and clears the table.
// Used on shutdown and on permanent environment failure.
func (t *Table) CancelAll(err error) {
	t.mu.Lock()
	evicted := t.pending
	t.pending = make(map[string]*Slot)
	t.mu.Unlock()

	for _, s := range evicted {
		s.done <- Outcome{Err: err}
	}
}

// Len returns the number of pending entries.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}
