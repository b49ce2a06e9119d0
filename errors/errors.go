package errors

import (
	"fmt"
	"strings"
	"time"
)

// Phase indicates where in the evaluation pipeline the error occurred
type Phase string

const (
	PhaseReadiness Phase = "readiness" // environment startup gate
	PhaseDispatch  Phase = "dispatch"  // handing the script to the environment
	PhaseExecute   Phase = "execute"   // script execution and completion wait
	PhaseDecode    Phase = "decode"    // converting the resolved value
	PhaseCorrelate Phase = "correlate" // correlation table bookkeeping
)

// Kind categorizes the error
type Kind string

const (
	KindTimeout     Kind = "timeout"
	KindFailed      Kind = "failed"
	KindRejected    Kind = "rejected"
	KindScript      Kind = "script"
	KindInvalidData Kind = "invalid_data"
	KindDuplicateID Kind = "duplicate_id"
	KindClosed      Kind = "closed"
)

// Error is the structured error type used throughout the bridge
type Error struct {
	Cause     error
	Phase     Phase
	Kind      Kind
	RequestID string
	GoType    string
	Detail    string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.RequestID != "" {
		b.WriteString(" id=")
		b.WriteString(e.RequestID)
	}

	if e.GoType != "" {
		b.WriteString(": Go type ")
		b.WriteString(e.GoType)
	}

	if e.Detail != "" {
		if e.GoType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. Two bridge errors match when
// their Phase and Kind agree, so the Err* sentinels below work with errors.Is
// regardless of id, detail, or cause.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Sentinels for errors.Is matching. Each carries only the Phase/Kind pair.
var (
	ErrReadinessTimeout  = &Error{Phase: PhaseReadiness, Kind: KindTimeout}
	ErrReadinessFailed   = &Error{Phase: PhaseReadiness, Kind: KindFailed}
	ErrDispatchRejected  = &Error{Phase: PhaseDispatch, Kind: KindRejected}
	ErrScript            = &Error{Phase: PhaseExecute, Kind: KindScript}
	ErrEvaluationTimeout = &Error{Phase: PhaseExecute, Kind: KindTimeout}
	ErrDecode            = &Error{Phase: PhaseDecode, Kind: KindInvalidData}
	ErrDuplicateID       = &Error{Phase: PhaseCorrelate, Kind: KindDuplicateID}
	ErrClosed            = &Error{Phase: PhaseCorrelate, Kind: KindClosed}
)

// ReadinessTimeout creates an error for an environment that did not become
// ready before the gate deadline.
func ReadinessTimeout(waited time.Duration) *Error {
	return &Error{
		Phase:  PhaseReadiness,
		Kind:   KindTimeout,
		Detail: fmt.Sprintf("environment not ready after %s", waited),
	}
}

// ReadinessFailed creates an error for permanent environment startup failure.
func ReadinessFailed(reason error) *Error {
	return &Error{
		Phase:  PhaseReadiness,
		Kind:   KindFailed,
		Detail: "environment failed to become ready",
		Cause:  reason,
	}
}

// DispatchRejected creates an error for a script the environment refused
// before its body ran.
func DispatchRejected(id string, cause error) *Error {
	return &Error{
		Phase:     PhaseDispatch,
		Kind:      KindRejected,
		RequestID: id,
		Detail:    "environment rejected script",
		Cause:     cause,
	}
}

// Script creates an error for a script that ran and reported failure through
// the side channel. The detail is the message text exactly as reported.
func Script(id, message string) *Error {
	return &Error{
		Phase:     PhaseExecute,
		Kind:      KindScript,
		RequestID: id,
		Detail:    message,
	}
}

// EvaluationTimeout creates an error for a request whose side-channel
// response did not arrive before the per-call deadline.
func EvaluationTimeout(id string, deadline time.Duration) *Error {
	return &Error{
		Phase:     PhaseExecute,
		Kind:      KindTimeout,
		RequestID: id,
		Detail:    fmt.Sprintf("no response within %s", deadline),
	}
}

// Canceled creates an error for a request abandoned because the caller's
// context ended before a response arrived.
func Canceled(id string, cause error) *Error {
	return &Error{
		Phase:     PhaseExecute,
		Kind:      KindTimeout,
		RequestID: id,
		Detail:    "caller canceled before response",
		Cause:     cause,
	}
}

// Decode creates an error for a resolved value that could not be converted
// to the caller-requested Go type.
func Decode(goType string, cause error) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidData,
		GoType: goType,
		Detail: "cannot convert resolved value",
		Cause:  cause,
	}
}

// DuplicateID creates an error for a correlation id collision. Ids are
// generated unique, so this is a programming-error-class fault, but it is
// still returned rather than panicking.
func DuplicateID(id string) *Error {
	return &Error{
		Phase:     PhaseCorrelate,
		Kind:      KindDuplicateID,
		RequestID: id,
		Detail:    "correlation id already registered",
	}
}

// Closed creates an error for an operation on a bridge that has been torn
// down. Pending requests at teardown also resolve with this error.
func Closed() *Error {
	return &Error{
		Phase:  PhaseCorrelate,
		Kind:   KindClosed,
		Detail: "bridge is closed",
	}
}
