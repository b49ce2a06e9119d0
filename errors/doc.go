// Package errors provides structured error types for the script-bridge library.
//
// Errors are categorized by Phase (where in the evaluation pipeline the error
// occurred) and Kind (error category). The Error type carries the correlation
// id of the affected request where one exists, plus a detail message and a
// cause chain.
//
// Construct errors with the constructors matching the bridge taxonomy:
//
//	err := errors.EvaluationTimeout(id, 10*time.Second)
//	err := errors.Script(id, "ReferenceError: x is not defined")
//	err := errors.ReadinessFailed(cause)
//
// Match them with the standard errors.Is against the exported sentinels:
//
//	if errors.Is(err, errors.ErrEvaluationTimeout) { ... }
//
// All errors implement the standard error interface and support errors.Is/As.
// None of them is fatal: every condition in the taxonomy, including the
// internal-invariant DuplicateID, is returned to the caller as an ordinary
// recoverable error.
package errors
