// Package correlate maps in-flight correlation ids to at-most-once
// completion slots.
//
// A Table entry exists exactly while its request is pending: Register creates
// it, and the first Resolve (success, failure, or timeout eviction) removes
// it and delivers the outcome. A second Resolve for the same id, or a Resolve
// for an id the table never held, is a silent no-op. Late and duplicate
// side-channel messages are expected races, not errors.
package correlate
