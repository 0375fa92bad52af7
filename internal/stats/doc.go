// Package stats holds the running tallies for a single load-test run.
//
// RunData is the mutable aggregate: per-scenario user counters, global and
// per-request-path outcome counters, per-message error counters, and an
// optional HDR histogram of response times. It has no concurrency control of
// its own; a RunData instance is owned by exactly one writer worker and all
// access is serialized through that worker's mailbox.
//
// Counters only accumulate. There is no undo, and no clamping: a UserEnd
// without a matching UserStart drives the active count negative on purpose,
// so that duplicate or out-of-order termination signals stay visible in the
// output instead of being silently absorbed.
package stats
