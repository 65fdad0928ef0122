// Package stopflag provides a process-wide cancellation flag as a small
// dependency-injected value, not a package-level global — every peeker
// in the playback path takes a *Flag explicitly, keeping tests hermetic
// (per the Go-specific resolution of the Design Notes' "Global state"
// guidance, rejecting the original's static STOP_MACHINE).
package stopflag

import "sync/atomic"

// Flag is a single-writer, multi-reader cancellation signal. The writer
// is normally a signal handler; readers poll it between records.
type Flag struct {
	stopped atomic.Bool
}

// New returns an unset Flag.
func New() *Flag {
	return &Flag{}
}

// Stop sets the flag. Idempotent.
func (f *Flag) Stop() {
	f.stopped.Store(true)
}

// Stopped reports whether Stop has been called.
func (f *Flag) Stopped() bool {
	return f.stopped.Load()
}
