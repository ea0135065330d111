// Package clock abstracts wall time so the scheduler and lifecycle
// engine can be driven with an injected "now" in tests.
package clock

import "time"

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// System reads the OS clock.
type System struct{}

// Now returns the current wall time.
func (System) Now() time.Time { return time.Now() }

// Fixed is a clock pinned to a settable instant. Not goroutine-safe;
// intended for tests that advance time explicitly.
type Fixed struct {
	T time.Time
}

// Now returns the pinned instant.
func (f *Fixed) Now() time.Time { return f.T }

// Advance moves the pinned instant forward by d.
func (f *Fixed) Advance(d time.Duration) { f.T = f.T.Add(d) }
