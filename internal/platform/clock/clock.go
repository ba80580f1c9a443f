// Copyright (c) 2026 Triibes. All rights reserved.

// Package clock abstracts the system clock behind a single injectable interface.
//
// # Why not time.Now()?
//
// Invitation expiry is compared against "now" in several places (access
// resolution, resend, marker creation). Scattering time.Now() calls makes
// those paths untestable and risks subtle drift between checks inside one
// request. Every component that reasons about expiry receives a [Clock].
package clock

import "time"

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// systemClock is the production implementation backed by [time.Now].
type systemClock struct{}

// Now returns the current wall-clock time in UTC.
func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// System returns the real wall clock.
func System() Clock {
	return systemClock{}
}

// Fixed is a test clock that returns a settable instant.
//
// # Concurrency
//
// Fixed is not safe for concurrent mutation; tests drive it from one goroutine.
type Fixed struct {
	Current time.Time
}

// NewFixed creates a [Fixed] clock pinned to the given instant.
func NewFixed(at time.Time) *Fixed {
	return &Fixed{Current: at}
}

// Now returns the pinned instant.
func (f *Fixed) Now() time.Time {
	return f.Current
}

// Advance moves the pinned instant forward by d.
func (f *Fixed) Advance(d time.Duration) {
	f.Current = f.Current.Add(d)
}
