// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock abstracts time operations for testability. Production code
// injects Real(); tests inject Fake() with deterministic time control.
//
// Every production function that calls time.Now, time.After, or
// time.AfterFunc should accept a Clock parameter (or be a method on a
// struct with a Clock field) instead of calling the time package
// directly.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// After returns a channel that receives the current time after
	// duration d elapses. Equivalent to time.After. If d <= 0, the
	// channel receives immediately.
	After(d time.Duration) <-chan time.Time

	// AfterFunc waits for duration d, then calls f in its own
	// goroutine (real) or synchronously during Advance (fake).
	// Returns a Timer that can cancel the pending call with Stop.
	AfterFunc(d time.Duration, f func()) *Timer
}

// Timer represents a scheduled one-shot call registered via AfterFunc.
type Timer struct {
	stopFunc func() bool
}

// Stop prevents the Timer from firing. Returns true if the call stops
// the timer, false if the timer has already fired or been stopped.
// Stop does not wait for an in-flight callback to complete.
func (t *Timer) Stop() bool { return t.stopFunc() }
