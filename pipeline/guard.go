// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"sync"
	"time"

	"github.com/nightjar-systems/pushgate/lib/clock"
)

// DeadlineGuard is a one-shot wall-clock timer that races the
// pipeline. Arm schedules the expiry callback; Disarm cancels it.
// The callback fires at most once, and never after a Disarm that won
// the race. Disarm is idempotent and a no-op after expiry.
type DeadlineGuard struct {
	clock clock.Clock

	mu       sync.Mutex
	timer    *clock.Timer
	fired    bool
	disarmed bool
}

// NewDeadlineGuard creates a guard on the given clock.
func NewDeadlineGuard(clk clock.Clock) *DeadlineGuard {
	return &DeadlineGuard{clock: clk}
}

// Arm schedules onExpire to run after budget. Arming an already armed
// guard is a programming error; the second timer is simply not
// scheduled.
func (g *DeadlineGuard) Arm(budget time.Duration, onExpire func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.timer != nil || g.disarmed {
		return
	}
	g.timer = g.clock.AfterFunc(budget, func() {
		g.mu.Lock()
		if g.disarmed || g.fired {
			g.mu.Unlock()
			return
		}
		g.fired = true
		g.mu.Unlock()
		onExpire()
	})
}

// Disarm cancels the pending expiry. Safe to call multiple times and
// after the guard has fired.
func (g *DeadlineGuard) Disarm() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.disarmed = true
	if g.timer != nil {
		g.timer.Stop()
	}
}

// Fired reports whether the expiry callback ran.
func (g *DeadlineGuard) Fired() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fired
}
