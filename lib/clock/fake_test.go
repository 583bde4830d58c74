// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeNow(t *testing.T) {
	c := Fake(epoch)
	if !c.Now().Equal(epoch) {
		t.Errorf("Now() = %v, want %v", c.Now(), epoch)
	}
	c.Advance(time.Minute)
	if !c.Now().Equal(epoch.Add(time.Minute)) {
		t.Errorf("Now() after Advance = %v, want %v", c.Now(), epoch.Add(time.Minute))
	}
}

func TestAfterFiresOnAdvance(t *testing.T) {
	c := Fake(epoch)
	ch := c.After(10 * time.Second)

	c.Advance(9 * time.Second)
	select {
	case <-ch:
		t.Fatal("After fired before its deadline")
	default:
	}

	c.Advance(time.Second)
	select {
	case fired := <-ch:
		if !fired.Equal(epoch.Add(10 * time.Second)) {
			t.Errorf("fire time = %v, want %v", fired, epoch.Add(10*time.Second))
		}
	default:
		t.Fatal("After did not fire at its deadline")
	}
}

func TestAfterNonPositive(t *testing.T) {
	c := Fake(epoch)
	select {
	case <-c.After(0):
	default:
		t.Fatal("After(0) did not fire immediately")
	}
}

func TestAfterFuncFiresOnce(t *testing.T) {
	c := Fake(epoch)
	calls := 0
	c.AfterFunc(5*time.Second, func() { calls++ })

	c.Advance(5 * time.Second)
	c.Advance(5 * time.Second)
	if calls != 1 {
		t.Errorf("callback ran %d times, want 1", calls)
	}
}

func TestAfterFuncStop(t *testing.T) {
	c := Fake(epoch)
	calls := 0
	timer := c.AfterFunc(5*time.Second, func() { calls++ })

	if !timer.Stop() {
		t.Error("Stop returned false for a pending timer")
	}
	c.Advance(time.Minute)
	if calls != 0 {
		t.Errorf("stopped callback ran %d times", calls)
	}
	if timer.Stop() {
		t.Error("second Stop returned true")
	}
}

func TestAfterFuncStopAfterFire(t *testing.T) {
	c := Fake(epoch)
	timer := c.AfterFunc(time.Second, func() {})
	c.Advance(time.Second)
	if timer.Stop() {
		t.Error("Stop after fire returned true")
	}
}

func TestAdvanceFiresInDeadlineOrder(t *testing.T) {
	c := Fake(epoch)
	var order []int
	c.AfterFunc(3*time.Second, func() { order = append(order, 3) })
	c.AfterFunc(1*time.Second, func() { order = append(order, 1) })
	c.AfterFunc(2*time.Second, func() { order = append(order, 2) })

	c.Advance(5 * time.Second)
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("fire order = %v, want [1 2 3]", order)
	}
}

func TestWaitForTimers(t *testing.T) {
	c := Fake(epoch)
	done := make(chan struct{})
	go func() {
		c.WaitForTimers(1)
		close(done)
	}()

	c.AfterFunc(time.Second, func() {})
	select {
	case <-done:
	case <-time.After(5 * time.Second): //nolint:realclock test hang prevention
		t.Fatal("WaitForTimers did not return after registration")
	}
}
