package testutil

import (
	"sync"
	"time"
)

// Epoch is the default start time for FakeClock.
var Epoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// FakeClock is a manually advanced wall clock for tests.
//
// Error windows are driven by Now(), so tests step through them with
// Advance instead of sleeping.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock creates a clock frozen at Epoch.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: Epoch}
}

// NewFakeClockAt creates a clock frozen at t.
func NewFakeClockAt(t time.Time) *FakeClock {
	return &FakeClock{now: t}
}

// Now returns the frozen time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d. Negative durations are ignored so
// the clock never runs backwards.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d > 0 {
		c.now = c.now.Add(d)
	}
}

// Reset returns the clock to Epoch.
func (c *FakeClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = Epoch
}
