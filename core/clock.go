package core

import (
	"sync/atomic"
	"time"
)

// Clock is the time source for every blocking maneuver.
// Targets use SystemClock; host tests and the simulator use ManualClock.
type Clock interface {
	// Now returns time elapsed since the clock was created
	Now() time.Duration

	// Sleep blocks the caller for d
	Sleep(d time.Duration)
}

// SystemClock is backed by the runtime timer
type SystemClock struct {
	boot time.Time
}

// NewSystemClock returns a clock whose zero is the moment of the call
func NewSystemClock() *SystemClock {
	return &SystemClock{boot: time.Now()}
}

func (c *SystemClock) Now() time.Duration {
	return time.Since(c.boot)
}

func (c *SystemClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

// ManualClock advances only when Sleep or Advance is called, so a full
// maneuver sequence completes instantly while keeping exact elapsed time.
type ManualClock struct {
	now    atomic.Int64
	sleeps atomic.Uint32
}

// NewManualClock returns a clock stopped at zero
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

func (c *ManualClock) Now() time.Duration {
	return time.Duration(c.now.Load())
}

func (c *ManualClock) Sleep(d time.Duration) {
	if d < 0 {
		d = 0
	}
	c.sleeps.Add(1)
	c.now.Add(int64(d))
}

// Advance moves the clock forward without counting a sleep
func (c *ManualClock) Advance(d time.Duration) {
	c.now.Add(int64(d))
}

// Sleeps returns how many Sleep calls have been made
func (c *ManualClock) Sleeps() uint32 {
	return c.sleeps.Load()
}

// Millis converts a clock reading to whole milliseconds, the resolution
// used in the event ring.
func Millis(d time.Duration) uint32 {
	return uint32(d / time.Millisecond)
}
