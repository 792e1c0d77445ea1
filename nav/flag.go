package nav

import "sync/atomic"

// EventFlag is the obstacle signal. Raise may be called from interrupt
// context; Pending and Clear belong to the control loop. Raising an already
// raised flag has no further effect.
type EventFlag struct {
	raised atomic.Bool
}

// Raise sets the flag
func (f *EventFlag) Raise() {
	f.raised.Store(true)
}

// Pending reports whether an event is waiting
func (f *EventFlag) Pending() bool {
	return f.raised.Load()
}

// Clear acknowledges the event
func (f *EventFlag) Clear() {
	f.raised.Store(false)
}
