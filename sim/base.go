package sim

import (
	"time"

	"gobuggy/core"
	"gobuggy/motor"
)

// Motion is one of the things the base can be doing
type Motion uint8

const (
	Stopped Motion = iota
	Forward
	Reverse
	SpinLeft
	SpinRight
)

func (m Motion) String() string {
	switch m {
	case Forward:
		return "forward"
	case Reverse:
		return "reverse"
	case SpinLeft:
		return "spin-left"
	case SpinRight:
		return "spin-right"
	default:
		return "stopped"
	}
}

// Phase is a stretch of time spent in one motion
type Phase struct {
	Motion Motion
	Start  time.Duration
	Length time.Duration
}

// Base records the commands given to both wheels against the virtual clock
type Base struct {
	clock       core.Clock
	left, right motor.Command
	phases      []Phase
}

// NewBase starts a stopped base
func NewBase(clock core.Clock) *Base {
	return &Base{clock: clock}
}

// Left returns the left wheel
func (b *Base) Left() motor.Wheel { return wheel{b, true} }

// Right returns the right wheel
func (b *Base) Right() motor.Wheel { return wheel{b, false} }

type wheel struct {
	b    *Base
	left bool
}

func (w wheel) Set(dir motor.Direction, power uint8) {
	if w.left {
		w.b.left = motor.Command{Direction: dir, Power: power}
	} else {
		w.b.right = motor.Command{Direction: dir, Power: power}
	}
	w.b.note()
}

func (b *Base) motion() Motion {
	l, r := b.left, b.right
	switch {
	case l.Power == 0 && r.Power == 0:
		return Stopped
	case l.Direction == r.Direction && l.Direction == motor.Forward:
		return Forward
	case l.Direction == r.Direction:
		return Reverse
	case l.Direction == motor.Reverse:
		return SpinLeft
	default:
		return SpinRight
	}
}

func (b *Base) note() {
	m := b.motion()
	now := b.clock.Now()
	if n := len(b.phases); n > 0 {
		last := &b.phases[n-1]
		if last.Motion == m {
			return
		}
		// A change within the same instant replaces the transient state
		if last.Start == now {
			last.Motion = m
			if n > 1 && b.phases[n-2].Motion == m {
				b.phases = b.phases[:n-1]
			}
			return
		}
	}
	b.phases = append(b.phases, Phase{Motion: m, Start: now})
}

// Phases returns the recorded motion history with lengths filled in up to
// the current clock reading.
func (b *Base) Phases() []Phase {
	out := make([]Phase, len(b.phases))
	copy(out, b.phases)
	for i := range out {
		end := b.clock.Now()
		if i+1 < len(out) {
			end = out[i+1].Start
		}
		out[i].Length = end - out[i].Start
	}
	return out
}

// Commands returns the current wheel commands
func (b *Base) Commands() (left, right motor.Command) {
	return b.left, b.right
}
