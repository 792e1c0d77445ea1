package motor

import (
	"time"

	"gobuggy/core"
)

// Executor owns both wheel commands. Every maneuver blocks until done and
// must not be called concurrently.
type Executor struct {
	left, right Wheel
	lcmd, rcmd  Command
	clock       core.Clock
}

// NewExecutor creates an executor with both wheels stopped
func NewExecutor(left, right Wheel, clock core.Clock) *Executor {
	e := &Executor{left: left, right: right, clock: clock}
	e.apply()
	return e
}

// Left returns the current left wheel command
func (e *Executor) Left() Command { return e.lcmd }

// Right returns the current right wheel command
func (e *Executor) Right() Command { return e.rcmd }

// Stopped reports whether both wheels are at zero power
func (e *Executor) Stopped() bool {
	return e.lcmd.Power == 0 && e.rcmd.Power == 0
}

// ForwardRamp sets both wheels forward and raises power one unit per
// ForwardRampStep until both reach CruisePower. Already at cruise, it
// returns without waiting.
func (e *Executor) ForwardRamp() {
	e.rampUp(Forward, ForwardRampStep)
}

// BackwardRamp is ForwardRamp in reverse with a slower step.
func (e *Executor) BackwardRamp() {
	e.rampUp(Reverse, BackwardRampStep)
}

func (e *Executor) rampUp(dir Direction, step time.Duration) {
	if e.lcmd.Direction != dir || e.rcmd.Direction != dir {
		e.lcmd.Direction = dir
		e.rcmd.Direction = dir
		if e.lcmd.Power >= CruisePower && e.rcmd.Power >= CruisePower {
			e.apply()
			return
		}
	}
	for e.lcmd.Power < CruisePower || e.rcmd.Power < CruisePower {
		if e.lcmd.Power < CruisePower {
			e.lcmd.Power++
		}
		if e.rcmd.Power < CruisePower {
			e.rcmd.Power++
		}
		e.apply()
		e.clock.Sleep(step)
	}
}

// StopRamp lowers both wheels one unit per StopRampStep until both are at
// zero. Direction is kept.
func (e *Executor) StopRamp() {
	for e.lcmd.Power != 0 || e.rcmd.Power != 0 {
		if e.lcmd.Power > 0 {
			e.lcmd.Power--
		}
		if e.rcmd.Power > 0 {
			e.rcmd.Power--
		}
		e.apply()
		e.clock.Sleep(StopRampStep)
	}
}

// Turn stops, snaps both wheels to full power in opposite directions,
// waits TurnSettle and then holds for t.Hold. The wheels are left spinning;
// the caller follows up with StopRamp.
func (e *Executor) Turn(t Turn) {
	e.StopRamp()
	if t.Rotation == Left {
		e.lcmd.Direction, e.rcmd.Direction = Reverse, Forward
	} else {
		e.lcmd.Direction, e.rcmd.Direction = Forward, Reverse
	}
	e.lcmd.Power = TurnPower
	e.rcmd.Power = TurnPower
	e.apply()
	e.clock.Sleep(TurnSettle)
	e.clock.Sleep(t.Hold)
}

// Hold keeps the current command for d
func (e *Executor) Hold(d time.Duration) {
	e.clock.Sleep(d)
}

func (e *Executor) apply() {
	e.left.Set(e.lcmd.Direction, e.lcmd.Power)
	e.right.Set(e.rcmd.Direction, e.rcmd.Power)
}
