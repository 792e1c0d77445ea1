// Package motor drives the two-wheel differential base through blocking,
// ramped maneuvers. Timing constants are calibrated to the reference
// chassis and are not tunable at runtime.
package motor

import "time"

// Direction is the rotation sense of one wheel
type Direction uint8

const (
	Forward Direction = iota
	Reverse
)

func (d Direction) String() string {
	if d == Reverse {
		return "reverse"
	}
	return "forward"
}

// Inverted returns the opposite direction
func (d Direction) Inverted() Direction {
	if d == Reverse {
		return Forward
	}
	return Reverse
}

// Rotation is the sense of an on-the-spot turn
type Rotation uint8

const (
	Left Rotation = iota
	Right
)

func (r Rotation) String() string {
	if r == Right {
		return "right"
	}
	return "left"
}

// Turn is a spin in place held for a calibrated duration
type Turn struct {
	Rotation Rotation
	Hold     time.Duration
}

func (t Turn) String() string {
	return t.Rotation.String() + " " + t.Hold.String()
}

// Hold durations for each calibrated turn angle
const (
	Left90Hold   = 55 * time.Millisecond
	Right90Hold  = 40 * time.Millisecond
	Turn180Hold  = 270 * time.Millisecond
	Left135Hold  = 120 * time.Millisecond
	Right135Hold = 120 * time.Millisecond
)

// Power levels (percent) and ramp timing
const (
	CruisePower = 50
	TurnPower   = 100
	MaxPower    = 100

	ForwardRampStep  = 5 * time.Millisecond
	BackwardRampStep = 10 * time.Millisecond
	StopRampStep     = 5 * time.Millisecond
	TurnSettle       = 10 * time.Millisecond
)

// Command is the state last written to one wheel
type Command struct {
	Direction Direction
	Power     uint8
}

// Wheel is the per-wheel capability the hardware layer provides.
// Set is fire-and-forget; power is 0-100.
type Wheel interface {
	Set(dir Direction, power uint8)
}
