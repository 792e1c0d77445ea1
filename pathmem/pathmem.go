// Package pathmem records the legs driven since the last retrace and replays
// them backwards, undoing every turn, to bring the vehicle home.
package pathmem

import (
	"errors"
	"strings"

	"gobuggy/motor"
)

// DefaultCapacity is the number of legs the reference buggy can remember
const DefaultCapacity = 50

// MaxCapacity keeps every step index within a byte, as the event ring
// records it.
const MaxCapacity = 255

// ErrFull is returned by Advance when no slot is left for another leg
var ErrFull = errors.New("path memory full")

// TurnCode is the marker-specific turn that ended a leg. The values are the
// letters sent in the telemetry stream.
type TurnCode byte

const (
	None      TurnCode = 0
	Red       TurnCode = 'R'
	Green     TurnCode = 'G'
	Blue      TurnCode = 'B'
	Yellow    TurnCode = 'Y'
	Pink      TurnCode = 'P'
	Orange    TurnCode = 'O'
	LightBlue TurnCode = 'b'
)

// AllTurnCodes lists every code that has an inverse
var AllTurnCodes = []TurnCode{Red, Green, Blue, Yellow, Pink, Orange, LightBlue}

func (c TurnCode) String() string {
	if c == None {
		return "-"
	}
	return string(rune(c))
}

var inverse = map[TurnCode]motor.Turn{
	Red:       {Rotation: motor.Left, Hold: motor.Left90Hold},
	Green:     {Rotation: motor.Right, Hold: motor.Right90Hold},
	Blue:      {Rotation: motor.Left, Hold: motor.Turn180Hold},
	Yellow:    {Rotation: motor.Left, Hold: motor.Right90Hold},
	Pink:      {Rotation: motor.Right, Hold: motor.Left90Hold},
	Orange:    {Rotation: motor.Left, Hold: motor.Left135Hold},
	LightBlue: {Rotation: motor.Right, Hold: motor.Right135Hold},
}

// Inverse returns the maneuver that undoes a recorded turn. The mapping is a
// fixed table; hold times are not simply mirrored.
func Inverse(code TurnCode) (motor.Turn, bool) {
	t, ok := inverse[code]
	return t, ok
}

// Segment is one leg: forward ticks driven and the turn that ended it
type Segment struct {
	Ticks int32
	Turn  TurnCode
}

// Memory is a fixed-capacity arena of segments indexed by a step pointer.
// It is owned by the control loop and not safe for concurrent use.
type Memory struct {
	segs []Segment
	step int
}

// New creates a cleared memory. Capacity below 1 falls back to the default
// and capacity above MaxCapacity is cut to it.
func New(capacity int) *Memory {
	switch {
	case capacity < 1:
		capacity = DefaultCapacity
	case capacity > MaxCapacity:
		capacity = MaxCapacity
	}
	return &Memory{segs: make([]Segment, capacity)}
}

// Capacity returns the number of segment slots
func (m *Memory) Capacity() int { return len(m.segs) }

// Step returns the index of the leg currently being driven
func (m *Memory) Step() int { return m.step }

// Full reports whether the current leg occupies the last slot
func (m *Memory) Full() bool { return m.step == len(m.segs)-1 }

// Tick adds one forward tick to the current leg
func (m *Memory) Tick() {
	m.segs[m.step].Ticks++
}

// CorrectBackward subtracts ticks from the current leg. The counter may go
// negative; replay treats that as nothing to drive.
func (m *Memory) CorrectBackward(ticks int32) {
	m.segs[m.step].Ticks -= ticks
}

// SetTurn records the turn that ends the current leg
func (m *Memory) SetTurn(code TurnCode) {
	m.segs[m.step].Turn = code
}

// Advance starts a new leg. The pointer is left unchanged when full.
func (m *Memory) Advance() error {
	if m.step+1 >= len(m.segs) {
		return ErrFull
	}
	m.step++
	return nil
}

// Segment returns the segment at index i
func (m *Memory) Segment(i int) Segment {
	return m.segs[i]
}

// Segments returns a copy of legs 0 through the current step
func (m *Memory) Segments() []Segment {
	out := make([]Segment, m.step+1)
	copy(out, m.segs[:m.step+1])
	return out
}

// PreviousTicks returns the forward counter of the last completed leg, or 0
// while the first leg is being driven.
func (m *Memory) PreviousTicks() int32 {
	if m.step == 0 {
		return 0
	}
	return m.segs[m.step-1].Ticks
}

// TurnCodes returns the recorded turns in driving order
func (m *Memory) TurnCodes() string {
	var sb strings.Builder
	for _, s := range m.segs[:m.step] {
		if s.Turn != None {
			sb.WriteByte(byte(s.Turn))
		}
	}
	return sb.String()
}

// Reset clears every segment and returns the pointer to 0
func (m *Memory) Reset() {
	for i := range m.segs {
		m.segs[i] = Segment{}
	}
	m.step = 0
}
