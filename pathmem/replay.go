package pathmem

import "gobuggy/motor"

// Driver performs the physical side of a replay
type Driver interface {
	// DriveTick drives forward for one recorded tick
	DriveTick()

	// Turn performs a turn and brings the base to rest
	Turn(t motor.Turn)
}

// ReplayLeg is one entry of a replay plan
type ReplayLeg struct {
	Index      int
	DriveTicks int32
	Turn       motor.Turn
	HasTurn    bool
}

// Plan returns what ReplayReverse(step) would do without draining anything
func (m *Memory) Plan(step int) []ReplayLeg {
	step = m.clampStep(step)
	plan := make([]ReplayLeg, 0, step+1)
	for i := step; i >= 0; i-- {
		seg := m.segs[i]
		leg := ReplayLeg{Index: i}
		if seg.Ticks > 0 {
			leg.DriveTicks = seg.Ticks
		}
		leg.Turn, leg.HasTurn = Inverse(seg.Turn)
		plan = append(plan, leg)
	}
	return plan
}

// ReplayReverse walks segments step down to 0. For each it drains the
// forward counter through d, then performs the inverse of the recorded turn.
// Segments [0, step] are cleared afterwards. The step pointer is not moved.
func (m *Memory) ReplayReverse(step int, d Driver) {
	step = m.clampStep(step)
	for i := step; i >= 0; i-- {
		m.drain(i, d)
		if t, ok := Inverse(m.segs[i].Turn); ok {
			d.Turn(t)
		}
	}
	for i := 0; i <= step; i++ {
		m.segs[i] = Segment{}
	}
}

// RetraceTurn is the heading reversal performed before a retrace
var RetraceTurn = motor.Turn{Rotation: motor.Left, Hold: motor.Turn180Hold}

// Retrace brings the vehicle home along the recorded path. It reverses the
// heading, drives back the current leg, then for each completed leg undoes
// the turn that ended it before driving that leg back. Memory is cleared and
// the pointer returns to 0.
func (m *Memory) Retrace(d Driver) {
	d.Turn(RetraceTurn)
	m.drain(m.step, d)
	for i := m.step - 1; i >= 0; i-- {
		if t, ok := Inverse(m.segs[i].Turn); ok {
			d.Turn(t)
		}
		m.drain(i, d)
	}
	m.Reset()
}

func (m *Memory) drain(i int, d Driver) {
	for m.segs[i].Ticks > 0 {
		d.DriveTick()
		m.segs[i].Ticks--
	}
}

// clampStep bounds step to the arena. Anything below 0 selects no segments.
func (m *Memory) clampStep(step int) int {
	switch {
	case step >= len(m.segs):
		return len(m.segs) - 1
	case step < -1:
		return -1
	}
	return step
}
