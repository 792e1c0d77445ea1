package pathmem

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gobuggy/motor"
)

// traceDriver collapses consecutive drive ticks into "drive N" entries
type traceDriver struct {
	trace []string
	ticks int
}

func (d *traceDriver) DriveTick() { d.ticks++ }

func (d *traceDriver) Turn(t motor.Turn) {
	d.flush()
	d.trace = append(d.trace, "turn "+t.String())
}

func (d *traceDriver) flush() {
	if d.ticks > 0 {
		d.trace = append(d.trace, fmt.Sprintf("drive %d", d.ticks))
		d.ticks = 0
	}
}

func (d *traceDriver) result() []string {
	d.flush()
	return d.trace
}

func record(t *testing.T, m *Memory, legs ...Segment) {
	t.Helper()
	for i, leg := range legs {
		for n := int32(0); n < leg.Ticks; n++ {
			m.Tick()
		}
		if i == len(legs)-1 {
			break
		}
		m.SetTurn(leg.Turn)
		require.NoError(t, m.Advance())
	}
}

func TestInverseTable(t *testing.T) {
	tests := []struct {
		code TurnCode
		want motor.Turn
	}{
		{Red, motor.Turn{Rotation: motor.Left, Hold: motor.Left90Hold}},
		{Green, motor.Turn{Rotation: motor.Right, Hold: motor.Right90Hold}},
		{Blue, motor.Turn{Rotation: motor.Left, Hold: motor.Turn180Hold}},
		{Yellow, motor.Turn{Rotation: motor.Left, Hold: motor.Right90Hold}},
		{Pink, motor.Turn{Rotation: motor.Right, Hold: motor.Left90Hold}},
		{Orange, motor.Turn{Rotation: motor.Left, Hold: motor.Left135Hold}},
		{LightBlue, motor.Turn{Rotation: motor.Right, Hold: motor.Right135Hold}},
	}
	require.Len(t, tests, len(AllTurnCodes))

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			got, ok := Inverse(tt.code)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := Inverse(None)
	assert.False(t, ok)
	_, ok = Inverse('x')
	assert.False(t, ok)
}

func TestTickCorrectAndTurns(t *testing.T) {
	m := New(10)
	for i := 0; i < 200; i++ {
		m.Tick()
	}
	m.CorrectBackward(160)
	m.CorrectBackward(110)
	assert.Equal(t, int32(-70), m.Segment(0).Ticks)
	assert.Equal(t, int32(0), m.PreviousTicks())

	m.SetTurn(Pink)
	require.NoError(t, m.Advance())
	m.Tick()
	m.SetTurn(LightBlue)
	require.NoError(t, m.Advance())

	assert.Equal(t, 2, m.Step())
	assert.Equal(t, "Pb", m.TurnCodes())
	assert.Equal(t, int32(1), m.PreviousTicks())
	assert.Equal(t, []Segment{{-70, Pink}, {1, LightBlue}, {0, None}}, m.Segments())
}

func TestAdvanceCapacity(t *testing.T) {
	m := New(3)
	assert.False(t, m.Full())
	require.NoError(t, m.Advance())
	require.NoError(t, m.Advance())
	assert.True(t, m.Full())

	err := m.Advance()
	assert.ErrorIs(t, err, ErrFull)
	assert.Equal(t, 2, m.Step())
}

func TestNewDefaultCapacity(t *testing.T) {
	assert.Equal(t, DefaultCapacity, New(0).Capacity())
	assert.Equal(t, 1, New(1).Capacity())
	assert.True(t, New(1).Full())
	assert.Equal(t, MaxCapacity, New(MaxCapacity+1).Capacity())
}

func TestReplayReverseScenario(t *testing.T) {
	m := New(DefaultCapacity)
	record(t, m, Segment{40, Green}, Segment{25, Blue}, Segment{60, Red}, Segment{0, None})
	m.SetTurn(None)
	// Legs 0..2 are complete; replay from step 2.
	d := &traceDriver{}
	m.ReplayReverse(2, d)

	want := []string{
		"drive 60",
		"turn left 55ms",
		"drive 25",
		"turn left 270ms",
		"drive 40",
		"turn right 40ms",
	}
	if diff := cmp.Diff(want, d.result()); diff != "" {
		t.Errorf("replay mismatch (-want +got):\n%s", diff)
	}

	for i := 0; i <= 2; i++ {
		seg := m.Segment(i)
		assert.LessOrEqual(t, seg.Ticks, int32(0), "segment %d", i)
		assert.Equal(t, None, seg.Turn, "segment %d", i)
	}
}

func TestReplayReverseSkipsNegativeCounters(t *testing.T) {
	m := New(5)
	record(t, m, Segment{100, Yellow}, Segment{0, None})
	// Leg 0 was corrected below zero after the dead end.
	m.segs[0].Ticks = -30

	d := &traceDriver{}
	m.ReplayReverse(0, d)
	assert.Equal(t, []string{"turn left 40ms"}, d.result())
	assert.Equal(t, Segment{}, m.Segment(0))
}

func TestReplayReverseEmptyLegIsNoop(t *testing.T) {
	m := New(5)
	require.NoError(t, m.Advance())

	d := &traceDriver{}
	m.ReplayReverse(m.Step(), d)
	assert.Empty(t, d.result())
}

func TestPlanMatchesReplay(t *testing.T) {
	m := New(8)
	record(t, m, Segment{3, Orange}, Segment{0, LightBlue}, Segment{2, None})

	plan := m.Plan(2)
	require.Len(t, plan, 3)
	assert.Equal(t, ReplayLeg{Index: 2, DriveTicks: 2}, plan[0])
	assert.Equal(t, ReplayLeg{Index: 1, DriveTicks: 0, Turn: motor.Turn{Rotation: motor.Right, Hold: motor.Right135Hold}, HasTurn: true}, plan[1])
	assert.Equal(t, ReplayLeg{Index: 0, DriveTicks: 3, Turn: motor.Turn{Rotation: motor.Left, Hold: motor.Left135Hold}, HasTurn: true}, plan[2])

	// Plan does not drain.
	assert.Equal(t, int32(3), m.Segment(0).Ticks)

	d := &traceDriver{}
	m.ReplayReverse(2, d)
	assert.Equal(t, []string{"drive 2", "turn right 120ms", "drive 3", "turn left 120ms"}, d.result())
}

func TestNegativeStepSelectsNothing(t *testing.T) {
	m := New(4)
	record(t, m, Segment{5, Green}, Segment{2, None})

	for _, step := range []int{-1, -2, -100} {
		assert.Empty(t, m.Plan(step), "step %d", step)

		d := &traceDriver{}
		m.ReplayReverse(step, d)
		assert.Empty(t, d.result(), "step %d", step)
	}
	assert.Equal(t, Segment{5, Green}, m.Segment(0))
}

func TestRetraceFullPath(t *testing.T) {
	m := New(DefaultCapacity)
	record(t, m, Segment{40, Green}, Segment{25, Blue}, Segment{60, Red}, Segment{12, None})
	require.Equal(t, 3, m.Step())

	d := &traceDriver{}
	m.Retrace(d)

	want := []string{
		"turn left 270ms", // heading reversal
		"drive 12",        // current leg
		"turn left 55ms",  // undo red
		"drive 60",
		"turn left 270ms", // undo blue
		"drive 25",
		"turn right 40ms", // undo green
		"drive 40",
	}
	if diff := cmp.Diff(want, d.result()); diff != "" {
		t.Errorf("retrace mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, 0, m.Step())
	for i := 0; i < m.Capacity(); i++ {
		require.Equal(t, Segment{}, m.Segment(i), "segment %d", i)
	}
}

func TestRetraceFromStart(t *testing.T) {
	m := New(4)
	d := &traceDriver{}
	m.Retrace(d)
	assert.Equal(t, []string{"turn left 270ms"}, d.result())
	assert.Equal(t, 0, m.Step())
}

func TestTurnCodeString(t *testing.T) {
	assert.Equal(t, "b", LightBlue.String())
	assert.Equal(t, "-", None.String())
}
