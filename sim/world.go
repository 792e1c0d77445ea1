package sim

import (
	"context"
	"errors"
	"time"

	"gobuggy/color"
	"gobuggy/core"
	"gobuggy/nav"
)

// ErrSensorFault is what a failing marker's read returns
var ErrSensorFault = errors.New("simulated sensor fault")

// ScriptedSensor returns whatever the world last put under it
type ScriptedSensor struct {
	sample  color.Sample
	fail    bool
	reads   int
	cleared int
}

// Present places a marker under the sensor
func (s *ScriptedSensor) Present(sample color.Sample, fail bool) {
	s.sample, s.fail = sample, fail
}

func (s *ScriptedSensor) ReadColor() (color.Sample, error) {
	s.reads++
	if s.fail {
		return color.Sample{}, ErrSensorFault
	}
	return s.sample, nil
}

// ClearInterrupt acknowledges the obstacle interrupt
func (s *ScriptedSensor) ClearInterrupt() error {
	s.cleared++
	return nil
}

// Reads returns how many readings were taken
func (s *ScriptedSensor) Reads() int { return s.reads }

// Result summarizes a finished run
type Result struct {
	Steps    int
	Markers  int // markers met
	Turns    string
	Retraces int
	Elapsed  time.Duration
	Phases   []Phase
}

// World is a course with the navigator placed at its start
type World struct {
	script  *Script
	profile color.Profile
	clock   *core.ManualClock
	base    *Base
	sensor  *ScriptedSensor
	nav     *nav.Navigator
	next    int
	turns   string
}

// NewWorld builds the navigator for a course. telemetry and lights may be nil.
func NewWorld(s *Script, telemetry nav.Telemetry, lights nav.Lights) (*World, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	w := &World{
		script:  s,
		profile: s.Profile(),
		clock:   core.NewManualClock(),
		sensor:  &ScriptedSensor{},
	}
	w.base = NewBase(w.clock)

	n, err := nav.New(nav.Config{
		Left:      w.base.Left(),
		Right:     w.base.Right(),
		Sensor:    w.sensor,
		Profile:   w.profile,
		Capacity:  s.Capacity,
		Telemetry: telemetry,
		Lights:    lights,
		Clock:     w.clock,
	})
	if err != nil {
		return nil, err
	}
	w.nav = n
	return w, nil
}

// Navigator returns the navigator under test
func (w *World) Navigator() *nav.Navigator { return w.nav }

// Clock returns the virtual clock
func (w *World) Clock() *core.ManualClock { return w.clock }

// Sensor returns the scripted sensor
func (w *World) Sensor() *ScriptedSensor { return w.sensor }

// Run steps the navigator until the first retrace completes, the step limit
// is reached or ctx is done.
func (w *World) Run(ctx context.Context) (Result, error) {
	steps := 0
	for ; steps < w.script.MaxSteps && w.nav.Retraces() == 0; steps++ {
		if err := ctx.Err(); err != nil {
			return w.result(steps), err
		}
		w.place()
		w.nav.Step()
	}
	return w.result(steps), nil
}

// place raises the obstacle flag once the current leg reaches the next marker
func (w *World) place() {
	if w.next >= len(w.script.Markers) || w.nav.Flag().Pending() {
		return
	}
	mem := w.nav.Memory()
	m := w.script.Markers[w.next]
	if mem.Segment(mem.Step()).Ticks < m.Distance {
		return
	}

	w.sensor.Present(m.sample(w.profile), m.Fail)
	w.nav.Flag().Raise()
	w.next++
	w.turns = mem.TurnCodes()
}

func (w *World) result(steps int) Result {
	turns := w.nav.Memory().TurnCodes()
	if w.nav.Retraces() > 0 {
		turns = w.turns
	}
	return Result{
		Steps:    steps,
		Markers:  w.next,
		Turns:    turns,
		Retraces: w.nav.Retraces(),
		Elapsed:  w.clock.Now(),
		Phases:   w.base.Phases(),
	}
}
