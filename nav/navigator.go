// Package nav runs the top-level control loop: drive forward, react to the
// obstacle flag by classifying the marker under the sensor, turn or retrace,
// and keep path memory in step with what the wheels did.
package nav

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gobuggy/color"
	"gobuggy/core"
	"gobuggy/motor"
	"gobuggy/pathmem"
	"gobuggy/protocol"
)

// Loop timing and dead-reckoning corrections, calibrated on the reference
// chassis.
const (
	TickPacing        = 5 * time.Millisecond    // telemetry slot per driving tick
	ReplayTickDelay   = 12 * time.Millisecond   // per recorded tick during retrace
	ApproachBackoff   = 30 * time.Millisecond   // reverse before and after sampling
	DeadEndReverse    = 1200 * time.Millisecond // back-off before a dead-end turn
	UndoPause         = 500 * time.Millisecond  // rest after each retrace turn
	RetracePause      = 1000 * time.Millisecond // rest once home
)

// Ticks taken off the current leg to account for reversing
const (
	ObstacleCorrection int32 = 160
	DeadEndCorrection  int32 = 110
)

// State is the control loop state
type State uint8

const (
	Driving State = iota
	EventHandling
	Retracing
)

func (s State) String() string {
	switch s {
	case Driving:
		return "driving"
	case EventHandling:
		return "event-handling"
	case Retracing:
		return "retracing"
	default:
		return "unknown"
	}
}

// ColorSensor takes one raw reading, blocking for the transaction
type ColorSensor interface {
	ReadColor() (color.Sample, error)
}

// interruptClearer is implemented by sensors that latch their obstacle
// interrupt until acknowledged.
type interruptClearer interface {
	ClearInterrupt() error
}

// Telemetry accepts one diagnostic line. It must not block.
type Telemetry interface {
	SendLine(line string)
}

// Lights are the indicator LEDs
type Lights interface {
	Heartbeat(on bool)
	Retrace(on bool)
	Cue()
}

// Config wires a Navigator to its collaborators
type Config struct {
	Left, Right motor.Wheel
	Sensor      ColorSensor
	Profile     color.Profile
	Capacity    int
	Telemetry   Telemetry // optional
	Lights      Lights    // optional
	Clock       core.Clock
}

// Navigator is the control loop. It is driven from a single goroutine; only
// Flag().Raise may be called from elsewhere.
type Navigator struct {
	exec      *motor.Executor
	sensor    ColorSensor
	profile   color.Profile
	mem       *pathmem.Memory
	telemetry Telemetry
	lights    Lights
	clock     core.Clock

	flag     EventFlag
	state    State
	last     color.Normalized
	lastCat  color.Category
	line     []byte
	retraces int
}

// New validates the calibration and builds a Navigator with both wheels
// stopped.
func New(cfg Config) (*Navigator, error) {
	if cfg.Left == nil || cfg.Right == nil {
		return nil, errors.New("nav: both wheels are required")
	}
	if cfg.Sensor == nil {
		return nil, errors.New("nav: color sensor is required")
	}
	if err := cfg.Profile.Validate(); err != nil {
		return nil, fmt.Errorf("nav: %w", err)
	}
	if cfg.Clock == nil {
		cfg.Clock = core.NewSystemClock()
	}

	return &Navigator{
		exec:      motor.NewExecutor(cfg.Left, cfg.Right, cfg.Clock),
		sensor:    cfg.Sensor,
		profile:   cfg.Profile,
		mem:       pathmem.New(cfg.Capacity),
		telemetry: cfg.Telemetry,
		lights:    cfg.Lights,
		clock:     cfg.Clock,
		line:      make([]byte, 0, 64),
	}, nil
}

// Flag returns the obstacle flag for the event source to raise
func (n *Navigator) Flag() *EventFlag { return &n.flag }

// State returns the current loop state
func (n *Navigator) State() State { return n.state }

// Memory exposes path memory for inspection
func (n *Navigator) Memory() *pathmem.Memory { return n.mem }

// Executor exposes the wheel commands for inspection
func (n *Navigator) Executor() *motor.Executor { return n.exec }

// LastReading returns the most recent marker reading and its category
func (n *Navigator) LastReading() (color.Normalized, color.Category) {
	return n.last, n.lastCat
}

// Retraces returns how many retraces have completed
func (n *Navigator) Retraces() int { return n.retraces }

// Run steps the loop until ctx is done
func (n *Navigator) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		n.Step()
	}
}

// Step runs one loop iteration: a pending obstacle is handled to
// completion, otherwise the vehicle drives one tick.
func (n *Navigator) Step() {
	if n.flag.Pending() {
		n.handleEvent()
		return
	}
	n.drive()
}

func (n *Navigator) drive() {
	n.state = Driving
	if n.lights != nil {
		n.lights.Heartbeat(true)
	}
	n.emit()
	n.clock.Sleep(TickPacing)
	if n.lights != nil {
		n.lights.Heartbeat(false)
	}

	n.exec.ForwardRamp()
	n.mem.Tick()
}

func (n *Navigator) emit() {
	if n.telemetry == nil {
		return
	}
	n.line = protocol.AppendFrame(n.line[:0], protocol.Frame{
		R:         n.last.R,
		G:         n.last.G,
		B:         n.last.B,
		Clear:     n.last.Clear,
		Hue:       n.last.Hue,
		PrevTicks: n.mem.PreviousTicks(),
		Turns:     n.mem.TurnCodes(),
	})
	n.telemetry.SendLine(string(n.line))
}

func (n *Navigator) handleEvent() {
	n.state = EventHandling
	step := n.mem.Step()
	core.RecordEvent(core.EvtObstacle, step, n.millis(), n.mem.Segment(step).Ticks, 0)

	n.exec.StopRamp()
	n.exec.BackwardRamp()
	n.exec.Hold(ApproachBackoff)
	cat := n.sample()
	n.exec.Hold(ApproachBackoff)

	n.mem.CorrectBackward(ObstacleCorrection)
	n.exec.StopRamp()

	act := Decide(cat)
	if !act.Terminal && n.mem.Full() {
		core.RecordEvent(core.EvtPathFull, step, n.millis(), int32(n.mem.Capacity()), 0)
		core.DebugPrintln("[NAV] path memory full at step " + core.Itoa(step) + ", retracing")
		act = Action{Terminal: true}
	}

	if act.Terminal {
		n.retrace()
	} else {
		n.maneuver(act)
	}

	n.acknowledge()
	n.state = Driving
}

// acknowledge re-arms the sensor interrupt and clears the flag. Both happen
// only once the event has been handled completely.
func (n *Navigator) acknowledge() {
	if ic, ok := n.sensor.(interruptClearer); ok {
		if err := ic.ClearInterrupt(); err != nil {
			core.DebugPrintln("[NAV] clear sensor interrupt: " + err.Error())
		}
	}
	n.flag.Clear()
}

func (n *Navigator) sample() color.Category {
	s, err := n.sensor.ReadColor()
	if err != nil {
		core.RecordEvent(core.EvtSensorError, n.mem.Step(), n.millis(), 0, 0)
		core.DebugPrintln("[NAV] color read failed: " + err.Error())
		n.last, n.lastCat = color.Normalized{}, color.Unknown
		return color.Unknown
	}

	n.last, n.lastCat = color.Read(s, n.profile)
	core.RecordEvent(core.EvtClassify, n.mem.Step(), n.millis(), int32(n.lastCat), int32(n.last.Hue*100))
	core.DebugPrintln("[NAV] marker " + n.lastCat.String() + " hue=" + core.Itoa(int(n.last.Hue)))
	return n.lastCat
}

func (n *Navigator) maneuver(act Action) {
	if act.DeadEnd {
		n.exec.BackwardRamp()
		n.exec.Hold(DeadEndReverse)
	}
	n.exec.Turn(act.Turn)
	n.exec.StopRamp()
	if act.DeadEnd {
		n.mem.CorrectBackward(DeadEndCorrection)
	}

	n.mem.SetTurn(act.Code)
	core.RecordEvent(core.EvtTurn, n.mem.Step(), n.millis(), int32(act.Code), 0)
	if err := n.mem.Advance(); err != nil {
		core.DebugPrintln("[NAV] " + err.Error())
	}
}

func (n *Navigator) retrace() {
	n.state = Retracing
	legs := n.mem.Step()
	core.RecordEvent(core.EvtRetraceStart, legs, n.millis(), int32(legs), 0)
	if n.lights != nil {
		n.lights.Retrace(true)
	}

	n.mem.Retrace(&replayDriver{n: n})

	if n.lights != nil {
		n.lights.Retrace(false)
	}
	n.exec.StopRamp()
	n.clock.Sleep(RetracePause)
	n.retraces++
	core.RecordEvent(core.EvtRetraceDone, 0, n.millis(), int32(legs), 0)
}

func (n *Navigator) millis() uint32 {
	return core.Millis(n.clock.Now())
}

// replayDriver executes a retrace on the wheels. The first turn it is
// asked for is the heading reversal; every later one undoes a recorded
// turn and is preceded by the light cue.
type replayDriver struct {
	n     *Navigator
	turns int
}

func (d *replayDriver) DriveTick() {
	d.n.exec.ForwardRamp()
	d.n.clock.Sleep(ReplayTickDelay)
}

func (d *replayDriver) Turn(t motor.Turn) {
	if d.turns > 0 {
		if d.n.lights != nil {
			d.n.lights.Cue()
		}
		core.RecordEvent(core.EvtUndoTurn, d.n.mem.Step(), d.n.millis(), int32(t.Rotation), int32(t.Hold/time.Millisecond))
	}
	d.turns++

	d.n.exec.Turn(t)
	d.n.exec.StopRamp()
	d.n.clock.Sleep(UndoPause)
}
