package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// NavEvent captures one navigation decision for post-mortem analysis
type NavEvent struct {
	EventType uint8  // Event type code
	Step      uint8  // Path memory step at the time of the event
	Millis    uint32 // Clock reading in milliseconds
	Value1    int32  // Context-dependent value
	Value2    int32  // Context-dependent value
}

// Event type codes
const (
	EvtObstacle     = 1 // obstacle flag observed; v1=ticks on current leg
	EvtClassify     = 2 // marker classified; v1=category, v2=hue*100
	EvtTurn         = 3 // directional maneuver done; v1=turn code
	EvtRetraceStart = 4 // retrace begins; v1=legs recorded
	EvtUndoTurn     = 5 // inverse turn during retrace; v1=rotation, v2=hold ms
	EvtRetraceDone  = 6 // retrace complete
	EvtPathFull     = 7 // capacity reached, retrace forced; v1=capacity
	EvtSensorError  = 8 // color read failed
)

const (
	EventRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	// Navigation event ring buffer (non-blocking, for post-mortem)
	eventRing     [EventRingSize]NavEvent
	eventRingHead uint8
	eventsEnabled bool = true

	// Async debug output channel
	debugChan chan string
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// InitAsyncDebug starts the async debug output goroutine
// Call this from main() after SetDebugWriter
func InitAsyncDebug() {
	debugChan = make(chan string, 16)
	go debugOutputWorker()
}

func debugOutputWorker() {
	for msg := range debugChan {
		if debugPrintln != nil {
			debugPrintln(msg)
		}
	}
}

// DebugPrintln writes a debug message using the platform-specific writer
// Blocks if debug is enabled (use DebugAsync for non-blocking)
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// DebugAsync queues a debug message for async output (non-blocking)
// Returns immediately even if channel is full (drops message)
func DebugAsync(msg string) {
	if !debugEnabled || debugChan == nil {
		return
	}
	select {
	case debugChan <- msg:
	default:
	}
}

// RecordEvent captures a navigation event in the ring buffer
func RecordEvent(eventType uint8, step int, at uint32, value1, value2 int32) {
	if !eventsEnabled {
		return
	}
	idx := eventRingHead
	eventRing[idx] = NavEvent{
		EventType: eventType,
		Step:      uint8(step),
		Millis:    at,
		Value1:    value1,
		Value2:    value2,
	}
	eventRingHead = (idx + 1) % EventRingSize
}

// Events returns the recorded events, oldest first
func Events() []NavEvent {
	out := make([]NavEvent, 0, EventRingSize)
	start := eventRingHead
	for i := uint8(0); i < EventRingSize; i++ {
		evt := eventRing[(start+i)%EventRingSize]
		if evt.EventType == 0 {
			continue
		}
		out = append(out, evt)
	}
	return out
}

// EventName returns a short label for an event type
func EventName(eventType uint8) string {
	switch eventType {
	case EvtObstacle:
		return "OBSTACLE"
	case EvtClassify:
		return "CLASSIFY"
	case EvtTurn:
		return "TURN"
	case EvtRetraceStart:
		return "RETRACE"
	case EvtUndoTurn:
		return "UNDO_TURN"
	case EvtRetraceDone:
		return "RETRACE_DONE"
	case EvtPathFull:
		return "PATH_FULL!"
	case EvtSensorError:
		return "SENSOR_ERR!"
	default:
		return "UNKNOWN"
	}
}

// DumpEventRing outputs the event ring (call on shutdown/error)
func DumpEventRing() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[NAV] === Event Ring Dump ===")
	for _, evt := range Events() {
		debugPrintln("[NAV] " + EventName(evt.EventType) +
			" step=" + itoa(int(evt.Step)) +
			" ms=" + itoa(int(evt.Millis)) +
			" v1=" + itoa(int(evt.Value1)) +
			" v2=" + itoa(int(evt.Value2)))
	}
	debugPrintln("[NAV] === End Dump ===")
}

// ClearEventRing clears the event buffer
func ClearEventRing() {
	for i := range eventRing {
		eventRing[i] = NavEvent{}
	}
	eventRingHead = 0
}
