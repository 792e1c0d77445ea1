package core

import (
	"io"
	"sync"
	"sync/atomic"

	"gobuggy/protocol"
)

// DefaultTelemetryBuffer holds a few dozen telemetry lines
const DefaultTelemetryBuffer = 1024

// TelemetryQueue is the outgoing UART ring. The control loop pushes whole
// lines; a transmit goroutine drains bytes. Lines that do not fit are
// dropped and counted, the producer never waits.
type TelemetryQueue struct {
	mu      sync.Mutex
	fifo    *protocol.FifoBuffer
	dropped atomic.Uint32
	sent    atomic.Uint32
}

// NewTelemetryQueue creates a queue holding up to size-1 bytes
func NewTelemetryQueue(size int) *TelemetryQueue {
	if size < 2 {
		size = DefaultTelemetryBuffer
	}
	return &TelemetryQueue{
		fifo: protocol.NewFifoBuffer(size),
	}
}

// SendLine enqueues a complete line or drops it
func (q *TelemetryQueue) SendLine(line string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	state := disableInterrupts()
	defer restoreInterrupts(state)

	if q.fifo.Free() < len(line) {
		q.dropped.Add(1)
		return
	}
	q.fifo.Write([]byte(line))
	q.sent.Add(1)
}

// Drain moves everything queued so far into w. Bytes are popped only once
// w has taken them; on error the rest stays queued for the next call.
func (q *TelemetryQueue) Drain(w io.Writer) (int, error) {
	total := 0
	for {
		q.mu.Lock()
		state := disableInterrupts()
		empty := q.fifo.IsEmpty()
		seg := q.fifo.Peek()
		restoreInterrupts(state)
		q.mu.Unlock()

		if empty {
			return total, nil
		}
		written, err := w.Write(seg)
		total += written

		q.mu.Lock()
		state = disableInterrupts()
		q.fifo.Pop(written)
		restoreInterrupts(state)
		q.mu.Unlock()

		if err != nil {
			return total, err
		}
	}
}

// Pending returns the number of bytes waiting to be transmitted
func (q *TelemetryQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.fifo.Available()
}

// Dropped returns how many lines were discarded for lack of space
func (q *TelemetryQueue) Dropped() uint32 {
	return q.dropped.Load()
}

// Sent returns how many lines were accepted
func (q *TelemetryQueue) Sent() uint32 {
	return q.sent.Load()
}
