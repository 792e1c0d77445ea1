// Package monitor turns the buggy's telemetry stream into parsed readings
// and renders them live in the terminal.
package monitor

import (
	"bufio"
	"context"
	"io"
	"sync/atomic"
	"time"

	"gobuggy/color"
	"gobuggy/protocol"
)

// Reading is one parsed telemetry line
type Reading struct {
	Frame    protocol.Frame
	Category color.Category
	At       time.Time
}

// NewReading classifies a frame's channels the same way the vehicle does
func NewReading(f protocol.Frame, at time.Time) Reading {
	n := color.NewNormalized(f.R, f.G, f.B, f.Clear)
	return Reading{Frame: f, Category: color.Classify(n), At: at}
}

// Monitor reads telemetry lines from a port and publishes readings
type Monitor struct {
	readings  chan Reading
	malformed atomic.Uint32
	now       func() time.Time
}

// New creates a monitor with room for buffer undelivered readings
func New(buffer int) *Monitor {
	return &Monitor{
		readings: make(chan Reading, buffer),
		now:      time.Now,
	}
}

// Readings delivers parsed readings. It is closed when Run returns.
func (m *Monitor) Readings() <-chan Reading {
	return m.readings
}

// Malformed returns how many lines failed to parse
func (m *Monitor) Malformed() uint32 {
	return m.malformed.Load()
}

// Run scans r until EOF, a read error or ctx is done. Every line that
// parses is delivered; a slow consumer slows the scan down.
func (m *Monitor) Run(ctx context.Context, r io.Reader) error {
	defer close(m.readings)

	scan := bufio.NewScanner(r)
	lineChan := make(chan string)
	scanErrChan := make(chan error, 1)

	// the blocking Scan runs apart from the loop below so cancellation is
	// seen even while the port is quiet
	go func() {
		defer close(lineChan)
		for scan.Scan() {
			select {
			case lineChan <- scan.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scan.Err(); err != nil {
			scanErrChan <- err
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-scanErrChan:
			return err

		case line, ok := <-lineChan:
			if !ok {
				select {
				case err := <-scanErrChan:
					return err
				default:
					return nil
				}
			}
			f, err := protocol.ParseFrame(line)
			if err != nil {
				m.malformed.Add(1)
				continue
			}
			select {
			case m.readings <- NewReading(f, m.now()):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
