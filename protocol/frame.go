// Package protocol holds the telemetry wire format and the byte ring
// that carries it to the UART.
package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedFrame is returned by ParseFrame for lines that are not telemetry
var ErrMalformedFrame = errors.New("malformed telemetry frame")

// Frame is one diagnostic line emitted per driving tick:
//
//	R G B C HUE PREV TURNS\n
//
// Colour fields are printed with two decimals, PREV is the forward counter of
// the previous leg and TURNS is the turn-code sequence recorded so far.
type Frame struct {
	R         float64
	G         float64
	B         float64
	Clear     float64
	Hue       float64
	PrevTicks int32
	Turns     string
}

// AppendFrame appends the wire form of f, newline included, to dst
func AppendFrame(dst []byte, f Frame) []byte {
	for _, v := range [...]float64{f.R, f.G, f.B, f.Clear, f.Hue} {
		dst = strconv.AppendFloat(dst, v, 'f', 2, 64)
		dst = append(dst, ' ')
	}
	dst = strconv.AppendInt(dst, int64(f.PrevTicks), 10)
	dst = append(dst, ' ')
	dst = append(dst, f.Turns...)
	return append(dst, '\n')
}

// String returns the wire form of f
func (f Frame) String() string {
	return string(AppendFrame(make([]byte, 0, 64), f))
}

// ParseFrame decodes one telemetry line. The trailing newline is optional
// and an empty turn sequence is accepted.
func ParseFrame(line string) (Frame, error) {
	fields := strings.Fields(line)
	if len(fields) != 6 && len(fields) != 7 {
		return Frame{}, fmt.Errorf("%w: want 6 or 7 fields, got %d", ErrMalformedFrame, len(fields))
	}

	var f Frame
	dst := [...]*float64{&f.R, &f.G, &f.B, &f.Clear, &f.Hue}
	for i, p := range dst {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return Frame{}, fmt.Errorf("%w: field %d: %v", ErrMalformedFrame, i, err)
		}
		*p = v
	}

	prev, err := strconv.ParseInt(fields[5], 10, 32)
	if err != nil {
		return Frame{}, fmt.Errorf("%w: prev ticks: %v", ErrMalformedFrame, err)
	}
	f.PrevTicks = int32(prev)

	if len(fields) == 7 {
		f.Turns = fields[6]
	}
	return f, nil
}
