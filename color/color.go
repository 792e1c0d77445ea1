// Package color turns raw four-channel light sensor counts into a calibrated
// RGB + hue reading and maps that reading onto the marker categories the
// vehicle navigates by.
package color

import (
	"errors"
	"fmt"
	"math"
)

// ErrDegenerateChannel is returned when a calibration channel has identical
// white and black reference points.
var ErrDegenerateChannel = errors.New("calibration white point equals black point")

// Sample holds raw sensor counts for one reading
type Sample struct {
	Red   uint16
	Green uint16
	Blue  uint16
	Clear uint16
}

// Profile holds white-point and black-point raw counts per channel
type Profile struct {
	WhiteRed   uint16 `json:"white_red"`
	WhiteGreen uint16 `json:"white_green"`
	WhiteBlue  uint16 `json:"white_blue"`
	BlackRed   uint16 `json:"black_red"`
	BlackGreen uint16 `json:"black_green"`
	BlackBlue  uint16 `json:"black_blue"`
}

// DefaultProfile is the calibration measured on the reference buggy under
// the Color Click LED.
var DefaultProfile = Profile{
	WhiteRed:   950,
	WhiteGreen: 620,
	WhiteBlue:  470,
	BlackRed:   500,
	BlackGreen: 300,
	BlackBlue:  220,
}

// Validate checks every channel has a usable span.
// Must be called once at startup, never per sample.
func (p Profile) Validate() error {
	if p.WhiteRed == p.BlackRed {
		return fmt.Errorf("red channel (%d): %w", p.WhiteRed, ErrDegenerateChannel)
	}
	if p.WhiteGreen == p.BlackGreen {
		return fmt.Errorf("green channel (%d): %w", p.WhiteGreen, ErrDegenerateChannel)
	}
	if p.WhiteBlue == p.BlackBlue {
		return fmt.Errorf("blue channel (%d): %w", p.WhiteBlue, ErrDegenerateChannel)
	}
	return nil
}

// Normalized is a calibrated reading. R, G and B are in [0, 255], Hue is in
// degrees [0, 360). Clear is passed through from the raw sample.
type Normalized struct {
	R     float64
	G     float64
	B     float64
	Clear float64
	Hue   float64
	Max   float64
	Min   float64
}

// Span returns max - min, the saturation measure used by Classify.
func (n Normalized) Span() float64 {
	return n.Max - n.Min
}

// Normalize rescales each channel linearly between the black and white
// points and clamps the result to [0, 255]. The profile must have passed
// Validate.
func Normalize(s Sample, p Profile) Normalized {
	r := scale(s.Red, p.BlackRed, p.WhiteRed)
	g := scale(s.Green, p.BlackGreen, p.WhiteGreen)
	b := scale(s.Blue, p.BlackBlue, p.WhiteBlue)
	return NewNormalized(r, g, b, float64(s.Clear))
}

// NewNormalized builds a reading from channels that are already on the
// 0-255 scale, filling in max, min and hue.
func NewNormalized(r, g, b, clear float64) Normalized {
	n := Normalized{
		R:     r,
		G:     g,
		B:     b,
		Clear: clear,
		Max:   math.Max(r, math.Max(g, b)),
		Min:   math.Min(r, math.Min(g, b)),
	}
	n.Hue = hue(n)
	return n
}

func scale(raw, black, white uint16) float64 {
	v := (float64(raw) - float64(black)) * 255 / (float64(white) - float64(black))
	return clamp(v, 0, 255)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// hue is undefined for a grey reading; it is reported as 0.
// When two channels tie for max, red wins over green and green over blue.
func hue(n Normalized) float64 {
	delta := n.Max - n.Min
	if delta == 0 {
		return 0
	}

	var h float64
	switch n.Max {
	case n.R:
		h = (n.G - n.B) / delta * 60
	case n.G:
		h = (2 + (n.B-n.R)/delta) * 60
	default:
		h = (4 + (n.R-n.G)/delta) * 60
	}
	if h < 0 {
		h += 360
	}
	return h
}
