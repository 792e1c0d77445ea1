// Package sim runs the real navigator against a scripted course of colour
// markers, with a virtual clock, so whole runs finish instantly and can be
// inspected afterwards.
package sim

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"gobuggy/color"
	"gobuggy/pathmem"
)

// ErrBadScript is returned when a course script cannot be used
var ErrBadScript = errors.New("bad course script")

// DefaultMaxSteps bounds a run whose course never reaches a terminal marker
const DefaultMaxSteps = 20000

// Marker is one card on the course. The buggy meets it after driving
// Distance ticks on the current leg. Color names a category; Sample, when
// set, overrides it with raw counts. Fail makes the sensor read error out.
type Marker struct {
	Distance int32         `json:"distance"`
	Color    string        `json:"color,omitempty"`
	Sample   *color.Sample `json:"sample,omitempty"`
	Fail     bool          `json:"fail,omitempty"`
}

// Script is a complete course
type Script struct {
	Calibration *color.Profile `json:"calibration,omitempty"`
	Capacity    int            `json:"capacity,omitempty"`
	MaxSteps    int            `json:"max_steps,omitempty"`
	Markers     []Marker       `json:"markers"`
}

// LoadScript parses and checks a JSON course
func LoadScript(data []byte) (*Script, error) {
	var s Script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse course: %w", err)
	}
	if s.MaxSteps == 0 {
		s.MaxSteps = DefaultMaxSteps
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks every marker can be presented
func (s *Script) Validate() error {
	if s.Capacity < 0 || s.Capacity > pathmem.MaxCapacity {
		return fmt.Errorf("%w: capacity %d outside [0, %d]", ErrBadScript, s.Capacity, pathmem.MaxCapacity)
	}
	if s.MaxSteps < 0 {
		return fmt.Errorf("%w: max_steps %d", ErrBadScript, s.MaxSteps)
	}
	if s.Calibration != nil {
		if err := s.Calibration.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrBadScript, err)
		}
	}
	for i, m := range s.Markers {
		if m.Distance < 1 {
			return fmt.Errorf("%w: marker %d distance %d < 1", ErrBadScript, i, m.Distance)
		}
		if m.Sample == nil && !m.Fail {
			if _, ok := canonical[m.Color]; !ok {
				return fmt.Errorf("%w: marker %d has unknown color %q", ErrBadScript, i, m.Color)
			}
		}
	}
	return nil
}

// Profile returns the script's calibration, or the default one
func (s *Script) Profile() color.Profile {
	if s.Calibration != nil {
		return *s.Calibration
	}
	return color.DefaultProfile
}

// canonical readings on the normalized scale, one per category name
var canonical = map[string][3]float64{
	color.White.String():     {255, 255, 255},
	color.LightBlue.String(): {200, 215, 225},
	color.Pink.String():      {240, 70, 110},
	color.Red.String():       {240, 16, 36},
	color.Orange.String():    {160, 40, 70},
	color.Green.String():     {0, 255, 85},
	color.Blue.String():      {0, 200, 230},
	color.Yellow.String():    {255, 150, 40},
	color.Unknown.String():   {150, 255, 40},
}

// SampleFor returns raw counts that read back as the named category under
// profile p.
func SampleFor(name string, p color.Profile) (color.Sample, bool) {
	rgb, ok := canonical[name]
	if !ok {
		return color.Sample{}, false
	}
	return color.Sample{
		Red:   raw(rgb[0], p.BlackRed, p.WhiteRed),
		Green: raw(rgb[1], p.BlackGreen, p.WhiteGreen),
		Blue:  raw(rgb[2], p.BlackBlue, p.WhiteBlue),
		Clear: 2000,
	}, true
}

func raw(v float64, black, white uint16) uint16 {
	r := float64(black) + v*(float64(white)-float64(black))/255
	return uint16(math.Round(math.Max(0, math.Min(r, math.MaxUint16))))
}

func (m Marker) sample(p color.Profile) color.Sample {
	if m.Sample != nil {
		return *m.Sample
	}
	s, _ := SampleFor(m.Color, p)
	return s
}
