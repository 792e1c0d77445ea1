package color

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileValidate(t *testing.T) {
	require.NoError(t, DefaultProfile.Validate())

	p := DefaultProfile
	p.BlackGreen = p.WhiteGreen
	err := p.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDegenerateChannel))
	assert.Contains(t, err.Error(), "green")
}

func TestNormalizeCalibrationPoints(t *testing.T) {
	p := DefaultProfile

	white := Normalize(Sample{Red: p.WhiteRed, Green: p.WhiteGreen, Blue: p.WhiteBlue, Clear: 4000}, p)
	assert.Equal(t, 255.0, white.R)
	assert.Equal(t, 255.0, white.G)
	assert.Equal(t, 255.0, white.B)
	assert.Equal(t, 4000.0, white.Clear)

	black := Normalize(Sample{Red: p.BlackRed, Green: p.BlackGreen, Blue: p.BlackBlue}, p)
	assert.Equal(t, 0.0, black.R)
	assert.Equal(t, 0.0, black.G)
	assert.Equal(t, 0.0, black.B)

	mid := Normalize(Sample{Red: 725}, p)
	assert.InDelta(t, 127.5, mid.R, 1e-9)
}

func TestNormalizeClamps(t *testing.T) {
	p := DefaultProfile

	below := Normalize(Sample{Red: 10, Green: 0, Blue: 100}, p)
	assert.Equal(t, 0.0, below.R)
	assert.Equal(t, 0.0, below.G)
	assert.Equal(t, 0.0, below.B)

	above := Normalize(Sample{Red: 65535, Green: 2000, Blue: 471}, p)
	assert.Equal(t, 255.0, above.R)
	assert.Equal(t, 255.0, above.G)
	assert.Equal(t, 255.0, above.B)
}

func TestNormalizeMonotonic(t *testing.T) {
	p := DefaultProfile
	prev := -1.0
	for raw := uint16(0); raw <= 1200; raw += 7 {
		n := Normalize(Sample{Red: raw}, p)
		assert.GreaterOrEqual(t, n.R, prev, "raw=%d", raw)
		prev = n.R
	}
}

func TestNormalizeInvertedProfile(t *testing.T) {
	// A profile with black above white still scales linearly, just decreasing.
	p := Profile{WhiteRed: 100, BlackRed: 300, WhiteGreen: 1, BlackGreen: 0, WhiteBlue: 1, BlackBlue: 0}
	require.NoError(t, p.Validate())
	n := Normalize(Sample{Red: 200}, p)
	assert.InDelta(t, 127.5, n.R, 1e-9)
}

func TestHue(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b float64
		want    float64
	}{
		{"grey", 100, 100, 100, 0},
		{"black", 0, 0, 0, 0},
		{"red", 255, 0, 0, 0},
		{"green", 0, 255, 0, 120},
		{"blue", 0, 0, 255, 240},
		{"yellow", 255, 170, 0, 40},
		{"wraps negative", 255, 0, 128, 329.882},
		{"red ties green", 200, 200, 0, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNormalized(tt.r, tt.g, tt.b, 0)
			assert.InDelta(t, tt.want, n.Hue, 0.01)
			assert.GreaterOrEqual(t, n.Hue, 0.0)
			assert.Less(t, n.Hue, 360.0)
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		n    Normalized
		want Category
	}{
		{"grey low hue is white", NewNormalized(200, 200, 200, 0), White},
		{"grey high hue is white", Normalized{R: 100, G: 90, B: 110, Hue: 250, Max: 110, Min: 90}, White},
		{"grey cyan is light blue", NewNormalized(200, 220, 220, 0), LightBlue},
		{"grey at 150 is light blue", Normalized{Hue: 150, Max: 50, Min: 40}, LightBlue},
		{"grey at 230 is light blue", Normalized{Hue: 230, Max: 50, Min: 40}, LightBlue},
		{"pink", NewNormalized(240, 70, 110, 0), Pink},
		{"pink literal", Normalized{R: 200, G: 70, B: 70, Hue: 345, Max: 200, Min: 70}, Pink},
		{"red", NewNormalized(240, 20, 40, 0), Red},
		{"orange", NewNormalized(150, 20, 40, 0), Orange},
		{"hue 360 boundary", Normalized{R: 200, G: 10, B: 10, Hue: 360, Max: 200, Min: 10}, Red},
		{"green", NewNormalized(0, 255, 85, 0), Green},
		{"green at 120", Normalized{Hue: 120, Max: 200, Min: 0}, Green},
		{"green at 160", Normalized{Hue: 160, Max: 200, Min: 0}, Green},
		{"gap between green and blue", Normalized{Hue: 162, Max: 200, Min: 0}, Unknown},
		{"blue", NewNormalized(0, 255, 212.5, 0), Blue},
		{"blue at 190", Normalized{Hue: 190, Max: 200, Min: 0}, Blue},
		{"yellow", NewNormalized(255, 170, 0, 0), Yellow},
		{"yellow at 0 saturated", NewNormalized(255, 0, 0, 0), Yellow},
		{"yellow at 50", Normalized{Hue: 50, Max: 200, Min: 0}, Yellow},
		{"hue 60 is unknown", Normalized{Hue: 60, Max: 200, Min: 0}, Unknown},
		{"deep blue is unknown", NewNormalized(0, 0, 255, 0), Unknown},
		{"lime is unknown", NewNormalized(85, 255, 0, 0), Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.n))
			// Pure: a second call on the same value agrees.
			assert.Equal(t, Classify(tt.n), Classify(tt.n))
		})
	}
}

func TestReadWhiteSample(t *testing.T) {
	p := DefaultProfile
	n, c := Read(Sample{Red: 950, Green: 615, Blue: 465, Clear: 3000}, p)
	assert.Less(t, n.Span(), float64(GreySpan))
	assert.Equal(t, White, c)
	assert.True(t, c.Terminal())
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "light-blue", LightBlue.String())
	assert.Equal(t, "unknown", Category(200).String())
	assert.False(t, Green.Terminal())
	assert.True(t, Unknown.Terminal())
}
