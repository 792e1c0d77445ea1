package color

// Category is the marker class a reading resolves to
type Category uint8

const (
	Unknown Category = iota
	White
	LightBlue
	Pink
	Red
	Orange
	Green
	Blue
	Yellow
)

// Classification thresholds, on the normalized 0-255 channel scale and in
// hue degrees.
const (
	GreySpan = 30 // max-min below this is white or light blue

	WhiteHueAbove = 230
	WhiteHueBelow = 150

	PinkChannelMin = 60
	RedChannelMin  = 175
	RedGreenMax    = 75
)

// String returns the category name
func (c Category) String() string {
	switch c {
	case White:
		return "white"
	case LightBlue:
		return "light-blue"
	case Pink:
		return "pink"
	case Red:
		return "red"
	case Orange:
		return "orange"
	case Green:
		return "green"
	case Blue:
		return "blue"
	case Yellow:
		return "yellow"
	default:
		return "unknown"
	}
}

// Terminal reports whether the category ends exploration.
func (c Category) Terminal() bool {
	return c == White || c == Unknown
}

// Classify maps a reading to a category. Rules are evaluated in order and
// the first match wins; the hue bands overlap on purpose.
func Classify(n Normalized) Category {
	h := n.Hue
	switch {
	case n.Span() < GreySpan:
		if h > WhiteHueAbove || h < WhiteHueBelow {
			return White
		}
		return LightBlue

	case 340 <= h && h <= 360:
		if n.G > PinkChannelMin && n.B > PinkChannelMin {
			return Pink
		}
		if n.R > RedChannelMin && n.G < RedGreenMax {
			return Red
		}
		return Orange

	case 120 <= h && h <= 160:
		return Green

	case 165 <= h && h <= 190:
		return Blue

	case 0 <= h && h <= 50:
		return Yellow
	}
	return Unknown
}

// Read normalizes and classifies a raw sample in one call.
func Read(s Sample, p Profile) (Normalized, Category) {
	n := Normalize(s, p)
	return n, Classify(n)
}
