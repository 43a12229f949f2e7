package model

// Colour is a player's display colour
type Colour string

const (
	ColourBlue   Colour = "blue"
	ColourRed    Colour = "red"
	ColourPurple Colour = "purple"
	ColourGray   Colour = "gray"
	ColourGreen  Colour = "green"
	ColourOrange Colour = "orange"
	ColourYellow Colour = "yellow"
	ColourPink   Colour = "pink"
	ColourTeal   Colour = "teal"
)

// FallbackHex is used for colours without a mapping and for unknown players
const FallbackHex = "#6b7280"

var colourHex = map[Colour]string{
	ColourRed:    "#ef4444",
	ColourBlue:   "#3b82f6",
	ColourGreen:  "#22c55e",
	ColourYellow: "#eab308",
	ColourPurple: "#a855f7",
	ColourPink:   "#ec4899",
	ColourOrange: "#f97316",
	ColourTeal:   "#14b8a6",
}

// Colours returns the colours offered at registration, in display order
func Colours() []Colour {
	return []Colour{
		ColourBlue, ColourRed, ColourPurple, ColourGray, ColourGreen, ColourOrange,
		ColourYellow, ColourPink, ColourTeal,
	}
}

// ParseColour validates a colour name
func ParseColour(s string) (Colour, error) {
	for _, c := range Colours() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", ErrInvalidColour
}

// Hex returns the CSS colour for rendering. Gray has no explicit entry and
// uses the fallback, which happens to be gray-500.
func (c Colour) Hex() string {
	if hex, ok := colourHex[c]; ok {
		return hex
	}
	return FallbackHex
}
