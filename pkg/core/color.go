package core

import "strings"

// Color identifies one of the fixed note palette entries.
type Color string

const (
	ColorYellow Color = "yellow"
	ColorPink   Color = "pink"
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorPurple Color = "purple"
	ColorOrange Color = "orange"

	// DefaultColor is used whenever a value cannot be resolved.
	DefaultColor = ColorYellow
)

var palette = []Color{ColorYellow, ColorPink, ColorBlue, ColorGreen, ColorPurple, ColorOrange}

// legacyColors maps retired identifiers to their current replacement.
var legacyColors = map[string]Color{
	"default":  ColorYellow,
	"sunny":    ColorYellow,
	"rose":     ColorPink,
	"red":      ColorPink,
	"sky":      ColorBlue,
	"teal":     ColorGreen,
	"mint":     ColorGreen,
	"lavender": ColorPurple,
	"violet":   ColorPurple,
	"peach":    ColorOrange,
}

// Palette returns the valid colors in display order.
func Palette() []Color {
	out := make([]Color, len(palette))
	copy(out, palette)
	return out
}

// Valid reports whether c is a member of the current palette.
func (c Color) Valid() bool {
	for _, p := range palette {
		if c == p {
			return true
		}
	}
	return false
}

// NormalizeColor resolves any value into a palette color.
// Non-strings and unknown identifiers resolve to DefaultColor.
func NormalizeColor(raw any) Color {
	var s string
	switch v := raw.(type) {
	case string:
		s = v
	case Color:
		s = string(v)
	default:
		return DefaultColor
	}

	s = strings.ToLower(strings.TrimSpace(s))
	if alias, ok := legacyColors[s]; ok {
		return alias
	}
	if c := Color(s); c.Valid() {
		return c
	}
	return DefaultColor
}
