package theme

import "strings"

// RGBAColor is a serializable sRGB color with components in [0, 1].
type RGBAColor struct {
	Red   float64 `json:"red"`
	Green float64 `json:"green"`
	Blue  float64 `json:"blue"`
	Alpha float64 `json:"alpha"`
}

// Opaque returns a fully opaque color.
func Opaque(red, green, blue float64) RGBAColor {
	return RGBAColor{Red: red, Green: green, Blue: blue, Alpha: 1}
}

// Clamped returns the color with every component limited to [0, 1].
func (c RGBAColor) Clamped() RGBAColor {
	return RGBAColor{
		Red:   clamp01(c.Red),
		Green: clamp01(c.Green),
		Blue:  clamp01(c.Blue),
		Alpha: clamp01(c.Alpha),
	}
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}

// Palette holds the named system colors themes can pick from.
var Palette = map[string]RGBAColor{
	"red":    Opaque(1, 0.231, 0.188),
	"orange": Opaque(1, 0.584, 0),
	"yellow": Opaque(1, 0.8, 0),
	"green":  Opaque(0.204, 0.78, 0.349),
	"mint":   Opaque(0, 0.78, 0.745),
	"teal":   Opaque(0.188, 0.69, 0.78),
	"blue":   Opaque(0, 0.478, 1),
	"purple": Opaque(0.686, 0.322, 0.871),
	"pink":   Opaque(1, 0.176, 0.333),
	"gray":   Opaque(0.557, 0.557, 0.576),
}

// ColorNamed looks up a palette color, ignoring case.
func ColorNamed(name string) (RGBAColor, bool) {
	c, ok := Palette[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// MustColor is ColorNamed for names known at compile time.
func MustColor(name string) RGBAColor {
	c, ok := ColorNamed(name)
	if !ok {
		panic("theme: unknown palette color " + name)
	}
	return c
}
