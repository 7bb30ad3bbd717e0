package attrs

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is a packed 32-bit color in ARGB order.
type Color uint32

// RGB creates a fully opaque color from red, green, and blue components.
func RGB(r, g, b uint8) Color {
	return RGBA(r, g, b, 0xFF)
}

// RGBA creates a color from red, green, blue, and alpha components.
func RGBA(r, g, b, a uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// R returns the red component.
func (c Color) R() uint8 {
	return uint8((c & 0x00FF0000) >> 16)
}

// G returns the green component.
func (c Color) G() uint8 {
	return uint8((c & 0x0000FF00) >> 8)
}

// B returns the blue component.
func (c Color) B() uint8 {
	return uint8(c & 0x000000FF)
}

// A returns the alpha component.
func (c Color) A() uint8 {
	return uint8((c & 0xFF000000) >> 24)
}

// WithAlpha returns the same color with the alpha component replaced.
func (c Color) WithAlpha(a uint8) Color {
	return RGBA(c.R(), c.G(), c.B(), a)
}

// Hex returns the color as a "#rrggbb" string. Alpha is not represented.
func (c Color) Hex() string {
	return colorful.Color{
		R: float64(c.R()) / 255.0,
		G: float64(c.G()) / 255.0,
		B: float64(c.B()) / 255.0,
	}.Hex()
}

// ParseHex parses a "#rrggbb" or "#rgb" string into a fully opaque color.
func ParseHex(s string) (Color, error) {
	cf, err := colorful.Hex(s)
	if err != nil {
		return 0, fmt.Errorf("parse hex color %q: %w", s, err)
	}
	r, g, b := cf.RGB255()
	return RGB(r, g, b), nil
}

// String returns the hex form of the color.
func (c Color) String() string {
	return c.Hex()
}
