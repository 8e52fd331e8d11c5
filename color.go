package grid

import "image/color"

// RGB represents an opaque cell color with red, green, and blue components.
// Each component is in the range [0, 1]. Cell colors are always opaque;
// transparency in the console model comes from sparse cells being absent,
// not from an alpha channel.
type RGB struct {
	R, G, B float32
}

// Named colors used throughout the examples and tests.
var (
	Black   = RGB{0, 0, 0}
	White   = RGB{1, 1, 1}
	Red     = RGB{1, 0, 0}
	Green   = RGB{0, 1, 0}
	Blue    = RGB{0, 0, 1}
	Yellow  = RGB{1, 1, 0}
	Cyan    = RGB{0, 1, 1}
	Magenta = RGB{1, 0, 1}
	Gray    = RGB{0.5, 0.5, 0.5}
)

// RGBu8 creates an RGB from 8-bit components.
func RGBu8(r, g, b uint8) RGB {
	return RGB{
		R: float32(r) / 255,
		G: float32(g) / 255,
		B: float32(b) / 255,
	}
}

// FromColor converts a standard color.Color to RGB, discarding alpha.
func FromColor(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	return RGB{
		R: float32(r) / 65535,
		G: float32(g) / 65535,
		B: float32(b) / 65535,
	}
}

// Color converts RGB to the standard color.Color interface.
func (c RGB) Color() color.Color {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: 255,
	}
}

// Lerp blends c toward target by t in [0, 1]. Used by the screen-burn
// post effect, which accumulates toward the burn color each composite.
func (c RGB) Lerp(target RGB, t float32) RGB {
	return RGB{
		R: c.R + (target.R-c.R)*t,
		G: c.G + (target.G-c.G)*t,
		B: c.B + (target.B-c.B)*t,
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
