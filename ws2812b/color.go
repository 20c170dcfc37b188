package ws2812b

import "image/color"

// Color is an 8-bit per channel RGB value.
type Color struct {
	R, G, B uint8
}

// RGBA implements color.Color. Colors are always opaque.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	return r, g, b, 0xffff
}

// FromColor converts any color.Color, keeping the high byte of each channel.
func FromColor(c color.Color) Color {
	if rgb, ok := c.(Color); ok {
		return rgb
	}
	r16, g16, b16, _ := c.RGBA()
	return Color{R: uint8(r16 >> 8), G: uint8(g16 >> 8), B: uint8(b16 >> 8)}
}

// Scale applies brightness to every channel as channel*(brightness+1)/256,
// truncating. A brightness of 255 leaves c unchanged.
func Scale(c Color, brightness uint8) Color {
	return Color{
		R: scale(c.R, brightness),
		G: scale(c.G, brightness),
		B: scale(c.B, brightness),
	}
}

func scale(v, brightness uint8) uint8 {
	return uint8(uint16(v) * (uint16(brightness) + 1) / 256)
}

// A few named colors.
var (
	Black     = Color{}
	White     = Color{R: 0xff, G: 0xff, B: 0xff}
	Red       = Color{R: 0xff}
	Green     = Color{G: 0xff}
	Blue      = Color{B: 0xff}
	AliceBlue = Color{R: 0xf0, G: 0xf8, B: 0xff}
	Chocolate = Color{R: 0xd2, G: 0x69, B: 0x1e}
	Olive     = Color{R: 0x80, G: 0x80}
)
