package ws2812b

import (
	"image/color"

	"tinygo.org/x/drivers"
)

// Strip buffers one color per LED and exposes the strip as a one row
// drivers.Displayer.
type Strip struct {
	dev    *Device
	pixels []Color
	// Brightness is applied by Display. Defaults to 255.
	Brightness uint8
}

var _ drivers.Displayer = (*Strip)(nil)

// NewStrip returns a Strip of n LEDs driven by dev.
func NewStrip(dev *Device, n int) (*Strip, error) {
	if err := checkCount(n); err != nil {
		return nil, err
	}
	return &Strip{dev: dev, pixels: make([]Color, n), Brightness: 255}, nil
}

// Size returns the number of LEDs and a height of 1.
func (s *Strip) Size() (x, y int16) {
	return int16(len(s.pixels)), 1
}

// SetPixel sets LED x. Pixels outside the strip are ignored.
func (s *Strip) SetPixel(x, y int16, c color.RGBA) {
	if y != 0 || x < 0 || int(x) >= len(s.pixels) {
		return
	}
	s.pixels[x] = Color{R: c.R, G: c.G, B: c.B}
}

// Pixel returns the buffered color of LED i.
func (s *Strip) Pixel(i int) Color { return s.pixels[i] }

// Fill sets every LED to c.
func (s *Strip) Fill(c Color) {
	for i := range s.pixels {
		s.pixels[i] = c
	}
}

// Display sends the buffered colors to the strip.
func (s *Strip) Display() error {
	return s.dev.SendColors(s.pixels, s.Brightness)
}
