package ws2812b

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrip(t *testing.T) {
	d, ch := newTestDevice(t)
	s, err := NewStrip(d, 4)
	require.NoError(t, err)

	x, y := s.Size()
	assert.Equal(t, int16(4), x)
	assert.Equal(t, int16(1), y)

	s.Fill(Olive)
	s.SetPixel(1, 0, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	s.SetPixel(4, 0, color.RGBA{R: 9})  // out of range
	s.SetPixel(0, 1, color.RGBA{R: 9})  // second row does not exist
	s.SetPixel(-1, 0, color.RGBA{R: 9}) // negative
	assert.Equal(t, Color{R: 1, G: 2, B: 3}, s.Pixel(1))

	require.NoError(t, s.Display())
	got, err := d.Encoder().Decode(ch.Last())
	require.NoError(t, err)
	assert.Equal(t, []Color{Olive, {R: 1, G: 2, B: 3}, Olive, Olive}, got)

	s.Brightness = 0
	require.NoError(t, s.Display())
	got, err = d.Encoder().Decode(ch.Last())
	require.NoError(t, err)
	assert.Equal(t, make([]Color, 4), got)

	_, err = NewStrip(d, Capacity)
	assert.Equal(t, ErrTooManyLEDs, err)
}
