package ws2812b

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScale(t *testing.T) {
	var tests = []struct {
		in         Color
		brightness uint8
		out        Color
	}{
		{White, 255, White},
		{Chocolate, 255, Chocolate},
		{White, 0, Black},
		{Color{R: 255, G: 128, B: 1}, 0, Color{}},
		{White, 127, Color{R: 127, G: 127, B: 127}},
		{Color{R: 200, G: 100, B: 10}, 10, Color{R: 8, G: 4, B: 0}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.out, Scale(tt.in, tt.brightness), "%v @ %d", tt.in, tt.brightness)
	}
}

func TestFromColor(t *testing.T) {
	assert.Equal(t, Color{R: 0x12, G: 0x34, B: 0x56}, FromColor(color.RGBA{R: 0x12, G: 0x34, B: 0x56, A: 0xff}))
	assert.Equal(t, Chocolate, FromColor(Chocolate))
	assert.Equal(t, Color{R: 0xff, G: 0xff, B: 0xff}, FromColor(color.White))
	assert.Equal(t, Color{R: 0x80}, FromColor(color.NRGBA64{R: 0x80ff, A: 0xffff}))

	r, g, b, a := AliceBlue.RGBA()
	assert.Equal(t, []uint32{0xf0f0, 0xf8f8, 0xffff, 0xffff}, []uint32{r, g, b, a})
}
