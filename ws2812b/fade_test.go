package ws2812b

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinygo-org/ws2812b/pulse"
	"github.com/tinygo-org/ws2812b/pulse/pulsetest"
)

func TestRampValue(t *testing.T) {
	assert.Equal(t, uint8(0), rampValue(0))
	assert.Equal(t, uint8(254), rampValue(254))
	assert.Equal(t, uint8(254), rampValue(255))
	assert.Equal(t, uint8(0), rampValue(fadeSteps-1))
}

func TestFade(t *testing.T) {
	p := &pulsetest.Peripheral{}
	var sleeps []time.Duration
	d, err := New(p, Config{FreqMHz: 80, Sleep: func(d time.Duration) { sleeps = append(sleeps, d) }})
	require.NoError(t, err)

	var seen []Color
	p.Channel.OnFrame = func(frame []pulse.Code) {
		colors, err := d.Encoder().Decode(frame)
		require.NoError(t, err)
		require.Len(t, colors, 1)
		seen = append(seen, colors[0])
	}

	target := Color{B: 255}
	require.NoError(t, d.Fade(target, 1))
	require.Len(t, seen, 3*fadeSteps)
	require.Len(t, sleeps, 3*fadeSteps)
	for _, s := range sleeps {
		assert.Equal(t, DefaultFadeStep, s)
	}

	// Each frame shows the value set by the previous step, so the first
	// frame is the untouched target. Blue ramps first, then green, then red.
	assert.Equal(t, target, seen[0])
	assert.Equal(t, Color{B: 0}, seen[1])
	assert.Equal(t, Color{B: 253}, seen[254])
	assert.Equal(t, Color{B: 254}, seen[255])
	assert.Equal(t, Color{B: 254}, seen[256])
	assert.Equal(t, Color{B: 1}, seen[fadeSteps-1])
	assert.Equal(t, Color{B: 0}, seen[fadeSteps])
	assert.Equal(t, Color{G: 99}, seen[fadeSteps+100])
	assert.Equal(t, Color{}, seen[2*fadeSteps])
	assert.Equal(t, Color{R: 0}, seen[2*fadeSteps+1])
	assert.Equal(t, Color{R: 1}, seen[2*fadeSteps+2])
	assert.Equal(t, Color{R: 1}, seen[3*fadeSteps-1])
}

func TestFadeKeepsOtherChannels(t *testing.T) {
	d, ch := newTestDevice(t)
	require.NoError(t, d.Fade(Color{R: 10, G: 20, B: 30}, 2))
	colors, err := d.Encoder().Decode(ch.Frames[3])
	require.NoError(t, err)
	assert.Equal(t, []Color{{R: 10, G: 20, B: 2}, {R: 10, G: 20, B: 2}}, colors)

	colors, err = d.Encoder().Decode(ch.Frames[0])
	require.NoError(t, err)
	assert.Equal(t, []Color{{R: 10, G: 20, B: 30}, {R: 10, G: 20, B: 30}}, colors)
}

func TestFadeAbortsOnError(t *testing.T) {
	for _, at := range []int{0, 600, 3*fadeSteps - 1} {
		d, ch := newTestDevice(t)
		ch.WaitErr = pulsetest.FailAt(at, errHW)
		err := d.Fade(Blue, 1)
		assert.ErrorIs(t, err, errHW)
		assert.Equal(t, at+1, ch.Transmissions(), "fade must stop at the first failure")
	}
}

func TestFadeCapacity(t *testing.T) {
	d, ch := newTestDevice(t)
	assert.Equal(t, ErrTooManyLEDs, d.Fade(Blue, Capacity))
	assert.Zero(t, ch.Transmissions())
}
