package ws2812b

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinygo-org/ws2812b/pulse"
)

func encoderAt(t *testing.T, freqMHz uint32) Encoder {
	t.Helper()
	cfg, err := pulse.NewTxConfig(freqMHz)
	require.NoError(t, err)
	return NewEncoder(cfg)
}

func TestEncoderReferenceTimings(t *testing.T) {
	e := encoderAt(t, 80)
	assert.Equal(t, pulse.NewCode(pulse.High, 16, pulse.Low, 9), e.One())
	assert.Equal(t, pulse.NewCode(pulse.High, 8, pulse.Low, 17), e.Zero())
	assert.Equal(t, e.One(), e.Bit(true))
	assert.Equal(t, e.Zero(), e.Bit(false))
}

func TestEncoderZeroConfig(t *testing.T) {
	e := NewEncoder(pulse.TxConfig{})
	assert.Equal(t, encoderAt(t, 80), e)
	assert.Greater(t, e.One().Length1(), e.Zero().Length1())
	assert.Less(t, e.One().Length2(), e.Zero().Length2())
}

func TestEncoderOrderingAllRates(t *testing.T) {
	for freq := uint32(20); freq <= 5100; freq++ {
		e := encoderAt(t, freq)
		one, zero := e.One(), e.Zero()
		if one.Length1() <= zero.Length1() || one.Length2() >= zero.Length2() {
			t.Fatalf("%dMHz: one=%d/%d zero=%d/%d", freq,
				one.Length1(), one.Length2(), zero.Length1(), zero.Length2())
		}
		if one.IsEnd() || zero.IsEnd() {
			t.Fatalf("%dMHz: bit encoded as end marker", freq)
		}
	}
}

func TestPacketBitOrder(t *testing.T) {
	e := encoderAt(t, 80)
	p := e.Packet(Color{R: 0x01, G: 0x80, B: 0x0f})
	expect := "10000000" + "00000001" + "00001111"
	for i, code := range p {
		want := e.Zero()
		if expect[i] == '1' {
			want = e.One()
		}
		assert.Equal(t, want, code, "bit %d", i)
	}
}

func TestPacketRoundTrip(t *testing.T) {
	e := encoderAt(t, 80)
	for _, c := range []Color{Black, White, Red, Green, Blue, AliceBlue, Chocolate, {R: 1, G: 2, B: 3}} {
		p := e.Packet(c)
		frame, err := e.AppendFrame(nil, &p, 1)
		require.NoError(t, err)
		got, err := e.Decode(frame)
		require.NoError(t, err)
		assert.Equal(t, []Color{c}, got)
	}
}

func TestFrameLayout(t *testing.T) {
	e := encoderAt(t, 80)
	p := e.Packet(Chocolate)
	for _, count := range []int{0, 1, 2, 17, MaxLEDs} {
		frame, err := e.AppendFrame(nil, &p, count)
		require.NoError(t, err)
		require.Len(t, frame, FrameLen(count))
		assert.Equal(t, count*PacketLen+1, len(frame))
		assert.Equal(t, pulse.End, frame[count*PacketLen])
		for i := 0; i < count*PacketLen; i++ {
			if frame[i] != p[i%PacketLen] {
				t.Fatalf("count %d: code %d differs from packet", count, i)
			}
		}
	}
}

func TestFrameCapacity(t *testing.T) {
	e := encoderAt(t, 80)
	p := e.Packet(Red)
	for _, count := range []int{Capacity - 1, Capacity, Capacity + 1, -1} {
		dst := []pulse.Code{pulse.End}
		out, err := e.AppendFrame(dst, &p, count)
		assert.Equal(t, ErrTooManyLEDs, err, "count %d", count)
		assert.Equal(t, dst, out)
	}
	_, err := e.AppendColors(nil, make([]Color, Capacity-1))
	assert.Equal(t, ErrTooManyLEDs, err)
}

func TestAppendColors(t *testing.T) {
	e := encoderAt(t, 80)
	colors := []Color{Red, Green, Blue, Olive}
	frame, err := e.AppendColors(nil, colors)
	require.NoError(t, err)
	require.Len(t, frame, FrameLen(len(colors)))
	got, err := e.Decode(frame)
	require.NoError(t, err)
	assert.Equal(t, colors, got)
}

func TestDecodeMalformed(t *testing.T) {
	e := encoderAt(t, 80)
	_, err := e.Decode([]pulse.Code{e.One(), e.Zero(), pulse.End})
	assert.Equal(t, ErrMalformedFrame, err)
	_, err = e.Decode([]pulse.Code{pulse.NewCode(pulse.Low, 9, pulse.High, 16), pulse.End})
	assert.Equal(t, ErrMalformedFrame, err)
	got, err := e.Decode([]pulse.Code{pulse.End})
	assert.NoError(t, err)
	assert.Empty(t, got)
}
