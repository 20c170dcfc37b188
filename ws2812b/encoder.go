package ws2812b

import (
	"errors"

	"github.com/tinygo-org/ws2812b/pulse"
)

// PacketLen is the number of codes that carry one LED's color.
const PacketLen = 24

// Nominal pulse widths from the WS2812B datasheet, in nanoseconds.
const (
	t1h = 800
	t1l = 450
	t0h = 400
	t0l = 850
)

var ErrMalformedFrame = errors.New("ws2812b: malformed frame")

// Packet is the pulse train for one LED: green, red then blue, each byte
// most significant bit first.
type Packet [PacketLen]pulse.Code

// referenceTickPicos is the 50ns tick of an 80MHz source divided by 4.
// NewEncoder uses it when the config carries no tick rate.
const referenceTickPicos = 50000

// Encoder maps bits to pulse codes for one tick rate.
type Encoder struct {
	one  pulse.Code
	zero pulse.Code
}

// NewEncoder returns the encoder for the tick rate of cfg. With a 50ns tick
// a one is 16 high / 9 low ticks and a zero 8 high / 17 low ticks. A zero
// TxConfig encodes for the 50ns tick.
func NewEncoder(cfg pulse.TxConfig) Encoder {
	tick := cfg.TickPicos()
	if tick <= 0 {
		tick = referenceTickPicos
	}
	return Encoder{
		one:  pulse.NewCode(pulse.High, ticks(t1h, tick), pulse.Low, ticks(t1l, tick)),
		zero: pulse.NewCode(pulse.High, ticks(t0h, tick), pulse.Low, ticks(t0l, tick)),
	}
}

func ticks(ns, tickPicos int64) uint16 {
	n := (ns*1000 + tickPicos/2) / tickPicos
	switch {
	case n < 1:
		return 1
	case n > pulse.MaxDuration:
		return pulse.MaxDuration
	}
	return uint16(n)
}

// One returns the code for a logical one.
func (e Encoder) One() pulse.Code { return e.one }

// Zero returns the code for a logical zero.
func (e Encoder) Zero() pulse.Code { return e.zero }

// Bit returns the code for bit.
func (e Encoder) Bit(bit bool) pulse.Code {
	if bit {
		return e.one
	}
	return e.zero
}

// Packet encodes c.
func (e Encoder) Packet(c Color) (p Packet) {
	i := 0
	for _, b := range [3]uint8{c.G, c.R, c.B} {
		for bit := 7; bit >= 0; bit-- {
			p[i] = e.Bit(b>>bit&1 == 1)
			i++
		}
	}
	return p
}

// FrameLen returns the number of codes in a frame for count LEDs.
func FrameLen(count int) int { return count*PacketLen + 1 }

// AppendFrame appends count copies of p followed by the end marker to dst.
// It returns ErrTooManyLEDs without touching dst when count is out of range.
func (e Encoder) AppendFrame(dst []pulse.Code, p *Packet, count int) ([]pulse.Code, error) {
	if err := checkCount(count); err != nil {
		return dst, err
	}
	for i := 0; i < count; i++ {
		dst = append(dst, p[:]...)
	}
	return append(dst, pulse.End), nil
}

// AppendColors appends one packet per color followed by the end marker.
func (e Encoder) AppendColors(dst []pulse.Code, colors []Color) ([]pulse.Code, error) {
	if err := checkCount(len(colors)); err != nil {
		return dst, err
	}
	for _, c := range colors {
		p := e.Packet(c)
		dst = append(dst, p[:]...)
	}
	return append(dst, pulse.End), nil
}

// Decode recovers the colors carried by frame. Each code is read as a one
// when its high phase is closer to the one timing than to the zero timing.
// Decoding stops at the first end marker.
func (e Encoder) Decode(frame []pulse.Code) ([]Color, error) {
	threshold := int(e.one.Length1()) + int(e.zero.Length1())
	var colors []Color
	var cur [3]uint8
	n := 0
	for _, c := range frame {
		if c.IsEnd() {
			break
		}
		if c.Level1() != pulse.High {
			return colors, ErrMalformedFrame
		}
		cur[n/8] <<= 1
		if 2*int(c.Length1()) > threshold {
			cur[n/8] |= 1
		}
		n++
		if n == PacketLen {
			colors = append(colors, Color{G: cur[0], R: cur[1], B: cur[2]})
			cur, n = [3]uint8{}, 0
		}
	}
	if n != 0 {
		return colors, ErrMalformedFrame
	}
	return colors, nil
}

func checkCount(count int) error {
	if count < 0 || count >= Capacity-1 {
		return ErrTooManyLEDs
	}
	return nil
}
