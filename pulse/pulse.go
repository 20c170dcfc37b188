// Package pulse models a pulse-train peripheral: a hardware unit that emits
// a precisely timed sequence of high and low levels on one output pin.
//
// A transmission is a slice of [Code] values, each holding two
// (level, duration) phases measured in ticks of the channel clock. The
// layout of a Code matches the RMT peripheral found on ESP32 parts so that
// frames can be handed to such hardware without conversion.
package pulse

// Level is the logic level of an output phase.
type Level bool

const (
	Low  Level = false
	High Level = true
)

func (l Level) String() string {
	if l {
		return "High"
	}
	return "Low"
}

// MaxDuration is the longest phase a single Code can hold, in ticks.
const MaxDuration = 1<<15 - 1

const (
	durationMask = MaxDuration
	levelBit     = 1 << 15
)

// Code is one timing symbol: a first phase (level1, length1) followed by a
// second phase (level2, length2). Bits 0-14 hold length1, bit 15 level1,
// bits 16-30 length2 and bit 31 level2.
//
// A Code with a zero length in either phase marks the end of a
// transmission.
type Code uint32

// End is the empty code that terminates a frame.
const End Code = 0

// NewCode packs two phases into a Code. Lengths are truncated to
// MaxDuration.
func NewCode(level1 Level, length1 uint16, level2 Level, length2 uint16) Code {
	return Code(encodeHalf(level1, length1)) | Code(encodeHalf(level2, length2))<<16
}

func encodeHalf(l Level, length uint16) uint32 {
	v := uint32(length) & durationMask
	if l {
		v |= levelBit
	}
	return v
}

// Level1 returns the level of the first phase.
func (c Code) Level1() Level { return c&levelBit != 0 }

// Length1 returns the length of the first phase in ticks.
func (c Code) Length1() uint16 { return uint16(c & durationMask) }

// Level2 returns the level of the second phase.
func (c Code) Level2() Level { return (c>>16)&levelBit != 0 }

// Length2 returns the length of the second phase in ticks.
func (c Code) Length2() uint16 { return uint16((c >> 16) & durationMask) }

// Ticks returns the total length of both phases.
func (c Code) Ticks() int { return int(c.Length1()) + int(c.Length2()) }

// IsEnd reports whether c terminates a transmission.
func (c Code) IsEnd() bool { return c.Length1() == 0 || c.Length2() == 0 }
