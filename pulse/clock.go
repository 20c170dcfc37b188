package pulse

import (
	"errors"
	"math"

	"periph.io/x/conn/v3/physic"
)

var (
	ErrClockTooSlow = errors.New("pulse: source clock too slow for a 50ns tick")
	ErrClockTooFast = errors.New("pulse: source clock too fast for an 8-bit divider")
)

// TickDivider returns the clock divider that brings a source clock of
// freqMHz close to a 50ns tick: (freqMHz*5)/100.
func TickDivider(freqMHz uint32) (uint8, error) {
	div := uint64(freqMHz) * 5 / 100
	if div == 0 {
		return 0, ErrClockTooSlow
	} else if div > math.MaxUint8 {
		return 0, ErrClockTooFast
	}
	return uint8(div), nil
}

// TxConfig configures a transmit channel.
type TxConfig struct {
	// Source is the peripheral source clock.
	Source physic.Frequency
	// Divider divides Source down to the tick rate.
	Divider uint8
	// IdleLevel is the level the output is driven to outside transmissions.
	IdleLevel Level
}

// NewTxConfig returns the configuration for a source clock of freqMHz with
// the divider chosen by TickDivider and the output idling high.
func NewTxConfig(freqMHz uint32) (TxConfig, error) {
	div, err := TickDivider(freqMHz)
	if err != nil {
		return TxConfig{}, err
	}
	return TxConfig{
		Source:    physic.Frequency(freqMHz) * physic.MegaHertz,
		Divider:   div,
		IdleLevel: High,
	}, nil
}

// Tick returns the tick rate of the channel.
func (cfg TxConfig) Tick() physic.Frequency {
	if cfg.Divider == 0 {
		return cfg.Source
	}
	return cfg.Source / physic.Frequency(cfg.Divider)
}

// TickPicos returns the tick period in picoseconds, or 0 for an
// unconfigured clock.
func (cfg TxConfig) TickPicos() int64 {
	f := int64(cfg.Tick())
	if f <= 0 {
		return 0
	}
	// physic.Frequency counts micro-hertz.
	return 1e18 / f
}
