//go:build rp2040 || rp2350

package piopulse

import (
	"machine"
	"time"

	pio "github.com/tinygo-org/pio/rp2-pio"
	"periph.io/x/conn/v3/physic"

	"github.com/tinygo-org/ws2812b/pulse"
)

// program shifts one OSR bit per cycle onto the out pin. Autopull refills
// the OSR from the TX FIFO every 32 bits and stalls, holding the pin, when
// the FIFO runs dry.
var program = []uint16{
	pio.EncodeOut(pio.SrcDestPins, 1),
}

// Peripheral is a pulse peripheral backed by one PIO state machine.
type Peripheral struct {
	sm    pio.StateMachine
	pin   machine.Pin
	reset time.Duration
	// Timeout bounds how long Wait waits for room in the TX FIFO.
	// 0 selects DefaultTimeout.
	Timeout time.Duration

	offset uint8
	loaded bool
}

// New returns a peripheral emitting on pin through sm. reset is the low
// time appended to every frame; 0 selects DefaultReset.
func New(sm pio.StateMachine, pin machine.Pin, reset time.Duration) *Peripheral {
	if reset <= 0 {
		reset = DefaultReset
	}
	return &Peripheral{sm: sm, pin: pin, reset: reset}
}

// ConfigureTx implements pulse.Peripheral. The state machine runs at the
// tick rate of cfg and the pin is driven to cfg.IdleLevel before the
// program starts.
func (p *Peripheral) ConfigureTx(cfg pulse.TxConfig) (pulse.Channel, error) {
	hz := uint32(cfg.Tick() / physic.Hertz)
	if hz == 0 {
		return nil, ErrInvalidTick
	}
	whole, frac, err := pio.ClkDivFromFrequency(hz, machine.CPUFrequency())
	if err != nil {
		return nil, err
	}
	sm := p.sm
	sm.TryClaim() // SM should be claimed beforehand, we just guarantee it's claimed.
	Pio := sm.PIO()
	if !p.loaded {
		offset, err := Pio.AddProgram(program, -1)
		if err != nil {
			return nil, err
		}
		p.offset, p.loaded = offset, true
	}
	sm.SetEnabled(false)
	p.pin.Configure(machine.PinConfig{Mode: Pio.PinMode()})
	sm.SetPinsConsecutive(p.pin, 1, cfg.IdleLevel == pulse.High)
	sm.SetPindirsConsecutive(p.pin, 1, true)

	smcfg := pio.DefaultStateMachineConfig()
	smcfg.SetOutPins(p.pin, 1)
	smcfg.SetSetPins(p.pin, 1)
	smcfg.SetWrap(p.offset, p.offset+uint8(len(program))-1)
	// We only use Tx FIFO, so we set the join to Tx.
	smcfg.SetFIFOJoin(pio.FifoJoinTx)
	smcfg.SetClkDivIntFrac(whole, frac)
	smcfg.SetOutShift(false, true, 32)
	sm.Init(p.offset, smcfg)
	sm.SetEnabled(true)
	return newChannel(sm, resetWords(p.reset, hz), p.Timeout), nil
}
