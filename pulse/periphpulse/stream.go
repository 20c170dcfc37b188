package periphpulse

import (
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiostream"
	"periph.io/x/conn/v3/physic"

	"github.com/tinygo-org/ws2812b/pulse"
)

// StreamPin is a GPIO output able to stream a bitstream.
type StreamPin interface {
	gpio.PinOut
	StreamOut(s gpiostream.Stream) error
}

// Stream is a pulse peripheral driving a single streaming GPIO pin.
type Stream struct {
	pin   StreamPin
	log   zerolog.Logger
	reset time.Duration
}

// NewStream returns a peripheral emitting on pin. reset is the low time
// appended to every frame so that the LEDs latch; 0 selects DefaultReset.
func NewStream(pin StreamPin, reset time.Duration, log zerolog.Logger) *Stream {
	if reset <= 0 {
		reset = DefaultReset
	}
	return &Stream{pin: pin, log: log, reset: reset}
}

// ConfigureTx implements pulse.Peripheral.
func (s *Stream) ConfigureTx(cfg pulse.TxConfig) (pulse.Channel, error) {
	tick := cfg.Tick()
	if tick <= 0 {
		return nil, errors.Errorf("periphpulse: invalid tick rate for %s", s.pin)
	}
	if err := s.pin.Out(gpio.Level(cfg.IdleLevel)); err != nil {
		return nil, errors.Wrapf(err, "periphpulse: drive %s %s", s.pin, cfg.IdleLevel)
	}
	s.log.Debug().
		Str("pin", s.pin.String()).
		Str("tick", tick.String()).
		Str("idle", cfg.IdleLevel.String()).
		Msg("configured stream channel")
	return &streamChannel{
		channel: channel{log: s.log},
		pin:     s.pin,
		freq:    tick,
		reset:   resetBytes(s.reset, tick),
	}, nil
}

type streamChannel struct {
	channel
	pin   StreamPin
	freq  physic.Frequency
	reset int
}

// Transmit implements pulse.Channel.
func (c *streamChannel) Transmit(codes []pulse.Code) (pulse.Transaction, error) {
	bits, err := c.begin(codes, c.reset)
	if err != nil {
		return nil, err
	}
	stream := &gpiostream.BitStream{Bits: bits, Freq: c.freq}
	return c.start(func() error {
		if err := c.pin.StreamOut(stream); err != nil {
			return errors.Wrapf(err, "periphpulse: stream %d bytes on %s", len(bits), c.pin)
		}
		return nil
	}), nil
}
