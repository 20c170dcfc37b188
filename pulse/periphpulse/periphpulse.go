// Package periphpulse implements pulse peripherals on top of periph.io
// hosts.
//
// Frames are rasterised at the channel tick rate, one bit per tick, and
// sent either through a GPIO pin able to stream bits (gpiostream.PinOut) or
// through the MOSI line of an SPI port clocked at the tick rate.
package periphpulse

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/tinygo-org/ws2812b/pulse"
)

var maskAny = errors.WithStack

// channel holds what both backends share: the in-flight guard and the
// raster buffer.
type channel struct {
	mu       sync.Mutex
	inFlight bool
	raster   []byte
	log      zerolog.Logger
}

// begin validates codes, marks the channel busy and rasterises codes with
// reset trailing low bytes.
func (c *channel) begin(codes []pulse.Code, reset int) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		return nil, pulse.ErrBusy
	}
	if err := pulse.Validate(codes); err != nil {
		return nil, maskAny(err)
	}
	c.inFlight = true
	c.raster = pulse.Raster(c.raster[:0], codes)
	for i := 0; i < reset; i++ {
		c.raster = append(c.raster, 0)
	}
	return c.raster, nil
}

func (c *channel) start(send func() error) pulse.Transaction {
	c.log.Trace().Int("bytes", len(c.raster)).Msg("transmit")
	t := &transaction{ch: c, done: make(chan error, 1)}
	go func() { t.done <- send() }()
	return t
}

type transaction struct {
	ch   *channel
	done chan error
	once sync.Once
	err  error
}

func (t *transaction) Wait() error {
	t.once.Do(func() {
		t.err = <-t.done
		if t.err != nil {
			t.ch.log.Debug().Err(t.err).Msg("transmission failed")
		}
		t.ch.mu.Lock()
		t.ch.inFlight = false
		t.ch.mu.Unlock()
	})
	return t.err
}
