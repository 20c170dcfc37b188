package periphpulse

import (
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"github.com/tinygo-org/ws2812b/pulse"
)

// DefaultReset is the latch time appended to every frame. The datasheet
// asks for more than 50µs; newer parts need 280µs.
const DefaultReset = 300 * time.Microsecond

// SPI is a pulse peripheral using the MOSI line of an SPI port. The port is
// connected at the channel tick rate, so one SPI bit lasts one tick.
//
// MOSI idles low between transfers whatever the configured idle level.
type SPI struct {
	port  spi.Port
	log   zerolog.Logger
	reset time.Duration
}

// NewSPI returns a peripheral emitting on the MOSI line of port. reset is
// the low time appended to every frame; 0 selects DefaultReset.
func NewSPI(port spi.Port, reset time.Duration, log zerolog.Logger) *SPI {
	if reset <= 0 {
		reset = DefaultReset
	}
	return &SPI{port: port, log: log, reset: reset}
}

// ConfigureTx implements pulse.Peripheral.
func (s *SPI) ConfigureTx(cfg pulse.TxConfig) (pulse.Channel, error) {
	tick := cfg.Tick()
	if tick <= 0 {
		return nil, errors.Errorf("periphpulse: invalid tick rate for %s", s.port)
	}
	c, err := s.port.Connect(tick, spi.Mode0, 8)
	if err != nil {
		return nil, errors.Wrapf(err, "periphpulse: connect %s at %s", s.port, tick)
	}
	maxTx := 0
	if l, ok := c.(conn.Limits); ok {
		maxTx = l.MaxTxSize()
	}
	s.log.Debug().
		Str("port", s.port.String()).
		Str("tick", tick.String()).
		Int("max-tx", maxTx).
		Msg("configured SPI channel")
	return &spiChannel{
		channel: channel{log: s.log},
		conn:    c,
		maxTx:   maxTx,
		reset:   resetBytes(s.reset, tick),
	}, nil
}

type spiChannel struct {
	channel
	conn  spi.Conn
	maxTx int
	reset int
}

// Transmit implements pulse.Channel.
func (c *spiChannel) Transmit(codes []pulse.Code) (pulse.Transaction, error) {
	bits, err := c.begin(codes, c.reset)
	if err != nil {
		return nil, err
	}
	return c.start(func() error {
		if err := c.send(bits); err != nil {
			return errors.Wrapf(err, "periphpulse: write %d bytes on %s", len(bits), c.conn)
		}
		return nil
	}), nil
}

// send writes b in one transfer, or as a single multi-packet transfer when
// b exceeds the port's transfer limit.
func (c *spiChannel) send(b []byte) error {
	if c.maxTx <= 0 || len(b) <= c.maxTx {
		return c.conn.Tx(b, nil)
	}
	var pkts []spi.Packet
	for len(b) > 0 {
		n := c.maxTx
		if n > len(b) {
			n = len(b)
		}
		pkts = append(pkts, spi.Packet{W: b[:n], KeepCS: true})
		b = b[n:]
	}
	pkts[len(pkts)-1].KeepCS = false
	return c.conn.TxPackets(pkts)
}

// resetBytes returns how many low bytes last at least d at tick.
func resetBytes(d time.Duration, tick physic.Frequency) int {
	hz := int64(tick / physic.Hertz)
	ticks := (int64(d)*hz + int64(time.Second) - 1) / int64(time.Second)
	return int((ticks + 7) / 8)
}
