// Package ws2812b drives WS2812B addressable RGB LEDs, also known as
// NeoPixels, over a pulse-train peripheral.
//
// Every transmitting call encodes a frame into a buffer owned by the
// Device, hands it to the peripheral channel and blocks until the pulse
// train has been emitted.
//
// https://cdn-shop.adafruit.com/datasheets/WS2812B.pdf
package ws2812b

import (
	"errors"
	"sync"
	"time"

	"github.com/tinygo-org/ws2812b/pulse"
)

const (
	// Capacity is the size of the transmit buffer, in LEDs.
	Capacity = 256
	// MaxLEDs is the largest LED count a frame may address. Counts of
	// Capacity-1 and above are rejected.
	MaxLEDs = Capacity - 2

	// DefaultFadeStep is the delay between two steps of Fade.
	DefaultFadeStep = 5 * time.Millisecond
)

var ErrTooManyLEDs = errors.New("ws2812b: LED count out of range")

// ConfigError is returned by New when the peripheral cannot be configured.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return "ws2812b: configure: " + e.Err.Error() }

func (e *ConfigError) Unwrap() error { return e.Err }

// TxError is a failure reported by the peripheral while transmitting.
type TxError struct {
	// Op is "transmit" when the transmission could not start and "wait" when
	// it failed while in flight.
	Op  string
	Err error
}

func (e *TxError) Error() string { return "ws2812b: " + e.Op + ": " + e.Err.Error() }

func (e *TxError) Unwrap() error { return e.Err }

// Config holds the Device settings.
type Config struct {
	// FreqMHz is the peripheral source clock in MHz.
	FreqMHz uint32
	// FadeStep is the delay between two steps of Fade. Defaults to
	// DefaultFadeStep.
	FadeStep time.Duration
	// Sleep is used by Fade to wait between steps. Defaults to time.Sleep.
	Sleep func(time.Duration)
}

// Device is a WS2812B strip attached to a pulse channel. The channel is
// owned by the Device; concurrent calls are serialized and never overlap
// on the channel.
type Device struct {
	mu    sync.Mutex
	ch    pulse.Channel
	enc   Encoder
	cfg   Config
	buf   []pulse.Code
	frame []pulse.Code
}

// New configures the transmit channel of p for cfg.FreqMHz with the output
// idling high and returns a Device owning it.
func New(p pulse.Peripheral, cfg Config) (*Device, error) {
	txcfg, err := pulse.NewTxConfig(cfg.FreqMHz)
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	ch, err := p.ConfigureTx(txcfg)
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	if cfg.FadeStep == 0 {
		cfg.FadeStep = DefaultFadeStep
	}
	if cfg.Sleep == nil {
		cfg.Sleep = time.Sleep
	}
	return &Device{
		ch:  ch,
		enc: NewEncoder(txcfg),
		cfg: cfg,
		buf: make([]pulse.Code, 0, Capacity*PacketLen),
	}, nil
}

// Encoder returns the encoder used by d.
func (d *Device) Encoder() Encoder { return d.enc }

// Send scales c by brightness and writes it to the first count LEDs.
func (d *Device) Send(c Color, brightness uint8, count int) error {
	return d.Write(Scale(c, brightness), count)
}

// Write sets the first count LEDs to c.
func (d *Device) Write(c Color, count int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	p := d.enc.Packet(c)
	frame, err := d.enc.AppendFrame(d.buf[:0], &p, count)
	if err != nil {
		return err
	}
	return d.dispatch(frame)
}

// SendColors scales every color by brightness and writes them to
// consecutive LEDs.
func (d *Device) SendColors(colors []Color, brightness uint8) error {
	if brightness == 255 {
		return d.WriteColors(colors)
	}
	scaled := make([]Color, len(colors))
	for i, c := range colors {
		scaled[i] = Scale(c, brightness)
	}
	return d.WriteColors(scaled)
}

// WriteColors sets LED i to colors[i].
func (d *Device) WriteColors(colors []Color) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	frame, err := d.enc.AppendColors(d.buf[:0], colors)
	if err != nil {
		return err
	}
	return d.dispatch(frame)
}

// Frame returns a copy of the last frame handed to the channel.
func (d *Device) Frame() []pulse.Code {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]pulse.Code(nil), d.frame...)
}

// dispatch transmits frame and blocks until the channel is done with it.
// d.mu must be held.
func (d *Device) dispatch(frame []pulse.Code) error {
	d.frame = frame
	tx, err := d.ch.Transmit(frame)
	if err != nil {
		return &TxError{Op: "transmit", Err: err}
	}
	if err := tx.Wait(); err != nil {
		return &TxError{Op: "wait", Err: err}
	}
	return nil
}
