// Package piopulse implements a pulse peripheral on an RP2040/RP2350 PIO
// state machine.
//
// Frames are rasterised at the channel tick rate and shifted out of a
// single pin by a one instruction program (out pins, 1) clocked at the tick
// rate, so every raster bit lasts exactly one tick.
package piopulse

import (
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/tinygo-org/ws2812b/pulse"
)

// DefaultTimeout bounds how long Wait waits for room in the TX FIFO.
const DefaultTimeout = 10 * time.Millisecond

// DefaultReset is the low time appended to every frame so that the LEDs
// latch.
const DefaultReset = 300 * time.Microsecond

var (
	ErrTimeout     = errors.New("piopulse:timeout")
	ErrInvalidTick = errors.New("piopulse:invalid tick rate")
)

// txFIFO is the TX side of a state machine.
type txFIFO interface {
	TxPut(data uint32)
	IsTxFIFOFull() bool
	IsTxFIFOEmpty() bool
	ClearFIFOs()
}

type channel struct {
	fifo    txFIFO
	reset   int // trailing zero words
	timeout time.Duration

	mu       sync.Mutex
	inFlight bool
	raster   []byte
	words    []uint32
}

func newChannel(fifo txFIFO, reset int, timeout time.Duration) *channel {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &channel{fifo: fifo, reset: reset, timeout: timeout}
}

// Transmit implements pulse.Channel. It queues as many words as the FIFO
// takes without waiting; Wait pushes the rest.
func (c *channel) Transmit(codes []pulse.Code) (pulse.Transaction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		return nil, pulse.ErrBusy
	}
	if err := pulse.Validate(codes); err != nil {
		return nil, err
	}
	c.raster = pulse.Raster(c.raster[:0], codes)
	c.words = packWords(c.words[:0], c.raster)
	for i := 0; i < c.reset; i++ {
		c.words = append(c.words, 0)
	}
	c.inFlight = true
	t := &transaction{ch: c, words: c.words}
	t.fill()
	return t, nil
}

type transaction struct {
	ch    *channel
	words []uint32
	done  bool
	err   error
}

func (t *transaction) fill() {
	for len(t.words) > 0 && !t.ch.fifo.IsTxFIFOFull() {
		t.ch.fifo.TxPut(t.words[0])
		t.words = t.words[1:]
	}
}

// Wait implements pulse.Transaction. It returns once the last word has
// left the FIFO, or ErrTimeout when the state machine stops taking words.
func (t *transaction) Wait() error {
	if t.done {
		return t.err
	}
	t.done = true
	dl := newDeadline(t.ch.timeout)
	for len(t.words) > 0 {
		if t.ch.fifo.IsTxFIFOFull() {
			if dl.expired() {
				t.err = ErrTimeout
				break
			}
			gosched()
			continue
		}
		t.ch.fifo.TxPut(t.words[0])
		t.words = t.words[1:]
		dl = newDeadline(t.ch.timeout)
	}
	for t.err == nil && !t.ch.fifo.IsTxFIFOEmpty() {
		if dl.expired() {
			t.err = ErrTimeout
			break
		}
		gosched()
	}
	if t.err != nil {
		t.ch.fifo.ClearFIFOs()
	}
	t.ch.mu.Lock()
	t.ch.inFlight = false
	t.ch.mu.Unlock()
	return t.err
}

// packWords packs raster into 32-bit words, first bit in the MSB, the
// order in which a left shifting OSR emits them. The last word is padded
// low.
func packWords(dst []uint32, raster []byte) []uint32 {
	for i := 0; i < len(raster); i += 4 {
		var w uint32
		for j := 0; j < 4; j++ {
			w <<= 8
			if i+j < len(raster) {
				w |= uint32(raster[i+j])
			}
		}
		dst = append(dst, w)
	}
	return dst
}

// resetWords returns the number of zero words that keep the line low for
// at least d at tickHz, and at least one.
func resetWords(d time.Duration, tickHz uint32) int {
	ticks := (int64(d)*int64(tickHz) + int64(time.Second) - 1) / int64(time.Second)
	n := int((ticks + 31) / 32)
	if n < 1 {
		n = 1
	}
	return n
}

func gosched() {
	runtime.Gosched()
}

type deadline struct {
	t time.Time
}

func newDeadline(timeout time.Duration) deadline {
	return deadline{t: time.Now().Add(timeout)}
}

func (dl deadline) expired() bool {
	return time.Since(dl.t) > 0
}
