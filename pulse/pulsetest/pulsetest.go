// Package pulsetest is meant to be used to test drivers over a fake pulse
// peripheral.
package pulsetest

import (
	"sync"

	"github.com/tinygo-org/ws2812b/pulse"
)

// Peripheral is a fake pulse.Peripheral handing out a single Channel.
type Peripheral struct {
	// Err is returned by ConfigureTx when set.
	Err error
	// Channel is configured and returned by ConfigureTx. A new one is
	// allocated when nil.
	Channel *Channel
}

// ConfigureTx implements pulse.Peripheral.
func (p *Peripheral) ConfigureTx(cfg pulse.TxConfig) (pulse.Channel, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	if p.Channel == nil {
		p.Channel = &Channel{}
	}
	p.Channel.mu.Lock()
	p.Channel.Config = cfg
	p.Channel.Level = cfg.IdleLevel
	p.Channel.Configured = true
	p.Channel.mu.Unlock()
	return p.Channel, nil
}

// Channel records every frame transmitted on it.
type Channel struct {
	mu       sync.Mutex
	inFlight bool

	// Config is the configuration passed to ConfigureTx.
	Config pulse.TxConfig
	// Configured is set by ConfigureTx.
	Configured bool
	// Level is the current output level of the simulated pin.
	Level pulse.Level
	// Frames holds a copy of every frame whose transmission completed.
	Frames [][]pulse.Code

	// TransmitErr, when set, is called with the zero-based index of each
	// transmission before it starts. A non-nil result fails Transmit.
	TransmitErr func(i int) error
	// WaitErr, when set, is called with the index of each transmission when
	// it is waited on. A non-nil result fails Wait.
	WaitErr func(i int) error
	// OnFrame, when set, is called with every completed frame.
	OnFrame func(frame []pulse.Code)

	started int
}

// Transmit implements pulse.Channel.
func (c *Channel) Transmit(codes []pulse.Code) (pulse.Transaction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		return nil, pulse.ErrBusy
	}
	if err := pulse.Validate(codes); err != nil {
		return nil, err
	}
	i := c.started
	c.started++
	if c.TransmitErr != nil {
		if err := c.TransmitErr(i); err != nil {
			return nil, err
		}
	}
	c.inFlight = true
	frame := make([]pulse.Code, len(codes))
	copy(frame, codes)
	return &transaction{ch: c, index: i, frame: frame}, nil
}

// Transmissions returns how many transmissions were started, including
// failed ones.
func (c *Channel) Transmissions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.started
}

// Last returns the last recorded frame, or nil.
func (c *Channel) Last() []pulse.Code {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.Frames) == 0 {
		return nil
	}
	return c.Frames[len(c.Frames)-1]
}

type transaction struct {
	ch    *Channel
	index int
	frame []pulse.Code
	done  bool
}

func (t *transaction) Wait() error {
	c := t.ch
	c.mu.Lock()
	if t.done {
		c.mu.Unlock()
		return nil
	}
	t.done = true
	c.inFlight = false
	if c.WaitErr != nil {
		if err := c.WaitErr(t.index); err != nil {
			c.mu.Unlock()
			return err
		}
	}
	c.Frames = append(c.Frames, t.frame)
	onFrame := c.OnFrame
	c.mu.Unlock()
	if onFrame != nil {
		onFrame(t.frame)
	}
	return nil
}

// FailAt returns a hook for TransmitErr or WaitErr that fails transmission
// n with err.
func FailAt(n int, err error) func(int) error {
	return func(i int) error {
		if i == n {
			return err
		}
		return nil
	}
}

var _ pulse.Peripheral = &Peripheral{}
var _ pulse.Channel = &Channel{}
