package pulse

import "errors"

var (
	ErrBusy        = errors.New("pulse: transmission already in flight")
	ErrNoEndMarker = errors.New("pulse: frame does not end with an end marker")
	ErrEmptyFrame  = errors.New("pulse: empty frame")
)

// Peripheral is a pulse-train peripheral with an output pin already
// assigned to it.
type Peripheral interface {
	// ConfigureTx sets up the transmit channel and drives the output to
	// cfg.IdleLevel.
	ConfigureTx(cfg TxConfig) (Channel, error)
}

// Channel is a configured transmit channel. At most one transmission may be
// in flight; Transmit returns ErrBusy otherwise.
type Channel interface {
	// Transmit starts emitting codes. The caller must not modify codes
	// until the returned Transaction's Wait has returned.
	Transmit(codes []Code) (Transaction, error)
}

// Transaction is an in-flight transmission.
type Transaction interface {
	// Wait blocks until the pulse train has been emitted and returns the
	// error reported by the hardware, if any.
	Wait() error
}

// Validate checks that codes form a transmittable frame.
func Validate(codes []Code) error {
	if len(codes) == 0 {
		return ErrEmptyFrame
	}
	if !codes[len(codes)-1].IsEnd() {
		return ErrNoEndMarker
	}
	return nil
}
