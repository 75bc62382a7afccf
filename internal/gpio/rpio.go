package gpio

import (
	"codeberg.org/mutker/pifanctl/internal/errors"
	"github.com/stianeikeland/go-rpio"
)

// rpioOutput drives pins through /dev/gpiomem (or /dev/mem) register mapping.
type rpioOutput struct {
	initialized bool
	outputs     map[int]bool
}

func newRPIO() *rpioOutput {
	return &rpioOutput{outputs: make(map[int]bool)}
}

func (o *rpioOutput) Initialize() error {
	if o.initialized {
		return nil
	}

	if err := rpio.Open(); err != nil {
		return errors.New().Wrap(ErrInitFailed, err)
	}
	o.initialized = true

	return nil
}

func (o *rpioOutput) SetMode(pin int, mode Mode) error {
	errFactory := errors.New()
	if !o.initialized {
		return errFactory.New(ErrNotInitialized)
	}
	if !validPin(pin) {
		return errFactory.WithData(ErrInvalidPin, pin)
	}

	p := rpio.Pin(pin)
	if mode == OutputMode {
		p.Output()
		o.outputs[pin] = true
	} else {
		p.Input()
		delete(o.outputs, pin)
	}

	return nil
}

func (o *rpioOutput) Write(pin int, level Level) error {
	errFactory := errors.New()
	if !o.initialized {
		return errFactory.New(ErrNotInitialized)
	}
	if !o.outputs[pin] {
		return errFactory.WithData(ErrInvalidMode, pin)
	}

	if level == High {
		rpio.Pin(pin).High()
	} else {
		rpio.Pin(pin).Low()
	}

	return nil
}

func (o *rpioOutput) Close() error {
	if !o.initialized {
		return nil
	}

	if err := rpio.Close(); err != nil {
		return errors.New().Wrap(ErrShutdownFailed, err)
	}
	o.initialized = false

	return nil
}
