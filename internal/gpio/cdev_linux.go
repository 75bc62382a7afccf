//go:build linux

package gpio

import (
	"codeberg.org/mutker/pifanctl/internal/errors"
	"github.com/warthog618/go-gpiocdev"
)

const consumer = "pifanctl"

// cdevOutput drives pins through the GPIO character device.
type cdevOutput struct {
	chipName string
	chip     *gpiocdev.Chip
	outputs  map[int]bool
	lines    map[int]*gpiocdev.Line
}

func newCdev(chip string) Output {
	return &cdevOutput{
		chipName: chip,
		outputs:  make(map[int]bool),
		lines:    make(map[int]*gpiocdev.Line),
	}
}

func (o *cdevOutput) Initialize() error {
	if o.chip != nil {
		return nil
	}

	chip, err := gpiocdev.NewChip(o.chipName, gpiocdev.WithConsumer(consumer))
	if err != nil {
		return errors.New().Wrap(ErrInitFailed, err)
	}
	o.chip = chip

	return nil
}

// SetMode only records the direction. The line is requested on the first
// Write so the request itself carries the level and the fan never glitches.
func (o *cdevOutput) SetMode(pin int, mode Mode) error {
	errFactory := errors.New()
	if o.chip == nil {
		return errFactory.New(ErrNotInitialized)
	}
	if !validPin(pin) {
		return errFactory.WithData(ErrInvalidPin, pin)
	}

	if mode != OutputMode {
		if line, ok := o.lines[pin]; ok {
			if err := line.Close(); err != nil {
				return errFactory.Wrap(ErrInvalidMode, err)
			}
			delete(o.lines, pin)
		}
		delete(o.outputs, pin)
		return nil
	}
	o.outputs[pin] = true

	return nil
}

func (o *cdevOutput) Write(pin int, level Level) error {
	errFactory := errors.New()
	if o.chip == nil {
		return errFactory.New(ErrNotInitialized)
	}
	if !o.outputs[pin] {
		return errFactory.WithData(ErrInvalidMode, pin)
	}

	line, ok := o.lines[pin]
	if !ok {
		line, err := o.chip.RequestLine(pin, gpiocdev.AsOutput(int(level)), gpiocdev.WithConsumer(consumer))
		if err != nil {
			return errFactory.Wrap(ErrWriteFailed, err)
		}
		o.lines[pin] = line
		return nil
	}

	if err := line.SetValue(int(level)); err != nil {
		return errFactory.Wrap(ErrWriteFailed, err)
	}

	return nil
}

// Close releases the lines and the chip. The kernel leaves released lines at
// their last driven value on the Broadcom GPIO controller.
func (o *cdevOutput) Close() error {
	if o.chip == nil {
		return nil
	}

	var firstErr error
	for pin, line := range o.lines {
		if err := line.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(o.lines, pin)
	}

	if err := o.chip.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	o.chip = nil

	if firstErr != nil {
		return errors.New().Wrap(ErrShutdownFailed, firstErr)
	}

	return nil
}
