// Package gpio abstracts the digital output that switches the fan.
package gpio

import (
	"codeberg.org/mutker/pifanctl/internal/errors"
	"codeberg.org/mutker/pifanctl/internal/logger"
)

// New returns the Output implementation for driver. chip is only used by the
// gpiocdev driver.
func New(driver, chip string, log logger.Logger) (Output, error) {
	switch driver {
	case DriverRPIO, "":
		return newRPIO(), nil
	case DriverCdev:
		if chip == "" {
			chip = DefaultChip
		}
		return newCdev(chip), nil
	case DriverDryRun:
		return NewDryRun(log), nil
	default:
		return nil, errors.New().WithData(ErrUnknownDriver, driver)
	}
}

// Drivers lists the accepted driver names.
func Drivers() []string {
	return []string{DriverRPIO, DriverCdev, DriverDryRun}
}
