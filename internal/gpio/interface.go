package gpio

import "codeberg.org/mutker/pifanctl/internal/fan"

// Output drives digital output pins. Writes are fire-and-forget; nothing is
// read back from the hardware.
type Output interface {
	// Initialize starts the GPIO subsystem.
	Initialize() error
	SetMode(pin int, mode Mode) error
	Write(pin int, level Level) error
	// Close terminates the subsystem. Pins keep their last level.
	Close() error
}

type (
	Mode  int
	Level int
)

const (
	InputMode Mode = iota
	OutputMode
)

const (
	Low  Level = 0
	High Level = 1
)

func (l Level) String() string {
	if l == High {
		return "HIGH"
	}

	return "LOW"
}

// LevelFor maps a fan state to the pin level that produces it.
func LevelFor(s fan.State) Level {
	if s == fan.On {
		return High
	}

	return Low
}

// Driver names accepted by New.
const (
	DriverRPIO   = "rpio"
	DriverCdev   = "gpiocdev"
	DriverDryRun = "dry-run"
)

// DefaultChip is the character device used by the gpiocdev driver.
const DefaultChip = "gpiochip0"

// maxPin is the highest BCM line on the Broadcom SoCs.
const maxPin = 53

func validPin(pin int) bool {
	return pin >= 0 && pin <= maxPin
}
