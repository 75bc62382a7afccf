package gpio

import "codeberg.org/mutker/pifanctl/internal/errors"

const (
	ErrUnknownDriver  = errors.ErrorCode("gpio_unknown_driver")
	ErrUnsupported    = errors.ErrorCode("gpio_unsupported")
	ErrInitFailed     = errors.ErrorCode("gpio_init_failed")
	ErrNotInitialized = errors.ErrorCode("gpio_not_initialized")
	ErrInvalidPin     = errors.ErrorCode("gpio_invalid_pin")
	ErrInvalidMode    = errors.ErrorCode("gpio_invalid_mode")
	ErrWriteFailed    = errors.ErrorCode("gpio_write_failed")
	ErrShutdownFailed = errors.ErrorCode("gpio_shutdown_failed")
)

func init() {
	errors.Register(map[errors.ErrorCode]string{
		ErrUnknownDriver:  "Unknown GPIO driver",
		ErrUnsupported:    "GPIO driver unsupported on this platform",
		ErrInitFailed:     "Failed to initialize GPIO",
		ErrNotInitialized: "GPIO not initialized",
		ErrInvalidPin:     "Invalid GPIO pin",
		ErrInvalidMode:    "Pin is not configured as output",
		ErrWriteFailed:    "Failed to write GPIO pin",
		ErrShutdownFailed: "Failed to terminate GPIO",
	})
}
