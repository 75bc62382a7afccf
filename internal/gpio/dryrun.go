package gpio

import (
	"sync"

	"codeberg.org/mutker/pifanctl/internal/errors"
	"codeberg.org/mutker/pifanctl/internal/logger"
)

// DryRun is an Output that touches no hardware. It logs and records every
// write, which makes it usable both on a workstation and in tests.
type DryRun struct {
	mu          sync.Mutex
	log         logger.Logger
	initialized bool
	modes       map[int]Mode
	levels      map[int]Level
	writes      int
	closed      bool

	// InitErr and WriteErr, when set, are returned by Initialize and Write.
	InitErr  error
	WriteErr error
}

// NewDryRun returns a DryRun output. log may be nil.
func NewDryRun(log logger.Logger) *DryRun {
	return &DryRun{
		log:    log,
		modes:  make(map[int]Mode),
		levels: make(map[int]Level),
	}
}

func (d *DryRun) Initialize() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.InitErr != nil {
		return errors.New().Wrap(ErrInitFailed, d.InitErr)
	}
	d.initialized = true

	return nil
}

func (d *DryRun) SetMode(pin int, mode Mode) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	errFactory := errors.New()
	if !d.initialized {
		return errFactory.New(ErrNotInitialized)
	}
	if !validPin(pin) {
		return errFactory.WithData(ErrInvalidPin, pin)
	}
	d.modes[pin] = mode

	return nil
}

func (d *DryRun) Write(pin int, level Level) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	errFactory := errors.New()
	if !d.initialized {
		return errFactory.New(ErrNotInitialized)
	}
	if d.modes[pin] != OutputMode {
		return errFactory.WithData(ErrInvalidMode, pin)
	}
	if d.WriteErr != nil {
		return errFactory.Wrap(ErrWriteFailed, d.WriteErr)
	}

	d.levels[pin] = level
	d.writes++
	if d.log != nil {
		d.log.Debug().Int("pin", pin).Stringer("level", level).Msg("Dry run: pin not driven")
	}

	return nil
}

func (d *DryRun) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.initialized = false
	d.closed = true

	return nil
}

// Level returns the last level written to pin and whether it was written.
func (d *DryRun) Level(pin int) (Level, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	l, ok := d.levels[pin]
	return l, ok
}

// Writes returns the number of successful writes.
func (d *DryRun) Writes() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.writes
}

// Closed reports whether Close was called.
func (d *DryRun) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.closed
}
