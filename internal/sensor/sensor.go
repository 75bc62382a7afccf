// Package sensor reads the CPU temperature exposed by the kernel thermal
// subsystem.
package sensor

import (
	"io"
	"os"
	"strconv"
	"strings"

	"codeberg.org/mutker/pifanctl/internal/errors"
	"codeberg.org/mutker/pifanctl/internal/fan"
)

// DefaultPath is the thermal zone of the SoC on Raspberry Pi boards.
const DefaultPath = "/sys/class/thermal/thermal_zone0/temp"

// bufferSize bounds a single read; a millidegree reading is a handful of digits.
const bufferSize = 16

// Source yields the current CPU temperature.
type Source interface {
	Read() (fan.Temperature, error)
}

// ThermalZone reads a millidegree Celsius value from a sysfs-style file.
type ThermalZone struct {
	path string
}

// NewThermalZone returns a Source reading from path, or DefaultPath if empty.
func NewThermalZone(path string) *ThermalZone {
	if path == "" {
		path = DefaultPath
	}

	return &ThermalZone{path: path}
}

// Path returns the file the zone reads from.
func (z *ThermalZone) Path() string {
	return z.path
}

func (z *ThermalZone) Read() (fan.Temperature, error) {
	errFactory := errors.New()

	f, err := os.Open(z.path)
	if err != nil {
		return 0, errFactory.Wrap(ErrSensorUnavailable, err)
	}
	defer f.Close()

	buf, err := io.ReadAll(io.LimitReader(f, bufferSize+1))
	if err != nil {
		return 0, errFactory.Wrap(ErrSensorUnreadable, err)
	}
	if len(buf) > bufferSize {
		return 0, errFactory.WithData(ErrSensorUnreadable, "reading too long")
	}

	return Parse(string(buf))
}

// Parse interprets s as an integer millidegree Celsius reading.
func Parse(s string) (fan.Temperature, error) {
	errFactory := errors.New()

	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errFactory.WithData(ErrSensorUnreadable, "empty reading")
	}

	m, err := strconv.Atoi(s)
	if err != nil {
		return 0, errFactory.Wrap(ErrSensorUnreadable, err)
	}

	return fan.FromMilliDegrees(m), nil
}
