package sensor

import "codeberg.org/mutker/pifanctl/internal/errors"

const (
	ErrSensorUnavailable = errors.ErrorCode("sensor_unavailable")
	ErrSensorUnreadable  = errors.ErrorCode("sensor_unreadable")
)

func init() {
	errors.Register(map[errors.ErrorCode]string{
		ErrSensorUnavailable: "Error opening temperature file",
		ErrSensorUnreadable:  "Error reading temperature",
	})
}
