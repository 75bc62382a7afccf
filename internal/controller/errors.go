package controller

import "codeberg.org/mutker/pifanctl/internal/errors"

const (
	ErrOutputInit  = errors.ErrorCode("output_init_failed")
	ErrLoadState   = errors.ErrorCode("load_state_failed")
	ErrReadSensor  = errors.ErrorCode("read_sensor_failed")
	ErrWriteOutput = errors.ErrorCode("write_output_failed")
	ErrSaveState   = errors.ErrorCode("save_state_failed")
)

func init() {
	errors.Register(map[errors.ErrorCode]string{
		ErrOutputInit:  "Failed to initialize GPIO",
		ErrLoadState:   "Failed to load fan state",
		ErrReadSensor:  "Failed to read CPU temperature",
		ErrWriteOutput: "Failed to drive fan pin",
		ErrSaveState:   "Failed to save fan state",
	})
}
