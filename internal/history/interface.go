package history

import (
	"context"
	"time"
)

// Recorder journals the outcome of each run.
type Recorder interface {
	Record(ctx context.Context, rec *Record) error
	Close() error
}

// Repository defines the interface for history data storage
type Repository interface {
	Insert(ctx context.Context, rec *Record) error
	Recent(ctx context.Context, limit int) ([]Record, error)
	Close() error
}

// Record is one run of the controller.
type Record struct {
	RunID       string
	Timestamp   time.Time
	Temperature float64
	// TemperatureValid is false when the sensor could not be read.
	TemperatureValid bool
	Threshold        int
	Variance         int
	Previous         int
	Next             int
	Action           string
	FailOpen         bool
	Error            string
}
