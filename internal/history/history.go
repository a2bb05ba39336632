// Package history keeps an optional audit trail of predictions in Postgres.
package history

import (
	"context"
	"errors"
	"time"
)

// ErrDisabled is returned when history is read while recording is turned off.
var ErrDisabled = errors.New("prediction history is disabled")

// Record is one stored prediction.
type Record struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	ModelVersion string    `json:"model_version"`
	Features     []float64 `json:"features"`
	Label        int       `json:"label"`
	Probability  *float64  `json:"probability,omitempty"`
}

// Recorder persists predictions.
type Recorder interface {
	Record(ctx context.Context, rec Record) error
}

// Repository reads back what a Recorder wrote.
type Repository interface {
	Recorder
	List(ctx context.Context, limit int) ([]Record, error)
}
