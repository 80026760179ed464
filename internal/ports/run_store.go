package ports

import (
	"context"
	"delivery-scheduler/internal/domain"
	"errors"
)

var ErrRunNotFound = errors.New("simulation run not found")

// Keeps finished simulation runs for later time-sliced queries.
type RunStore interface {
	Save(ctx context.Context, run *domain.Run) error
	Get(ctx context.Context, id string) (*domain.Run, error)
}
