package ports

import (
	"context"
	"delivery-scheduler/internal/domain"
)

// Port: a boundary for retrieving package records from a data source.
type PackageRepository interface {
	// Retrieve all package records available for scheduling, ordered by id.
	ListPackages(ctx context.Context) ([]domain.PackageRecord, error)
}
