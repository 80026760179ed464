package ports

import (
	"context"
	"delivery-scheduler/internal/domain"
)

// Persistent store of origin->destination distance results.
type DistanceCache interface {
	GetMany(ctx context.Context, origin string, destinations []string) (map[string]DistanceResult, error)
	PutMany(ctx context.Context, origin string, results map[string]DistanceResult) error
}

// Persistent store of address -> coordinate lookups.
type GeocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}
