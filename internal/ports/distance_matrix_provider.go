package ports

import "context"

// DistanceMatrixProvider is a DistanceProvider that can answer one origin
// against many destinations in a single call. Destinations missing from the
// returned map are treated as unresolved.
type DistanceMatrixProvider interface {
	DistanceProvider
	GetDistances(ctx context.Context, origin string, destinations []string) (map[string]DistanceResult, error)
}
