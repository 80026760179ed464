package ports

import "context"

const metersPerMile = 1609.344

// Road distance and drive time between two addresses.
type DistanceResult struct {
	DistanceMeters  int
	DurationSeconds int
}

// Miles is the distance in the unit the delivery engine works in.
func (r DistanceResult) Miles() float64 { return float64(r.DistanceMeters) / metersPerMile }

// DistanceProvider resolves one origin/destination pair, typically through a
// routing service. Addresses are normalized street keys.
type DistanceProvider interface {
	GetDistance(ctx context.Context, origin string, destination string) (DistanceResult, error)
}
