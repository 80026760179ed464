package domain

import "time"

// Run is the outcome of one full delivery simulation.
type Run struct {
	ID         string
	CreatedAt  time.Time
	Day        time.Time
	Packages   *PackageStore
	Vehicles   []*Vehicle
	Trips      []Trip
	TotalMiles float64
	Rounds     int
	// Packages delivered after their deadline, ascending.
	Late []int
}

// CompletedAt is when the last vehicle returned to the hub.
func (r *Run) CompletedAt() time.Time {
	var out time.Time
	for _, v := range r.Vehicles {
		if v.Clock.After(out) {
			out = v.Clock
		}
	}
	return out
}

// MilesAt sums every vehicle's mileage logged at or before t.
func (r *Run) MilesAt(t time.Time) float64 {
	total := 0.0
	for _, v := range r.Vehicles {
		total += v.MileageAt(t)
	}
	return total
}
