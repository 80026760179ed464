package domain

import "time"

// Represents a single stop in a delivery run.
// A RouteStop corresponds to arriving at a specific destination at a computed time,
// and delivering one or more packages associated with that destination.
type RouteStop struct {
	Destination string
	ArriveAt    time.Time
	PackageIDs  []int
}

// Trip is one hub-to-hub run of a vehicle: the stops in delivery order and
// the miles driven, including the return leg.
type Trip struct {
	VehicleID int
	DepartAt  time.Time
	ReturnAt  time.Time
	Stops     []RouteStop
	Miles     float64
}

// AddDelivery records a delivered package, merging consecutive deliveries to
// the same destination into one stop.
func (t *Trip) AddDelivery(destination string, at time.Time, packageID int) {
	if n := len(t.Stops); n > 0 && t.Stops[n-1].Destination == destination {
		t.Stops[n-1].PackageIDs = append(t.Stops[n-1].PackageIDs, packageID)
		return
	}
	t.Stops = append(t.Stops, RouteStop{Destination: destination, ArriveAt: at, PackageIDs: []int{packageID}})
}
