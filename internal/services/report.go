package services

import (
	"delivery-scheduler/internal/domain"
	"time"
)

// StatusNotArrived marks a delayed package that had not reached the hub yet.
const StatusNotArrived domain.Status = "NotArrived"

type PackageReport struct {
	PackageID   int
	Address     domain.Address
	Deadline    *time.Time
	WeightKilos float64
	Status      domain.Status
	VehicleID   int
	LoadedAt    *time.Time
	DeliveredAt *time.Time
	// OnTime is set once the package is delivered and has a deadline.
	OnTime *bool
}

type VehicleReport struct {
	VehicleID int
	Miles     float64
	Location  string
	Load      []int
}

// Report is the state of a finished run as it stood at At.
type Report struct {
	RunID      string
	At         time.Time
	TotalMiles float64
	Packages   []PackageReport
	Vehicles   []VehicleReport
}

// Snapshot answers every time-sliced query of run as of at: package status,
// address in effect, vehicle and mileage. Events after at are invisible.
func Snapshot(run *domain.Run, at time.Time) Report {
	rep := Report{RunID: run.ID, At: at, TotalMiles: run.MilesAt(at)}

	loads := make(map[int][]int)
	for _, p := range run.Packages.All() {
		pr := PackageReport{
			PackageID:   p.PackageID,
			Address:     p.AddressAt(at),
			Deadline:    p.Deadline,
			WeightKilos: p.WeightKilos,
			Status:      StatusNotArrived,
		}
		if e, ok := p.StatusAt(at); ok {
			pr.Status = e.Status
			if e.Status == domain.StatusAddressUpdated && p.IsOnVehicleAt(at) {
				pr.Status = domain.StatusLoaded
			}
		}

		if t, ok := p.LoadedAt(); ok && !t.After(at) {
			pr.LoadedAt = &t
			pr.VehicleID, _ = p.VehicleID()
			if p.IsOnVehicleAt(at) {
				loads[pr.VehicleID] = append(loads[pr.VehicleID], p.PackageID)
			}
		}
		if t, ok := p.DeliveredAt(); ok && !t.After(at) {
			pr.DeliveredAt = &t
			if p.Deadline != nil {
				onTime := !t.After(*p.Deadline)
				pr.OnTime = &onTime
			}
		}

		rep.Packages = append(rep.Packages, pr)
	}

	for _, v := range run.Vehicles {
		rep.Vehicles = append(rep.Vehicles, VehicleReport{
			VehicleID: v.VehicleID,
			Miles:     v.MileageAt(at),
			Location:  locationAt(run, v.VehicleID, at),
			Load:      loads[v.VehicleID],
		})
	}

	return rep
}

// locationAt is the destination of the last stop the vehicle reached by at,
// or the hub when it was not out on a trip.
func locationAt(run *domain.Run, vehicleID int, at time.Time) string {
	loc := domain.HubKey
	for _, trip := range run.Trips {
		if trip.VehicleID != vehicleID || trip.DepartAt.After(at) {
			continue
		}
		if !trip.ReturnAt.After(at) {
			loc = domain.HubKey
			continue
		}
		loc = "en route from " + domain.HubKey
		for _, s := range trip.Stops {
			if s.ArriveAt.After(at) {
				break
			}
			loc = s.Destination
		}
	}
	return loc
}
