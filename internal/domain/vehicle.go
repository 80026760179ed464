package domain

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// ErrVehicleFull is the capacity-exhausted stop condition of a loading pass.
var ErrVehicleFull = errors.New("vehicle is at full capacity")

// A mileage reading taken at a point on the simulated clock.
type MileageEntry struct {
	Miles float64
	At    time.Time
}

// Delivery vehicle holding an ordered load and its own simulated clock.
// PackageIDs[0] is the next package to deliver. Location is HubKey or the
// address key of the most recently delivered package.
type Vehicle struct {
	VehicleID  int
	Capacity   int
	SpeedMPH   float64
	Location   string
	Clock      time.Time
	Mileage    float64
	MileageLog []MileageEntry
	PackageIDs []int
}

func NewVehicle(id int, capacity int, speedMPH float64, start time.Time) *Vehicle {
	return &Vehicle{
		VehicleID:  id,
		Capacity:   capacity,
		SpeedMPH:   speedMPH,
		Location:   HubKey,
		Clock:      start,
		MileageLog: []MileageEntry{{Miles: 0, At: start}},
	}
}

// Load a single package onto the vehicle.
func (v *Vehicle) Load(packageID int) error {
	if v.IsFull() {
		return fmt.Errorf("load vehicle %d (capacity=%d): %w", v.VehicleID, v.Capacity, ErrVehicleFull)
	}
	if slices.Contains(v.PackageIDs, packageID) {
		return fmt.Errorf("load vehicle %d: package %d already loaded", v.VehicleID, packageID)
	}
	v.PackageIDs = append(v.PackageIDs, packageID)
	return nil
}

func (v *Vehicle) IsFull() bool {
	return len(v.PackageIDs) >= v.Capacity
}

func (v *Vehicle) Remaining() int {
	return v.Capacity - len(v.PackageIDs)
}

func (v *Vehicle) AtHub() bool {
	return v.Location == HubKey
}

// Reorder replaces the load order. The new order must hold the same packages.
func (v *Vehicle) Reorder(ids []int) error {
	if len(ids) != len(v.PackageIDs) {
		return fmt.Errorf("reorder vehicle %d: got %d ids, have %d loaded", v.VehicleID, len(ids), len(v.PackageIDs))
	}
	for _, id := range ids {
		if !slices.Contains(v.PackageIDs, id) {
			return fmt.Errorf("reorder vehicle %d: package %d is not loaded", v.VehicleID, id)
		}
	}
	v.PackageIDs = slices.Clone(ids)
	return nil
}

// Drive moves the vehicle to location, advancing its clock by miles/speed
// and logging the new mileage.
func (v *Vehicle) Drive(location string, miles float64) {
	travel := time.Duration(miles / v.SpeedMPH * float64(time.Hour))
	v.Clock = v.Clock.Add(travel)
	v.Mileage += miles
	v.MileageLog = append(v.MileageLog, MileageEntry{Miles: v.Mileage, At: v.Clock})
	v.Location = location
}

// Unload removes a delivered package from the load.
func (v *Vehicle) Unload(packageID int) {
	v.PackageIDs = slices.DeleteFunc(v.PackageIDs, func(id int) bool { return id == packageID })
}

// WaitUntil idles the vehicle at its location until t. Earlier instants are ignored.
func (v *Vehicle) WaitUntil(t time.Time) {
	if t.After(v.Clock) {
		v.Clock = t
	}
}

// MileageAt returns the mileage logged at or before t.
func (v *Vehicle) MileageAt(t time.Time) float64 {
	miles := 0.0
	for _, e := range v.MileageLog {
		if e.At.After(t) {
			break
		}
		miles = e.Miles
	}
	return miles
}
