package domain

import "time"

// Constraint is the typed form of a package's special notes.
// The concrete variants are MustShipWith, RequiresVehicle, AvailableAfter
// and AddressCorrection.
type Constraint interface {
	constraint()
}

// The package must leave on the same vehicle, in the same run, as the listed packages.
type MustShipWith struct {
	PackageIDs []int
}

// The package may only be loaded onto the given vehicle.
type RequiresVehicle struct {
	VehicleID int
}

// The package is not at the hub (or not loadable) before At.
type AvailableAfter struct {
	At time.Time
}

// The listed address is wrong; the correct one becomes known at After.
// Address is zero until supplied by configuration.
type AddressCorrection struct {
	After   time.Time
	Address Address
}

func (MustShipWith) constraint()      {}
func (RequiresVehicle) constraint()   {}
func (AvailableAfter) constraint()    {}
func (AddressCorrection) constraint() {}
