package domain

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusAtHub          Status = "AtHub"
	StatusLoaded         Status = "LoadedOnVehicle"
	StatusEnRoute        Status = "EnRoute"
	StatusDelivered      Status = "Delivered"
	StatusAddressUpdated Status = "AddressUpdated"
)

// A single entry in a package's append-only status log.
// VehicleID is set for load, en-route and delivery events.
type StatusEvent struct {
	Status    Status
	VehicleID int
	At        time.Time
}

func (e StatusEvent) String() string {
	switch e.Status {
	case StatusLoaded:
		return fmt.Sprintf("Loaded on vehicle #%d", e.VehicleID)
	case StatusEnRoute:
		return fmt.Sprintf("En route on vehicle #%d", e.VehicleID)
	case StatusDelivered:
		return fmt.Sprintf("Delivered by vehicle #%d", e.VehicleID)
	case StatusAddressUpdated:
		return "Address updated"
	default:
		return "At hub"
	}
}
