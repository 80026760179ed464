package domain

import "time"

// Represents a single delivery unit handled by the system.
// Address history and status log are append-only; every time-sliced query
// is answered from them. Constraints are the typed form of the special
// notes and never change during a run.
type Package struct {
	PackageID   int
	Addresses   []AddressChange
	Deadline    *time.Time
	WeightKilos float64
	Notes       string
	Constraints []Constraint
	Statuses    []StatusEvent
}

// PackageRecord is a package as supplied by a data source, before notes and
// deadline are interpreted.
type PackageRecord struct {
	PackageID   int
	Address     Address
	Deadline    string
	WeightKilos float64
	Notes       string
}

// NewPackage creates a package sitting at the hub from the given instant.
func NewPackage(rec PackageRecord, deadline *time.Time, constraints []Constraint, atHub time.Time) *Package {
	return &Package{
		PackageID:   rec.PackageID,
		Addresses:   []AddressChange{{Address: rec.Address, EffectiveFrom: atHub}},
		Deadline:    deadline,
		WeightKilos: rec.WeightKilos,
		Notes:       rec.Notes,
		Constraints: constraints,
		Statuses:    []StatusEvent{{Status: StatusAtHub, At: atHub}},
	}
}

// CurrentAddress is the most recent entry of the address history.
func (p *Package) CurrentAddress() Address {
	return p.Addresses[len(p.Addresses)-1].Address
}

// AddressAt returns the address that was in effect at t.
func (p *Package) AddressAt(t time.Time) Address {
	addr := p.Addresses[0].Address
	for _, c := range p.Addresses {
		if c.EffectiveFrom.After(t) {
			break
		}
		addr = c.Address
	}
	return addr
}

// UpdateAddress appends a corrected address and records the change in the status log.
func (p *Package) UpdateAddress(addr Address, at time.Time) {
	p.Addresses = append(p.Addresses, AddressChange{Address: addr, EffectiveFrom: at})
	p.LogStatus(StatusAddressUpdated, 0, at)
}

func (p *Package) LogStatus(status Status, vehicleID int, at time.Time) {
	p.Statuses = append(p.Statuses, StatusEvent{Status: status, VehicleID: vehicleID, At: at})
}

// StatusAt returns the last status event logged at or before t.
func (p *Package) StatusAt(t time.Time) (StatusEvent, bool) {
	var (
		out   StatusEvent
		found bool
	)
	for _, e := range p.Statuses {
		if e.At.After(t) {
			break
		}
		out, found = e, true
	}
	return out, found
}

func (p *Package) firstEvent(status Status) (StatusEvent, bool) {
	for _, e := range p.Statuses {
		if e.Status == status {
			return e, true
		}
	}
	return StatusEvent{}, false
}

// Loaded reports whether the package was ever put on a vehicle.
func (p *Package) Loaded() bool {
	_, ok := p.firstEvent(StatusLoaded)
	return ok
}

func (p *Package) IsDelivered() bool {
	_, ok := p.firstEvent(StatusDelivered)
	return ok
}

// IsOnVehicle reports whether the package is loaded and not yet delivered.
func (p *Package) IsOnVehicle() bool {
	return p.Loaded() && !p.IsDelivered()
}

// IsOnVehicleAt answers IsOnVehicle as of t.
func (p *Package) IsOnVehicleAt(t time.Time) bool {
	e, ok := p.StatusAt(t)
	if !ok {
		return false
	}
	switch e.Status {
	case StatusLoaded, StatusEnRoute:
		return true
	case StatusAddressUpdated:
		// Corrections happen while loading; fall back to the event before it.
		loaded, ok := p.firstEvent(StatusLoaded)
		return ok && !loaded.At.After(t) && !p.deliveredBy(t)
	}
	return false
}

func (p *Package) deliveredBy(t time.Time) bool {
	d, ok := p.firstEvent(StatusDelivered)
	return ok && !d.At.After(t)
}

func (p *Package) LoadedAt() (time.Time, bool) {
	e, ok := p.firstEvent(StatusLoaded)
	return e.At, ok
}

func (p *Package) DeliveredAt() (time.Time, bool) {
	e, ok := p.firstEvent(StatusDelivered)
	return e.At, ok
}

// VehicleID returns the vehicle the package was loaded onto.
func (p *Package) VehicleID() (int, bool) {
	e, ok := p.firstEvent(StatusLoaded)
	return e.VehicleID, ok
}

// IsLate reports whether the package was delivered after its deadline.
func (p *Package) IsLate() bool {
	if p.Deadline == nil {
		return false
	}
	at, ok := p.DeliveredAt()
	return ok && at.After(*p.Deadline)
}

// RequiredVehicleID returns the vehicle the package is pinned to, if any.
func (p *Package) RequiredVehicleID() (int, bool) {
	for _, c := range p.Constraints {
		if rv, ok := c.(RequiresVehicle); ok {
			return rv.VehicleID, true
		}
	}
	return 0, false
}

// EarliestAvailableTime is the latest of the hub arrival and all
// delayed-arrival and address-correction times. Nothing may be logged for the
// package before it.
func (p *Package) EarliestAvailableTime() (time.Time, bool) {
	var (
		out   time.Time
		found bool
	)
	if e, ok := p.firstEvent(StatusAtHub); ok {
		out, found = e.At, true
	}
	for _, c := range p.Constraints {
		var t time.Time
		switch v := c.(type) {
		case AvailableAfter:
			t = v.At
		case AddressCorrection:
			t = v.After
		default:
			continue
		}
		if !found || t.After(out) {
			out, found = t, true
		}
	}
	return out, found
}

// ShipsWith lists the package ids this package declares it must travel with.
func (p *Package) ShipsWith() []int {
	var out []int
	for _, c := range p.Constraints {
		if m, ok := c.(MustShipWith); ok {
			out = append(out, m.PackageIDs...)
		}
	}
	return out
}

// Correction returns the package's address correction, if it has one.
func (p *Package) Correction() (AddressCorrection, bool) {
	for _, c := range p.Constraints {
		if ac, ok := c.(AddressCorrection); ok {
			return ac, true
		}
	}
	return AddressCorrection{}, false
}

// PendingCorrection returns the correction to apply at now: one that has a
// known address, whose cutoff has passed, and that was not applied yet.
func (p *Package) PendingCorrection(now time.Time) (AddressCorrection, bool) {
	ac, ok := p.Correction()
	if !ok || ac.Address.Key() == "" || now.Before(ac.After) {
		return AddressCorrection{}, false
	}
	if _, applied := p.firstEvent(StatusAddressUpdated); applied {
		return AddressCorrection{}, false
	}
	return ac, true
}
