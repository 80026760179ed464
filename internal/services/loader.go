package services

import (
	"delivery-scheduler/internal/domain"
	"delivery-scheduler/internal/ports"
	"fmt"
)

// Loader fills vehicles parked at the hub using a greedy nearest-neighbor
// selection over the currently eligible packages.
type Loader struct {
	store    *domain.PackageStore
	table    ports.DistanceTable
	groups   *DependencyGroups
	eligible *EligibilityFilter
}

func NewLoader(store *domain.PackageStore, table ports.DistanceTable, groups *DependencyGroups) *Loader {
	return &Loader{
		store:    store,
		table:    table,
		groups:   groups,
		eligible: NewEligibilityFilter(store, groups),
	}
}

// Load appends packages to v until it is full, nothing eligible remains, or
// v is away from the hub. It returns how many packages were loaded.
//
// Each step picks the loadable package nearest to the tail of the current
// load (the hub when empty). Picking a package that belongs to a dependency
// group force-loads the rest of the group; a candidate whose group does not
// fit in the remaining capacity is passed over so groups are never split.
// Forced loads and address corrections re-sequence the whole load from the hub.
func (l *Loader) Load(v *domain.Vehicle) (int, error) {
	loaded := 0

	for v.AtHub() && !v.IsFull() {
		candidates := l.fitting(v, l.eligible.Loadable(v))
		if len(candidates) == 0 {
			break
		}

		from := domain.HubKey
		if n := len(v.PackageIDs); n > 0 {
			last, ok := l.store.Get(v.PackageIDs[n-1])
			if !ok {
				return loaded, &DataIntegrityError{PackageID: v.PackageIDs[n-1], Reason: "loaded package missing from store"}
			}
			from = last.CurrentAddress().Key()
		}

		pick, err := nearestPackage(l.table, from, candidates)
		if err != nil {
			return loaded, fmt.Errorf("load vehicle %d: %w", v.VehicleID, err)
		}
		if pick == nil {
			break
		}

		resort, err := l.loadOne(v, pick)
		if err != nil {
			return loaded, err
		}
		loaded++

		for _, id := range l.groups.GroupOf(pick.PackageID) {
			member, ok := l.store.Get(id)
			if !ok {
				return loaded, &DataIntegrityError{PackageID: id, Reason: "group member missing from store"}
			}
			if member.Loaded() {
				continue
			}
			if _, err := l.loadOne(v, member); err != nil {
				return loaded, err
			}
			loaded++
			resort = true
		}

		if resort {
			if err := l.Resort(v); err != nil {
				return loaded, err
			}
		}
	}

	return loaded, nil
}

// loadOne puts p on v, logs the load, and applies a due address correction.
// It reports whether the load order needs re-sequencing.
func (l *Loader) loadOne(v *domain.Vehicle, p *domain.Package) (bool, error) {
	if err := v.Load(p.PackageID); err != nil {
		return false, fmt.Errorf("load package %d: %w", p.PackageID, err)
	}
	p.LogStatus(domain.StatusLoaded, v.VehicleID, v.Clock)

	if ac, ok := p.PendingCorrection(v.Clock); ok {
		p.UpdateAddress(ac.Address, v.Clock)
		return true, nil
	}
	return false, nil
}

// fitting drops candidates whose unloaded group members would not fit in v.
func (l *Loader) fitting(v *domain.Vehicle, candidates []*domain.Package) []*domain.Package {
	out := make([]*domain.Package, 0, len(candidates))
	for _, p := range candidates {
		need := 1
		for _, id := range l.groups.GroupOf(p.PackageID) {
			if id == p.PackageID {
				continue
			}
			if member, ok := l.store.Get(id); ok && !member.Loaded() {
				need++
			}
		}
		if need <= v.Remaining() {
			out = append(out, p)
		}
	}
	return out
}

// Resort re-sequences v's whole load by nearest neighbor starting at the hub.
// It does not re-run eligibility.
func (l *Loader) Resort(v *domain.Vehicle) error {
	pkgs := make([]*domain.Package, 0, len(v.PackageIDs))
	for _, id := range v.PackageIDs {
		p, ok := l.store.Get(id)
		if !ok {
			return &DataIntegrityError{PackageID: id, Reason: "loaded package missing from store"}
		}
		pkgs = append(pkgs, p)
	}

	order, err := NearestNeighborOrder(l.table, domain.HubKey, pkgs)
	if err != nil {
		return fmt.Errorf("resort vehicle %d: %w", v.VehicleID, err)
	}
	if err := v.Reorder(order); err != nil {
		return fmt.Errorf("resort vehicle %d: %w", v.VehicleID, err)
	}
	return nil
}
