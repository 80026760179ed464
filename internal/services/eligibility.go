package services

import "delivery-scheduler/internal/domain"

// EligibilityFilter decides which packages may be loaded onto a vehicle at
// the vehicle's current simulated time. Nothing is cached: the clock moving
// forward is what makes held packages loadable, so every pass recomputes.
type EligibilityFilter struct {
	store  *domain.PackageStore
	groups *DependencyGroups
}

func NewEligibilityFilter(store *domain.PackageStore, groups *DependencyGroups) *EligibilityFilter {
	return &EligibilityFilter{store: store, groups: groups}
}

// Ineligible returns the ids of packages that may not be loaded onto v now.
// Rules are cumulative:
//  1. already loaded on some vehicle, or delivered;
//  2. pinned to a different vehicle;
//  3. not yet available at v.Clock (delayed arrival or pending address
//     correction).
//
// Rules 2 and 3 hold the package's whole dependency group back with it, so a
// group only ever becomes loadable all at once.
func (f *EligibilityFilter) Ineligible(v *domain.Vehicle) map[int]struct{} {
	out := make(map[int]struct{})
	holdGroup := func(id int) {
		out[id] = struct{}{}
		for _, member := range f.groups.GroupOf(id) {
			out[member] = struct{}{}
		}
	}

	for _, p := range f.store.All() {
		if p.Loaded() || p.IsDelivered() {
			out[p.PackageID] = struct{}{}
			continue
		}
		if required, ok := p.RequiredVehicleID(); ok && required != v.VehicleID {
			holdGroup(p.PackageID)
			continue
		}
		if at, ok := p.EarliestAvailableTime(); ok && v.Clock.Before(at) {
			holdGroup(p.PackageID)
		}
	}

	return out
}

// Loadable lists, in ascending id order, the not-yet-loaded packages that
// are not Ineligible for v.
func (f *EligibilityFilter) Loadable(v *domain.Vehicle) []*domain.Package {
	ineligible := f.Ineligible(v)
	out := make([]*domain.Package, 0)
	for _, p := range f.store.All() {
		if p.Loaded() {
			continue
		}
		if _, ok := ineligible[p.PackageID]; ok {
			continue
		}
		out = append(out, p)
	}
	return out
}
