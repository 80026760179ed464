package services

import (
	"context"
	"delivery-scheduler/internal/domain"
	"delivery-scheduler/internal/ports"
	"errors"
	"fmt"
	"log"
	"time"
)

// DeliveryEngine drives the simulation: every round each vehicle delivers its
// whole load in order and returns to the hub, then every vehicle is loaded
// again, until all packages are delivered.
//
// Vehicles are advanced one after another in a fixed order on their own
// clocks; there is no shared wall clock and no concurrency.
type DeliveryEngine struct {
	store  *domain.PackageStore
	table  ports.DistanceTable
	groups *DependencyGroups
	loader *Loader
}

// NewDeliveryEngine resolves dependency groups once, up front. Groups depend
// only on static notes and never change during a run.
func NewDeliveryEngine(store *domain.PackageStore, table ports.DistanceTable) (*DeliveryEngine, error) {
	if store == nil || table == nil {
		return nil, errors.New("new delivery engine: store and table must be non-nil")
	}

	groups, err := ResolveDependencyGroups(store)
	if err != nil {
		return nil, fmt.Errorf("new delivery engine: %w", err)
	}

	return &DeliveryEngine{
		store:  store,
		table:  table,
		groups: groups,
		loader: NewLoader(store, table, groups),
	}, nil
}

func (e *DeliveryEngine) Groups() *DependencyGroups { return e.groups }

func (e *DeliveryEngine) Loader() *Loader { return e.loader }

// Run simulates the full day for vehicles. It fails with a
// DataIntegrityError for unresolvable input and with an
// UnsatisfiableScheduleError when a round makes no progress.
func (e *DeliveryEngine) Run(ctx context.Context, vehicles []*domain.Vehicle) (*domain.Run, error) {
	if err := e.validate(vehicles); err != nil {
		return nil, fmt.Errorf("run deliveries: %w", err)
	}

	run := &domain.Run{
		Packages: e.store,
		Vehicles: vehicles,
	}

	for !e.store.AllDelivered() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run deliveries: round %d: %w", run.Rounds, err)
		}
		run.Rounds++

		delivered := 0
		for _, v := range vehicles {
			trip, n, err := e.deliverLoad(v)
			if err != nil {
				return nil, fmt.Errorf("run deliveries: round %d: %w", run.Rounds, err)
			}
			if trip != nil {
				run.Trips = append(run.Trips, *trip)
			}
			delivered += n
		}

		// Pick up whatever became loadable while the vehicles were out.
		loaded := 0
		for _, v := range vehicles {
			n, err := e.loader.Load(v)
			if err != nil {
				return nil, fmt.Errorf("run deliveries: round %d: %w", run.Rounds, err)
			}
			loaded += n
		}

		if delivered == 0 && loaded == 0 && !e.store.AllDelivered() {
			if !e.waitForAvailability(vehicles) {
				err := &UnsatisfiableScheduleError{Round: run.Rounds, Remaining: e.store.Undelivered()}
				log.Printf("op=deliveries.Run round=%d remaining=%d err=%v", run.Rounds, len(err.Remaining), err)
				return nil, err
			}
		}
	}

	for _, v := range vehicles {
		run.TotalMiles += v.Mileage
	}
	for _, p := range e.store.All() {
		if p.IsLate() {
			run.Late = append(run.Late, p.PackageID)
		}
	}

	return run, nil
}

// deliverLoad drives v through its load in order and back to the hub.
// A vehicle with nothing loaded stays where it is.
func (e *DeliveryEngine) deliverLoad(v *domain.Vehicle) (*domain.Trip, int, error) {
	if len(v.PackageIDs) == 0 {
		return nil, 0, nil
	}

	trip := &domain.Trip{VehicleID: v.VehicleID, DepartAt: v.Clock}
	startMiles := v.Mileage

	for _, id := range v.PackageIDs {
		p, ok := e.store.Get(id)
		if !ok {
			return nil, 0, &DataIntegrityError{PackageID: id, Reason: "loaded package missing from store"}
		}
		p.LogStatus(domain.StatusEnRoute, v.VehicleID, v.Clock)
	}

	delivered := 0
	for len(v.PackageIDs) > 0 {
		id := v.PackageIDs[0]
		p, _ := e.store.Get(id)
		if p.IsDelivered() {
			return nil, delivered, fmt.Errorf("deliver package %d: already delivered", id)
		}

		dest := p.CurrentAddress().Key()
		miles, err := e.table.Distance(v.Location, dest)
		if err != nil {
			return nil, delivered, &DataIntegrityError{PackageID: id, Reason: "distance lookup", Err: err}
		}

		v.Drive(dest, miles)
		p.LogStatus(domain.StatusDelivered, v.VehicleID, v.Clock)
		v.Unload(id)
		trip.AddDelivery(dest, v.Clock, id)
		delivered++
	}

	back, err := e.table.Distance(v.Location, domain.HubKey)
	if err != nil {
		return nil, delivered, fmt.Errorf("return vehicle %d to hub: %w", v.VehicleID, err)
	}
	v.Drive(domain.HubKey, back)

	trip.ReturnAt = v.Clock
	trip.Miles = v.Mileage - startMiles
	return trip, delivered, nil
}

// waitForAvailability idles each vehicle until the earliest time a package
// it could carry becomes available. It reports whether any clock moved.
func (e *DeliveryEngine) waitForAvailability(vehicles []*domain.Vehicle) bool {
	advanced := false
	for _, v := range vehicles {
		var (
			next  time.Time
			found bool
		)
		for _, p := range e.store.All() {
			if p.Loaded() {
				continue
			}
			if required, ok := p.RequiredVehicleID(); ok && required != v.VehicleID {
				continue
			}
			at, ok := p.EarliestAvailableTime()
			if !ok || !at.After(v.Clock) {
				continue
			}
			if !found || at.Before(next) {
				next, found = at, true
			}
		}
		if found {
			v.WaitUntil(next)
			advanced = true
		}
	}
	return advanced
}

// validate checks the fleet and that every address the run can visit is in
// the distance table before any state is mutated.
func (e *DeliveryEngine) validate(vehicles []*domain.Vehicle) error {
	if len(vehicles) == 0 {
		return errors.New("no vehicles")
	}

	seen := make(map[int]struct{}, len(vehicles))
	for _, v := range vehicles {
		if _, dup := seen[v.VehicleID]; dup {
			return fmt.Errorf("duplicate vehicle id %d", v.VehicleID)
		}
		seen[v.VehicleID] = struct{}{}

		if v.Capacity <= 0 {
			return fmt.Errorf("vehicle %d: capacity must be positive", v.VehicleID)
		}
		if v.SpeedMPH <= 0 {
			return fmt.Errorf("vehicle %d: speed must be positive", v.VehicleID)
		}
		if !v.AtHub() {
			return fmt.Errorf("vehicle %d: must start at the hub", v.VehicleID)
		}
	}

	if _, err := e.table.Distance(domain.HubKey, domain.HubKey); err != nil {
		return fmt.Errorf("hub is not in the distance table: %w", err)
	}

	for _, p := range e.store.All() {
		if _, err := e.table.Distance(domain.HubKey, p.CurrentAddress().Key()); err != nil {
			return &DataIntegrityError{PackageID: p.PackageID, Reason: "address not in distance table", Err: err}
		}

		ac, ok := p.Correction()
		if !ok {
			continue
		}
		if ac.Address.Key() == "" {
			return &DataIntegrityError{PackageID: p.PackageID, Reason: "corrected address is not configured"}
		}
		if _, err := e.table.Distance(domain.HubKey, ac.Address.Key()); err != nil {
			return &DataIntegrityError{PackageID: p.PackageID, Reason: "corrected address not in distance table", Err: err}
		}
	}

	return nil
}
