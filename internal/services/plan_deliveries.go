package services

import (
	"context"
	"delivery-scheduler/internal/domain"
	"delivery-scheduler/internal/metrics"
	"delivery-scheduler/internal/notes"
	"delivery-scheduler/internal/platform/obs"
	"delivery-scheduler/internal/ports"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
)

// One vehicle of the fleet. Start is the time of day it leaves the hub.
type VehicleSpec struct {
	VehicleID int
	Capacity  int
	SpeedMPH  float64
	Start     time.Duration
}

// The corrected address for a wrong-address package. After overrides the
// cutoff from the package's notes when non-zero.
type CorrectionSpec struct {
	PackageID int
	After     time.Duration
	Address   domain.Address
}

type PlanDeliveriesRequest struct {
	Day         time.Time
	DayStart    time.Duration
	Vehicles    []VehicleSpec
	Corrections []CorrectionSpec
}

// BuildPackages interprets package records for day: notes become
// constraints, deadlines become instants, and configured corrections fill in
// the real address of wrong-address packages. A package is logged AtHub at
// day start, or at its delayed-arrival time when that is later.
func BuildPackages(
	recs []domain.PackageRecord,
	day time.Time,
	dayStart time.Duration,
	corrections []CorrectionSpec,
) (*domain.PackageStore, error) {
	byID := make(map[int]CorrectionSpec, len(corrections))
	for _, c := range corrections {
		byID[c.PackageID] = c
	}

	pkgs := make([]*domain.Package, 0, len(recs))
	for _, rec := range recs {
		constraints, err := notes.Parse(rec.Notes, day)
		if err != nil {
			return nil, &DataIntegrityError{PackageID: rec.PackageID, Reason: "special notes", Err: err}
		}

		deadline, err := parseDeadline(rec.Deadline, day)
		if err != nil {
			return nil, &DataIntegrityError{PackageID: rec.PackageID, Reason: "deadline", Err: err}
		}

		if c, ok := byID[rec.PackageID]; ok {
			constraints = applyCorrection(constraints, c, day)
			delete(byID, rec.PackageID)
		}

		atHub := domain.OnDay(day, dayStart)
		for _, c := range constraints {
			if aa, ok := c.(domain.AvailableAfter); ok && aa.At.After(atHub) {
				atHub = aa.At
			}
		}

		pkgs = append(pkgs, domain.NewPackage(rec, deadline, constraints, atHub))
	}

	for _, c := range corrections {
		if _, unused := byID[c.PackageID]; unused {
			return nil, &DataIntegrityError{PackageID: c.PackageID, Reason: "address correction for unknown package"}
		}
	}

	store, err := domain.NewPackageStore(pkgs)
	if err != nil {
		return nil, &DataIntegrityError{Reason: "package store", Err: err}
	}
	return store, nil
}

// applyCorrection fills the address of an existing AddressCorrection or adds
// one when the notes did not flag the package.
func applyCorrection(constraints []domain.Constraint, c CorrectionSpec, day time.Time) []domain.Constraint {
	for i, con := range constraints {
		ac, ok := con.(domain.AddressCorrection)
		if !ok {
			continue
		}
		ac.Address = c.Address
		if c.After > 0 {
			ac.After = domain.OnDay(day, c.After)
		}
		constraints[i] = ac
		return constraints
	}

	after := c.After
	if after == 0 {
		after = notes.DefaultCorrectionCutoff
	}
	return append(constraints, domain.AddressCorrection{After: domain.OnDay(day, after), Address: c.Address})
}

func parseDeadline(s string, day time.Time) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "EOD") {
		return nil, nil
	}
	offset, err := domain.ParseClock(s)
	if err != nil {
		return nil, err
	}
	t := domain.OnDay(day, offset)
	return &t, nil
}

// PlanDeliveries loads the package records from repo and runs the delivery
// simulation for the requested fleet over table.
func PlanDeliveries(
	ctx context.Context,
	req PlanDeliveriesRequest,
	repo ports.PackageRepository,
	table ports.DistanceTable,
) (_ *domain.Run, err error) {
	defer obs.Time(ctx, "services.PlanDeliveries")(&err)

	start := time.Now()
	defer func() {
		metrics.SimulationRuns.WithLabelValues(outcome(err)).Inc()
		metrics.SimulationDuration.Observe(time.Since(start).Seconds())
	}()

	if len(req.Vehicles) == 0 {
		return nil, errors.New("plan deliveries: no vehicles requested")
	}

	recs, err := repo.ListPackages(ctx)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: list packages: %w", err)
	}

	store, err := BuildPackages(recs, req.Day, req.DayStart, req.Corrections)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: %w", err)
	}

	engine, err := NewDeliveryEngine(store, table)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: %w", err)
	}

	vehicles := make([]*domain.Vehicle, 0, len(req.Vehicles))
	for _, vs := range req.Vehicles {
		vehicles = append(vehicles, domain.NewVehicle(vs.VehicleID, vs.Capacity, vs.SpeedMPH, domain.OnDay(req.Day, vs.Start)))
	}

	run, err := engine.Run(ctx, vehicles)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: %w", err)
	}

	run.ID = uuid.NewString()
	run.CreatedAt = time.Now().UTC()
	run.Day = req.Day

	metrics.PackagesDelivered.Add(float64(store.Len()))
	metrics.SimulationRounds.Observe(float64(run.Rounds))
	metrics.SimulationMiles.Set(run.TotalMiles)

	log.Printf(
		"req_id=%s op=services.PlanDeliveries run_id=%s packages=%d vehicles=%d rounds=%d miles=%.1f late=%v",
		obs.RequestID(ctx), run.ID, store.Len(), len(vehicles), run.Rounds, run.TotalMiles, run.Late,
	)

	return run, nil
}

func outcome(err error) string {
	var (
		integrity     *DataIntegrityError
		unsatisfiable *UnsatisfiableScheduleError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &integrity):
		return "integrity"
	case errors.As(err, &unsatisfiable):
		return "unsatisfiable"
	default:
		return "error"
	}
}
