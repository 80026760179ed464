package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPackage(t *testing.T, constraints ...Constraint) (*Package, time.Time) {
	t.Helper()
	start := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	rec := PackageRecord{
		PackageID: 9,
		Address:   Address{Street: "300 State St", City: "Salt Lake City", State: "UT", Zip: "84103"},
		Notes:     "Wrong address listed",
	}
	return NewPackage(rec, nil, constraints, start), start
}

func TestPackageStatusTimeline(t *testing.T) {
	p, start := newTestPackage(t)

	assert.False(t, p.Loaded())
	assert.False(t, p.IsOnVehicle())

	p.LogStatus(StatusLoaded, 2, start.Add(time.Hour))
	p.LogStatus(StatusEnRoute, 2, start.Add(time.Hour))
	p.LogStatus(StatusDelivered, 2, start.Add(2*time.Hour))

	assert.True(t, p.IsDelivered())
	assert.False(t, p.IsOnVehicle())

	e, ok := p.StatusAt(start.Add(90 * time.Minute))
	require.True(t, ok)
	assert.Equal(t, StatusEnRoute, e.Status)
	assert.True(t, p.IsOnVehicleAt(start.Add(90*time.Minute)))
	assert.False(t, p.IsOnVehicleAt(start.Add(30*time.Minute)))
	assert.False(t, p.IsOnVehicleAt(start.Add(3*time.Hour)))

	_, ok = p.StatusAt(start.Add(-time.Minute))
	assert.False(t, ok)

	vid, ok := p.VehicleID()
	require.True(t, ok)
	assert.Equal(t, 2, vid)
}

func TestPackageAddressHistory(t *testing.T) {
	corrected := Address{Street: "410 S State St", City: "Salt Lake City", State: "UT", Zip: "84111"}
	p, start := newTestPackage(t, AddressCorrection{After: start0().Add(140 * time.Minute), Address: corrected})

	_, ok := p.PendingCorrection(start.Add(time.Hour))
	assert.False(t, ok, "cutoff has not passed")

	ac, ok := p.PendingCorrection(start.Add(150 * time.Minute))
	require.True(t, ok)
	p.UpdateAddress(ac.Address, start.Add(150*time.Minute))

	assert.Equal(t, corrected, p.CurrentAddress())
	assert.Equal(t, "300 State St", p.AddressAt(start.Add(time.Hour)).Street)
	assert.Equal(t, "410 S State St", p.AddressAt(start.Add(3*time.Hour)).Street)

	_, ok = p.PendingCorrection(start.Add(4 * time.Hour))
	assert.False(t, ok, "correction is applied once")

	avail, ok := p.EarliestAvailableTime()
	require.True(t, ok)
	assert.Equal(t, start.Add(140*time.Minute), avail)
}

func TestPackageConstraintQueries(t *testing.T) {
	p, start := newTestPackage(t,
		MustShipWith{PackageIDs: []int{13, 15}},
		RequiresVehicle{VehicleID: 2},
		AvailableAfter{At: start0().Add(65 * time.Minute)},
	)

	vid, ok := p.RequiredVehicleID()
	require.True(t, ok)
	assert.Equal(t, 2, vid)
	assert.Equal(t, []int{13, 15}, p.ShipsWith())

	avail, ok := p.EarliestAvailableTime()
	require.True(t, ok)
	assert.Equal(t, start.Add(65*time.Minute), avail)
}

func TestPackageAvailableFromHubArrival(t *testing.T) {
	p, start := newTestPackage(t)
	avail, ok := p.EarliestAvailableTime()
	require.True(t, ok)
	assert.Equal(t, start, avail)

	q, _ := newTestPackage(t, AvailableAfter{At: start.Add(-time.Hour)})
	avail, ok = q.EarliestAvailableTime()
	require.True(t, ok)
	assert.Equal(t, start, avail, "an earlier delay does not precede hub arrival")
}

func TestPackageIsLate(t *testing.T) {
	p, start := newTestPackage(t)
	deadline := start.Add(2 * time.Hour)
	p.Deadline = &deadline

	p.LogStatus(StatusDelivered, 1, start.Add(time.Hour))
	assert.False(t, p.IsLate())

	q, _ := newTestPackage(t)
	q.Deadline = &deadline
	q.LogStatus(StatusDelivered, 1, start.Add(3*time.Hour))
	assert.True(t, q.IsLate())
}

func start0() time.Time { return time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC) }
