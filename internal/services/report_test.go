package services

import (
	"delivery-scheduler/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot(t *testing.T) {
	table := newTable(t,
		leg{domain.HubKey, "A", 3},
		leg{domain.HubKey, "B", 5},
		leg{"A", "B", 4},
	)
	onTime := record(1, "A", "")
	onTime.Deadline = "12:00"
	late := record(2, "B", "")
	late.Deadline = "12:00"
	store := newStore(t, onTime, late)

	run, err := runEngine(t, store, table, domain.NewVehicle(1, 2, 1, clockAt(t, "08:00")))
	require.NoError(t, err)
	run.ID = "run-1"

	rep := Snapshot(run, clockAt(t, "12:00"))
	assert.Equal(t, "run-1", rep.RunID)
	assert.InDelta(t, 3.0, rep.TotalMiles, 1e-9)
	require.Len(t, rep.Packages, 2)

	p1, p2 := rep.Packages[0], rep.Packages[1]
	assert.Equal(t, domain.StatusDelivered, p1.Status)
	require.NotNil(t, p1.OnTime)
	assert.True(t, *p1.OnTime)
	assert.Equal(t, 1, p1.VehicleID)

	assert.Equal(t, domain.StatusEnRoute, p2.Status)
	assert.Nil(t, p2.DeliveredAt)
	assert.Nil(t, p2.OnTime)
	require.NotNil(t, p2.LoadedAt)

	require.Len(t, rep.Vehicles, 1)
	assert.Equal(t, "A", rep.Vehicles[0].Location)
	assert.Equal(t, []int{2}, rep.Vehicles[0].Load)

	final := Snapshot(run, run.CompletedAt())
	assert.InDelta(t, 12.0, final.TotalMiles, 1e-9)
	require.NotNil(t, final.Packages[1].OnTime)
	assert.False(t, *final.Packages[1].OnTime)
	assert.Equal(t, domain.HubKey, final.Vehicles[0].Location)
	assert.Empty(t, final.Vehicles[0].Load)
}

func TestSnapshotBeforeDelayedArrival(t *testing.T) {
	table := newTable(t, leg{domain.HubKey, "A", 3})
	store := newStore(t, record(1, "A", "delayed until 09:05"))

	run, err := runEngine(t, store, table, domain.NewVehicle(1, 2, 18, clockAt(t, "08:00")))
	require.NoError(t, err)

	rep := Snapshot(run, clockAt(t, "08:30"))
	assert.Equal(t, StatusNotArrived, rep.Packages[0].Status)

	rep = Snapshot(run, clockAt(t, "09:05"))
	assert.Equal(t, domain.StatusEnRoute, rep.Packages[0].Status)
	require.NotNil(t, rep.Packages[0].LoadedAt)
}
