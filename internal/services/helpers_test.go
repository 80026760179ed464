package services

import (
	"delivery-scheduler/internal/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testDay = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func clockAt(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := domain.ParseClock(s)
	require.NoError(t, err)
	return domain.OnDay(testDay, d)
}

type leg struct {
	a, b  string
	miles float64
}

func newTable(t *testing.T, legs ...leg) *domain.DistanceMatrix {
	t.Helper()
	addrs := []string{domain.HubKey}
	for _, l := range legs {
		addrs = append(addrs, l.a, l.b)
	}
	m := domain.NewDistanceMatrix(addrs)
	for _, l := range legs {
		require.NoError(t, m.Set(l.a, l.b, l.miles))
	}
	return m
}

func record(id int, street, notes string) domain.PackageRecord {
	return domain.PackageRecord{
		PackageID:   id,
		Address:     domain.Address{Street: street, City: "Salt Lake City", State: "UT", Zip: "84101"},
		Deadline:    "EOD",
		WeightKilos: 2,
		Notes:       notes,
	}
}

func newStore(t *testing.T, recs ...domain.PackageRecord) *domain.PackageStore {
	t.Helper()
	store, err := BuildPackages(recs, testDay, 8*time.Hour, nil)
	require.NoError(t, err)
	return store
}

func mustGet(t *testing.T, store *domain.PackageStore, id int) *domain.Package {
	t.Helper()
	p, ok := store.Get(id)
	require.True(t, ok, "package %d", id)
	return p
}
