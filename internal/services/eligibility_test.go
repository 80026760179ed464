package services

import (
	"delivery-scheduler/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadableIDs(f *EligibilityFilter, v *domain.Vehicle) []int {
	ids := make([]int, 0)
	for _, p := range f.Loadable(v) {
		ids = append(ids, p.PackageID)
	}
	return ids
}

func TestEligibilityHoldsDelayedPackageUntilArrival(t *testing.T) {
	store := newStore(t,
		record(1, "A", "Delayed on flight---will not arrive to depot until 9:05 am"),
		record(2, "B", ""),
	)
	groups, err := ResolveDependencyGroups(store)
	require.NoError(t, err)
	f := NewEligibilityFilter(store, groups)

	v := domain.NewVehicle(1, 16, 18, clockAt(t, "08:00"))
	assert.Contains(t, f.Ineligible(v), 1)
	assert.Equal(t, []int{2}, loadableIDs(f, v))

	v.WaitUntil(clockAt(t, "09:04:59"))
	assert.Equal(t, []int{2}, loadableIDs(f, v))

	v.WaitUntil(clockAt(t, "09:05"))
	assert.Equal(t, []int{1, 2}, loadableIDs(f, v))
}

func TestEligibilityPinnedPackageHoldsItsGroup(t *testing.T) {
	store := newStore(t,
		record(3, "A", "Can only be on truck 2"),
		record(4, "B", "must ship with 3"),
		record(5, "C", ""),
	)
	groups, err := ResolveDependencyGroups(store)
	require.NoError(t, err)
	f := NewEligibilityFilter(store, groups)

	v1 := domain.NewVehicle(1, 16, 18, clockAt(t, "08:00"))
	ineligible := f.Ineligible(v1)
	assert.Contains(t, ineligible, 3)
	assert.Contains(t, ineligible, 4)
	assert.Equal(t, []int{5}, loadableIDs(f, v1))

	v2 := domain.NewVehicle(2, 16, 18, clockAt(t, "08:00"))
	assert.Equal(t, []int{3, 4, 5}, loadableIDs(f, v2))
}

func TestEligibilityExcludesLoadedPackages(t *testing.T) {
	store := newStore(t, record(1, "A", ""), record(2, "B", ""))
	groups, err := ResolveDependencyGroups(store)
	require.NoError(t, err)
	f := NewEligibilityFilter(store, groups)

	v := domain.NewVehicle(1, 16, 18, clockAt(t, "08:00"))
	mustGet(t, store, 1).LogStatus(domain.StatusLoaded, 1, v.Clock)

	assert.Contains(t, f.Ineligible(v), 1)
	assert.Equal(t, []int{2}, loadableIDs(f, v))
}
