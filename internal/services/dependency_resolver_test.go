package services

import (
	"delivery-scheduler/internal/domain"
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDependencyGroupsMergesTransitively(t *testing.T) {
	store := newStore(t,
		record(1, "A", "must ship with 2"),
		record(2, "B", ""),
		record(3, "C", "Must be delivered with 4"),
		record(4, "D", "must ship with 2"),
		record(5, "E", ""),
		record(6, "F", "must ship with 5"),
		record(7, "G", ""),
	)

	groups, err := ResolveDependencyGroups(store)
	require.NoError(t, err)

	assert.Equal(t, [][]int{{1, 2, 3, 4}, {5, 6}}, groups.Groups())
	assert.Equal(t, []int{1, 2, 3, 4}, groups.GroupOf(3))
	assert.Equal(t, []int{5, 6}, groups.GroupOf(5))
	assert.Nil(t, groups.GroupOf(7))
}

func TestResolveDependencyGroupsIgnoresInputOrder(t *testing.T) {
	recs := []domain.PackageRecord{
		record(10, "A", "must ship with 11, 12"),
		record(11, "B", ""),
		record(12, "C", "must ship with 10"),
		record(13, "D", "must ship with 12"),
		record(20, "E", "must ship with 21"),
		record(21, "F", ""),
		record(30, "G", ""),
	}
	want := [][]int{{10, 11, 12, 13}, {20, 21}}

	orders := [][]domain.PackageRecord{recs, slices.Clone(recs)}
	slices.Reverse(orders[1])
	for i := 1; i < len(recs); i++ {
		orders = append(orders, append(slices.Clone(recs[i:]), recs[:i]...))
	}

	for _, order := range orders {
		groups, err := ResolveDependencyGroups(newStore(t, order...))
		require.NoError(t, err)
		assert.Equal(t, want, groups.Groups())

		again, err := ResolveDependencyGroups(newStore(t, order...))
		require.NoError(t, err)
		assert.Equal(t, groups.Groups(), again.Groups())
	}
}

func TestResolveDependencyGroupsIgnoresClockDigitsInNotes(t *testing.T) {
	store := newStore(t,
		record(1, "A", "must ship with 2, delayed until 11:00"),
		record(2, "B", ""),
	)

	groups, err := ResolveDependencyGroups(store)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 2}}, groups.Groups())
}

func TestResolveDependencyGroupsIgnoresSelfReference(t *testing.T) {
	store := newStore(t, record(1, "A", "must ship with 1"))

	groups, err := ResolveDependencyGroups(store)
	require.NoError(t, err)
	assert.Empty(t, groups.Groups())
	assert.Nil(t, groups.GroupOf(1))
}

func TestResolveDependencyGroupsRejectsUnknownPackage(t *testing.T) {
	store := newStore(t, record(1, "A", "must ship with 99"))

	_, err := ResolveDependencyGroups(store)
	require.Error(t, err)

	var integrity *DataIntegrityError
	require.True(t, errors.As(err, &integrity))
	assert.Equal(t, 1, integrity.PackageID)
	assert.Contains(t, err.Error(), "99")
}
