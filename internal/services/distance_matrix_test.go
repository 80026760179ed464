package services

import (
	"context"
	"delivery-scheduler/internal/adapters/distance"
	"delivery-scheduler/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var matrixPairs = []distance.MockPair{
	{From: "4001 South 700 East", To: "195 W Oakland Ave", Meters: 1609, Seconds: 120},
	{From: "4001 South 700 East", To: "2530 S 500 E", Meters: 3218, Seconds: 240},
	{From: "195 W Oakland Ave", To: "2530 S 500 E", Meters: 4828, Seconds: 360},
}

func TestBuildDistanceMatrix(t *testing.T) {
	tests := []struct {
		name      string
		provider  interface{ Calls() int64 }
		wantCalls int64
	}{
		{name: "pairwise lookups", provider: distance.NewMockDistanceProvider(matrixPairs), wantCalls: 3},
		{name: "batched lookups", provider: distance.NewMockMatrixProvider(matrixPairs), wantCalls: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				m   *domain.DistanceMatrix
				err error
			)
			switch p := tt.provider.(type) {
			case *distance.MockMatrixProvider:
				m, err = BuildDistanceMatrix(context.Background(), p, "4001  South 700 East", []string{"195 W Oakland Ave", "2530 S 500 E"})
			case *distance.MockDistanceProvider:
				m, err = BuildDistanceMatrix(context.Background(), p, "4001  South 700 East", []string{"195 W Oakland Ave", "2530 S 500 E"})
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCalls, tt.provider.Calls())

			d, err := m.Distance(domain.HubKey, "195 W Oakland Ave")
			require.NoError(t, err)
			assert.InDelta(t, 1.0, d, 0.001)

			d, err = m.Distance("2530 S 500 E", "195 W Oakland Ave")
			require.NoError(t, err)
			assert.InDelta(t, 3.0, d, 0.001)

			d, err = m.Distance(domain.HubKey, domain.HubKey)
			require.NoError(t, err)
			assert.Zero(t, d)
		})
	}
}

func TestBuildDistanceMatrixMissingPair(t *testing.T) {
	provider := distance.NewMockDistanceProvider(matrixPairs[:2])

	_, err := BuildDistanceMatrix(context.Background(), provider, "4001 South 700 East", []string{"195 W Oakland Ave", "2530 S 500 E"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing pair")
}

func TestBuildDistanceMatrixRejectsEmptyHub(t *testing.T) {
	_, err := BuildDistanceMatrix(context.Background(), distance.NewMockDistanceProvider(nil), "  ", nil)
	require.Error(t, err)
}
