package ports

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceResultMiles(t *testing.T) {
	assert.InDelta(t, 1.0, DistanceResult{DistanceMeters: 1609}.Miles(), 0.001)
	assert.Zero(t, DistanceResult{}.Miles())
}
