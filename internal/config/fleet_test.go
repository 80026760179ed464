package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFleetRequest(t *testing.T) {
	now := time.Date(2026, 10, 17, 15, 30, 0, 0, time.UTC)

	req, err := DefaultFleet().ToRequest(now)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC), req.Day)
	assert.Equal(t, 8*time.Hour, req.DayStart)
	require.Len(t, req.Vehicles, 3)
	assert.Equal(t, 9*time.Hour+5*time.Minute, req.Vehicles[1].Start)
	assert.Equal(t, 10*time.Hour+20*time.Minute, req.Vehicles[2].Start)
	for _, v := range req.Vehicles {
		assert.Equal(t, 16, v.Capacity)
		assert.Equal(t, 18.0, v.SpeedMPH)
	}
	assert.Empty(t, req.Corrections)
}

func TestLoadFleetFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fleet.yaml")
	yml := `
service_date: "2026-03-02"
day_start: "07:30"
vehicles:
  - id: 1
    start: "07:30"
  - id: 2
    capacity: 10
    speed_mph: 25
    start: "9:05 am"
address_corrections:
  - package_id: 9
    after: "10:20"
    address:
      street: 410 S State St
      city: Salt Lake City
      state: UT
      zip: "84111"
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	cfg, err := LoadFleet(path)
	require.NoError(t, err)
	req, err := cfg.ToRequest(time.Now())
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), req.Day)
	assert.Equal(t, 7*time.Hour+30*time.Minute, req.DayStart)
	require.Len(t, req.Vehicles, 2)
	assert.Equal(t, DefaultCapacity, req.Vehicles[0].Capacity)
	assert.Equal(t, 25.0, req.Vehicles[1].SpeedMPH)
	assert.Equal(t, 9*time.Hour+5*time.Minute, req.Vehicles[1].Start)

	require.Len(t, req.Corrections, 1)
	assert.Equal(t, 9, req.Corrections[0].PackageID)
	assert.Equal(t, 10*time.Hour+20*time.Minute, req.Corrections[0].After)
	assert.Equal(t, "410 S State St", req.Corrections[0].Address.Street)
}

func TestFleetErrors(t *testing.T) {
	_, err := ParseFleet([]byte("vehicles: [oops"))
	require.Error(t, err)

	cfg := DefaultFleet()
	cfg.ServiceDate = "03/02/2026"
	_, err = cfg.ToRequest(time.Now())
	require.Error(t, err)

	cfg = DefaultFleet()
	cfg.Vehicles[0].Start = "25:00"
	_, err = cfg.ToRequest(time.Now())
	require.Error(t, err)

	_, err = LoadFleet(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestGetInt(t *testing.T) {
	t.Setenv("ORS_RATE_PER_MINUTE", "40")
	assert.Equal(t, 40, GetInt("ORS_RATE_PER_MINUTE", 10))

	t.Setenv("ORS_RATE_PER_MINUTE", "forty")
	assert.Equal(t, 10, GetInt("ORS_RATE_PER_MINUTE", 10))

	t.Setenv("PORT", "")
	assert.Equal(t, "8080", Get("PORT", "8080"))
}
