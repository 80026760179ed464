package distance

import (
	"context"
	"delivery-scheduler/internal/ports"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memDistanceCache struct {
	mu sync.Mutex
	m  map[string]ports.DistanceResult
}

func (c *memDistanceCache) GetMany(ctx context.Context, origin string, destinations []string) (map[string]ports.DistanceResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]ports.DistanceResult)
	for _, d := range destinations {
		if r, ok := c.m[origin+"|"+d]; ok {
			out[d] = r
		}
	}
	return out, nil
}

func (c *memDistanceCache) PutMany(ctx context.Context, origin string, results map[string]ports.DistanceResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.m == nil {
		c.m = make(map[string]ports.DistanceResult)
	}
	for d, r := range results {
		c.m[origin+"|"+d] = r
	}
	return nil
}

type fakeORS struct {
	geocodes   atomic.Int32
	matrices   atomic.Int32
	failMatrix atomic.Int32
	lastMatrix matrixRequest
	mu         sync.Mutex
}

func (f *fakeORS) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /geocode/search", func(w http.ResponseWriter, r *http.Request) {
		f.geocodes.Add(1)
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))
		lon := float64(len(r.URL.Query().Get("text")))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"features": []any{map[string]any{"geometry": map[string]any{"coordinates": []float64{lon, 40}}}},
		})
	})
	mux.HandleFunc("POST /v2/matrix/driving-car", func(w http.ResponseWriter, r *http.Request) {
		if f.failMatrix.Add(-1) >= 0 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		f.matrices.Add(1)

		var req matrixRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		f.mu.Lock()
		f.lastMatrix = req
		f.mu.Unlock()

		dist := make([]float64, 0, len(req.Destinations))
		dur := make([]float64, 0, len(req.Destinations))
		for _, i := range req.Destinations {
			dist = append(dist, 1000*float64(i)+0.4)
			dur = append(dur, 60*float64(i))
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"distances": [][]float64{dist},
			"durations": [][]float64{dur},
		})
	})
	return mux
}

func newTestProvider(t *testing.T, f *fakeORS, cache ports.DistanceCache) *ORSDistanceProvider {
	t.Helper()
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)

	p, err := NewORSDistanceProvider(ORSConfig{APIKey: "test-key", BaseURL: srv.URL, RatePerMinute: 60000}, cache, nil)
	require.NoError(t, err)
	p.client.backoff = 0
	return p
}

func TestORSGetDistancesUsesCache(t *testing.T) {
	f := &fakeORS{}
	cache := &memDistanceCache{}
	p := newTestProvider(t, f, cache)
	ctx := context.Background()

	got, err := p.GetDistances(ctx, "HUB  St", []string{"A St", "B St", "A St", "HUB St"})
	require.NoError(t, err)
	assert.Equal(t, map[string]ports.DistanceResult{
		"A St": {DistanceMeters: 1000, DurationSeconds: 60},
		"B St": {DistanceMeters: 2000, DurationSeconds: 120},
	}, got)
	assert.EqualValues(t, 1, f.matrices.Load())
	assert.EqualValues(t, 3, f.geocodes.Load())
	assert.Equal(t, []int{1, 2}, f.lastMatrix.Destinations)

	r, err := p.GetDistance(ctx, "HUB St", "B St")
	require.NoError(t, err)
	assert.Equal(t, 2000, r.DistanceMeters)
	assert.EqualValues(t, 1, f.matrices.Load())
}

func TestORSRetriesTransientFailures(t *testing.T) {
	f := &fakeORS{}
	f.failMatrix.Store(2)
	p := newTestProvider(t, f, nil)

	r, err := p.GetDistance(context.Background(), "HUB St", "A St")
	require.NoError(t, err)
	assert.Equal(t, 1000, r.DistanceMeters)
	assert.EqualValues(t, 1, f.matrices.Load())
}

func TestORSGivesUpAfterMaxAttempts(t *testing.T) {
	f := &fakeORS{}
	f.failMatrix.Store(maxAttempts)
	p := newTestProvider(t, f, nil)

	_, err := p.GetDistance(context.Background(), "HUB St", "A St")
	require.Error(t, err)

	var he *httpStatusError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusServiceUnavailable, he.Code)
}

func TestNewORSDistanceProviderRequiresKey(t *testing.T) {
	_, err := NewORSDistanceProvider(ORSConfig{}, nil, nil)
	require.Error(t, err)
}
