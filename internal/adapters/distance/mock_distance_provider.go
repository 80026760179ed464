package distance

import (
	"context"
	"delivery-scheduler/internal/domain"
	"delivery-scheduler/internal/ports"
	"fmt"
	"sync/atomic"
)

type MockPair struct {
	From, To string
	Meters   int
	Seconds  int
}

// MockDistanceProvider answers from a fixed pair list. A pair given in one
// direction also answers the reverse lookup.
type MockDistanceProvider struct {
	m     map[string]ports.DistanceResult
	calls atomic.Int64
}

func NewMockDistanceProvider(pairs []MockPair) *MockDistanceProvider {
	m := make(map[string]ports.DistanceResult, 2*len(pairs))
	for _, p := range pairs {
		r := ports.DistanceResult{DistanceMeters: p.Meters, DurationSeconds: p.Seconds}
		from, to := domain.NormalizeKey(p.From), domain.NormalizeKey(p.To)
		m[from+"|"+to] = r
		if _, ok := m[to+"|"+from]; !ok {
			m[to+"|"+from] = r
		}
	}
	return &MockDistanceProvider{m: m}
}

func (p *MockDistanceProvider) GetDistance(ctx context.Context, origin, destination string) (ports.DistanceResult, error) {
	p.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return ports.DistanceResult{}, err
	}

	r, ok := p.m[domain.NormalizeKey(origin)+"|"+domain.NormalizeKey(destination)]
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("missing pair %q -> %q", origin, destination)
	}

	return r, nil
}

// Calls is the number of lookups served, batched or not.
func (p *MockDistanceProvider) Calls() int64 { return p.calls.Load() }

// MockMatrixProvider adds one-to-many lookups on top of MockDistanceProvider.
type MockMatrixProvider struct {
	*MockDistanceProvider
}

func NewMockMatrixProvider(pairs []MockPair) *MockMatrixProvider {
	return &MockMatrixProvider{MockDistanceProvider: NewMockDistanceProvider(pairs)}
}

func (p *MockMatrixProvider) GetDistances(ctx context.Context, origin string, destinations []string) (map[string]ports.DistanceResult, error) {
	p.calls.Add(1)
	out := make(map[string]ports.DistanceResult, len(destinations))
	for _, d := range destinations {
		r, ok := p.m[domain.NormalizeKey(origin)+"|"+domain.NormalizeKey(d)]
		if !ok {
			return nil, fmt.Errorf("missing pair %q -> %q", origin, d)
		}
		out[d] = r
	}
	return out, nil
}
