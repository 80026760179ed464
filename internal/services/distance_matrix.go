package services

import (
	"context"
	"delivery-scheduler/internal/domain"
	"delivery-scheduler/internal/platform/obs"
	"delivery-scheduler/internal/ports"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// BuildDistanceMatrix fetches every pairwise distance between hub and
// addresses from provider and returns a symmetric matrix in miles, with
// domain.HubKey aliased to hub.
//
// Each unordered pair is fetched once, from the origin that comes first in
// the address list, and mirrored. Lookups run with bounded concurrency; the
// first failure cancels the rest.
func BuildDistanceMatrix(
	ctx context.Context,
	provider ports.DistanceProvider,
	hub string,
	addresses []string,
) (_ *domain.DistanceMatrix, err error) {
	defer obs.Time(ctx, "services.BuildDistanceMatrix")(&err)

	if provider == nil {
		return nil, errors.New("build distance matrix: provider must be non-nil")
	}

	hub = domain.NormalizeKey(hub)
	if hub == "" {
		return nil, errors.New("build distance matrix: hub must be non-empty")
	}

	matrix := domain.NewDistanceMatrix(append([]string{hub}, addresses...))
	if err := matrix.Alias(domain.HubKey, hub); err != nil {
		return nil, fmt.Errorf("build distance matrix: %w", err)
	}

	all := matrix.Addresses()
	if len(all) < 2 {
		return matrix, nil
	}

	mp, hasMatrix := provider.(ports.DistanceMatrixProvider)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(5)

	origins := all[:len(all)-1]
	fetched := make([]map[string]ports.DistanceResult, len(origins))

	for i, origin := range origins {
		targets := all[i+1:]
		g.Go(func() error {
			if hasMatrix {
				res, err := mp.GetDistances(gctx, origin, targets)
				if err != nil {
					return fmt.Errorf("build distance matrix: get distances from %q: %w", origin, err)
				}
				fetched[i] = res
				return nil
			}

			res := make(map[string]ports.DistanceResult, len(targets))
			for _, t := range targets {
				r, err := provider.GetDistance(gctx, origin, t)
				if err != nil {
					return fmt.Errorf("build distance matrix: get distance from %q to %q: %w", origin, t, err)
				}
				res[t] = r
			}
			fetched[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, origin := range all[:len(all)-1] {
		for _, t := range all[i+1:] {
			r, ok := fetched[i][t]
			if !ok {
				return nil, fmt.Errorf("build distance matrix: missing distance from %q to %q", origin, t)
			}
			if err := matrix.Set(origin, t, r.Miles()); err != nil {
				return nil, fmt.Errorf("build distance matrix: %w", err)
			}
		}
	}

	return matrix, nil
}
