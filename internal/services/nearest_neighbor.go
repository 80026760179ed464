package services

import (
	"delivery-scheduler/internal/domain"
	"delivery-scheduler/internal/ports"
	"errors"
	"fmt"
	"math"
)

// nearestPackage selects the candidate whose current address is closest to from.
//
// Only a strictly shorter distance replaces the current best, so ties go to
// the candidate seen first and the result is deterministic for a given
// candidate order. No secondary tie-breaker is applied.
func nearestPackage(
	table ports.DistanceTable,
	from string,
	candidates []*domain.Package,
) (*domain.Package, error) {
	var best *domain.Package
	minDistance := math.Inf(1)

	// Select the next package by minimum distance (greedy step).
	for _, p := range candidates {
		d, err := table.Distance(from, p.CurrentAddress().Key())
		if err != nil {
			return nil, &DataIntegrityError{PackageID: p.PackageID, Reason: "distance lookup", Err: err}
		}
		if d < minDistance {
			minDistance = d
			best = p
		}
	}

	return best, nil
}

// Sequence packages using a greedy nearest-neighbor walk from start.
//
// At each step the closest remaining package to the last placed address is
// appended. It does not attempt global route optimization; the design
// prioritizes determinism and simplicity over optimality.
func NearestNeighborOrder(
	table ports.DistanceTable,
	start string,
	pkgs []*domain.Package,
) ([]int, error) {
	if start == "" {
		return nil, errors.New("nearest neighbor order: start must be non-empty")
	}

	remaining := make([]*domain.Package, len(pkgs))
	copy(remaining, pkgs)

	order := make([]int, 0, len(pkgs))
	current := start
	for len(remaining) > 0 {
		next, err := nearestPackage(table, current, remaining)
		if err != nil {
			return nil, fmt.Errorf("nearest neighbor order: %w", err)
		}
		if next == nil {
			return nil, errors.New("nearest neighbor order: failed to select next package")
		}

		order = append(order, next.PackageID)
		current = next.CurrentAddress().Key()

		for i, p := range remaining {
			if p == next {
				remaining = append(remaining[:i], remaining[i+1:]...)
				break
			}
		}
	}

	return order, nil
}
