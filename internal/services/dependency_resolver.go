package services

import (
	"delivery-scheduler/internal/domain"
	"fmt"
	"slices"
)

// DependencyGroups are the disjoint, maximal sets of packages that must ship
// on the same vehicle in the same run.
type DependencyGroups struct {
	groups [][]int
	byID   map[int]int
}

// ResolveDependencyGroups derives groups from every package's MustShipWith
// constraints. The relation is treated as undirected: a declaration on
// either side joins both packages. A reference to an unknown package id is a
// DataIntegrityError.
//
// Each declaring package's closure is collected breadth-first over the
// adjacency relation and merged into any accumulated group it shares an id
// with, so the result is the same whatever order packages are visited in.
func ResolveDependencyGroups(store *domain.PackageStore) (*DependencyGroups, error) {
	adj := make(map[int][]int)
	declaring := make([]int, 0)

	for _, p := range store.All() {
		with := p.ShipsWith()
		if len(with) == 0 {
			continue
		}
		declaring = append(declaring, p.PackageID)
		for _, other := range with {
			if _, ok := store.Get(other); !ok {
				return nil, &DataIntegrityError{
					PackageID: p.PackageID,
					Reason:    fmt.Sprintf("must ship with unknown package %d", other),
				}
			}
			if other == p.PackageID {
				continue
			}
			adj[p.PackageID] = append(adj[p.PackageID], other)
			adj[other] = append(adj[other], p.PackageID)
		}
	}

	var accumulated []map[int]struct{}
	for _, id := range declaring {
		closure := closureOf(id, adj)
		if len(closure) < 2 {
			continue
		}

		merged := false
		for _, g := range accumulated {
			if intersects(g, closure) {
				for member := range closure {
					g[member] = struct{}{}
				}
				merged = true
				break
			}
		}
		if !merged {
			accumulated = append(accumulated, closure)
		}
	}

	out := &DependencyGroups{byID: make(map[int]int)}
	for _, g := range accumulated {
		ids := make([]int, 0, len(g))
		for id := range g {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		out.groups = append(out.groups, ids)
	}
	slices.SortFunc(out.groups, func(a, b []int) int { return a[0] - b[0] })
	for i, g := range out.groups {
		for _, id := range g {
			out.byID[id] = i
		}
	}

	return out, nil
}

// closureOf walks the adjacency relation iteratively from start.
func closureOf(start int, adj map[int][]int) map[int]struct{} {
	seen := map[int]struct{}{start: {}}
	queue := []int{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adj[cur] {
			if _, ok := seen[next]; ok {
				continue
			}
			seen[next] = struct{}{}
			queue = append(queue, next)
		}
	}
	return seen
}

func intersects(a, b map[int]struct{}) bool {
	for id := range b {
		if _, ok := a[id]; ok {
			return true
		}
	}
	return false
}

// Groups returns every group as an ascending id list, ordered by smallest member.
func (d *DependencyGroups) Groups() [][]int {
	out := make([][]int, 0, len(d.groups))
	for _, g := range d.groups {
		out = append(out, slices.Clone(g))
	}
	return out
}

// GroupOf returns the group containing id, or nil when the package travels alone.
func (d *DependencyGroups) GroupOf(id int) []int {
	i, ok := d.byID[id]
	if !ok {
		return nil
	}
	return d.groups[i]
}
