package domain

import (
	"fmt"
	"slices"
)

// PackageStore owns every package of a run, indexed by id. All components
// hold ids and resolve them here, so a mutation is visible to every holder.
type PackageStore struct {
	byID map[int]*Package
	ids  []int
}

func NewPackageStore(pkgs []*Package) (*PackageStore, error) {
	s := &PackageStore{byID: make(map[int]*Package, len(pkgs))}
	for _, p := range pkgs {
		if p.PackageID <= 0 {
			return nil, fmt.Errorf("package store: invalid package id %d", p.PackageID)
		}
		if _, dup := s.byID[p.PackageID]; dup {
			return nil, fmt.Errorf("package store: duplicate package id %d", p.PackageID)
		}
		s.byID[p.PackageID] = p
		s.ids = append(s.ids, p.PackageID)
	}
	slices.Sort(s.ids)
	return s, nil
}

// Get looks a package up by id.
func (s *PackageStore) Get(id int) (*Package, bool) {
	p, ok := s.byID[id]
	return p, ok
}

// All enumerates packages in ascending id order.
func (s *PackageStore) All() []*Package {
	out := make([]*Package, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, s.byID[id])
	}
	return out
}

func (s *PackageStore) Len() int { return len(s.ids) }

// AllDelivered reports whether every package carries a Delivered event.
func (s *PackageStore) AllDelivered() bool {
	for _, p := range s.byID {
		if !p.IsDelivered() {
			return false
		}
	}
	return true
}

// Undelivered lists the ids of packages not yet delivered, ascending.
func (s *PackageStore) Undelivered() []int {
	var out []int
	for _, id := range s.ids {
		if !s.byID[id].IsDelivered() {
			out = append(out, id)
		}
	}
	return out
}
