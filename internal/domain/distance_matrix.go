package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownAddress is returned for lookups of an address the matrix does not hold.
var ErrUnknownAddress = errors.New("unknown address")

// DistanceMatrix is a symmetric, in-memory address-to-address distance table
// in miles. Keys are normalized with NormalizeKey.
type DistanceMatrix struct {
	index     map[string]int
	addresses []string
	miles     [][]float64
}

func NewDistanceMatrix(addresses []string) *DistanceMatrix {
	m := &DistanceMatrix{
		index:     make(map[string]int, len(addresses)),
		addresses: make([]string, 0, len(addresses)),
	}
	for _, a := range addresses {
		k := NormalizeKey(a)
		if _, ok := m.index[k]; ok {
			continue
		}
		m.index[k] = len(m.addresses)
		m.addresses = append(m.addresses, k)
	}
	m.miles = make([][]float64, len(m.addresses))
	for i := range m.miles {
		m.miles[i] = make([]float64, len(m.addresses))
	}
	return m
}

// Alias makes alias resolve to the same row as address (e.g. HubKey to the depot street).
func (m *DistanceMatrix) Alias(alias, address string) error {
	i, ok := m.index[NormalizeKey(address)]
	if !ok {
		return fmt.Errorf("alias %q: %q: %w", alias, address, ErrUnknownAddress)
	}
	m.index[NormalizeKey(alias)] = i
	return nil
}

// Set stores a distance in both directions.
func (m *DistanceMatrix) Set(a, b string, miles float64) error {
	if miles < 0 {
		return fmt.Errorf("set distance %q -> %q: negative distance %v", a, b, miles)
	}
	i, ok := m.index[NormalizeKey(a)]
	if !ok {
		return fmt.Errorf("set distance: %q: %w", a, ErrUnknownAddress)
	}
	j, ok := m.index[NormalizeKey(b)]
	if !ok {
		return fmt.Errorf("set distance: %q: %w", b, ErrUnknownAddress)
	}
	m.miles[i][j] = miles
	m.miles[j][i] = miles
	return nil
}

// Distance returns the distance between two address keys.
func (m *DistanceMatrix) Distance(a, b string) (float64, error) {
	i, ok := m.index[NormalizeKey(a)]
	if !ok {
		return 0, fmt.Errorf("distance %q -> %q: %q: %w", a, b, a, ErrUnknownAddress)
	}
	j, ok := m.index[NormalizeKey(b)]
	if !ok {
		return 0, fmt.Errorf("distance %q -> %q: %q: %w", a, b, b, ErrUnknownAddress)
	}
	return m.miles[i][j], nil
}

// Has reports whether the address resolves to a row.
func (m *DistanceMatrix) Has(address string) bool {
	_, ok := m.index[NormalizeKey(address)]
	return ok
}

// Addresses lists the matrix rows in insertion order.
func (m *DistanceMatrix) Addresses() []string {
	out := make([]string, len(m.addresses))
	copy(out, m.addresses)
	return out
}
