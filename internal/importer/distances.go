package importer

import (
	"delivery-scheduler/internal/domain"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Location is a named row of the distance table.
type Location struct {
	Name   string
	Street string
	Zip    string
}

var streetZipRe = regexp.MustCompile(`^\s*(.*?)\s*\((\d{5})\)\s*$`)

// ReadDistances parses a distance CSV: column 0 is the location name,
// column 1 the street (optionally followed by "(zip)"), and the remaining
// columns a lower-triangular distance table in miles. Row 0 is the hub and
// is aliased to domain.HubKey.
func ReadDistances(r io.Reader) (*domain.DistanceMatrix, []Location, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read distances: %w", err)
	}

	locations := make([]Location, 0, len(rows))
	data := make([][]string, 0, len(rows))
	for i, row := range rows {
		if isBlank(row) {
			continue
		}
		if len(row) < 2 {
			return nil, nil, fmt.Errorf("read distances: row %d: expected name and address columns", i+1)
		}
		locations = append(locations, parseLocation(row[0], row[1]))
		data = append(data, row[2:])
	}

	if len(locations) == 0 {
		return nil, nil, errors.New("read distances: empty input")
	}

	streets := make([]string, 0, len(locations))
	for _, l := range locations {
		streets = append(streets, l.Street)
	}
	m := domain.NewDistanceMatrix(streets)
	if err := m.Alias(domain.HubKey, locations[0].Street); err != nil {
		return nil, nil, fmt.Errorf("read distances: %w", err)
	}

	for y, row := range data {
		for x := 0; x < len(row) && x < len(locations); x++ {
			cell := strings.TrimSpace(row[x])
			if cell == "" {
				continue
			}
			miles, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("read distances: row %d col %d: %q: %w", y+1, x+3, cell, err)
			}
			if err := m.Set(locations[y].Street, locations[x].Street, miles); err != nil {
				return nil, nil, fmt.Errorf("read distances: row %d: %w", y+1, err)
			}
		}
	}

	return m, locations, nil
}

func parseLocation(name, address string) Location {
	loc := Location{Name: strings.Join(strings.Fields(name), " ")}
	if m := streetZipRe.FindStringSubmatch(address); m != nil {
		loc.Street = domain.NormalizeKey(m[1])
		loc.Zip = m[2]
		return loc
	}
	loc.Street = domain.NormalizeKey(address)
	return loc
}
