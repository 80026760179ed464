// Package importer reads the tabular package list and distance table.
package importer

import (
	"delivery-scheduler/internal/domain"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

const packageColumns = 8

// ReadPackages parses a package CSV: id, address, city, state, zip,
// deadline, weight, notes. The first row is a header.
func ReadPackages(r io.Reader) ([]domain.PackageRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("read packages: empty input")
		}
		return nil, fmt.Errorf("read packages: header: %w", err)
	}

	out := make([]domain.PackageRecord, 0, 64)
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read packages: line %d: %w", line, err)
		}
		if isBlank(row) {
			continue
		}
		if len(row) < packageColumns-1 {
			return nil, fmt.Errorf("read packages: line %d: expected %d columns, got %d", line, packageColumns, len(row))
		}

		id, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("read packages: line %d: invalid package id %q", line, row[0])
		}

		deadline, err := normalizeDeadline(row[5])
		if err != nil {
			return nil, fmt.Errorf("read packages: line %d: %w", line, err)
		}

		weight, err := strconv.ParseFloat(strings.TrimSpace(row[6]), 64)
		if err != nil {
			return nil, fmt.Errorf("read packages: line %d: weight %q: %w", line, row[6], err)
		}

		notes := ""
		if len(row) >= packageColumns {
			notes = strings.TrimSpace(row[7])
		}

		out = append(out, domain.PackageRecord{
			PackageID: id,
			Address: domain.Address{
				Street: domain.NormalizeKey(row[1]),
				City:   strings.TrimSpace(row[2]),
				State:  strings.TrimSpace(row[3]),
				Zip:    strings.TrimSpace(row[4]),
			},
			Deadline:    deadline,
			WeightKilos: weight,
			Notes:       notes,
		})
	}

	return out, nil
}

// normalizeDeadline accepts "EOD", a clock time, or a spreadsheet day fraction
// and returns "EOD" or "HH:MM".
func normalizeDeadline(s string) (string, error) {
	v := strings.TrimSpace(s)
	if v == "" || strings.EqualFold(v, "EOD") {
		return "EOD", nil
	}

	if offset, err := domain.ParseClock(v); err == nil {
		return formatClock(offset), nil
	}

	frac, err := strconv.ParseFloat(v, 64)
	if err != nil || frac < 0 || frac >= 1 {
		return "", fmt.Errorf("deadline %q: expected EOD, HH:MM or day fraction", s)
	}
	offset := time.Duration(math.Round(frac*24*60)) * time.Minute
	return formatClock(offset), nil
}

func formatClock(offset time.Duration) string {
	h := int(offset / time.Hour)
	m := int((offset % time.Hour) / time.Minute)
	return fmt.Sprintf("%02d:%02d", h, m)
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
