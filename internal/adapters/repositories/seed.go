package repositories

import (
	"context"
	"database/sql"
	"delivery-scheduler/internal/domain"
	"delivery-scheduler/internal/platform/db"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

type PackageSeed struct {
	PackageID   int     `json:"package_id"`
	Street      string  `json:"street"`
	City        string  `json:"city"`
	State       string  `json:"state"`
	Zip         string  `json:"zip"`
	Deadline    string  `json:"deadline"`
	WeightKilos float64 `json:"weight_kilos"`
	Notes       string  `json:"notes"`
}

func (s PackageSeed) record() domain.PackageRecord {
	return domain.PackageRecord{
		PackageID:   s.PackageID,
		Address:     domain.Address{Street: s.Street, City: s.City, State: s.State, Zip: s.Zip},
		Deadline:    s.Deadline,
		WeightKilos: s.WeightKilos,
		Notes:       s.Notes,
	}
}

// Populate the database with package data from a JSON file.
func SeedFromJSON(ctx context.Context, conn *sql.DB, dialect db.Dialect, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed packages: read %q: %w", jsonPath, err)
	}

	var data []PackageSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed packages: parse json: %w", err)
	}

	recs := make([]domain.PackageRecord, 0, len(data))
	for _, item := range data {
		recs = append(recs, item.record())
	}

	return SeedPackages(ctx, conn, dialect, recs)
}

// SeedPackages upserts package records, replacing rows with the same id.
func SeedPackages(ctx context.Context, conn *sql.DB, dialect db.Dialect, recs []domain.PackageRecord) error {
	if conn == nil {
		return errors.New("seed packages: DB is nil")
	}

	for i, rec := range recs {
		if rec.PackageID <= 0 {
			return fmt.Errorf("seed packages: invalid packageID at index %d: %d", i+1, rec.PackageID)
		}
		if strings.TrimSpace(rec.Address.Street) == "" {
			return fmt.Errorf("seed packages: item at index %d: street cannot be empty", i+1)
		}
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed packages: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := dialect.Rebind(`
	INSERT INTO packages (package_id, street, city, state, zip, deadline, weight_kilos, notes)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (package_id) DO UPDATE
	SET street = EXCLUDED.street,
		city = EXCLUDED.city,
		state = EXCLUDED.state,
		zip = EXCLUDED.zip,
		deadline = EXCLUDED.deadline,
		weight_kilos = EXCLUDED.weight_kilos,
		notes = EXCLUDED.notes;
	`)
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("seed packages: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range recs {
		deadline := strings.TrimSpace(p.Deadline)
		if deadline == "" {
			deadline = "EOD"
		}
		_, err := stmt.ExecContext(ctx,
			p.PackageID,
			strings.TrimSpace(p.Address.Street),
			p.Address.City,
			p.Address.State,
			p.Address.Zip,
			deadline,
			p.WeightKilos,
			p.Notes,
		)
		if err != nil {
			return fmt.Errorf("seed packages: insert package_id=%d: %w", p.PackageID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed packages: commit tx: %w", err)
	}

	return nil
}
