package repositories

import (
	"context"
	"database/sql"
	"delivery-scheduler/internal/domain"
	"delivery-scheduler/internal/platform/obs"
	"errors"
	"fmt"
)

// SQL-backed implementation of the PackageRepository port. The query is
// portable, so the same type serves SQLite and Postgres.
type SQLPackageRepository struct{ DB *sql.DB }

func NewSQLPackageRepository(db *sql.DB) *SQLPackageRepository {
	return &SQLPackageRepository{DB: db}
}

// Return all package records stored in the database, ordered by id.
func (s *SQLPackageRepository) ListPackages(ctx context.Context) (_ []domain.PackageRecord, err error) {
	defer obs.Time(ctx, "packages.ListPackages")(&err)

	if s.DB == nil {
		return nil, errors.New("sql package repository: DB is nil")
	}

	query := `
	SELECT
		package_id,
		street,
		city,
		state,
		zip,
		deadline,
		weight_kilos,
		notes
	FROM packages
	ORDER BY package_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list packages: query packages table: %w", err)
	}
	defer rows.Close()

	packages := make([]domain.PackageRecord, 0, 64)
	for rows.Next() {
		var rec domain.PackageRecord
		err := rows.Scan(
			&rec.PackageID,
			&rec.Address.Street,
			&rec.Address.City,
			&rec.Address.State,
			&rec.Address.Zip,
			&rec.Deadline,
			&rec.WeightKilos,
			&rec.Notes,
		)
		if err != nil {
			return nil, fmt.Errorf("list packages: scan row: %w", err)
		}
		packages = append(packages, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list packages: row iteration: %w", err)
	}

	return packages, nil
}
