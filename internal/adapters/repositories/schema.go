package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// InitSchema creates the package table and the distance/geocode cache
// tables. The statements are valid for both SQLite and Postgres.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createPackagesQuery := `
	CREATE TABLE IF NOT EXISTS packages (
		package_id INTEGER PRIMARY KEY,
		street TEXT NOT NULL,
		city TEXT NOT NULL DEFAULT '',
		state TEXT NOT NULL DEFAULT '',
		zip TEXT NOT NULL DEFAULT '',
		deadline TEXT NOT NULL DEFAULT 'EOD',
		weight_kilos REAL NOT NULL DEFAULT 0,
		notes TEXT NOT NULL DEFAULT ''
	);
	`

	createDistanceCacheQuery := `
	CREATE TABLE IF NOT EXISTS distance_cache (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		distance_meters INTEGER NOT NULL,
		duration_seconds INTEGER NOT NULL,
		PRIMARY KEY (origin, destination)
	);
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		lon REAL NOT NULL,
		lat REAL NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_distance_cache_destination_origin
	ON distance_cache(destination, origin);
	`

	statements := []string{
		createPackagesQuery,
		createDistanceCacheQuery,
		createGeocodeCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
