package repositories

import (
	"context"
	"database/sql"
	"delivery-scheduler/internal/domain"
	"delivery-scheduler/internal/platform/db"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, InitSchema(context.Background(), conn))
	return conn
}

func TestSeedAndListPackages(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)

	recs := []domain.PackageRecord{
		{PackageID: 2, Address: domain.Address{Street: "2530 S 500 E", City: "Salt Lake City", State: "UT", Zip: "84106"}, Deadline: "EOD", WeightKilos: 44, Notes: "must ship with 1"},
		{PackageID: 1, Address: domain.Address{Street: "195 W Oakland Ave", City: "Salt Lake City", State: "UT", Zip: "84115"}, Deadline: "10:30", WeightKilos: 21},
	}
	require.NoError(t, SeedPackages(ctx, conn, db.SQLite, recs))

	repo := NewSQLPackageRepository(conn)
	got, err := repo.ListPackages(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, recs[1], got[0])
	assert.Equal(t, recs[0], got[1])

	// Seeding again replaces rows in place.
	recs[0].Notes = ""
	require.NoError(t, SeedPackages(ctx, conn, db.SQLite, recs[:1]))
	got, err = repo.ListPackages(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Empty(t, got[1].Notes)
}

func TestSeedPackagesRejectsInvalidRows(t *testing.T) {
	conn := openTestDB(t)

	err := SeedPackages(context.Background(), conn, db.SQLite, []domain.PackageRecord{{PackageID: 0, Address: domain.Address{Street: "x"}}})
	require.Error(t, err)

	err = SeedPackages(context.Background(), conn, db.SQLite, []domain.PackageRecord{{PackageID: 3}})
	require.Error(t, err)
}

func TestSeedFromJSON(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)

	path := filepath.Join(t.TempDir(), "packages.json")
	seed := `[
		{"package_id": 9, "street": "300 State St", "city": "Salt Lake City", "state": "UT", "zip": "84103", "weight_kilos": 2, "notes": "Wrong address listed"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(seed), 0o600))
	require.NoError(t, SeedFromJSON(ctx, conn, db.SQLite, path))

	got, err := NewSQLPackageRepository(conn).ListPackages(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "EOD", got[0].Deadline)
	assert.Equal(t, "Wrong address listed", got[0].Notes)
}

func TestCSVPackageRepository(t *testing.T) {
	path := filepath.Join(t.TempDir(), "packages.csv")
	csv := "Package ID,Address,City,State,Zip,Delivery Deadline,Weight KILO,Special Notes\n" +
		"2,2530 S 500 E,Salt Lake City,UT,84106,EOD,44,\n" +
		"1,195 W Oakland Ave,Salt Lake City,UT,84115,10:30 AM,21,\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o600))

	got, err := NewCSVPackageRepository(path).ListPackages(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].PackageID)
	assert.Equal(t, "10:30", got[0].Deadline)

	_, err = NewCSVPackageRepository(filepath.Join(t.TempDir(), "missing.csv")).ListPackages(context.Background())
	require.Error(t, err)
}
