package main

import (
	"context"
	"database/sql"
	"delivery-scheduler/internal/adapters/repositories"
	"delivery-scheduler/internal/config"
	"delivery-scheduler/internal/platform/db"
	"log"

	"github.com/joho/godotenv"
)

// dbtool initializes the schema and seeds packages from PACKAGES_CSV, or
// from the JSON seed file when no CSV is configured. It targets Postgres when
// DATABASE_URL is set and the SQLite file at DB_PATH otherwise.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	var (
		conn    *sql.DB
		dialect db.Dialect
		err     error
	)
	if url := config.Get("DATABASE_URL", ""); url != "" {
		conn, err = db.Open(url)
		dialect = db.Postgres
	} else {
		conn, err = db.OpenSQLite(config.Get("DB_PATH", "data/app.db"))
		dialect = db.SQLite
	}
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if err := initAndSeed(context.Background(), conn, dialect); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, dialect db.Dialect) error {
	log.Printf("Initializing database schema dialect=%s...", dialect)
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return err
	}
	log.Println("Schema ready.")

	log.Println("Seeding database...")
	if path := config.Get("PACKAGES_CSV", ""); path != "" {
		recs, err := repositories.NewCSVPackageRepository(path).ListPackages(ctx)
		if err != nil {
			return err
		}
		if err := repositories.SeedPackages(ctx, conn, dialect, recs); err != nil {
			return err
		}
	} else {
		seedPath := config.Get("SEED_PATH", "data/seeds/packages.json")
		if err := repositories.SeedFromJSON(ctx, conn, dialect, seedPath); err != nil {
			return err
		}
	}
	log.Println("Seeding complete.")

	return nil
}
