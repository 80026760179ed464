package main

import (
	"context"
	"database/sql"
	"delivery-scheduler/internal/adapters/cache"
	"delivery-scheduler/internal/adapters/distance"
	"delivery-scheduler/internal/adapters/repositories"
	"delivery-scheduler/internal/adapters/runs"
	"delivery-scheduler/internal/api"
	"delivery-scheduler/internal/config"
	"delivery-scheduler/internal/importer"
	"delivery-scheduler/internal/platform/db"
	"delivery-scheduler/internal/ports"
	"delivery-scheduler/internal/services"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// main is the application composition root.
// It wires concrete adapters (SQLite or Postgres, CSV or ORS distances,
// optional Redis) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	ctx := context.Background()
	port := config.Get("PORT", "8080")

	fleet, err := config.LoadFleet(config.Get("FLEET_CONFIG", ""))
	if err != nil {
		log.Fatal(err)
	}

	conn, dialect, err := openStore()
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	// Initialize schema and seed package data on startup for local runs.
	if err := initAndSeed(ctx, conn, dialect); err != nil {
		log.Fatal(err)
	}

	repo := repositories.NewSQLPackageRepository(conn)

	table, err := loadDistanceTable(ctx, conn, dialect, repo, fleet)
	if err != nil {
		log.Fatal(err)
	}

	router := api.NewRouter(api.Deps{
		Repo:  repo,
		Table: table,
		Fleet: fleet,
		Runs:  runs.NewMemoryRunStore(config.GetInt("RUN_HISTORY", 100)),
	})

	// Timeouts are tuned for a cold ORS cache on the first simulation.
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// openStore prefers Postgres when DATABASE_URL is set and falls back to the
// embedded SQLite file.
func openStore() (*sql.DB, db.Dialect, error) {
	if url := config.Get("DATABASE_URL", ""); url != "" {
		conn, err := db.Open(url)
		return conn, db.Postgres, err
	}
	conn, err := db.OpenSQLite(config.Get("DB_PATH", "data/app.db"))
	return conn, db.SQLite, err
}

// initAndSeed loads packages from PACKAGES_CSV when set, otherwise from the
// JSON seed file if it exists.
func initAndSeed(ctx context.Context, conn *sql.DB, dialect db.Dialect) error {
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if path := config.Get("PACKAGES_CSV", ""); path != "" {
		recs, err := repositories.NewCSVPackageRepository(path).ListPackages(ctx)
		if err != nil {
			return fmt.Errorf("init and seed: %w", err)
		}
		if err := repositories.SeedPackages(ctx, conn, dialect, recs); err != nil {
			return fmt.Errorf("init and seed: %w", err)
		}
		log.Printf("seeded packages=%d source=%s", len(recs), path)
		return nil
	}

	seedPath := config.Get("SEED_PATH", "data/seeds/packages.json")
	if _, err := os.Stat(seedPath); errors.Is(err, os.ErrNotExist) {
		log.Printf("no seed file at %s; serving existing packages", seedPath)
		return nil
	}
	if err := repositories.SeedFromJSON(ctx, conn, dialect, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	return nil
}

// loadDistanceTable reads the distance CSV, or with DISTANCE_SOURCE=ors
// builds the table from OpenRouteService behind the SQL (and optionally
// Redis) caches.
func loadDistanceTable(
	ctx context.Context,
	conn *sql.DB,
	dialect db.Dialect,
	repo ports.PackageRepository,
	fleet config.FleetConfig,
) (ports.DistanceTable, error) {
	source := strings.ToLower(config.Get("DISTANCE_SOURCE", "csv"))
	switch source {
	case "csv":
		path := config.Get("DISTANCES_CSV", "data/distances.csv")
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("load distance table: %w", err)
		}
		defer f.Close()
		m, locations, err := importer.ReadDistances(f)
		if err != nil {
			return nil, fmt.Errorf("load distance table: %w", err)
		}
		log.Printf("distance table source=csv locations=%d", len(locations))
		return m, nil

	case "ors":
		orsKey := config.Get("ORS_API_KEY", "")
		if orsKey == "" {
			return nil, errors.New("ORS_API_KEY is required when DISTANCE_SOURCE=ors")
		}

		var distanceCache ports.DistanceCache = cache.NewSQLDistanceCache(conn, dialect)
		if url := config.Get("REDIS_URL", ""); url != "" {
			client, err := cache.NewRedisClient(ctx, url)
			if err != nil {
				return nil, fmt.Errorf("load distance table: %w", err)
			}
			distanceCache = cache.NewRedisDistanceCache(client, distanceCache, 24*time.Hour)
		}

		provider, err := distance.NewORSDistanceProvider(distance.ORSConfig{
			APIKey:        orsKey,
			RatePerMinute: config.GetInt("ORS_RATE_PER_MINUTE", 40),
		}, distanceCache, cache.NewSQLGeocodeCache(conn, dialect))
		if err != nil {
			return nil, fmt.Errorf("load distance table: %w", err)
		}

		hub := config.Get("HUB_ADDRESS", fleet.Hub.Street)
		addresses, err := knownAddresses(ctx, repo, fleet)
		if err != nil {
			return nil, fmt.Errorf("load distance table: %w", err)
		}
		m, err := services.BuildDistanceMatrix(ctx, provider, hub, addresses)
		if err != nil {
			return nil, fmt.Errorf("load distance table: %w", err)
		}
		log.Printf("distance table source=ors locations=%d", len(m.Addresses()))
		return m, nil
	}

	return nil, fmt.Errorf("load distance table: unknown DISTANCE_SOURCE %q", source)
}

// knownAddresses lists every street a simulation can visit: package
// addresses plus configured corrections.
func knownAddresses(ctx context.Context, repo ports.PackageRepository, fleet config.FleetConfig) ([]string, error) {
	recs, err := repo.ListPackages(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(recs)+len(fleet.AddressCorrections))
	for _, r := range recs {
		out = append(out, r.Address.Street)
	}
	for _, ac := range fleet.AddressCorrections {
		out = append(out, ac.Address.Street)
	}
	return out, nil
}
