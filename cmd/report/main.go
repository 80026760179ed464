package main

import (
	"context"
	"delivery-scheduler/internal/adapters/repositories"
	"delivery-scheduler/internal/config"
	"delivery-scheduler/internal/domain"
	"delivery-scheduler/internal/importer"
	"delivery-scheduler/internal/services"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
)

// report runs one simulation from CSV input and prints every package and
// vehicle as of -at (end of day when omitted).
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	packagesPath := flag.String("packages", config.Get("PACKAGES_CSV", "data/packages.csv"), "package CSV file")
	distancesPath := flag.String("distances", config.Get("DISTANCES_CSV", "data/distances.csv"), "distance table CSV file")
	fleetPath := flag.String("fleet", config.Get("FLEET_CONFIG", ""), "fleet YAML file (built-in fleet when empty)")
	at := flag.String("at", "", "report state as of this clock time, e.g. 10:25")
	flag.Parse()

	if err := run(context.Background(), os.Stdout, *packagesPath, *distancesPath, *fleetPath, *at); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, w io.Writer, packagesPath, distancesPath, fleetPath, at string) error {
	fleet, err := config.LoadFleet(fleetPath)
	if err != nil {
		return err
	}
	req, err := fleet.ToRequest(time.Now())
	if err != nil {
		return err
	}

	f, err := os.Open(distancesPath)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	defer f.Close()
	table, _, err := importer.ReadDistances(f)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}

	result, err := services.PlanDeliveries(ctx, req, repositories.NewCSVPackageRepository(packagesPath), table)
	if err != nil {
		return err
	}

	asOf := result.CompletedAt()
	if at != "" {
		offset, err := domain.ParseClock(at)
		if err != nil {
			return fmt.Errorf("report: -at: %w", err)
		}
		asOf = domain.OnDay(result.Day, offset)
	}

	return render(w, services.Snapshot(result, asOf))
}

func render(w io.Writer, rep services.Report) error {
	fmt.Fprintf(w, "Run %s as of %s\n\n", rep.RunID, rep.At.Format("15:04"))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tADDRESS\tDEADLINE\tVEHICLE\tLOADED\tDELIVERED\tON TIME")
	var late []string
	for _, p := range rep.Packages {
		vehicle := "-"
		if p.VehicleID != 0 {
			vehicle = fmt.Sprint(p.VehicleID)
		}
		onTime := "-"
		if p.OnTime != nil {
			onTime = "yes"
			if !*p.OnTime {
				onTime = "NO"
				late = append(late, fmt.Sprint(p.PackageID))
			}
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.PackageID, p.Status, p.Address.Street, clock(p.Deadline, "EOD"),
			vehicle, clock(p.LoadedAt, "-"), clock(p.DeliveredAt, "-"), onTime)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VEHICLE\tMILES\tLOCATION\tON BOARD")
	for _, v := range rep.Vehicles {
		fmt.Fprintf(tw, "%d\t%.1f\t%s\t%s\n", v.VehicleID, v.Miles, v.Location, ids(v.Load))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nTotal miles: %.1f\n", rep.TotalMiles)
	if len(late) > 0 {
		fmt.Fprintf(w, "Late packages: %s\n", strings.Join(late, ", "))
	}
	return nil
}

func clock(t *time.Time, empty string) string {
	if t == nil {
		return empty
	}
	return t.Format("15:04")
}

func ids(xs []int) string {
	if len(xs) == 0 {
		return "-"
	}
	out := make([]string, len(xs))
	for i, x := range xs {
		out[i] = fmt.Sprint(x)
	}
	return strings.Join(out, ",")
}
