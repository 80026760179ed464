package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, path, and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path"},
	)

	// SimulationRuns counts simulation runs by outcome (ok, integrity, unsatisfiable, error).
	SimulationRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "simulation_runs_total", Help: "Simulation runs by outcome."},
		[]string{"outcome"},
	)
	SimulationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "simulation_duration_seconds", Help: "Wall time of a simulation run.", Buckets: prometheus.DefBuckets},
	)
	PackagesDelivered = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "simulation_packages_delivered_total", Help: "Packages delivered across all simulation runs."},
	)
	SimulationRounds = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "simulation_rounds", Help: "Load/deliver rounds needed per run.", Buckets: []float64{1, 2, 3, 4, 6, 8, 12, 16, 32}},
	)
	SimulationMiles = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "simulation_last_total_miles", Help: "Total fleet mileage of the most recent successful run."},
	)

	// DistanceCacheLookups counts distance cache lookups by backend and result (hit, miss).
	DistanceCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "distance_cache_lookups_total", Help: "Distance cache lookups by backend and result."},
		[]string{"backend", "result"},
	)
)

var regOnce sync.Once

// RegisterDefault registers all collectors on Registry. Safe to call more than once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(SimulationRuns)
		Registry.MustRegister(SimulationDuration)
		Registry.MustRegister(PackagesDelivered)
		Registry.MustRegister(SimulationRounds)
		Registry.MustRegister(SimulationMiles)
		Registry.MustRegister(DistanceCacheLookups)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
