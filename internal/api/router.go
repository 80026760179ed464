package api

import (
	"delivery-scheduler/internal/api/handlers"
	"delivery-scheduler/internal/config"
	"delivery-scheduler/internal/metrics"
	"delivery-scheduler/internal/ports"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies the HTTP surface needs; handlers stay unaware of concrete adapters.
type Deps struct {
	Repo  ports.PackageRepository
	Table ports.DistanceTable
	Fleet config.FleetConfig
	Runs  ports.RunStore
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
func NewRouter(deps Deps) http.Handler {
	metrics.RegisterDefault()

	mux := http.NewServeMux()

	pkgHandler := &handlers.PackageHandler{Repo: deps.Repo}
	simHandler := &handlers.SimulationHandler{
		Repo:  deps.Repo,
		Table: deps.Table,
		Fleet: deps.Fleet,
		Runs:  deps.Runs,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/packages", pkgHandler.List)
	mux.HandleFunc("/simulations", simHandler.Run)
	mux.HandleFunc("/simulations/{id}", simHandler.Get)
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	return loggingMiddleware(mux)
}
