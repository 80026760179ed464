package handlers

import (
	"delivery-scheduler/internal/api/dto"
	"delivery-scheduler/internal/config"
	"delivery-scheduler/internal/domain"
	"delivery-scheduler/internal/platform/obs"
	"delivery-scheduler/internal/ports"
	"delivery-scheduler/internal/services"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// SimulationHandler runs the delivery simulation and serves time-sliced
// views of finished runs.
type SimulationHandler struct {
	Repo  ports.PackageRepository
	Table ports.DistanceTable
	Fleet config.FleetConfig
	Runs  ports.RunStore
	Now   func() time.Time
}

func (h *SimulationHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// Run simulates a full service day for the configured fleet, with any
// overrides from the request body, and stores the result.
func (h *SimulationHandler) Run(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodPost) {
		return
	}

	var req dto.SimulationRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	// An empty body runs the fleet as configured.
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	fleet := h.Fleet
	if req.ServiceDate != "" {
		fleet.ServiceDate = req.ServiceDate
	}
	if req.DayStart != "" {
		fleet.DayStart = req.DayStart
	}
	if len(req.Vehicles) > 0 {
		if len(req.Vehicles) > 10 {
			writeError(w, r, http.StatusBadRequest, "at most 10 vehicles")
			return
		}
		fleet.Vehicles = make([]config.VehicleConfig, 0, len(req.Vehicles))
		for _, v := range req.Vehicles {
			vc := config.VehicleConfig{ID: v.VehicleID, Capacity: v.Capacity, SpeedMPH: v.SpeedMPH, Start: v.Start}
			if vc.Capacity == 0 {
				vc.Capacity = config.DefaultCapacity
			}
			if vc.SpeedMPH == 0 {
				vc.SpeedMPH = config.DefaultSpeedMPH
			}
			if vc.Start == "" {
				vc.Start = fleet.DayStart
			}
			if vc.ID < 1 || vc.Capacity < 1 || vc.Capacity > 100 || vc.SpeedMPH <= 0 {
				writeError(w, r, http.StatusBadRequest, "vehicle_id must be positive, capacity between 1 and 100, speed_mph positive")
				return
			}
			fleet.Vehicles = append(fleet.Vehicles, vc)
		}
	}

	svcReq, err := fleet.ToRequest(h.now())
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	run, err := services.PlanDeliveries(r.Context(), svcReq, h.Repo, h.Table)
	if err != nil {
		writeServiceError(w, r, "plan deliveries", err)
		return
	}

	if err := h.Runs.Save(r.Context(), run); err != nil {
		log.Printf("req_id=%s save run failed: %v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Location", "/simulations/"+run.ID)
	writeJSON(w, r, http.StatusCreated, simulationResponse(run))
}

// Get reports package statuses and vehicle mileage of a stored run as of the
// ?at=HH:MM clock time on the run's service day, or at completion when omitted.
func (h *SimulationHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodGet) {
		return
	}

	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "run id is required")
		return
	}

	run, err := h.Runs.Get(r.Context(), id)
	if errors.Is(err, ports.ErrRunNotFound) {
		writeError(w, r, http.StatusNotFound, "simulation run not found")
		return
	}
	if err != nil {
		log.Printf("req_id=%s get run failed: %v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	at := run.CompletedAt()
	if v := r.URL.Query().Get("at"); v != "" {
		offset, err := domain.ParseClock(v)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "at must be a clock time such as 10:30 or 9:05 am")
			return
		}
		at = domain.OnDay(run.Day, offset)
	}

	writeJSON(w, r, http.StatusOK, snapshotResponse(services.Snapshot(run, at)))
}

// writeServiceError maps schedule failures caused by the input data to 422.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var (
		integrity     *services.DataIntegrityError
		unsatisfiable *services.UnsatisfiableScheduleError
	)
	switch {
	case errors.As(err, &integrity), errors.As(err, &unsatisfiable):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	default:
		log.Printf("req_id=%s %s failed: %v", obs.RequestID(r.Context()), op, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func simulationResponse(run *domain.Run) dto.SimulationResponse {
	res := dto.SimulationResponse{
		RunID:       run.ID,
		ServiceDate: run.Day.Format(time.DateOnly),
		TotalMiles:  run.TotalMiles,
		Rounds:      run.Rounds,
		CompletedAt: run.CompletedAt(),
		Late:        make([]int, 0, len(run.Late)),
		Trips:       make([]dto.TripResponse, 0, len(run.Trips)),
	}
	res.Late = append(res.Late, run.Late...)

	for _, t := range run.Trips {
		stops := make([]dto.StopResponse, 0, len(t.Stops))
		for _, s := range t.Stops {
			stops = append(stops, dto.StopResponse{
				Destination: s.Destination,
				ArriveAt:    s.ArriveAt,
				PackageIDs:  s.PackageIDs,
			})
		}
		res.Trips = append(res.Trips, dto.TripResponse{
			VehicleID: t.VehicleID,
			DepartAt:  t.DepartAt,
			ReturnAt:  t.ReturnAt,
			Miles:     t.Miles,
			Stops:     stops,
		})
	}
	return res
}

func snapshotResponse(rep services.Report) dto.SnapshotResponse {
	res := dto.SnapshotResponse{
		RunID:      rep.RunID,
		At:         rep.At,
		TotalMiles: rep.TotalMiles,
		Packages:   make([]dto.PackageStatusResponse, 0, len(rep.Packages)),
		Vehicles:   make([]dto.VehicleStatusResponse, 0, len(rep.Vehicles)),
	}

	for _, p := range rep.Packages {
		ps := dto.PackageStatusResponse{
			PackageID:   p.PackageID,
			Address:     p.Address.String(),
			Deadline:    p.Deadline,
			Status:      string(p.Status),
			LoadedAt:    p.LoadedAt,
			DeliveredAt: p.DeliveredAt,
			OnTime:      p.OnTime,
		}
		if p.VehicleID != 0 {
			vid := p.VehicleID
			ps.VehicleID = &vid
		}
		res.Packages = append(res.Packages, ps)
	}

	for _, v := range rep.Vehicles {
		load := v.Load
		if load == nil {
			load = []int{}
		}
		res.Vehicles = append(res.Vehicles, dto.VehicleStatusResponse{
			VehicleID: v.VehicleID,
			Miles:     v.Miles,
			Location:  v.Location,
			Load:      load,
		})
	}
	return res
}
