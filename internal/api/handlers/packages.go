package handlers

import (
	"delivery-scheduler/internal/api/dto"
	"delivery-scheduler/internal/platform/obs"
	"delivery-scheduler/internal/ports"
	"log"
	"net/http"
)

// PackageHandler exposes the stored package records.
type PackageHandler struct {
	Repo ports.PackageRepository
}

func (h *PackageHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodGet) {
		return
	}

	recs, err := h.Repo.ListPackages(r.Context())
	if err != nil {
		log.Printf("req_id=%s list packages failed: %v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListPackagesResponse{
		Packages: make([]dto.PackageResponse, 0, len(recs)),
	}
	for _, p := range recs {
		res.Packages = append(res.Packages, dto.PackageResponse{
			PackageID:   p.PackageID,
			Street:      p.Address.Street,
			City:        p.Address.City,
			State:       p.Address.State,
			Zip:         p.Address.Zip,
			Deadline:    p.Deadline,
			WeightKilos: p.WeightKilos,
			Notes:       p.Notes,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
