package distance

import (
	"context"
	"delivery-scheduler/internal/domain"
	"delivery-scheduler/internal/ports"
	"fmt"
	"math"
)

type matrixRequest struct {
	Locations    [][]float64 `json:"locations"`
	Sources      []int       `json:"sources"`
	Destinations []int       `json:"destinations"`
	Metrics      []string    `json:"metrics"`
}

type matrixResponse struct {
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

// matrixRow asks /v2/matrix for one source row: origin to every destination,
// in the order given.
func (o *ORSDistanceProvider) matrixRow(
	ctx context.Context,
	origin domain.Coordinates,
	destinations []domain.Coordinates,
) ([]ports.DistanceResult, error) {
	if len(destinations) == 0 {
		return nil, nil
	}

	req := matrixRequest{
		Locations: [][]float64{origin.CoordsToList()},
		Sources:   []int{0},
		Metrics:   []string{"distance", "duration"},
	}
	for i, c := range destinations {
		req.Locations = append(req.Locations, c.CoordsToList())
		req.Destinations = append(req.Destinations, i+1)
	}

	var mr matrixResponse
	if err := o.client.postJSON(ctx, "/v2/matrix/"+o.profile, req, &mr); err != nil {
		return nil, fmt.Errorf("matrix request failed: %w", err)
	}

	if len(mr.Distances) != 1 || len(mr.Durations) != 1 {
		return nil, fmt.Errorf(
			"expected 1 source row; got distances=%d durations=%d",
			len(mr.Distances), len(mr.Durations),
		)
	}
	meters, seconds := mr.Distances[0], mr.Durations[0]
	if len(meters) != len(destinations) || len(seconds) != len(destinations) {
		return nil, fmt.Errorf(
			"row lengths do not match destinations: distances=%d durations=%d destinations=%d",
			len(meters), len(seconds), len(destinations),
		)
	}

	out := make([]ports.DistanceResult, len(destinations))
	for i := range destinations {
		// A null cell means ORS found no route.
		if meters[i] == nil || seconds[i] == nil {
			return nil, fmt.Errorf("matrix returned no route for destination #%d", i+1)
		}
		out[i] = ports.DistanceResult{
			DistanceMeters:  int(math.Round(*meters[i])),
			DurationSeconds: int(math.Round(*seconds[i])),
		}
	}

	return out, nil
}
