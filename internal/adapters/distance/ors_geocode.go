package distance

import (
	"context"
	"delivery-scheduler/internal/domain"
	"delivery-scheduler/internal/platform/obs"
	"fmt"
	"log"
	"net/url"
)

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// geocode resolves one address with /geocode/search, restricted to the
// configured country.
func (o *ORSDistanceProvider) geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	q := url.Values{}
	q.Set("text", address)
	q.Set("boundary.country", o.country)
	q.Set("size", "1")

	var decoded geocodeResponse
	if err := o.client.getJSON(ctx, "/geocode/search", q, &decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", address, err)
	}

	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, fmt.Errorf("no geocode results for %q", address)
	}
	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.Coordinates{}, fmt.Errorf("invalid coordinate format for %q", address)
	}

	c := domain.Coordinates{Lon: coords[0], Lat: coords[1]}
	if err := c.Validate(); err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", address, err)
	}
	return c, nil
}

// coordinates returns a coordinate for every address, from the geocode
// cache when possible. Fresh lookups are written back; a failed cache write
// is logged and does not fail the call.
func (o *ORSDistanceProvider) coordinates(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.coordinates")(&err)

	out := make(map[string]domain.Coordinates, len(addresses))
	if o.geocodeCache != nil {
		hits, err := o.geocodeCache.GetMany(ctx, addresses)
		if err != nil {
			return nil, fmt.Errorf("ORS get geocode cache: %w", err)
		}
		for k, v := range hits {
			out[k] = v
		}
	}

	fresh := make(map[string]domain.Coordinates)
	for _, a := range addresses {
		if _, ok := out[a]; ok {
			continue
		}
		if _, ok := fresh[a]; ok {
			continue
		}
		c, err := o.geocode(ctx, a)
		if err != nil {
			return nil, err
		}
		fresh[a] = c
	}

	if o.geocodeCache != nil && len(fresh) > 0 {
		if err := o.geocodeCache.PutMany(ctx, fresh); err != nil {
			log.Printf("req_id=%s op=ors.coordinates geocode cache write failed: %v", obs.RequestID(ctx), err)
		}
	}
	for k, v := range fresh {
		out[k] = v
	}

	return out, nil
}
