package distance

import (
	"context"
	"delivery-scheduler/internal/domain"
	"delivery-scheduler/internal/platform/obs"
	"delivery-scheduler/internal/ports"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// ORSConfig configures the OpenRouteService provider. Zero values fall back
// to the public endpoint, the driving-car profile, and no rate limit.
type ORSConfig struct {
	APIKey        string
	BaseURL       string
	Profile       string
	Country       string
	Timeout       time.Duration
	RatePerMinute int
	HTTPClient    *http.Client
}

// ORSDistanceProvider implements DistanceMatrixProvider using OpenRouteService.
// Distance rows and geocodes go through the optional caches before any API
// call. The provider is safe for concurrent use.
type ORSDistanceProvider struct {
	client        *orsClient
	profile       string
	country       string
	distanceCache ports.DistanceCache
	geocodeCache  ports.GeocodeCache
}

func NewORSDistanceProvider(
	cfg ORSConfig,
	distanceCache ports.DistanceCache,
	geocodeCache ports.GeocodeCache,
) (*ORSDistanceProvider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("ORS api key is empty")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openrouteservice.org"
	}
	if cfg.Profile == "" {
		cfg.Profile = "driving-car"
	}
	if cfg.Country == "" {
		cfg.Country = "US"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	var limiter *rate.Limiter
	if cfg.RatePerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RatePerMinute)), 1)
	}

	return &ORSDistanceProvider{
		client: &orsClient{
			http:    httpClient,
			apiKey:  cfg.APIKey,
			baseURL: strings.TrimRight(cfg.BaseURL, "/"),
			limiter: limiter,
			backoff: 200 * time.Millisecond,
		},
		profile:       cfg.Profile,
		country:       cfg.Country,
		distanceCache: distanceCache,
		geocodeCache:  geocodeCache,
	}, nil
}

// Delegate to the batched path to reuse caching and matrix logic.
func (o *ORSDistanceProvider) GetDistance(
	ctx context.Context,
	origin string,
	destination string,
) (ports.DistanceResult, error) {
	normOrigin := domain.NormalizeKey(origin)
	normDestination := domain.NormalizeKey(destination)
	if normOrigin == "" || normDestination == "" {
		return ports.DistanceResult{}, errors.New("get ORS distance: origin and destination must be non-empty")
	}
	if normOrigin == normDestination {
		return ports.DistanceResult{}, nil
	}

	results, err := o.GetDistances(ctx, normOrigin, []string{normDestination})
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("get distances %q -> %q: %w", normOrigin, normDestination, err)
	}

	result, ok := results[normDestination]
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("no distance result for %q -> %q", origin, destination)
	}

	return result, nil
}

// GetDistances returns distances from one origin to many destinations, keyed
// by normalized destination. Destinations equal to the origin are skipped.
func (o *ORSDistanceProvider) GetDistances(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "ors.GetDistances")(&err)

	normOrigin := domain.NormalizeKey(origin)
	if normOrigin == "" {
		return nil, errors.New("origin must be non-empty")
	}

	destList := make([]string, 0, len(destinations))
	seen := make(map[string]struct{}, len(destinations))
	for _, d := range destinations {
		nd := domain.NormalizeKey(d)
		if nd == "" || nd == normOrigin {
			continue
		}
		if _, ok := seen[nd]; ok {
			continue
		}
		seen[nd] = struct{}{}
		destList = append(destList, nd)
	}

	out := make(map[string]ports.DistanceResult, len(destList))
	if len(destList) == 0 {
		return out, nil
	}

	if o.distanceCache != nil {
		hits, err := o.distanceCache.GetMany(ctx, normOrigin, destList)
		if err != nil {
			return nil, fmt.Errorf("ORS get distance cache: %w", err)
		}
		for k, v := range hits {
			out[k] = v
		}
	}

	misses := make([]string, 0, len(destList))
	for _, d := range destList {
		if _, ok := out[d]; !ok {
			misses = append(misses, d)
		}
	}
	if len(misses) == 0 {
		return out, nil
	}

	coords, err := o.coordinates(ctx, append([]string{normOrigin}, misses...))
	if err != nil {
		return nil, fmt.Errorf("retrieving coordinates: %w", err)
	}

	missCoords := make([]domain.Coordinates, 0, len(misses))
	for _, d := range misses {
		missCoords = append(missCoords, coords[d])
	}

	row, err := o.matrixRow(ctx, coords[normOrigin], missCoords)
	if err != nil {
		return nil, fmt.Errorf("fetching matrix row: %w", err)
	}

	fetched := make(map[string]ports.DistanceResult, len(misses))
	for i, d := range misses {
		fetched[d] = row[i]
		out[d] = row[i]
	}

	if o.distanceCache != nil {
		if err := o.distanceCache.PutMany(ctx, normOrigin, fetched); err != nil {
			log.Printf("req_id=%s op=ors.GetDistances distance cache write failed: %v", obs.RequestID(ctx), err)
		}
	}

	return out, nil
}
