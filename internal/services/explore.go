package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kiln-detection-service/internal/domain"
	"kiln-detection-service/internal/platform/obs"
	"kiln-detection-service/internal/ports"
)

const (
	MinRadiusKm     = 1
	MaxRadiusKm     = 100
	DefaultRadiusKm = 20
)

type ExploreRequest struct {
	// City is optional; an empty name means no active search.
	City     string
	RadiusKm float64
}

type ExploreResult struct {
	City      string
	RadiusKm  float64
	CityPoint *domain.GeoPoint
	NotFound  bool
	Center    domain.GeoPoint
	Points    []domain.Classified
	Nearby    []domain.LocationRecord
	Message   string
}

// Explore classifies every dataset record against an optional city search.
//
// An unknown city is an expected outcome: the result carries NotFound and a
// warning message, every point stays blue and no radius-dependent output is
// produced. Geocoding service failures abort the request.
func Explore(
	ctx context.Context,
	req ExploreRequest,
	dataset *Dataset,
	resolver ports.CityResolver,
) (_ *ExploreResult, err error) {
	defer obs.Time(ctx, "services.Explore")(&err)

	if dataset == nil {
		return nil, errors.New("explore: dataset must be non-nil")
	}

	records, err := dataset.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("explore: %w", err)
	}

	center, _, err := dataset.Center(ctx)
	if err != nil {
		return nil, fmt.Errorf("explore: %w", err)
	}

	city := strings.TrimSpace(req.City)
	res := &ExploreResult{
		City:     city,
		RadiusKm: req.RadiusKm,
		Center:   center,
		Nearby:   []domain.LocationRecord{},
	}

	if city == "" {
		res.Points = Classify(nil, req.RadiusKm, records)
		return res, nil
	}

	if resolver == nil {
		return nil, errors.New("explore: resolver must be non-nil")
	}

	point, ok, err := resolver.Resolve(ctx, city)
	if err != nil {
		return nil, fmt.Errorf("explore: resolve %q: %w", city, err)
	}
	if !ok {
		res.NotFound = true
		res.Message = fmt.Sprintf("City '%s' not found!", city)
		res.Points = Classify(nil, req.RadiusKm, records)
		return res, nil
	}

	res.CityPoint = &point
	res.Points = Classify(&point, req.RadiusKm, records)
	res.Nearby = FilterWithinRadius(point, req.RadiusKm, records)

	if len(res.Nearby) > 0 {
		res.Message = fmt.Sprintf("Found %d brickkilns within %g km of %s", len(res.Nearby), req.RadiusKm, city)
	} else {
		res.Message = fmt.Sprintf("No brickkilns found within %g km of %s", req.RadiusKm, city)
	}

	return res, nil
}
