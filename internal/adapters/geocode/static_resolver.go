package geocode

import (
	"context"
	"strings"
	"sync/atomic"

	"kiln-detection-service/internal/domain"
)

// DemoPlaces covers the kiln belt in the bundled sample dataset, for running
// the explorer without network access (GEOCODER=static).
var DemoPlaces = map[string]domain.GeoPoint{
	"Delhi":     {Lat: 28.6139, Lon: 77.2090},
	"Ghaziabad": {Lat: 28.6692, Lon: 77.4538},
	"Hapur":     {Lat: 28.7306, Lon: 77.7759},
	"Lucknow":   {Lat: 26.8467, Lon: 80.9462},
	"Varanasi":  {Lat: 25.3176, Lon: 82.9739},
}

// StaticResolver resolves names from a fixed table (case-insensitive).
// It is safe for concurrent use as long as Places is not modified.
type StaticResolver struct {
	Places map[string]domain.GeoPoint
	Err    error

	calls atomic.Int64
}

func NewStaticResolver(places map[string]domain.GeoPoint) *StaticResolver {
	return &StaticResolver{Places: places}
}

// Calls reports how many lookups reached the resolver.
func (s *StaticResolver) Calls() int {
	return int(s.calls.Load())
}

func (s *StaticResolver) Resolve(_ context.Context, name string) (domain.GeoPoint, bool, error) {
	s.calls.Add(1)
	if s.Err != nil {
		return domain.GeoPoint{}, false, s.Err
	}
	for k, p := range s.Places {
		if strings.EqualFold(k, normalize(name)) {
			return p, true, nil
		}
	}
	return domain.GeoPoint{}, false, nil
}
