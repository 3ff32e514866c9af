package ports

import (
	"context"
	"errors"

	"kiln-detection-service/internal/domain"
)

// ErrGeocodeFailed marks geocoding service failures. A missing match is not a failure.
var ErrGeocodeFailed = errors.New("geocoding failed")

// Contract for resolving a free-text place name to a coordinate.
type CityResolver interface {
	// Return the best match for name. ok is false when the service has no match.
	Resolve(ctx context.Context, name string) (point domain.GeoPoint, ok bool, err error)
}

// Port: persistent name -> coordinate cache consulted before geocoding.
type GeocodeCache interface {
	Get(ctx context.Context, name string) (domain.GeoPoint, bool, error)
	Put(ctx context.Context, name string, point domain.GeoPoint) error
}
