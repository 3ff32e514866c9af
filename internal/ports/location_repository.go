package ports

import (
	"context"

	"kiln-detection-service/internal/domain"
)

// Port: a boundary for retrieving LocationRecord entities from a data source.
type LocationRepository interface {
	// Retrieve all records in dataset order.
	ListLocations(ctx context.Context) ([]domain.LocationRecord, error)
}
