package ports

import (
	"context"
	"errors"
	"image"

	"kiln-detection-service/internal/domain"
)

// ErrFetchFailed marks basemap fetch failures (network, status, or non-image body).
var ErrFetchFailed = errors.New("basemap fetch failed")

// Contract for retrieving a square raster covering a bounding box.
type BasemapFetcher interface {
	// Return a sizePixels x sizePixels raster for box. No retry is performed.
	Fetch(ctx context.Context, box domain.BoundingBox, sizePixels int) (image.Image, error)
}
