package services

import (
	"context"
	"errors"
	"fmt"
	"image"

	"kiln-detection-service/internal/domain"
	"kiln-detection-service/internal/platform/obs"
	"kiln-detection-service/internal/ports"
	"kiln-detection-service/internal/render"
)

type DetectRequest struct {
	Center     domain.GeoPoint
	Zoom       int
	SizePixels int
	Confidence float64
}

// DetectResult is produced fresh per request and not persisted.
type DetectResult struct {
	Box        domain.BoundingBox
	Basemap    image.Image
	Annotated  image.Image
	Detections []domain.DetectionBox
	// Dataset records that fall inside the fetched tile.
	Known []domain.LocationRecord
}

// RunDetection fetches the basemap around req.Center, runs the detector over
// it and draws the detections on a copy of the raster.
//
// dataset is optional; when set, previously detected locations inside the
// tile are attached to the result. A dataset failure does not fail the request.
func RunDetection(
	ctx context.Context,
	req DetectRequest,
	fetcher ports.BasemapFetcher,
	detector ports.Detector,
	dataset *Dataset,
) (_ *DetectResult, err error) {
	defer obs.Time(ctx, "services.RunDetection")(&err)

	if fetcher == nil || detector == nil {
		return nil, errors.New("run detection: fetcher and detector must be non-nil")
	}
	if err := req.Center.Validate(); err != nil {
		return nil, fmt.Errorf("run detection: %w", err)
	}
	if req.Zoom < 1 {
		return nil, fmt.Errorf("run detection: zoom must be >= 1, got %d", req.Zoom)
	}
	if req.SizePixels <= 0 {
		return nil, fmt.Errorf("run detection: size must be > 0, got %d", req.SizePixels)
	}

	box := domain.ComputeBoundingBox(req.Center, req.Zoom, req.SizePixels)

	basemap, err := fetcher.Fetch(ctx, box, req.SizePixels)
	if err != nil {
		return nil, fmt.Errorf("run detection: fetch basemap: %w", err)
	}

	detections, err := detector.Detect(ctx, basemap, req.Confidence)
	if err != nil {
		return nil, fmt.Errorf("run detection: detect: %w", err)
	}

	res := &DetectResult{
		Box:        box,
		Basemap:    basemap,
		Annotated:  render.Annotate(basemap, detections),
		Detections: detections,
		Known:      []domain.LocationRecord{},
	}

	if dataset != nil {
		known, err := dataset.WithinBox(ctx, box)
		if err != nil {
			obs.Logger().Warnw("known locations lookup failed", "req_id", obs.RequestID(ctx), "err", err)
		} else {
			res.Known = known
		}
	}

	return res, nil
}
