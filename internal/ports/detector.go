package ports

import (
	"context"
	"errors"
	"image"

	"kiln-detection-service/internal/domain"
)

// ErrDetectFailed marks failures of the external detection model.
var ErrDetectFailed = errors.New("detection failed")

// Contract for an opaque object-detection model.
// Confidence threshold filtering is the model's responsibility.
type Detector interface {
	Detect(ctx context.Context, img image.Image, confidenceThreshold float64) ([]domain.DetectionBox, error)
}
