package detector

import (
	"context"
	"image"

	"kiln-detection-service/internal/domain"
)

// StaticDetector returns a fixed set of boxes, applying the threshold itself.
// It stands in for the model in tests and offline demos.
type StaticDetector struct {
	Boxes []domain.DetectionBox
	Err   error
}

func (s *StaticDetector) Detect(_ context.Context, _ image.Image, confidenceThreshold float64) ([]domain.DetectionBox, error) {
	if s.Err != nil {
		return nil, s.Err
	}

	out := make([]domain.DetectionBox, 0, len(s.Boxes))
	for _, b := range s.Boxes {
		if b.Confidence >= confidenceThreshold {
			out = append(out, b)
		}
	}
	return out, nil
}
