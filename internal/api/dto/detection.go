package dto

import "kiln-detection-service/internal/domain"

// DetectRequest is the body of POST /detections. Omitted fields fall back to
// the server defaults.
type DetectRequest struct {
	Lat        *float64 `json:"lat"`
	Lon        *float64 `json:"lon"`
	Zoom       int      `json:"zoom,omitempty"`
	Size       int      `json:"size,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

type BBoxResponse struct {
	West  float64 `json:"west"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	North float64 `json:"north"`
}

type DetectionBoxResponse struct {
	X1         float64 `json:"x1"`
	Y1         float64 `json:"y1"`
	X2         float64 `json:"x2"`
	Y2         float64 `json:"y2"`
	Confidence float64 `json:"confidence"`
	ClassName  string  `json:"class_name"`
}

type DetectResponse struct {
	Center       PointResponse          `json:"center"`
	Zoom         int                    `json:"zoom"`
	Size         int                    `json:"size"`
	BBox         BBoxResponse           `json:"bbox"`
	Detections   []DetectionBoxResponse `json:"detections"`
	Known        []LocationResponse     `json:"known"`
	AnnotatedPNG string                 `json:"annotated_png"`
}

func BBox(b domain.BoundingBox) BBoxResponse {
	return BBoxResponse{West: b.West, South: b.South, East: b.East, North: b.North}
}

func Detections(boxes []domain.DetectionBox) []DetectionBoxResponse {
	out := make([]DetectionBoxResponse, 0, len(boxes))
	for _, b := range boxes {
		out = append(out, DetectionBoxResponse{
			X1:         b.X1,
			Y1:         b.Y1,
			X2:         b.X2,
			Y2:         b.Y2,
			Confidence: b.Confidence,
			ClassName:  b.ClassName,
		})
	}
	return out
}
