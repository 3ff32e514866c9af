package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"strconv"
	"time"

	"kiln-detection-service/internal/adapters/httpx"
	"kiln-detection-service/internal/domain"
	"kiln-detection-service/internal/platform/obs"
	"kiln-detection-service/internal/ports"
)

type detectResponse struct {
	Detections []struct {
		X1         float64 `json:"x1"`
		Y1         float64 `json:"y1"`
		X2         float64 `json:"x2"`
		Y2         float64 `json:"y2"`
		Confidence float64 `json:"confidence"`
		ClassName  string  `json:"class_name"`
	} `json:"detections"`
}

// HTTPDetector implements Detector by posting PNG rasters to an inference server.
//
// The server owns the model and applies the confidence threshold; the client
// only discards boxes that are not well-formed for the submitted raster.
type HTTPDetector struct {
	session  *http.Client
	endpoint string
}

func NewHTTPDetector(endpoint string, timeout time.Duration) *HTTPDetector {
	return &HTTPDetector{
		session:  &http.Client{Timeout: timeout},
		endpoint: endpoint,
	}
}

func (d *HTTPDetector) Detect(
	ctx context.Context,
	img image.Image,
	confidenceThreshold float64,
) (_ []domain.DetectionBox, err error) {
	defer obs.Time(ctx, "detector.Detect")(&err)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("detect: encode png: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("detect: create request: %w", err)
	}
	q := req.URL.Query()
	q.Set("conf", strconv.FormatFloat(confidenceThreshold, 'f', -1, 64))
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Content-Type", "image/png")
	req.Header.Set("Accept", "application/json")

	resp, err := httpx.Do(d.session, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrDetectFailed, err)
	}
	defer resp.Body.Close()

	var decoded detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ports.ErrDetectFailed, err)
	}

	b := img.Bounds()
	out := make([]domain.DetectionBox, 0, len(decoded.Detections))
	for _, r := range decoded.Detections {
		box := domain.DetectionBox{
			X1:         r.X1,
			Y1:         r.Y1,
			X2:         r.X2,
			Y2:         r.Y2,
			Confidence: r.Confidence,
			ClassName:  r.ClassName,
		}
		if !box.Valid(b.Dx(), b.Dy()) {
			obs.Logger().Warnw("dropping malformed detection", "req_id", obs.RequestID(ctx), "box", box)
			continue
		}
		out = append(out, box)
	}

	return out, nil
}
