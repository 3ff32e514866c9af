package handlers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image/png"
	"io"
	"kiln-detection-service/internal/api/dto"
	"kiln-detection-service/internal/domain"
	"kiln-detection-service/internal/ports"
	"kiln-detection-service/internal/services"
	"net/http"
	"strconv"
)

type DetectionHandler struct {
	Fetcher  ports.BasemapFetcher
	Detector ports.Detector
	Dataset  *services.Dataset
	Defaults Defaults
}

func (h *DetectionHandler) fromBody(r *http.Request) (tileParams, error) {
	var req dto.DetectRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		return tileParams{}, errors.New("invalid json body")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return tileParams{}, errors.New("body must contain only one JSON object")
	}
	if req.Lat == nil || req.Lon == nil {
		return tileParams{}, errors.New("lat and lon are required")
	}

	p := tileParams{
		center:     domain.GeoPoint{Lat: *req.Lat, Lon: *req.Lon},
		zoom:       req.Zoom,
		size:       req.Size,
		confidence: h.Defaults.Confidence,
	}
	if p.zoom == 0 {
		p.zoom = h.Defaults.Zoom
	}
	if p.size == 0 {
		p.size = h.Defaults.Size
	}
	if req.Confidence != nil {
		p.confidence = *req.Confidence
	}
	return p, p.validate()
}

func (h *DetectionHandler) run(r *http.Request, p tileParams) (*services.DetectResult, error) {
	return services.RunDetection(r.Context(), services.DetectRequest{
		Center:     p.center,
		Zoom:       p.zoom,
		SizePixels: p.size,
		Confidence: p.confidence,
	}, h.Fetcher, h.Detector, h.Dataset)
}

// Detect runs the fetch, detect and annotate cycle for a coordinate and
// returns the detections together with the annotated tile as base64 PNG.
func (h *DetectionHandler) Detect(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	p, err := h.fromBody(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.run(r, p)
	if err != nil {
		writeUpstreamError(w, r, "run detection", err)
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, res.Annotated); err != nil {
		writeUpstreamError(w, r, "encode png", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.DetectResponse{
		Center:       *dto.Point(p.center),
		Zoom:         p.zoom,
		Size:         p.size,
		BBox:         dto.BBox(res.Box),
		Detections:   dto.Detections(res.Detections),
		Known:        dto.Locations(res.Known),
		AnnotatedPNG: base64.StdEncoding.EncodeToString(buf.Bytes()),
	})
}

// Image is the query-string variant of Detect that streams the annotated tile.
func (h *DetectionHandler) Image(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	p, err := h.Defaults.fromQuery(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.run(r, p)
	if err != nil {
		writeUpstreamError(w, r, "run detection", err)
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, res.Annotated); err != nil {
		writeUpstreamError(w, r, "encode png", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Detection-Count", strconv.Itoa(len(res.Detections)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
