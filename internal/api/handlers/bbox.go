package handlers

import (
	"errors"
	"kiln-detection-service/internal/api/dto"
	"kiln-detection-service/internal/domain"
	"net/http"
)

// Defaults are the server-side fallbacks for omitted tile parameters.
type Defaults struct {
	Zoom       int
	Size       int
	Confidence float64
}

type tileParams struct {
	center     domain.GeoPoint
	zoom       int
	size       int
	confidence float64
}

func (p tileParams) validate() error {
	if err := p.center.Validate(); err != nil {
		return err
	}
	if p.zoom < 1 {
		return errors.New("zoom must be >= 1")
	}
	if p.size <= 0 {
		return errors.New("size must be > 0")
	}
	if p.confidence < 0 || p.confidence > 1 {
		return errors.New("confidence must be between 0 and 1")
	}
	return nil
}

func (d Defaults) fromQuery(r *http.Request) (tileParams, error) {
	var (
		p   = tileParams{confidence: d.Confidence}
		err error
	)
	if p.center.Lat, err = queryFloat(r, "lat", domain.DefaultCenter.Lat); err != nil {
		return p, err
	}
	if p.center.Lon, err = queryFloat(r, "lon", domain.DefaultCenter.Lon); err != nil {
		return p, err
	}
	if p.zoom, err = queryInt(r, "zoom", d.Zoom); err != nil {
		return p, err
	}
	if p.size, err = queryInt(r, "size", d.Size); err != nil {
		return p, err
	}
	if p.confidence, err = queryFloat(r, "confidence", d.Confidence); err != nil {
		return p, err
	}
	return p, p.validate()
}

type BBoxHandler struct {
	Defaults Defaults
}

// Get returns the geographic box covered by a square tile around a coordinate.
func (h *BBoxHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	p, err := h.Defaults.fromQuery(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	box := domain.ComputeBoundingBox(p.center, p.zoom, p.size)
	writeJSON(w, r, http.StatusOK, dto.BBox(box))
}
