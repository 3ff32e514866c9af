package handlers

import (
	"kiln-detection-service/internal/api/dto"
	"kiln-detection-service/internal/domain"
	"kiln-detection-service/internal/render"
	"kiln-detection-service/internal/services"
	"net/http"
)

func mapView(center domain.GeoPoint, ok bool) dto.MapResponse {
	m := dto.MapResponse{
		InitialZoom: render.InitialMapZoom,
		TileURL:     render.BasemapTileURL,
		Attribution: render.BasemapAttribution,
	}
	if ok {
		m.Center = dto.Point(center)
	}
	return m
}

// LocationHandler exposes the full dataset for map rendering.
type LocationHandler struct {
	Dataset *services.Dataset
}

func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	records, err := h.Dataset.Records(r.Context())
	if err != nil {
		writeUpstreamError(w, r, "list locations", err)
		return
	}

	center, ok, err := h.Dataset.Center(r.Context())
	if err != nil {
		writeUpstreamError(w, r, "dataset center", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ListLocationsResponse{
		Map:     mapView(center, ok),
		Count:   len(records),
		GeoJSON: render.LocationCollection(services.Classify(nil, 0, records)),
	})
}
