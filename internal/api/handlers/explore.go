package handlers

import (
	"fmt"
	"kiln-detection-service/internal/api/dto"
	"kiln-detection-service/internal/ports"
	"kiln-detection-service/internal/render"
	"kiln-detection-service/internal/services"
	"net/http"
	"strings"
)

type ExploreHandler struct {
	Dataset  *services.Dataset
	Resolver ports.CityResolver
}

// Explore classifies the dataset against an optional city search. An unknown
// city is reported in the body with status 200.
func (h *ExploreHandler) Explore(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	radius, err := queryInt(r, "radius_km", services.DefaultRadiusKm)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if radius < services.MinRadiusKm || radius > services.MaxRadiusKm {
		writeError(w, r, http.StatusBadRequest,
			fmt.Sprintf("radius_km must be between %d and %d", services.MinRadiusKm, services.MaxRadiusKm))
		return
	}

	res, err := services.Explore(r.Context(), services.ExploreRequest{
		City:     strings.TrimSpace(r.URL.Query().Get("city")),
		RadiusKm: float64(radius),
	}, h.Dataset, h.Resolver)
	if err != nil {
		writeUpstreamError(w, r, "explore", err)
		return
	}

	out := dto.ExploreResponse{
		City:     res.City,
		RadiusKm: res.RadiusKm,
		NotFound: res.NotFound,
		Message:  res.Message,
		Map:      mapView(res.Center, len(res.Points) > 0),
		Nearby:   dto.Locations(res.Nearby),
		GeoJSON:  render.ExploreCollection(res.Points, res.City, res.CityPoint, res.RadiusKm),
	}
	if res.CityPoint != nil {
		out.CityPoint = dto.Point(*res.CityPoint)
	}

	writeJSON(w, r, http.StatusOK, out)
}
