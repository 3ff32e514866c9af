package dto

import (
	"kiln-detection-service/internal/domain"

	"github.com/paulmach/orb/geojson"
)

type PointResponse struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type LocationResponse struct {
	Lat        float64  `json:"lat"`
	Lon        float64  `json:"lon"`
	Name       string   `json:"name"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

type MapResponse struct {
	Center      *PointResponse `json:"center"`
	InitialZoom int            `json:"initial_zoom"`
	TileURL     string         `json:"tile_url"`
	Attribution string         `json:"attribution"`
}

type ListLocationsResponse struct {
	Map     MapResponse                `json:"map"`
	Count   int                        `json:"count"`
	GeoJSON *geojson.FeatureCollection `json:"geojson"`
}

type ExploreResponse struct {
	City      string                     `json:"city,omitempty"`
	RadiusKm  float64                    `json:"radius_km"`
	CityPoint *PointResponse             `json:"city_point,omitempty"`
	NotFound  bool                       `json:"not_found"`
	Message   string                     `json:"message,omitempty"`
	Map       MapResponse                `json:"map"`
	Nearby    []LocationResponse         `json:"nearby"`
	GeoJSON   *geojson.FeatureCollection `json:"geojson"`
}

func Point(p domain.GeoPoint) *PointResponse {
	return &PointResponse{Lat: p.Lat, Lon: p.Lon}
}

func Locations(records []domain.LocationRecord) []LocationResponse {
	out := make([]LocationResponse, 0, len(records))
	for _, r := range records {
		out = append(out, LocationResponse{
			Lat:        r.Point.Lat,
			Lon:        r.Point.Lon,
			Name:       r.Name,
			DistanceKm: r.DistanceKm,
		})
	}
	return out
}
