package domain

import (
	"fmt"

	"github.com/golang/geo/s2"
)

// DefaultCenter is the demo location offered when a caller gives no coordinate.
var DefaultCenter = GeoPoint{Lat: 28.745802, Lon: 77.417503}

// Immutable geographic coordinate in WGS84 degrees.
type GeoPoint struct {
	Lat float64
	Lon float64
}

// Validate reports whether the point lies inside the valid lat/lon ranges.
func (p GeoPoint) Validate() error {
	if !s2.LatLngFromDegrees(p.Lat, p.Lon).IsValid() {
		return fmt.Errorf("invalid coordinate lat=%v lon=%v: latitude must be in [-90,90], longitude in [-180,180]", p.Lat, p.Lon)
	}
	return nil
}

// Return coordinates as [lon, lat] for GeoJSON compatibility.
func (p GeoPoint) CoordsToList() []float64 { return []float64{p.Lon, p.Lat} }
