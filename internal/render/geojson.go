package render

import (
	"kiln-detection-service/internal/domain"

	geo "github.com/kellydunn/golang-geo"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

const (
	// Tile template a map client uses for the satellite background.
	BasemapTileURL     = "https://server.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/tile/{z}/{y}/{x}"
	BasemapAttribution = "Esri World Imagery"
	InitialMapZoom     = 5

	ringSegments  = 64
	ringColor     = "yellow"
	ringWidth     = 2
	markerRadius  = 3
	featureKind   = "kind"
	kindLocation  = "location"
	kindCity      = "city"
	kindSearchRng = "search_radius"
)

// LocationFeature renders a classified record as a GeoJSON point with simplestyle properties.
func LocationFeature(c domain.Classified) *geojson.Feature {
	f := geojson.NewFeature(orb.Point{c.Record.Point.Lon, c.Record.Point.Lat})
	f.Properties[featureKind] = kindLocation
	f.Properties["name"] = c.Record.Name
	f.Properties["marker-color"] = string(c.Color)
	f.Properties["marker-radius"] = markerRadius
	if c.Record.DistanceKm != nil {
		f.Properties["distance_km"] = *c.Record.DistanceKm
	}
	return f
}

// CityFeature renders the searched city as a green marker.
func CityFeature(name string, p domain.GeoPoint) *geojson.Feature {
	f := geojson.NewFeature(orb.Point{p.Lon, p.Lat})
	f.Properties[featureKind] = kindCity
	f.Properties["name"] = name
	f.Properties["marker-color"] = string(domain.ColorGreen)
	return f
}

// RadiusRing approximates the search circle as a closed polygon of points
// radiusKm away from center.
func RadiusRing(center domain.GeoPoint, radiusKm float64) orb.Ring {
	c := geo.NewPoint(center.Lat, center.Lon)

	ring := make(orb.Ring, 0, ringSegments+1)
	for i := 0; i < ringSegments; i++ {
		bearing := float64(i) * 360 / ringSegments
		p := c.PointAtDistanceAndBearing(radiusKm, bearing)
		ring = append(ring, orb.Point{p.Lng(), p.Lat()})
	}
	ring = append(ring, ring[0])
	return ring
}

// RadiusFeature renders the search circle as an unfilled outline.
func RadiusFeature(center domain.GeoPoint, radiusKm float64) *geojson.Feature {
	f := geojson.NewFeature(orb.Polygon{RadiusRing(center, radiusKm)})
	f.Properties[featureKind] = kindSearchRng
	f.Properties["radius_km"] = radiusKm
	f.Properties["stroke"] = ringColor
	f.Properties["stroke-width"] = ringWidth
	f.Properties["fill-opacity"] = 0
	return f
}

// LocationCollection renders every classified record.
func LocationCollection(points []domain.Classified) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, p := range points {
		fc.Append(LocationFeature(p))
	}
	return fc
}

// ExploreCollection renders the classified records plus, when a city was
// resolved, its marker and the search circle.
func ExploreCollection(points []domain.Classified, city string, cityPoint *domain.GeoPoint, radiusKm float64) *geojson.FeatureCollection {
	fc := LocationCollection(points)
	if cityPoint != nil {
		fc.Append(CityFeature(city, *cityPoint))
		fc.Append(RadiusFeature(*cityPoint, radiusKm))
	}
	return fc
}
