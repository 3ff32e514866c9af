package services

import (
	"math"

	"kiln-detection-service/internal/domain"

	"github.com/tidwall/geodesic"
)

// DistanceKm returns the WGS84 ellipsoidal geodesic distance between a and b.
func DistanceKm(a, b domain.GeoPoint) float64 {
	var meters float64
	geodesic.WGS84.Inverse(a.Lat, a.Lon, b.Lat, b.Lon, &meters, nil, nil)
	return meters / 1000
}

func roundKm(km float64) float64 {
	return math.Round(km*100) / 100
}

// WithinRadius is the single radius predicate shared by filtering and
// classification. distanceKm is the reported (rounded) distance and the
// boundary is inclusive.
func WithinRadius(distanceKm, radiusKm float64) bool {
	return distanceKm <= radiusKm
}

// measure returns the reported distance of rec from ref and whether it qualifies.
func measure(ref domain.GeoPoint, radiusKm float64, rec domain.LocationRecord) (float64, bool) {
	d := roundKm(DistanceKm(ref, rec.Point))
	return d, WithinRadius(d, radiusKm)
}

// FilterWithinRadius returns the records within radiusKm of ref, in input
// order, each annotated with its distance rounded to 2 decimal places.
func FilterWithinRadius(ref domain.GeoPoint, radiusKm float64, records []domain.LocationRecord) []domain.LocationRecord {
	out := make([]domain.LocationRecord, 0)
	for _, rec := range records {
		d, ok := measure(ref, radiusKm, rec)
		if !ok {
			continue
		}
		out = append(out, rec.WithDistance(d))
	}
	return out
}

// Classify colors every record: red within radiusKm of ref, blue otherwise.
// A nil ref means no active search and every record is blue.
func Classify(ref *domain.GeoPoint, radiusKm float64, records []domain.LocationRecord) []domain.Classified {
	out := make([]domain.Classified, 0, len(records))
	for _, rec := range records {
		color := domain.ColorBlue
		if ref != nil {
			if _, ok := measure(*ref, radiusKm, rec); ok {
				color = domain.ColorRed
			}
		}
		out = append(out, domain.Classified{Record: rec, Color: color})
	}
	return out
}
