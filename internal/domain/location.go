package domain

// DefaultLocationName labels dataset rows that carry no name column.
const DefaultLocationName = "Brick Kiln"

// Represents a previously detected object location loaded from the dataset.
// Records are read-only for the lifetime of the process; DistanceKm is only
// populated on copies returned by proximity queries.
type LocationRecord struct {
	Point      GeoPoint
	Name       string
	DistanceKm *float64
}

// WithDistance returns a copy of the record annotated with a distance.
func (r LocationRecord) WithDistance(km float64) LocationRecord {
	r.DistanceKm = &km
	return r
}

// Marker color used by map clients when rendering a record.
type Color string

const (
	ColorRed   Color = "red"
	ColorBlue  Color = "blue"
	ColorGreen Color = "green"
)

// A record paired with its display classification.
type Classified struct {
	Record LocationRecord
	Color  Color
}
