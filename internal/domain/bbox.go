package domain

import (
	"math"

	"github.com/paulmach/orb"
)

const (
	// Web Mercator ground resolution at the equator for zoom 0, in meters per pixel.
	equatorMetersPerPixel = 156543.03
	metersPerDegree       = 111000.0

	DefaultZoom      = 17
	DefaultImageSize = 640
)

// Rectangular region in the same reference as the originating GeoPoint.
type BoundingBox struct {
	West  float64
	South float64
	East  float64
	North float64
}

// ComputeBoundingBox derives the box covered by a square raster of sizePixels
// centered on center at the given zoom.
//
// The degree offset uses a single mean meters-per-degree constant for both
// axes, so longitude compression away from the equator is ignored. The box is
// an approximation and grows less accurate at high latitudes.
//
// zoom must be >= 1 and sizePixels > 0; other values produce degenerate boxes.
func ComputeBoundingBox(center GeoPoint, zoom int, sizePixels int) BoundingBox {
	scale := equatorMetersPerPixel / math.Pow(2, float64(zoom))
	offset := (float64(sizePixels) * scale) / metersPerDegree

	return BoundingBox{
		West:  center.Lon - offset,
		South: center.Lat - offset,
		East:  center.Lon + offset,
		North: center.Lat + offset,
	}
}

func (b BoundingBox) Center() GeoPoint {
	return GeoPoint{
		Lat: (b.South + b.North) / 2,
		Lon: (b.West + b.East) / 2,
	}
}

// Valid reports whether edges are strictly ordered.
func (b BoundingBox) Valid() bool {
	return b.West < b.East && b.South < b.North
}

func (b BoundingBox) Contains(p GeoPoint) bool {
	return b.Bound().Contains(orb.Point{p.Lon, p.Lat})
}

// Bound converts the box to an orb.Bound (x = longitude, y = latitude).
func (b BoundingBox) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.West, b.South},
		Max: orb.Point{b.East, b.North},
	}
}
