package render

import (
	"image"
	"image/color"
	"testing"

	"kiln-detection-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/geodesic"
)

func TestAnnotateDrawsWithoutMutatingSource(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			src.Set(x, y, color.White)
		}
	}

	out := Annotate(src, []domain.DetectionBox{{X1: 10, Y1: 10, X2: 40, Y2: 40, Confidence: 0.9}})
	require.Equal(t, src.Bounds(), out.Bounds())

	r, g, b, _ := out.At(10, 25).RGBA()
	assert.Greater(t, r, g, "left edge should be red")
	assert.Greater(t, r, b)

	r, g, b, _ = out.At(25, 25).RGBA()
	assert.Equal(t, r, g, "interior should be untouched")
	assert.Equal(t, g, b)

	r, g, _, _ = src.At(10, 25).RGBA()
	assert.Equal(t, r, g, "source image must not be modified")
}

func TestRadiusRingClosedAtRadius(t *testing.T) {
	center := domain.GeoPoint{Lat: 25.3176, Lon: 82.9739}
	ring := RadiusRing(center, 20)

	require.Len(t, ring, ringSegments+1)
	assert.Equal(t, ring[0], ring[len(ring)-1])

	for _, p := range ring {
		var meters float64
		geodesic.WGS84.Inverse(center.Lat, center.Lon, p.Lat(), p.Lon(), &meters, nil, nil)
		// spherical construction vs ellipsoidal measurement
		assert.InDelta(t, 20.0, meters/1000, 0.2)
	}
}

func TestExploreCollection(t *testing.T) {
	d := 3.5
	points := []domain.Classified{
		{Record: domain.LocationRecord{Point: domain.GeoPoint{Lat: 1, Lon: 2}, Name: "a", DistanceKm: &d}, Color: domain.ColorRed},
		{Record: domain.LocationRecord{Point: domain.GeoPoint{Lat: 3, Lon: 4}, Name: "b"}, Color: domain.ColorBlue},
	}

	fc := ExploreCollection(points, "", nil, 20)
	require.Len(t, fc.Features, 2)
	assert.Equal(t, "red", fc.Features[0].Properties["marker-color"])
	assert.Equal(t, 3.5, fc.Features[0].Properties["distance_km"])
	assert.Equal(t, 2.0, fc.Features[0].Point().Lon())

	city := domain.GeoPoint{Lat: 1, Lon: 2}
	fc = ExploreCollection(points, "Town", &city, 20)
	require.Len(t, fc.Features, 4)
	assert.Equal(t, kindCity, fc.Features[2].Properties[featureKind])
	assert.Equal(t, "green", fc.Features[2].Properties["marker-color"])
	assert.Equal(t, kindSearchRng, fc.Features[3].Properties[featureKind])
}
