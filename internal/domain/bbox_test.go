package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeBoundingBoxCenteredAndOrdered(t *testing.T) {
	centers := []GeoPoint{
		{Lat: 28.745802, Lon: 77.417503},
		{Lat: 0, Lon: 0},
		{Lat: -33.8688, Lon: 151.2093},
		{Lat: 64.1466, Lon: -21.9426},
	}

	for _, c := range centers {
		for zoom := 1; zoom <= 22; zoom++ {
			for _, size := range []int{1, 256, 640, 1024} {
				box := ComputeBoundingBox(c, zoom, size)
				require.True(t, box.Valid(), "zoom=%d size=%d box=%+v", zoom, size, box)

				got := box.Center()
				assert.InDelta(t, c.Lat, got.Lat, 1e-9)
				assert.InDelta(t, c.Lon, got.Lon, 1e-9)
			}
		}
	}
}

func TestComputeBoundingBoxMonotonic(t *testing.T) {
	c := GeoPoint{Lat: 25.3176, Lon: 82.9739}

	for zoom := 1; zoom < 22; zoom++ {
		lo := ComputeBoundingBox(c, zoom, 640)
		hi := ComputeBoundingBox(c, zoom+1, 640)
		assert.Less(t, hi.East-hi.West, lo.East-lo.West, "zoom %d -> %d", zoom, zoom+1)
		assert.Less(t, hi.North-hi.South, lo.North-lo.South)
	}

	for size := 1; size < 2048; size *= 2 {
		small := ComputeBoundingBox(c, 17, size)
		big := ComputeBoundingBox(c, 17, size+1)
		assert.Greater(t, big.East-big.West, small.East-small.West, "size %d", size)
	}
}

func TestComputeBoundingBoxZoom17Size640(t *testing.T) {
	center := GeoPoint{Lat: 28.745802, Lon: 77.417503}
	box := ComputeBoundingBox(center, 17, 640)

	offset := (640 * (156543.03 / math.Pow(2, 17))) / 111000
	assert.InDelta(t, 0.006886, offset, 1e-6)

	assert.Equal(t, center.Lon-offset, box.West)
	assert.Equal(t, center.Lon+offset, box.East)
	assert.Equal(t, center.Lat-offset, box.South)
	assert.Equal(t, center.Lat+offset, box.North)
}

func TestBoundingBoxContains(t *testing.T) {
	box := ComputeBoundingBox(GeoPoint{Lat: 10, Lon: 10}, 10, 640)

	assert.True(t, box.Contains(GeoPoint{Lat: 10, Lon: 10}))
	assert.True(t, box.Contains(GeoPoint{Lat: box.North, Lon: box.East}))
	assert.False(t, box.Contains(GeoPoint{Lat: 11, Lon: 10}))
}

func TestGeoPointValidate(t *testing.T) {
	require.NoError(t, GeoPoint{Lat: 90, Lon: -180}.Validate())
	require.NoError(t, GeoPoint{Lat: 28.7458, Lon: 77.4175}.Validate())
	require.Error(t, GeoPoint{Lat: 91, Lon: 0}.Validate())
	require.Error(t, GeoPoint{Lat: 0, Lon: 180.5}.Validate())
}

func TestDetectionBoxValid(t *testing.T) {
	assert.True(t, DetectionBox{X1: 1, Y1: 1, X2: 10, Y2: 10, Confidence: 0.9}.Valid(640, 640))
	assert.False(t, DetectionBox{X1: 10, Y1: 1, X2: 1, Y2: 10, Confidence: 0.9}.Valid(640, 640))
	assert.False(t, DetectionBox{X1: 1, Y1: 1, X2: 700, Y2: 10, Confidence: 0.9}.Valid(640, 640))
	assert.False(t, DetectionBox{X1: 1, Y1: 1, X2: 10, Y2: 10, Confidence: 1.5}.Valid(640, 640))
}
