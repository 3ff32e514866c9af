package services

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"kiln-detection-service/internal/adapters/detector"
	"kiln-detection-service/internal/domain"
	"kiln-detection-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	err   error
	boxes []domain.BoundingBox
}

func (f *fakeFetcher) Fetch(_ context.Context, box domain.BoundingBox, size int) (image.Image, error) {
	f.boxes = append(f.boxes, box)
	if f.err != nil {
		return nil, f.err
	}
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, color.NRGBA{R: 40, G: 90, B: 40, A: 255})
		}
	}
	return img, nil
}

var tileCenter = domain.GeoPoint{Lat: 28.745802, Lon: 77.417503}

func TestRunDetection(t *testing.T) {
	fetcher := &fakeFetcher{}
	det := &detector.StaticDetector{Boxes: []domain.DetectionBox{
		{X1: 10, Y1: 10, X2: 40, Y2: 40, Confidence: 0.9, ClassName: "brickkiln"},
		{X1: 50, Y1: 50, X2: 60, Y2: 60, Confidence: 0.2, ClassName: "brickkiln"},
	}}
	ds := NewDataset(&countingRepo{records: kilnGrid()})

	res, err := RunDetection(context.Background(), DetectRequest{Center: tileCenter, Zoom: 17, SizePixels: 64, Confidence: 0.5}, fetcher, det, ds)
	require.NoError(t, err)

	require.Len(t, fetcher.boxes, 1)
	assert.Equal(t, domain.ComputeBoundingBox(tileCenter, 17, 64), res.Box)
	require.Len(t, res.Detections, 1)
	assert.Equal(t, 0.9, res.Detections[0].Confidence)

	r, g, _, _ := res.Annotated.At(10, 25).RGBA()
	assert.Greater(t, r, g, "detection outline should be red")

	// The fetched raster is left untouched.
	assert.Equal(t, color.NRGBA{R: 40, G: 90, B: 40, A: 255}, res.Basemap.(*image.NRGBA).NRGBAAt(10, 25))

	// 64px at zoom 17 spans roughly 0.0007 degrees; only k1 is inside.
	require.Len(t, res.Known, 1)
	assert.Equal(t, "k1", res.Known[0].Name)
}

func TestRunDetectionValidation(t *testing.T) {
	fetcher := &fakeFetcher{}
	det := &detector.StaticDetector{}

	cases := []DetectRequest{
		{Center: domain.GeoPoint{Lat: 91, Lon: 0}, Zoom: 17, SizePixels: 640},
		{Center: tileCenter, Zoom: 0, SizePixels: 640},
		{Center: tileCenter, Zoom: 17, SizePixels: 0},
	}
	for _, req := range cases {
		_, err := RunDetection(context.Background(), req, fetcher, det, nil)
		assert.Error(t, err, "%+v", req)
	}
	assert.Empty(t, fetcher.boxes)
}

func TestRunDetectionUpstreamFailures(t *testing.T) {
	req := DetectRequest{Center: tileCenter, Zoom: 17, SizePixels: 32, Confidence: 0.5}

	_, err := RunDetection(context.Background(), req, &fakeFetcher{err: ports.ErrFetchFailed}, &detector.StaticDetector{}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ports.ErrFetchFailed))

	_, err = RunDetection(context.Background(), req, &fakeFetcher{}, &detector.StaticDetector{Err: ports.ErrDetectFailed}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ports.ErrDetectFailed))
}

func TestRunDetectionDatasetFailureIsNotFatal(t *testing.T) {
	req := DetectRequest{Center: tileCenter, Zoom: 17, SizePixels: 32, Confidence: 0.5}
	ds := NewDataset(&countingRepo{err: errors.New("unreachable")})

	res, err := RunDetection(context.Background(), req, &fakeFetcher{}, &detector.StaticDetector{}, ds)
	require.NoError(t, err)
	assert.Empty(t, res.Known)
	assert.Empty(t, res.Detections)
}
