package main

import (
	"bytes"
	"fmt"
	"kiln-detection-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBBoxCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"bbox", "--lat", "25.3176", "--lon", "82.9739", "--zoom", "16", "--size", "512"})

	require.NoError(t, rootCmd.Execute())

	b := domain.ComputeBoundingBox(domain.GeoPoint{Lat: 25.3176, Lon: 82.9739}, 16, 512)
	want := fmt.Sprintf("west=%.6f south=%.6f east=%.6f north=%.6f\n", b.West, b.South, b.East, b.North)
	assert.Equal(t, want, out.String())
}

func TestBBoxCommandRejectsBadZoom(t *testing.T) {
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"bbox", "--zoom", "0"})

	assert.Error(t, rootCmd.Execute())
}
