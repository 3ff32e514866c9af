package services

import (
	"context"
	"errors"
	"testing"

	"kiln-detection-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRepo struct {
	records []domain.LocationRecord
	err     error
	calls   int
}

func (r *countingRepo) ListLocations(context.Context) ([]domain.LocationRecord, error) {
	r.calls++
	return r.records, r.err
}

func kilnGrid() []domain.LocationRecord {
	return []domain.LocationRecord{
		{Point: domain.GeoPoint{Lat: 28.7458, Lon: 77.4175}, Name: "k1"},
		{Point: domain.GeoPoint{Lat: 28.7470, Lon: 77.4180}, Name: "k2"},
		{Point: domain.GeoPoint{Lat: 28.9000, Lon: 77.6000}, Name: "k3"},
		{Point: domain.GeoPoint{Lat: 28.7440, Lon: 77.4160}, Name: "k4"},
	}
}

func TestDatasetLoadsOnce(t *testing.T) {
	repo := &countingRepo{records: kilnGrid()}
	ds := NewDataset(repo)
	ctx := context.Background()

	first, err := ds.Records(ctx)
	require.NoError(t, err)
	second, err := ds.Records(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.calls)
	assert.Len(t, first, 4)
	assert.Same(t, &first[0], &second[0])
}

func TestDatasetErrorIsSticky(t *testing.T) {
	repo := &countingRepo{err: errors.New("source unreachable")}
	ds := NewDataset(repo)
	ctx := context.Background()

	_, err := ds.Records(ctx)
	require.Error(t, err)

	repo.err = nil
	repo.records = kilnGrid()
	_, err = ds.Records(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source unreachable")
	assert.Equal(t, 1, repo.calls)
}

func TestDatasetNilRepository(t *testing.T) {
	_, err := NewDataset(nil).Records(context.Background())
	require.Error(t, err)
}

func TestDatasetWithinBox(t *testing.T) {
	ds := NewDataset(&countingRepo{records: kilnGrid()})
	box := domain.ComputeBoundingBox(domain.GeoPoint{Lat: 28.745802, Lon: 77.417503}, 17, 640)

	got, err := ds.WithinBox(context.Background(), box)
	require.NoError(t, err)

	var names []string
	for _, r := range got {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"k1", "k2", "k4"}, names)

	got, err = ds.WithinBox(context.Background(), domain.BoundingBox{West: 0, South: 0, East: 1, North: 1})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDatasetCenter(t *testing.T) {
	ds := NewDataset(&countingRepo{records: []domain.LocationRecord{
		{Point: domain.GeoPoint{Lat: 10, Lon: 70}},
		{Point: domain.GeoPoint{Lat: 20, Lon: 80}},
	}})

	c, ok, err := ds.Center(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 15, c.Lat, 1e-12)
	assert.InDelta(t, 75, c.Lon, 1e-12)

	_, ok, err = NewDataset(&countingRepo{}).Center(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}
