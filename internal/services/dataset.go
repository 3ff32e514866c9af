package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"kiln-detection-service/internal/domain"
	"kiln-detection-service/internal/platform/obs"
	"kiln-detection-service/internal/ports"

	"github.com/dhconnelly/rtreego"
)

const (
	indexDimensions  = 2
	indexMinChildren = 25
	indexMaxChildren = 50
	pointTolerance   = 1e-9
)

// indexedRecord adapts a record position for the R-tree (x = lon, y = lat).
type indexedRecord struct {
	pos  int
	rect *rtreego.Rect
}

func (r *indexedRecord) Bounds() *rtreego.Rect {
	return r.rect
}

// Dataset is the process-lifetime, once-initialized view of the location
// dataset. The first successful or failed load is kept for the life of the
// process; callers share the returned slice and must not modify it.
type Dataset struct {
	repo ports.LocationRepository

	once    sync.Once
	records []domain.LocationRecord
	index   *rtreego.Rtree
	err     error
}

func NewDataset(repo ports.LocationRepository) *Dataset {
	return &Dataset{repo: repo}
}

func (d *Dataset) load(ctx context.Context) {
	d.once.Do(func() {
		var err error
		defer obs.Time(ctx, "dataset.load")(&err)

		if d.repo == nil {
			err = errors.New("dataset: repository is nil")
			d.err = err
			return
		}

		// The load outlives the request that triggered it.
		records, err := d.repo.ListLocations(context.WithoutCancel(ctx))
		if err != nil {
			err = fmt.Errorf("dataset: list locations: %w", err)
			d.err = err
			return
		}

		tree := rtreego.NewTree(indexDimensions, indexMinChildren, indexMaxChildren)
		for i, rec := range records {
			p := rtreego.Point{rec.Point.Lon, rec.Point.Lat}
			tree.Insert(&indexedRecord{pos: i, rect: p.ToRect(pointTolerance)})
		}

		d.records = records
		d.index = tree
		obs.Logger().Infow("dataset loaded", "records", len(records))
	})
}

// Records returns every record in dataset order.
func (d *Dataset) Records(ctx context.Context) ([]domain.LocationRecord, error) {
	d.load(ctx)
	if d.err != nil {
		return nil, d.err
	}
	return d.records, nil
}

// WithinBox returns the records inside box, in dataset order.
func (d *Dataset) WithinBox(ctx context.Context, box domain.BoundingBox) ([]domain.LocationRecord, error) {
	d.load(ctx)
	if d.err != nil {
		return nil, d.err
	}

	if !box.Valid() || len(d.records) == 0 {
		return []domain.LocationRecord{}, nil
	}

	bounds, err := rtreego.NewRect(
		rtreego.Point{box.West, box.South},
		[]float64{box.East - box.West, box.North - box.South},
	)
	if err != nil {
		return nil, fmt.Errorf("dataset: box query %+v: %w", box, err)
	}

	hits := d.index.SearchIntersect(bounds)
	positions := make([]int, 0, len(hits))
	for _, h := range hits {
		item, ok := h.(*indexedRecord)
		if !ok {
			continue
		}
		// The index rect carries a tolerance; the box test is exact.
		if box.Contains(d.records[item.pos].Point) {
			positions = append(positions, item.pos)
		}
	}
	sort.Ints(positions)

	out := make([]domain.LocationRecord, 0, len(positions))
	for _, pos := range positions {
		out = append(out, d.records[pos])
	}
	return out, nil
}

// Center returns the mean latitude/longitude of the dataset, used as the
// initial map center. ok is false for an empty dataset.
func (d *Dataset) Center(ctx context.Context) (center domain.GeoPoint, ok bool, err error) {
	records, err := d.Records(ctx)
	if err != nil {
		return domain.GeoPoint{}, false, err
	}
	if len(records) == 0 {
		return domain.GeoPoint{}, false, nil
	}

	var sumLat, sumLon float64
	for _, r := range records {
		sumLat += r.Point.Lat
		sumLon += r.Point.Lon
	}
	n := float64(len(records))
	return domain.GeoPoint{Lat: sumLat / n, Lon: sumLon / n}, true, nil
}
