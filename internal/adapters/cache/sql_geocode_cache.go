package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"kiln-detection-service/internal/adapters/repositories"
	"kiln-detection-service/internal/domain"
	"kiln-detection-service/internal/platform/obs"
)

// SQLGeocodeCache is a Postgres-backed cache mapping place names to coordinates.
type SQLGeocodeCache struct {
	DB *sql.DB
}

func NewSQLGeocodeCache(db *sql.DB) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: db}
}

// Fetch the cached coordinate for name.
func (s *SQLGeocodeCache) Get(ctx context.Context, name string) (_ domain.GeoPoint, _ bool, err error) {
	defer obs.Time(ctx, "geocode.cache.Get")(&err)

	if s.DB == nil {
		return domain.GeoPoint{}, false, errors.New("geocode cache: db is nil")
	}

	q, _, err := geocodeQueries(repositories.Postgres)
	if err != nil {
		return domain.GeoPoint{}, false, err
	}

	var p domain.GeoPoint
	err = s.DB.QueryRowContext(ctx, q, name).Scan(&p.Lat, &p.Lon)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.GeoPoint{}, false, nil
	}
	if err != nil {
		return domain.GeoPoint{}, false, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}

	return p, true, nil
}

// Store a name -> coordinate mapping in the cache.
func (s *SQLGeocodeCache) Put(ctx context.Context, name string, p domain.GeoPoint) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("insert geocode cache: empty name key")
	}

	_, q, err := geocodeQueries(repositories.Postgres)
	if err != nil {
		return err
	}

	if _, err := s.DB.ExecContext(ctx, q, name, p.Lat, p.Lon); err != nil {
		return fmt.Errorf("insert geocode cache name=%q: %w", name, err)
	}

	return nil
}
