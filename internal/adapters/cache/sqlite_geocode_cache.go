package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"kiln-detection-service/internal/adapters/repositories"
	"kiln-detection-service/internal/domain"
)

// SQLite backed cache mapping place names to geographic coordinates.
// Name keys are expected to be consistent (e.g., normalized)
// by the caller.
type SqliteGeocodeCache struct {
	DB *sql.DB
}

func NewSqliteGeocodeCache(db *sql.DB) *SqliteGeocodeCache {
	return &SqliteGeocodeCache{DB: db}
}

// Fetch the cached coordinate for name.
func (s *SqliteGeocodeCache) Get(ctx context.Context, name string) (domain.GeoPoint, bool, error) {
	if s.DB == nil {
		return domain.GeoPoint{}, false, errors.New("geocode cache: db is nil")
	}

	q, _, err := geocodeQueries(repositories.Sqlite)
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
func (s *SqliteGeocodeCache) Put(ctx context.Context, name string, p domain.GeoPoint) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("insert geocode cache: empty name key")
	}

	_, q, err := geocodeQueries(repositories.Sqlite)
	if err != nil {
		return err
	}

	if _, err := s.DB.ExecContext(ctx, q, name, p.Lat, p.Lon); err != nil {
		return fmt.Errorf("insert geocode cache name=%q: %w", name, err)
	}

	return nil
}
