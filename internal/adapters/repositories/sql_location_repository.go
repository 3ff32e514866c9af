package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"kiln-detection-service/internal/domain"
	"kiln-detection-service/internal/platform/obs"
)

// SQL-backed implementation of the LocationRepository port. The query is
// portable across the Postgres and SQLite schemas created by InitSchema.
type SQLLocationRepository struct{ DB *sql.DB }

func NewSQLLocationRepository(db *sql.DB) *SQLLocationRepository {
	return &SQLLocationRepository{DB: db}
}

// Return all locations stored in the database in insertion order.
func (s *SQLLocationRepository) ListLocations(ctx context.Context) (_ []domain.LocationRecord, err error) {
	defer obs.Time(ctx, "sql.ListLocations")(&err)

	if s.DB == nil {
		return nil, errors.New("sql location repository: DB is nil")
	}

	query := `
	SELECT
		latitude,
		longitude,
		name
	FROM locations
	ORDER BY id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list locations: query locations table: %w", err)
	}
	defer rows.Close()

	records := make([]domain.LocationRecord, 0, 1024)
	for rows.Next() {
		var lat, lon float64
		var name sql.NullString
		if err := rows.Scan(&lat, &lon, &name); err != nil {
			return nil, fmt.Errorf("list locations: scan row: %w", err)
		}

		n := domain.DefaultLocationName
		if name.Valid && name.String != "" {
			n = name.String
		}
		records = append(records, domain.LocationRecord{Point: domain.GeoPoint{Lat: lat, Lon: lon}, Name: n})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list locations: row iteration: %w", err)
	}

	return records, nil
}
