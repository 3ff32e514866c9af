package cache

import (
	"fmt"

	"kiln-detection-service/internal/adapters/repositories"
)

// geocodeQueries returns the lookup and upsert statements for the
// geocode_cache table created by repositories.InitSchema.
func geocodeQueries(d repositories.Dialect) (get, put string, err error) {
	switch d {
	case repositories.Postgres:
		return `
	SELECT lat, lon
    FROM geocode_cache
    WHERE name = $1;
	`, `
	INSERT INTO geocode_cache (name, lat, lon)
    VALUES ($1, $2, $3)
	ON CONFLICT (name) DO UPDATE
	SET lat = EXCLUDED.lat,
		lon = EXCLUDED.lon;
	`, nil
	case repositories.Sqlite:
		return `
	SELECT
        lat,
        lon
    FROM geocode_cache
    WHERE name = ?;
	`, `
	INSERT OR REPLACE INTO geocode_cache (
        name,
        lat,
        lon
    )
    VALUES (?, ?, ?);
	`, nil
	default:
		return "", "", fmt.Errorf("geocode cache: unknown dialect %q", d)
	}
}
