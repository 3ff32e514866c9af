package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"kiln-detection-service/internal/domain"
)

// Dialect selects SQL differences between the supported databases.
type Dialect string

const (
	Sqlite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

func schemaStatements(d Dialect) ([]string, error) {
	switch d {
	case Sqlite:
		return []string{
			`
	CREATE TABLE IF NOT EXISTS locations (
		id INTEGER PRIMARY KEY,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		name TEXT
	);
	`,
			`
	CREATE TABLE IF NOT EXISTS geocode_cache (
        name TEXT PRIMARY KEY,
        lat REAL NOT NULL,
        lon REAL NOT NULL
    );
	`,
		}, nil
	case Postgres:
		return []string{
			`
	CREATE TABLE IF NOT EXISTS locations (
		id BIGINT PRIMARY KEY,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		name TEXT
	);
	`,
			`
	CREATE TABLE IF NOT EXISTS geocode_cache (
        name TEXT PRIMARY KEY,
        lat DOUBLE PRECISION NOT NULL,
        lon DOUBLE PRECISION NOT NULL
    );
	`,
			`
	CREATE INDEX IF NOT EXISTS idx_locations_lat_lon
    ON locations(latitude, longitude);
	`,
		}, nil
	default:
		return nil, fmt.Errorf("unknown dialect %q", d)
	}
}

// Initialize the database schema.
func InitSchema(ctx context.Context, db *sql.DB, dialect Dialect) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	statements, err := schemaStatements(dialect)
	if err != nil {
		return fmt.Errorf("init schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// SeedLocations replaces the contents of the locations table with records,
// preserving their order through the id column.
func SeedLocations(ctx context.Context, db *sql.DB, dialect Dialect, records []domain.LocationRecord) error {
	if db == nil {
		return errors.New("seed locations: DB is nil")
	}

	for i, r := range records {
		if err := r.Point.Validate(); err != nil {
			return fmt.Errorf("seed locations: record at index %d: %w", i+1, err)
		}
	}

	query, err := insertLocationQuery(dialect)
	if err != nil {
		return fmt.Errorf("seed locations: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed locations: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM locations;`); err != nil {
		return fmt.Errorf("seed locations: clear table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("seed locations: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, i+1, r.Point.Lat, r.Point.Lon, r.Name); err != nil {
			return fmt.Errorf("seed locations: insert id=%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed locations: commit tx: %w", err)
	}

	return nil
}

func insertLocationQuery(d Dialect) (string, error) {
	switch d {
	case Sqlite:
		return `
	INSERT INTO locations (
		id,
		latitude,
		longitude,
		name
	)
	VALUES (?, ?, ?, ?);
	`, nil
	case Postgres:
		return `
	INSERT INTO locations (
		id,
		latitude,
		longitude,
		name
	)
	VALUES ($1, $2, $3, $4);
	`, nil
	default:
		return "", fmt.Errorf("unknown dialect %q", d)
	}
}
