package repositories

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"kiln-detection-service/internal/platform/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertLocationQueryPerDialect(t *testing.T) {
	pg, err := insertLocationQuery(Postgres)
	require.NoError(t, err)
	assert.Equal(t, []string{"$1", "$2", "$3", "$4"}, regexp.MustCompile(`\$\d+`).FindAllString(pg, -1))
	assert.NotContains(t, pg, "?")

	lite, err := insertLocationQuery(Sqlite)
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(lite, "?"))
	assert.NotContains(t, lite, "$")

	_, err = insertLocationQuery(Dialect("mysql"))
	require.Error(t, err)
}

func TestSchemaStatementsPerDialect(t *testing.T) {
	pg, err := schemaStatements(Postgres)
	require.NoError(t, err)
	joined := strings.Join(pg, "\n")
	assert.Contains(t, joined, "DOUBLE PRECISION")
	assert.Contains(t, joined, "CREATE TABLE IF NOT EXISTS geocode_cache")
	assert.NotContains(t, joined, "REAL")

	lite, err := schemaStatements(Sqlite)
	require.NoError(t, err)
	joined = strings.Join(lite, "\n")
	assert.Contains(t, joined, "REAL")
	assert.Contains(t, joined, "CREATE TABLE IF NOT EXISTS locations")

	_, err = schemaStatements(Dialect("mysql"))
	require.Error(t, err)
}

func TestSeedLocationsUnknownDialect(t *testing.T) {
	conn, err := db.OpenSqlite(":memory:")
	require.NoError(t, err)
	defer conn.Close()

	err = SeedLocations(context.Background(), conn, Dialect("mysql"), nil)
	require.ErrorContains(t, err, "unknown dialect")
}
