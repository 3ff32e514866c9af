package repositories

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"kiln-detection-service/internal/adapters/httpx"
	"kiln-detection-service/internal/domain"
	"kiln-detection-service/internal/platform/obs"
)

const (
	colLatitude  = "latitude"
	colLongitude = "longitude"
	colName      = "name"
)

// CSVLocationRepository reads location records from a CSV file path or an
// http(s) URL. The latitude and longitude columns are required; name is
// optional and defaults to domain.DefaultLocationName.
type CSVLocationRepository struct {
	source  string
	session *http.Client
}

func NewCSVLocationRepository(source string, timeout time.Duration) *CSVLocationRepository {
	return &CSVLocationRepository{
		source:  source,
		session: &http.Client{Timeout: timeout},
	}
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func (c *CSVLocationRepository) open(ctx context.Context) (io.ReadCloser, error) {
	if !isURL(c.source) {
		f, err := os.Open(c.source)
		if err != nil {
			return nil, fmt.Errorf("open %q: %w", c.source, err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.source, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := httpx.Do(c.session, req)
	if err != nil {
		return nil, fmt.Errorf("download %q: %w", c.source, err)
	}
	return resp.Body, nil
}

// Return all records in file order. Any malformed row fails the whole load.
func (c *CSVLocationRepository) ListLocations(ctx context.Context) (_ []domain.LocationRecord, err error) {
	defer obs.Time(ctx, "csv.ListLocations")(&err)

	if strings.TrimSpace(c.source) == "" {
		return nil, errors.New("list locations: csv source is empty")
	}

	rc, err := c.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rc.Close()

	records, err := ParseLocationsCSV(rc)
	if err != nil {
		return nil, fmt.Errorf("list locations: %q: %w", c.source, err)
	}
	return records, nil
}

// ParseLocationsCSV decodes a header row followed by location rows.
func ParseLocationsCSV(r io.Reader) ([]domain.LocationRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	colMap := make(map[string]int, len(header))
	for i, col := range header {
		colMap[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))] = i
	}

	latIdx, ok := colMap[colLatitude]
	if !ok {
		return nil, fmt.Errorf("csv header missing %q column", colLatitude)
	}
	lonIdx, ok := colMap[colLongitude]
	if !ok {
		return nil, fmt.Errorf("csv header missing %q column", colLongitude)
	}
	nameIdx, hasName := colMap[colName]

	records := make([]domain.LocationRecord, 0, 1024)
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", line, err)
		}

		lat, err := strconv.ParseFloat(strings.TrimSpace(row[latIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid latitude: %w", line, err)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(row[lonIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid longitude: %w", line, err)
		}

		name := domain.DefaultLocationName
		if hasName && nameIdx < len(row) && strings.TrimSpace(row[nameIdx]) != "" {
			name = strings.TrimSpace(row[nameIdx])
		}

		records = append(records, domain.LocationRecord{
			Point: domain.GeoPoint{Lat: lat, Lon: lon},
			Name:  name,
		})
	}

	return records, nil
}
