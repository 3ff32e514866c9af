package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"kiln-detection-service/internal/adapters/httpx"
	"kiln-detection-service/internal/domain"
	"kiln-detection-service/internal/platform/obs"
	"kiln-detection-service/internal/ports"
)

const (
	DefaultNominatimURL = "https://nominatim.openstreetmap.org"
	DefaultUserAgent    = "brickkiln_mapper"
)

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// NominatimResolver implements CityResolver using the OpenStreetMap Nominatim search API.
// One request per lookup, no retry. Nominatim's usage policy requires an
// identifying User-Agent.
type NominatimResolver struct {
	session   *http.Client
	baseURL   string
	userAgent string
}

func NewNominatimResolver(baseURL, userAgent string, timeout time.Duration) *NominatimResolver {
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &NominatimResolver{
		session:   &http.Client{Timeout: timeout},
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
	}
}

// normalize ensures consistent lookups and cache keys by collapsing whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (n *NominatimResolver) Resolve(ctx context.Context, name string) (_ domain.GeoPoint, _ bool, err error) {
	defer obs.Time(ctx, "nominatim.Resolve")(&err)

	norm := normalize(name)
	if norm == "" {
		return domain.GeoPoint{}, false, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/search", nil)
	if err != nil {
		return domain.GeoPoint{}, false, fmt.Errorf("nominatim: create request: %w", err)
	}
	q := req.URL.Query()
	q.Set("q", norm)
	q.Set("format", "json")
	q.Set("limit", "1")
	req.URL.RawQuery = q.Encode()
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := httpx.Do(n.session, req)
	if err != nil {
		return domain.GeoPoint{}, false, fmt.Errorf("%w: %w", ports.ErrGeocodeFailed, err)
	}
	defer resp.Body.Close()

	var decoded []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.GeoPoint{}, false, fmt.Errorf("%w: decode response: %w", ports.ErrGeocodeFailed, err)
	}

	if len(decoded) == 0 {
		return domain.GeoPoint{}, false, nil
	}

	lat, err := strconv.ParseFloat(decoded[0].Lat, 64)
	if err != nil {
		return domain.GeoPoint{}, false, fmt.Errorf("%w: invalid lat %q for %q", ports.ErrGeocodeFailed, decoded[0].Lat, norm)
	}
	lon, err := strconv.ParseFloat(decoded[0].Lon, 64)
	if err != nil {
		return domain.GeoPoint{}, false, fmt.Errorf("%w: invalid lon %q for %q", ports.ErrGeocodeFailed, decoded[0].Lon, norm)
	}

	return domain.GeoPoint{Lat: lat, Lon: lon}, true, nil
}
