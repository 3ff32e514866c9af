package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kiln-detection-service/internal/domain"
	"kiln-detection-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nominatimStub(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("q") {
		case "Varanasi":
			_, _ = w.Write([]byte(`[{"lat":"25.3176","lon":"82.9739","display_name":"Varanasi, Uttar Pradesh, India"}]`))
		case "Broken":
			_, _ = w.Write([]byte(`[{"lat":"north","lon":"82.9"}]`))
		default:
			_, _ = w.Write([]byte(`[]`))
		}
	}))
}

func TestNominatimResolve(t *testing.T) {
	srv := nominatimStub(t)
	defer srv.Close()

	n := NewNominatimResolver(srv.URL, "", time.Second)

	p, ok, err := n.Resolve(context.Background(), "  Varanasi ")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.GeoPoint{Lat: 25.3176, Lon: 82.9739}, p)
}

func TestNominatimResolveNotFound(t *testing.T) {
	srv := nominatimStub(t)
	defer srv.Close()

	p, ok, err := NewNominatimResolver(srv.URL, "", time.Second).Resolve(context.Background(), "NoSuchPlaceXYZ123")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, domain.GeoPoint{}, p)
}

func TestNominatimResolveFailures(t *testing.T) {
	srv := nominatimStub(t)
	defer srv.Close()

	_, _, err := NewNominatimResolver(srv.URL, "", time.Second).Resolve(context.Background(), "Broken")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ports.ErrGeocodeFailed))

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer down.Close()

	_, _, err = NewNominatimResolver(down.URL, "", time.Second).Resolve(context.Background(), "Varanasi")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ports.ErrGeocodeFailed))
}

type memCache struct {
	m      map[string]domain.GeoPoint
	getErr error
}

func (c *memCache) Get(_ context.Context, name string) (domain.GeoPoint, bool, error) {
	if c.getErr != nil {
		return domain.GeoPoint{}, false, c.getErr
	}
	p, ok := c.m[name]
	return p, ok, nil
}

func (c *memCache) Put(_ context.Context, name string, p domain.GeoPoint) error {
	c.m[name] = p
	return nil
}

func TestCachedResolver(t *testing.T) {
	varanasi := domain.GeoPoint{Lat: 25.3176, Lon: 82.9739}
	next := &StaticResolver{Places: map[string]domain.GeoPoint{"Varanasi": varanasi}}
	c := &memCache{m: map[string]domain.GeoPoint{}}
	r := NewCachedResolver(next, c)
	ctx := context.Background()

	p, ok, err := r.Resolve(ctx, "Varanasi")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, varanasi, p)
	assert.Equal(t, varanasi, c.m["varanasi"])

	_, ok, err = r.Resolve(ctx, "  VARANASI")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, next.Calls(), "second lookup should be served from cache")

	_, ok, err = r.Resolve(ctx, "NoSuchPlaceXYZ123")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NotContains(t, c.m, "nosuchplacexyz123")
}

func TestCachedResolverFallsBackOnCacheError(t *testing.T) {
	varanasi := domain.GeoPoint{Lat: 25.3176, Lon: 82.9739}
	next := &StaticResolver{Places: map[string]domain.GeoPoint{"varanasi": varanasi}}
	r := NewCachedResolver(next, &memCache{m: map[string]domain.GeoPoint{}, getErr: errors.New("db down")})

	p, ok, err := r.Resolve(context.Background(), "Varanasi")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, varanasi, p)
}
