package geocode

import (
	"context"
	"strings"

	"kiln-detection-service/internal/domain"
	"kiln-detection-service/internal/platform/obs"
	"kiln-detection-service/internal/ports"
)

// CachedResolver consults a GeocodeCache before the wrapped resolver and
// stores positive matches. Misses are not cached so a later geocoder update
// can still resolve the name. Cache failures degrade to a direct lookup.
type CachedResolver struct {
	next  ports.CityResolver
	cache ports.GeocodeCache
}

func NewCachedResolver(next ports.CityResolver, cache ports.GeocodeCache) *CachedResolver {
	return &CachedResolver{next: next, cache: cache}
}

func cacheKey(name string) string {
	return strings.ToLower(normalize(name))
}

func (c *CachedResolver) Resolve(ctx context.Context, name string) (domain.GeoPoint, bool, error) {
	key := cacheKey(name)
	if key == "" {
		return domain.GeoPoint{}, false, nil
	}

	if c.cache != nil {
		p, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			obs.Logger().Warnw("geocode cache read failed", "req_id", obs.RequestID(ctx), "key", key, "err", err)
		} else if ok {
			return p, true, nil
		}
	}

	p, ok, err := c.next.Resolve(ctx, name)
	if err != nil || !ok {
		return p, ok, err
	}

	if c.cache != nil {
		if err := c.cache.Put(ctx, key, p); err != nil {
			obs.Logger().Warnw("geocode cache write failed", "req_id", obs.RequestID(ctx), "key", key, "err", err)
		}
	}

	return p, true, nil
}
