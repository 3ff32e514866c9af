package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"kiln-detection-service/internal/domain"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "geocode:"

// RedisGeocodeCache stores name -> coordinate mappings as Redis hashes with a TTL.
type RedisGeocodeCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisGeocodeCache(client *redis.Client, ttl time.Duration) *RedisGeocodeCache {
	return &RedisGeocodeCache{Client: client, TTL: ttl}
}

// NewRedisClient parses redisURL and verifies the connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}

	return client, nil
}

func (r *RedisGeocodeCache) Get(ctx context.Context, name string) (domain.GeoPoint, bool, error) {
	if r.Client == nil {
		return domain.GeoPoint{}, false, errors.New("geocode cache: redis client is nil")
	}

	vals, err := r.Client.HGetAll(ctx, redisKeyPrefix+name).Result()
	if err != nil {
		return domain.GeoPoint{}, false, fmt.Errorf("get geocode cache: hgetall: %w", err)
	}
	if len(vals) == 0 {
		return domain.GeoPoint{}, false, nil
	}

	lat, err := strconv.ParseFloat(vals["lat"], 64)
	if err != nil {
		return domain.GeoPoint{}, false, fmt.Errorf("get geocode cache: parse lat for %q: %w", name, err)
	}
	lon, err := strconv.ParseFloat(vals["lon"], 64)
	if err != nil {
		return domain.GeoPoint{}, false, fmt.Errorf("get geocode cache: parse lon for %q: %w", name, err)
	}

	return domain.GeoPoint{Lat: lat, Lon: lon}, true, nil
}

func (r *RedisGeocodeCache) Put(ctx context.Context, name string, p domain.GeoPoint) error {
	if r.Client == nil {
		return errors.New("geocode cache: redis client is nil")
	}

	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("insert geocode cache: empty name key")
	}

	key := redisKeyPrefix + name
	pipe := r.Client.TxPipeline()
	pipe.HSet(ctx, key, "lat", strconv.FormatFloat(p.Lat, 'f', -1, 64), "lon", strconv.FormatFloat(p.Lon, 'f', -1, 64))
	if r.TTL > 0 {
		pipe.Expire(ctx, key, r.TTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert geocode cache name=%q: %w", name, err)
	}

	return nil
}
