package main

import (
	"context"
	"database/sql"
	"fmt"
	"kiln-detection-service/internal/adapters/basemap"
	"kiln-detection-service/internal/adapters/cache"
	"kiln-detection-service/internal/adapters/detector"
	"kiln-detection-service/internal/adapters/geocode"
	"kiln-detection-service/internal/adapters/repositories"
	"kiln-detection-service/internal/api"
	"kiln-detection-service/internal/api/handlers"
	"kiln-detection-service/internal/config"
	"kiln-detection-service/internal/platform/db"
	"kiln-detection-service/internal/platform/obs"
	"kiln-detection-service/internal/ports"
	"kiln-detection-service/internal/services"
	"log"
	"net/http"
	"strings"
	"time"
)

const geocodeCacheTTL = 30 * 24 * time.Hour

// main is the application composition root.
// It wires concrete adapters behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := obs.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()
	obs.SetLogger(logger)
	sugar := logger.Sugar()

	ctx := context.Background()

	stores := &storeSet{cfg: cfg}
	defer stores.Close()

	repo, err := stores.locationRepository(ctx)
	if err != nil {
		sugar.Fatalw("dataset store", "err", err)
	}

	geocodeCache, err := stores.geocodeCache(ctx)
	if err != nil {
		sugar.Fatalw("geocode cache", "err", err)
	}

	resolver := newResolver(cfg, geocodeCache)

	// The dataset and the HTTP clients are process-lifetime resources shared by all requests.
	dataset := services.NewDataset(repo)
	router := api.NewRouter(api.Deps{
		Dataset:  dataset,
		Fetcher:  basemap.NewEsriExporter(cfg.BasemapURL, cfg.HTTPTimeout),
		Detector: newDetector(cfg),
		Resolver: resolver,
		Defaults: handlers.Defaults{Zoom: cfg.Zoom, Size: cfg.ImageSize, Confidence: cfg.Confidence},
	})

	// Fail fast on a broken dataset instead of on the first explore request.
	if _, err := dataset.Records(ctx); err != nil {
		sugar.Fatalw("load dataset", "source", cfg.DatasetStore, "err", err)
	}

	// Timeouts allow for a cold basemap fetch followed by model inference.
	sugar.Infow("server listening", "addr", ":"+cfg.Port)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      2*cfg.HTTPTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	sugar.Fatal(srv.ListenAndServe())
}

// newResolver builds the city resolver. The static table serves offline demos
// and is never cached.
func newResolver(cfg config.Config, geocodeCache ports.GeocodeCache) ports.CityResolver {
	if strings.EqualFold(cfg.Geocoder, "static") {
		return geocode.NewStaticResolver(geocode.DemoPlaces)
	}

	var resolver ports.CityResolver = geocode.NewNominatimResolver(cfg.NominatimURL, cfg.NominatimUserAgent, cfg.GeocodeTimeout)
	if geocodeCache != nil {
		resolver = geocode.NewCachedResolver(resolver, geocodeCache)
	}
	return resolver
}

// newDetector builds the detection client. The static detector reports no
// detections, which keeps Flow A usable without an inference server.
func newDetector(cfg config.Config) ports.Detector {
	if strings.EqualFold(cfg.Detector, "static") {
		return &detector.StaticDetector{}
	}
	return detector.NewHTTPDetector(cfg.DetectorURL, cfg.HTTPTimeout)
}

// storeSet opens each database at most once, since the dataset store and the
// geocode cache may share one.
type storeSet struct {
	cfg      config.Config
	sqlite   *sql.DB
	postgres *sql.DB
	closers  []func() error
}

func (s *storeSet) open(ctx context.Context, dialect repositories.Dialect) (*sql.DB, error) {
	switch dialect {
	case repositories.Sqlite:
		if s.sqlite != nil {
			return s.sqlite, nil
		}
		conn, err := db.OpenSqlite(s.cfg.DBPath)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, conn.Close)
		s.sqlite = conn
	case repositories.Postgres:
		if s.postgres != nil {
			return s.postgres, nil
		}
		conn, err := db.Open(s.cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, conn.Close)
		s.postgres = conn
	default:
		return nil, fmt.Errorf("open store: unknown dialect %q", dialect)
	}

	conn := s.sqlite
	if dialect == repositories.Postgres {
		conn = s.postgres
	}
	if err := repositories.InitSchema(ctx, conn, dialect); err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return conn, nil
}

func (s *storeSet) locationRepository(ctx context.Context) (ports.LocationRepository, error) {
	switch store := strings.ToLower(s.cfg.DatasetStore); store {
	case "sqlite", "postgres":
		conn, err := s.open(ctx, repositories.Dialect(store))
		if err != nil {
			return nil, err
		}
		return repositories.NewSQLLocationRepository(conn), nil
	default:
		return repositories.NewCSVLocationRepository(s.cfg.DatasetURL, s.cfg.HTTPTimeout), nil
	}
}

func (s *storeSet) geocodeCache(ctx context.Context) (ports.GeocodeCache, error) {
	switch strings.ToLower(s.cfg.GeocodeCache) {
	case "sqlite":
		conn, err := s.open(ctx, repositories.Sqlite)
		if err != nil {
			return nil, err
		}
		return cache.NewSqliteGeocodeCache(conn), nil
	case "postgres":
		conn, err := s.open(ctx, repositories.Postgres)
		if err != nil {
			return nil, err
		}
		return cache.NewSQLGeocodeCache(conn), nil
	case "redis":
		client, err := cache.NewRedisClient(ctx, s.cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, client.Close)
		return cache.NewRedisGeocodeCache(client, geocodeCacheTTL), nil
	default:
		return nil, nil
	}
}

func (s *storeSet) Close() {
	for _, c := range s.closers {
		_ = c()
	}
}
