package main

import (
	"database/sql"
	"fmt"
	"kiln-detection-service/internal/adapters/geocode"
	"kiln-detection-service/internal/adapters/repositories"
	"kiln-detection-service/internal/config"
	"kiln-detection-service/internal/domain"
	"kiln-detection-service/internal/platform/db"
	"kiln-detection-service/internal/platform/obs"
	"kiln-detection-service/internal/ports"
	"kiln-detection-service/internal/services"
	"strings"

	"github.com/spf13/cobra"
)

var (
	lat, lon  float64
	zoom      int
	size      int
	city      string
	radiusKm  float64
	store     string
	csvSource string
)

var bboxCmd = &cobra.Command{
	Use:   "bbox",
	Short: "Print the bounding box of a square tile around a coordinate",
	RunE:  runBBox,
}

var nearbyCmd = &cobra.Command{
	Use:   "nearby",
	Short: "List dataset kilns within a radius of a city",
	RunE:  runNearby,
}

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create the locations and geocode_cache tables",
	RunE:  runInitDB,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a CSV dataset into the locations table",
	RunE:  runSeed,
}

func init() {
	bboxCmd.Flags().Float64Var(&lat, "lat", domain.DefaultCenter.Lat, "Center latitude")
	bboxCmd.Flags().Float64Var(&lon, "lon", domain.DefaultCenter.Lon, "Center longitude")
	bboxCmd.Flags().IntVarP(&zoom, "zoom", "z", domain.DefaultZoom, "Zoom level (>= 1)")
	bboxCmd.Flags().IntVarP(&size, "size", "s", domain.DefaultImageSize, "Tile size in pixels")

	nearbyCmd.Flags().StringVarP(&city, "city", "c", "", "City name to search around")
	nearbyCmd.Flags().Float64VarP(&radiusKm, "radius", "r", services.DefaultRadiusKm, "Search radius in km")
	nearbyCmd.Flags().StringVar(&csvSource, "csv", "", "Dataset CSV path or URL (defaults to DATASET_URL)")
	_ = nearbyCmd.MarkFlagRequired("city")

	for _, c := range []*cobra.Command{initDBCmd, seedCmd} {
		c.Flags().StringVar(&store, "store", "sqlite", "Target database: sqlite (DB_PATH) or postgres (DATABASE_URL)")
	}
	seedCmd.Flags().StringVar(&csvSource, "csv", "", "Dataset CSV path or URL (defaults to DATASET_URL)")
}

func runBBox(cmd *cobra.Command, _ []string) error {
	center := domain.GeoPoint{Lat: lat, Lon: lon}
	if err := center.Validate(); err != nil {
		return err
	}
	if zoom < 1 || size <= 0 {
		return fmt.Errorf("bbox: zoom must be >= 1 and size > 0")
	}

	b := domain.ComputeBoundingBox(center, zoom, size)
	fmt.Fprintf(cmd.OutOrStdout(), "west=%.6f south=%.6f east=%.6f north=%.6f\n", b.West, b.South, b.East, b.North)
	return nil
}

func runNearby(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if radiusKm < services.MinRadiusKm || radiusKm > services.MaxRadiusKm {
		return fmt.Errorf("nearby: radius must be between %d and %d km", services.MinRadiusKm, services.MaxRadiusKm)
	}

	source := csvSource
	if source == "" {
		source = cfg.DatasetURL
	}

	dataset := services.NewDataset(repositories.NewCSVLocationRepository(source, cfg.HTTPTimeout))
	var resolver ports.CityResolver = geocode.NewNominatimResolver(cfg.NominatimURL, cfg.NominatimUserAgent, cfg.GeocodeTimeout)
	if strings.EqualFold(cfg.Geocoder, "static") {
		resolver = geocode.NewStaticResolver(geocode.DemoPlaces)
	}

	res, err := services.Explore(cmd.Context(), services.ExploreRequest{City: city, RadiusKm: radiusKm}, dataset, resolver)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, res.Message)
	for _, r := range res.Nearby {
		fmt.Fprintf(out, "%-20s %10.6f %11.6f %8.2f km\n", r.Name, r.Point.Lat, r.Point.Lon, *r.DistanceKm)
	}
	return nil
}

func openStore(cfg config.Config) (*sql.DB, repositories.Dialect, error) {
	switch strings.ToLower(store) {
	case "sqlite":
		conn, err := db.OpenSqlite(cfg.DBPath)
		return conn, repositories.Sqlite, err
	case "postgres":
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return nil, "", fmt.Errorf("DATABASE_URL is required for --store=postgres")
		}
		conn, err := db.Open(cfg.DatabaseURL)
		return conn, repositories.Postgres, err
	default:
		return nil, "", fmt.Errorf("unknown store %q", store)
	}
}

func runInitDB(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	conn, dialect, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := repositories.InitSchema(cmd.Context(), conn, dialect); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema ready (%s)\n", dialect)
	return nil
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	source := csvSource
	if source == "" {
		source = cfg.DatasetURL
	}

	ctx := cmd.Context()

	records, err := repositories.NewCSVLocationRepository(source, cfg.HTTPTimeout).ListLocations(ctx)
	if err != nil {
		return err
	}

	conn, dialect, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := repositories.InitSchema(ctx, conn, dialect); err != nil {
		return err
	}
	if err := repositories.SeedLocations(ctx, conn, dialect, records); err != nil {
		return err
	}

	obs.Logger().Infow("seeded locations", "source", source, "records", len(records))
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d locations into %s\n", len(records), dialect)
	return nil
}
