package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every runtime setting. Environment variables take precedence
// over values in a .env file, which take precedence over defaults.
type Config struct {
	Port     string `mapstructure:"PORT"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	DatasetURL   string `mapstructure:"DATASET_URL"`
	DatasetStore string `mapstructure:"DATASET_STORE"`
	DBPath       string `mapstructure:"DB_PATH"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	RedisURL     string `mapstructure:"REDIS_URL"`
	GeocodeCache string `mapstructure:"GEOCODE_CACHE"`

	// Geocoder and Detector select the live adapters ("nominatim", "http") or
	// the offline ones ("static").
	Geocoder string `mapstructure:"GEOCODER"`
	Detector string `mapstructure:"DETECTOR"`

	BasemapURL         string  `mapstructure:"BASEMAP_URL"`
	DetectorURL        string  `mapstructure:"DETECTOR_URL"`
	NominatimURL       string  `mapstructure:"NOMINATIM_URL"`
	NominatimUserAgent string  `mapstructure:"NOMINATIM_USER_AGENT"`
	Zoom               int     `mapstructure:"ZOOM"`
	ImageSize          int     `mapstructure:"IMAGE_SIZE"`
	Confidence         float64 `mapstructure:"CONFIDENCE"`

	HTTPTimeout    time.Duration `mapstructure:"HTTP_TIMEOUT"`
	GeocodeTimeout time.Duration `mapstructure:"GEOCODE_TIMEOUT"`
}

var defaults = map[string]any{
	"PORT":                 "8080",
	"LOG_LEVEL":            "info",
	"DATASET_URL":          "data/brickkilns.csv",
	"DATASET_STORE":        "csv",
	"DB_PATH":              "data/app.db",
	"DATABASE_URL":         "",
	"REDIS_URL":            "",
	"GEOCODE_CACHE":        "none",
	"GEOCODER":             "nominatim",
	"DETECTOR":             "http",
	"BASEMAP_URL":          "https://server.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/export",
	"DETECTOR_URL":         "http://localhost:8000/detect",
	"NOMINATIM_URL":        "https://nominatim.openstreetmap.org",
	"NOMINATIM_USER_AGENT": "brickkiln_mapper",
	"ZOOM":                 17,
	"IMAGE_SIZE":           640,
	"CONFIDENCE":           0.5,
	"HTTP_TIMEOUT":         30 * time.Second,
	"GEOCODE_TIMEOUT":      10 * time.Second,
}

// Load reads the optional .env file and the process environment.
func Load() (Config, error) {
	var c Config

	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("load config: unmarshal: %w", err)
	}

	if err := c.validate(); err != nil {
		return c, fmt.Errorf("load config: %w", err)
	}

	return c, nil
}

func (c Config) validate() error {
	if c.Zoom < 1 {
		return fmt.Errorf("ZOOM must be >= 1, got %d", c.Zoom)
	}
	if c.ImageSize <= 0 {
		return fmt.Errorf("IMAGE_SIZE must be > 0, got %d", c.ImageSize)
	}
	if c.Confidence < 0 || c.Confidence > 1 {
		return fmt.Errorf("CONFIDENCE must be in [0,1], got %v", c.Confidence)
	}

	switch strings.ToLower(c.Geocoder) {
	case "nominatim", "static":
	default:
		return fmt.Errorf("unknown GEOCODER %q", c.Geocoder)
	}

	switch strings.ToLower(c.Detector) {
	case "http", "static":
	default:
		return fmt.Errorf("unknown DETECTOR %q", c.Detector)
	}

	switch strings.ToLower(c.DatasetStore) {
	case "csv", "sqlite":
	case "postgres":
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return errors.New("DATABASE_URL is required when DATASET_STORE=postgres")
		}
	default:
		return fmt.Errorf("unknown DATASET_STORE %q", c.DatasetStore)
	}

	switch strings.ToLower(c.GeocodeCache) {
	case "none", "sqlite":
	case "postgres":
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return errors.New("DATABASE_URL is required when GEOCODE_CACHE=postgres")
		}
	case "redis":
		if strings.TrimSpace(c.RedisURL) == "" {
			return errors.New("REDIS_URL is required when GEOCODE_CACHE=redis")
		}
	default:
		return fmt.Errorf("unknown GEOCODE_CACHE %q", c.GeocodeCache)
	}

	return nil
}
