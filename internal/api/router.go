package api

import (
	"kiln-detection-service/internal/api/handlers"
	"kiln-detection-service/internal/ports"
	"kiln-detection-service/internal/services"
	"net/http"

	"github.com/rs/cors"
)

// Deps are the collaborators the HTTP layer needs. The dataset and clients
// are built once in main and shared by every request.
type Deps struct {
	Dataset  *services.Dataset
	Fetcher  ports.BasemapFetcher
	Detector ports.Detector
	Resolver ports.CityResolver
	Defaults handlers.Defaults
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	bboxHandler := &handlers.BBoxHandler{Defaults: deps.Defaults}
	detectHandler := &handlers.DetectionHandler{
		Fetcher:  deps.Fetcher,
		Detector: deps.Detector,
		Dataset:  deps.Dataset,
		Defaults: deps.Defaults,
	}
	locationHandler := &handlers.LocationHandler{Dataset: deps.Dataset}
	exploreHandler := &handlers.ExploreHandler{Dataset: deps.Dataset, Resolver: deps.Resolver}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/bbox", bboxHandler.Get)
	mux.HandleFunc("/detections", detectHandler.Detect)
	mux.HandleFunc("/detections/image", detectHandler.Image)
	mux.HandleFunc("/locations", locationHandler.List)
	mux.HandleFunc("/explore", exploreHandler.Explore)

	// Browser map pages are served from other origins.
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader, "X-Detection-Count"},
	})

	return requestIDMiddleware(loggingMiddleware(c.Handler(mux)))
}
