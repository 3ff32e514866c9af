package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"kiln-detection-service/internal/platform/obs"
	"kiln-detection-service/internal/ports"
	"net/http"
	"strconv"
	"strings"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		obs.Logger().Warnw("encode failed", "req_id", obs.RequestID(r.Context()), "method", r.Method, "path", r.URL.Path, "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

// writeUpstreamError maps failures of external collaborators to 502 with a
// message the caller can show. Anything else is an internal error.
func writeUpstreamError(w http.ResponseWriter, r *http.Request, op string, err error) {
	obs.Logger().Errorw(op+" failed", "req_id", obs.RequestID(r.Context()), "err", err)

	switch {
	case errors.Is(err, ports.ErrFetchFailed):
		writeError(w, r, http.StatusBadGateway, "failed to fetch satellite imagery")
	case errors.Is(err, ports.ErrDetectFailed):
		writeError(w, r, http.StatusBadGateway, "detection service unavailable")
	case errors.Is(err, ports.ErrGeocodeFailed):
		writeError(w, r, http.StatusBadGateway, "geocoding service unavailable")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func queryFloat(r *http.Request, key string, fallback float64) (float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", key)
	}
	return v, nil
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return v, nil
}
