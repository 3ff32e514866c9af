package handlers

import (
	"net/http"
)

// Health is a liveness check. It does not touch the dataset or upstream services.
func Health(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
