package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"golistarr/internal/controllers"
	"golistarr/internal/models"
)

// userID extracts the caller identity set by the fronting auth proxy.
// Returns false and writes a 401 when the header is missing.
func userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.Header.Get("X-User-ID")
	if id == "" {
		http.Error(w, "Missing user identity", http.StatusUnauthorized)
		return "", false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError maps controller errors onto HTTP statuses
func writeError(w http.ResponseWriter, logger *logrus.Logger, err error) {
	var failed *controllers.ProcessingFailedError

	switch {
	case models.IsNotFound(err):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, controllers.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, controllers.ErrStillProcessing):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &failed):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		logger.WithError(err).Error("Request failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// pageParams reads page/limit query parameters, zero when absent
func pageParams(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return page, limit
}
