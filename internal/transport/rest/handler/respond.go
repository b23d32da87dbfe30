package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"mindwell/internal/cache"
	"mindwell/internal/screening"
	"mindwell/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// statusFor maps service and scorer errors to HTTP status codes.
// Unknown errors are server faults.
func statusFor(err error) int {
	switch {
	case errors.Is(err, screening.ErrUnknownQuestion),
		errors.Is(err, screening.ErrUnknownSeverityLevel),
		errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, screening.ErrInvalidAnswerValue):
		return http.StatusUnprocessableEntity
	case errors.Is(err, screening.ErrIncompleteAnswerSet),
		errors.Is(err, screening.ErrSessionComplete),
		errors.Is(err, cache.ErrUpdateConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrArchiveDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
