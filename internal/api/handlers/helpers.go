package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"itinerary-service/internal/domain"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writeDomainError maps pipeline error classes to HTTP statuses.
// Unrecognized errors are logged and reported as opaque 500s.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "itinerary not found")
	case errors.Is(err, domain.ErrEmptyRoute), errors.Is(err, domain.ErrUpstreamRouteFailure):
		writeError(w, r, http.StatusUnprocessableEntity, "route not found")
	case errors.Is(err, domain.ErrUpstreamTimeout):
		writeError(w, r, http.StatusGatewayTimeout, "routing engine timed out, try again")
	case errors.Is(err, domain.ErrMalformedGeometry):
		writeError(w, r, http.StatusBadGateway, "routing engine returned unusable geometry")
	default:
		log.Printf("request failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
