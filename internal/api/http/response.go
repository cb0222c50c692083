package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.ErrorContext(r.Context(), "Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	respondJSON(w, r, status, errorResponse{Error: message})
}

// respondServiceError maps rental errors onto HTTP statuses. Anything
// unclassified is logged and reported without its message.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var re *domain.RentError
	if errors.As(err, &re) {
		respondError(w, r, statusForKind(re.Kind), re.Message)
		return
	}
	logger.ErrorContext(r.Context(), "Unhandled error in rental API", "path", r.URL.Path, "error", err)
	respondError(w, r, http.StatusInternalServerError, "internal server error")
}

func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
