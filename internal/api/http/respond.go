package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"libris-backend/internal/domain"
	"libris-backend/internal/logger"
)

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// writeError maps the domain error taxonomy onto HTTP statuses. Each typed
// failure keeps its own status and reason so the UI can render a specific
// message instead of a generic one.
func writeError(w http.ResponseWriter, err error) {
	var (
		validation   *domain.ValidationError
		notFound     *domain.NotFoundError
		eligibility  *domain.EligibilityError
		availability *domain.AvailabilityError
		conflict     *domain.StateConflictError
		unavailable  *domain.BackendUnavailableError
	)
	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.As(err, &eligibility):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: err.Error(), Reason: string(eligibility.Reason)})
	case errors.As(err, &availability):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Reason: "unavailable"})
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Reason: "state_conflict"})
	case errors.As(err, &unavailable):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "backend unavailable"})
	default:
		logger.Error("Unhandled error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
