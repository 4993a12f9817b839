package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"procure-to-pay/internal/api"
	"procure-to-pay/internal/core"

	"github.com/rs/zerolog"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
	Details   any    `json:"details,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	writeErrorDetails(w, r, message, code, status, nil)
}

func writeErrorDetails(w http.ResponseWriter, r *http.Request, message, code string, status int, details any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
		Details:   details,
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeServiceError maps service errors onto HTTP statuses:
// conflicts 409, validation and illegal transitions 422, backend failures 502.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		conflict   *core.ConflictError
		transition *core.TransitionError
		fields     core.ValidationErrors
		backend    *api.APIError
	)
	switch {
	case errors.As(err, &conflict):
		writeErrorDetails(w, r, conflict.Error(), "CONFLICT", http.StatusConflict, conflict.Conflicts)
	case errors.As(err, &fields):
		writeErrorDetails(w, r, fields.Error(), "VALIDATION_FAILED", http.StatusUnprocessableEntity, []core.FieldError(fields))
	case errors.As(err, &transition):
		writeError(w, r, transition.Error(), "INVALID_TRANSITION", http.StatusUnprocessableEntity)
	case errors.Is(err, core.ErrValidation):
		writeError(w, r, err.Error(), "VALIDATION_FAILED", http.StatusUnprocessableEntity)
	case errors.As(err, &backend) && backend.StatusCode == http.StatusNotFound:
		writeError(w, r, backend.Message, "NOT_FOUND", http.StatusNotFound)
	case errors.As(err, &backend):
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("backend call failed")
		writeError(w, r, "backend request failed: "+backend.Message, "BACKEND_ERROR", http.StatusBadGateway)
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("unhandled service error")
		writeError(w, r, "internal server error", "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
