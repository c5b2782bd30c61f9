package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/capdex/capdex/domain/gallery"
	"github.com/capdex/capdex/domain/search"
	"github.com/capdex/capdex/infrastructure/provider"
)

// errorResponse is the JSON body for failed requests.
type errorResponse struct {
	Error string `json:"error"`
}

// WriteError maps a domain error to its HTTP status and writes a JSON error
// body. Each error kind stays distinguishable at the boundary instead of
// collapsing into one generic failure.
func WriteError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		logger.Warn("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}

	WriteJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, gallery.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, gallery.ErrDuplicateName):
		return http.StatusConflict
	case errors.Is(err, search.ErrEmptyStore):
		return http.StatusNotFound
	case errors.Is(err, search.ErrDimensionMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, provider.ErrProvider):
		return http.StatusBadGateway
	case errors.Is(err, gallery.ErrStorage):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
