package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"memorize-server/matcherrors"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MapErrorToStatusCode maps domain errors to HTTP status codes.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, matcherrors.ErrThemeNotFound):
		return http.StatusNotFound
	case errors.Is(err, matcherrors.ErrInvalidTheme),
		errors.Is(err, matcherrors.ErrInvalidPairCount):
		return http.StatusUnprocessableEntity
	case errors.Is(err, matcherrors.ErrIndexOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encode response", "tag", "api", "err", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondErr maps err to a status; internal errors are logged and not echoed.
func respondErr(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "tag", "api", "method", r.Method, "path", r.URL.Path, "err", err)
		respondError(w, status, "internal error")
		return
	}
	respondError(w, status, err.Error())
}
