package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/conduit-lang/inspector/internal/scene"
	"github.com/conduit-lang/inspector/internal/store"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string         `json:"error"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func renderJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// renderError maps err onto a status code and error body
func renderError(w http.ResponseWriter, err error) {
	var (
		unknown *scene.UnknownTypeError
		unused  *scene.UnusedInputError
	)
	resp := ErrorResponse{Message: err.Error()}
	status := http.StatusInternalServerError

	switch {
	case errors.As(err, &unknown):
		status = http.StatusNotFound
		resp.Details = map[string]any{"suggestions": unknown.Suggestions}
	case errors.As(err, &unused):
		status = http.StatusUnprocessableEntity
		resp.Details = map[string]any{"unused": unused.Keys, "suggestions": unused.Suggestions}
	case errors.Is(err, store.ErrNotFound), errors.Is(err, errInstanceNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	}
	resp.Error = errorCode(status)
	renderJSON(w, status, resp)
}

func errorCode(status int) string {
	return strings.ReplaceAll(strings.ToLower(http.StatusText(status)), " ", "_")
}
