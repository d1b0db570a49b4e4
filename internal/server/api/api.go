// Package api provides the HTTP API handlers for AirSketch.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ayusman/airsketch/internal/session"
)

// Engine runs commands against the live drawing session.
type Engine interface {
	// Do runs fn with exclusive access to the session.
	Do(fn func(*session.Session)) error
	// View returns the most recently published view.
	View() session.View
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// statusFor maps session validation errors to 400 and anything else to 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrInvalidMode),
		errors.Is(err, session.ErrInvalidShapeType),
		errors.Is(err, session.ErrInvalidSettings):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func methodNotAllowed(w http.ResponseWriter) {
	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
}
