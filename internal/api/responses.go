package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	apperrors "glimpse/internal/errors"
	"glimpse/internal/model"
)

// Shared DTOs for API responses and helpers for writing them consistently.

// ErrorResponse is the standard JSON structure for error messages.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic success body for operations that do not
// return a resource.
type StatusResponse struct {
	Status string `json:"status"`
}

// TurnResponse acknowledges an accepted message with the turn number the
// caller should correlate the subsequent stream with.
type TurnResponse struct {
	Turn int `json:"turn"`
}

// UpdateTitleRequest is the DTO for the rename endpoint.
type UpdateTitleRequest struct {
	Title string `json:"title" validate:"required,min=1,max=100" example:"My Custom Session Title"`
}

// respondWithError maps domain sentinel errors to HTTP status codes and
// writes a standard JSON error body. Unrecognized errors become a generic
// 500 so implementation details never leak to the client.
func respondWithError(w http.ResponseWriter, err error) {
	var statusCode int
	var message string

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "The requested session was not found."
	case errors.Is(err, apperrors.ErrValidation):
		statusCode = http.StatusBadRequest
		// Validation messages from the service layer are already
		// client-presentable.
		message = err.Error()
	case errors.Is(err, apperrors.ErrConflict):
		statusCode = http.StatusConflict
		message = "A generation is already in flight for this session."
	default:
		statusCode = http.StatusInternalServerError
		message = "An unexpected internal server error occurred."
	}

	slog.Warn("Responding with error", "status_code", statusCode, "client_message", message, "internal_error", err)

	respondWithJSON(w, statusCode, ErrorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal JSON response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

// writeStreamEvent writes one named SSE event and flushes it immediately.
// A write failure is a strong signal that the client has disconnected.
func writeStreamEvent(w http.ResponseWriter, ev model.StreamEvent) error {
	jsonData, err := json.Marshal(ev)
	if err != nil {
		slog.Error("Failed to marshal stream event", "type", ev.Type, "error", err)
		return nil
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, jsonData); err != nil {
		return fmt.Errorf("failed to write stream event: %w", err)
	}
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}

// writeKeepAlive writes an SSE comment line that clients ignore but that
// keeps idle intermediaries from closing the connection.
func writeKeepAlive(w http.ResponseWriter) error {
	if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
		return fmt.Errorf("failed to write keep-alive: %w", err)
	}
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}
