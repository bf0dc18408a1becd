package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"
	"github.com/goccy/go-json"
)

// APIResponse is the standard response wrapper
type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

// APIError represents an error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON sends a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := APIResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError sends an error JSON response
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := APIResponse{
		Error: &APIError{Code: code, Message: message},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func badRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, "BAD_REQUEST", message)
}

// writeServiceError translates a Connect error from the service layer.
func writeServiceError(w http.ResponseWriter, err error) {
	message := err.Error()
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		message = connectErr.Message()
	}

	switch connect.CodeOf(err) {
	case connect.CodeInvalidArgument:
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", message)
	case connect.CodeNotFound:
		writeError(w, http.StatusNotFound, "NOT_FOUND", message)
	case connect.CodeUnauthenticated:
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", message)
	case connect.CodePermissionDenied:
		writeError(w, http.StatusForbidden, "FORBIDDEN", message)
	case connect.CodeFailedPrecondition:
		writeError(w, http.StatusConflict, "CONFLICT", message)
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
	}
}
