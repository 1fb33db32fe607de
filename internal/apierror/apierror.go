// Package apierror holds the error envelope shared by every HTTP surface of the service.
package apierror

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

// ErrorResponse represents the canonical error envelope returned by FocusNest APIs.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

// Code derives the snake_case code for an HTTP status, e.g. 413 -> "request_entity_too_large".
func Code(status int) string {
	return strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_"))
}

// Write sends the envelope for status, stamped with the chi request id when one is set.
func Write(w http.ResponseWriter, r *http.Request, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Code:      Code(status),
		Message:   message,
		RequestID: middleware.GetReqID(r.Context()),
	})
}
