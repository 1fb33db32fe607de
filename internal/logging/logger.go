package logging

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

// NewLogger returns a slog logger configured for Cloud Logging compatibility.
func NewLogger(service string, level string) *slog.Logger {
	return New(os.Stdout, service, level)
}

// New builds the JSON logger on an arbitrary writer.
func New(w io.Writer, service string, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{AddSource: true, Level: ParseLevel(level)})
	return slog.New(handler).With(slog.String("service", service))
}

// ParseLevel maps debug/info/warn/error onto slog levels, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// FromRequest attaches the chi request identifier to the logger.
func FromRequest(r *http.Request, logger *slog.Logger) *slog.Logger {
	if requestID := middleware.GetReqID(r.Context()); requestID != "" {
		return logger.With(slog.String("requestId", requestID))
	}
	return logger
}
