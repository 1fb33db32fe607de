package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/focusnest/webhook-service/internal/clerk"
	"github.com/focusnest/webhook-service/internal/logging"
	"github.com/focusnest/webhook-service/internal/usersync"
)

// Clerk user payloads are small; 1MB leaves room for large metadata blobs.
const maxWebhookBodyBytes = 1 << 20

// IgnoredResponse acknowledges deliveries with no registered handler so Clerk stops retrying them.
type IgnoredResponse struct {
	Ignored bool   `json:"ignored"`
	Type    string `json:"type"`
}

// RegisterWebhookRoutes mounts the Clerk webhook receiver and dispatches each delivery to the
// function registered for its event name.
func RegisterWebhookRoutes(r chi.Router, verifier clerk.Verifier, functions []usersync.Function, timeout time.Duration, logger *slog.Logger) {
	byEvent := make(map[string]usersync.Function, len(functions))
	for _, fn := range functions {
		byEvent[fn.Event] = fn
	}

	r.Post("/webhooks/clerk", receiveClerkWebhook(verifier, byEvent, timeout, logger))
}

func receiveClerkWebhook(verifier clerk.Verifier, byEvent map[string]usersync.Function, timeout time.Duration, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logging.FromRequest(r, logger).With(slog.String("svixId", r.Header.Get("svix-id")))

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				log.Warn("webhook body too large", slog.Int64("limit", tooLarge.Limit))
				writeError(w, r, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			writeError(w, r, http.StatusBadRequest, "unable to read request body")
			return
		}

		if err := verifier.Verify(body, r.Header); err != nil {
			log.Warn("rejected webhook delivery", slog.Any("error", err))
			writeError(w, r, http.StatusUnauthorized, "invalid webhook signature")
			return
		}

		var event clerk.Event
		if err := json.Unmarshal(body, &event); err != nil || event.Type == "" {
			writeError(w, r, http.StatusBadRequest, "invalid webhook payload")
			return
		}

		fn, ok := byEvent[event.Name()]
		if !ok {
			log.Debug("ignoring webhook event", slog.String("type", event.Type))
			writeJSON(w, http.StatusOK, IgnoredResponse{Ignored: true, Type: event.Type})
			return
		}

		log = log.With(slog.String("function", fn.ID), slog.String("event", fn.Event))

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		result, err := fn.Handle(ctx, event.Data)
		if err != nil {
			status, message := handlerErrorStatus(err)
			log.Error("webhook handler failed", slog.Int("status", status), slog.Any("error", err))
			writeError(w, r, status, message)
			return
		}

		log.Info("webhook handled", slog.Any("result", result))
		writeJSON(w, http.StatusOK, result)
	}
}

// handlerErrorStatus maps a handler error onto the response status. Any non-2xx makes Clerk redeliver.
func handlerErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, usersync.ErrInvalidPayload):
		return http.StatusBadRequest, "invalid event data"
	case errors.Is(err, usersync.ErrDuplicateUser):
		return http.StatusConflict, "user already exists"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "handler timed out"
	default:
		return http.StatusInternalServerError, "failed to handle event"
	}
}
