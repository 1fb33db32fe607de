package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/focusnest/webhook-service/internal/auth"
	"github.com/focusnest/webhook-service/internal/logging"
	"github.com/focusnest/webhook-service/internal/usersync"
)

const serviceTimeout = 8 * time.Second

// RegisterUserRoutes mounts the authenticated read endpoint for synced users.
func RegisterUserRoutes(r chi.Router, verifier auth.Verifier, service usersync.Service, logger *slog.Logger) {
	r.Route("/v1/users", func(r chi.Router) {
		r.Use(auth.Middleware(verifier))
		r.Get("/me", getMe(service, logger))
	})
}

func getMe(service usersync.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok || principal.UserID == "" {
			writeError(w, r, http.StatusUnauthorized, "missing user ID")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		u, err := service.GetUser(ctx, principal.UserID)
		if errors.Is(err, usersync.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "user not synced yet")
			return
		}
		if err != nil {
			logging.FromRequest(r, logger).Error("failed to load user",
				slog.String("userId", principal.UserID), slog.Any("error", err))
			writeError(w, r, http.StatusInternalServerError, "failed to load user")
			return
		}

		writeJSON(w, http.StatusOK, u)
	}
}
