package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

var errMissingSubject = errors.New("token missing subject claim")

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type clerkVerifier struct {
	jwks     *keyfunc.JWKS
	audience string
	issuer   string
}

func newClerkVerifier(cfg Config) (*clerkVerifier, error) {
	if cfg.JWKSURL == "" {
		return nil, errors.New("clerk JWKS URL is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	jwks, err := keyfunc.Get(cfg.JWKSURL, keyfunc.Options{
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			logger.Warn("jwks refresh failed", slog.Any("error", err))
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load JWKS: %w", err)
	}

	return &clerkVerifier{jwks: jwks, audience: cfg.Audience, issuer: cfg.Issuer}, nil
}

func (v *clerkVerifier) Verify(_ context.Context, token string) (Principal, error) {
	options := []jwt.ParserOption{jwt.WithLeeway(5 * time.Second), jwt.WithExpirationRequired()}
	if v.audience != "" {
		options = append(options, jwt.WithAudience(v.audience))
	}
	if v.issuer != "" {
		options = append(options, jwt.WithIssuer(v.issuer))
	}

	var claims sessionClaims
	if _, err := jwt.ParseWithClaims(token, &claims, v.jwks.Keyfunc, options...); err != nil {
		return Principal{}, fmt.Errorf("token verification failed: %w", err)
	}
	if claims.Subject == "" {
		return Principal{}, errMissingSubject
	}

	return Principal{UserID: claims.Subject, SessionID: claims.SessionID}, nil
}

// Close stops the background JWKS refresh.
func (v *clerkVerifier) Close() {
	v.jwks.EndBackground()
}
