package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/focusnest/webhook-service/internal/apierror"
)

// Mode represents the authentication strategy for the read endpoints.
type Mode string

const (
	// ModeClerk verifies Clerk session JWTs against the instance JWKS.
	ModeClerk Mode = "clerk"
	// ModeNoop treats the bearer token as the user id (local development and tests).
	ModeNoop Mode = "noop"
)

// Config captures the inputs required to initialize a verifier.
type Config struct {
	Mode     Mode
	JWKSURL  string
	Audience string
	Issuer   string
	Logger   *slog.Logger
}

// Principal is the Clerk user behind a request.
type Principal struct {
	UserID    string
	SessionID string
}

// Verifier verifies a bearer token and returns its principal.
type Verifier interface {
	Verify(ctx context.Context, token string) (Principal, error)
}

var (
	errMissingAuthHeader = errors.New("authorization header missing")
	errInvalidAuthHeader = errors.New("authorization header is malformed")
)

type ctxKey struct{}

// Middleware rejects requests without a valid bearer token and stores the principal on the context.
func Middleware(verifier Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				apierror.Write(w, r, http.StatusUnauthorized, err.Error())
				return
			}

			principal, err := verifier.Verify(r.Context(), token)
			if err != nil {
				apierror.Write(w, r, http.StatusUnauthorized, err.Error())
				return
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errMissingAuthHeader
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", errInvalidAuthHeader
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", errInvalidAuthHeader
	}
	return token, nil
}

// PrincipalFromContext extracts the authenticated principal from the request context.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	value, ok := ctx.Value(ctxKey{}).(Principal)
	return value, ok
}

// NewVerifier constructs a Verifier matching the supplied configuration.
func NewVerifier(cfg Config) (Verifier, error) {
	switch cfg.Mode {
	case ModeClerk:
		v, err := newClerkVerifier(cfg)
		if err != nil {
			return nil, err
		}
		return v, nil
	case ModeNoop:
		return noopVerifier{}, nil
	default:
		return nil, fmt.Errorf("unsupported auth mode: %s", cfg.Mode)
	}
}
