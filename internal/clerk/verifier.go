package clerk

import (
	"errors"
	"fmt"
	"net/http"

	svix "github.com/svix/svix-webhooks/go"
)

// Mode selects how webhook deliveries are authenticated.
type Mode string

const (
	// ModeSvix verifies the svix-id/svix-timestamp/svix-signature headers Clerk attaches.
	ModeSvix Mode = "svix"
	// ModeNoop accepts every delivery (local development and tests).
	ModeNoop Mode = "noop"
)

// ErrInvalidSignature is returned when a delivery fails verification.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// Verifier authenticates the raw body of a webhook delivery against its headers.
type Verifier interface {
	Verify(payload []byte, headers http.Header) error
}

// NewVerifier builds the verifier for mode. secret is the Clerk signing secret ("whsec_...").
func NewVerifier(mode Mode, secret string) (Verifier, error) {
	switch mode {
	case ModeSvix:
		if secret == "" {
			return nil, errors.New("clerk webhook secret is required")
		}
		wh, err := svix.NewWebhook(secret)
		if err != nil {
			return nil, fmt.Errorf("init svix webhook: %w", err)
		}
		return &svixVerifier{webhook: wh}, nil
	case ModeNoop:
		return noopVerifier{}, nil
	default:
		return nil, fmt.Errorf("unsupported webhook mode: %s", mode)
	}
}

type svixVerifier struct {
	webhook *svix.Webhook
}

func (v *svixVerifier) Verify(payload []byte, headers http.Header) error {
	if err := v.webhook.Verify(payload, headers); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return nil
}

type noopVerifier struct{}

func (noopVerifier) Verify([]byte, http.Header) error { return nil }
