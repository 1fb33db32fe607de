// Package clerk holds the wire shapes of Clerk webhook deliveries and their verification.
package clerk

import "encoding/json"

// Clerk webhook types handled by the service.
const (
	TypeUserCreated = "user.created"
	TypeUserUpdated = "user.updated"
	TypeUserDeleted = "user.deleted"
)

// eventNamespace prefixes Clerk webhook types to form internal event names, e.g. "clerk/user.created".
const eventNamespace = "clerk/"

// Event is the envelope Clerk posts for every webhook delivery.
type Event struct {
	Type      string          `json:"type"`
	Object    string          `json:"object"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp,omitempty"`
}

// Name returns the namespaced event name used to route the delivery.
func (e Event) Name() string {
	return EventName(e.Type)
}

// EventName namespaces a Clerk webhook type.
func EventName(webhookType string) string {
	return eventNamespace + webhookType
}

// EmailAddress is one entry of a Clerk user's email address list.
type EmailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

// UserData is the `data` object of user.created and user.updated events.
// Clerk sends null for unset names, which decodes to the empty string.
// ImageURL stays a pointer so an explicit "" can be told apart from an absent field.
type UserData struct {
	ID             string         `json:"id"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	EmailAddresses []EmailAddress `json:"email_addresses"`
	ImageURL       *string        `json:"image_url"`
}

// DeletedObject is the `data` object of user.deleted events.
type DeletedObject struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}
