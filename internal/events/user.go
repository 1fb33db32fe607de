package events

import (
	"time"

	"github.com/google/uuid"
)

// TopicUserEvents carries user lifecycle notifications for downstream services.
const TopicUserEvents = "user.events"

// Event types published on TopicUserEvents.
const (
	TypeUserSynced  = "user.synced"
	TypeUserDeleted = "user.deleted"
)

// UserSynced describes the payload produced when a Clerk user is written to the user store.
type UserSynced struct {
	UserID      string    `json:"userId"`
	Email       string    `json:"email,omitempty"`
	DisplayName string    `json:"displayName"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Action      string    `json:"action"`
	SyncedAt    time.Time `json:"syncedAt"`
}

// UserDeleted is emitted when a user is removed from the system.
type UserDeleted struct {
	UserID    string    `json:"userId"`
	DeletedAt time.Time `json:"deletedAt"`
}

// Envelope wraps a payload with routing metadata.
type Envelope struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

// NewEnvelope stamps data with a fresh identifier.
func NewEnvelope(eventType string, data any, occurredAt time.Time) Envelope {
	return Envelope{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: occurredAt.UTC(),
		Data:       data,
	}
}
