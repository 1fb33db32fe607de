package usersync

import (
	"context"
	"encoding/json"

	"github.com/focusnest/webhook-service/internal/clerk"
)

// Action tags reported by the create and update handlers.
const (
	ActionUserCreated = "user_created"
	ActionUserUpdated = "user_updated"
)

// User is the persisted user document. Its identifier is the Clerk user id, never a generated key.
type User struct {
	ID       string `json:"id" firestore:"-" bson:"_id"`
	Email    string `json:"email,omitempty" firestore:"email,omitempty" bson:"email,omitempty"`
	Name     string `json:"name" firestore:"name" bson:"name"`
	ImageURL string `json:"imageUrl,omitempty" firestore:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
}

// UserUpdate carries the fields written by an update event.
// A nil Email or ImageURL leaves the stored value untouched.
type UserUpdate struct {
	Email    *string
	Name     string
	ImageURL *string
}

// Apply returns u with the update's fields written over it.
func (upd UserUpdate) Apply(u User) User {
	u.Name = upd.Name
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.ImageURL != nil {
		u.ImageURL = *upd.ImageURL
	}
	return u
}

// ActionResult is returned by the create and update handlers.
type ActionResult struct {
	Success bool   `json:"success"`
	Action  string `json:"action"`
}

// DeletionResult is returned by the delete handler.
type DeletionResult struct {
	Success bool `json:"success"`
	Deleted bool `json:"deleted"`
}

// Connector makes sure the backing database is reachable. Calling it repeatedly is cheap
// and reuses the established connection.
type Connector interface {
	EnsureConnected(ctx context.Context) error
}

// Repository defines single-document access to the user collection, keyed by Clerk user id.
type Repository interface {
	// Create inserts u and fails with ErrDuplicateUser when the id already exists.
	Create(ctx context.Context, u User) error
	// FindOneAndUpdate overwrites the fields of an existing user and returns the result.
	// It returns (nil, nil) when no user has that id; it never inserts.
	FindOneAndUpdate(ctx context.Context, userID string, update UserUpdate) (*User, error)
	// FindOneAndDelete removes the user and returns the removed document, or (nil, nil) when absent.
	FindOneAndDelete(ctx context.Context, userID string) (*User, error)
	// Get loads a user or returns ErrNotFound.
	Get(ctx context.Context, userID string) (*User, error)
}

// Store is a repository that owns its own connection.
type Store interface {
	Connector
	Repository
}

// Service exposes the three Clerk sync handlers and a read path over the synced records.
type Service interface {
	SyncCreation(ctx context.Context, data clerk.UserData) (ActionResult, error)
	SyncUpdate(ctx context.Context, data clerk.UserData) (ActionResult, error)
	SyncDeletion(ctx context.Context, data clerk.DeletedObject) (DeletionResult, error)
	GetUser(ctx context.Context, userID string) (*User, error)
}

// Function binds a handler to the event name that triggers it.
type Function struct {
	ID     string
	Name   string
	Event  string
	Handle func(ctx context.Context, data json.RawMessage) (any, error)
}
