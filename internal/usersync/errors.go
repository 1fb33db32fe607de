package usersync

import "errors"

var (
	// ErrDuplicateUser indicates a create for an id that is already stored.
	ErrDuplicateUser = errors.New("user already exists")
	// ErrNotFound indicates no user is stored under the requested id.
	ErrNotFound = errors.New("user not found")
	// ErrMissingUserID indicates a required user id was absent.
	ErrMissingUserID = errors.New("user id is required")
	// ErrInvalidPayload indicates an event body that could not be decoded.
	ErrInvalidPayload = errors.New("invalid event payload")
)
