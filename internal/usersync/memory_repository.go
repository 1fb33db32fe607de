package usersync

import (
	"context"
	"sync"
)

// memoryRepository implements Store using in-memory storage
type memoryRepository struct {
	mu    sync.RWMutex
	users map[string]User
}

// NewMemoryRepository creates a new in-memory repository
func NewMemoryRepository() Store {
	return &memoryRepository{
		users: make(map[string]User),
	}
}

func (r *memoryRepository) EnsureConnected(context.Context) error {
	return nil
}

func (r *memoryRepository) Create(_ context.Context, u User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[u.ID]; exists {
		return ErrDuplicateUser
	}

	r.users[u.ID] = u
	return nil
}

func (r *memoryRepository) FindOneAndUpdate(_ context.Context, userID string, update UserUpdate) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.users[userID]
	if !exists {
		return nil, nil
	}

	updated := update.Apply(current)
	r.users[userID] = updated
	return &updated, nil
}

func (r *memoryRepository) FindOneAndDelete(_ context.Context, userID string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.users[userID]
	if !exists {
		return nil, nil
	}

	delete(r.users, userID)
	return &current, nil
}

func (r *memoryRepository) Get(_ context.Context, userID string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, exists := r.users[userID]
	if !exists {
		return nil, ErrNotFound
	}
	return &u, nil
}
