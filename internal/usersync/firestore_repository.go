package usersync

import (
	"context"
	"fmt"
	"sync"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreRepository stores users as documents whose id is the Clerk user id.
// The client is created on the first EnsureConnected call and reused afterwards.
type FirestoreRepository struct {
	projectID  string
	collection string

	mu     sync.Mutex
	client *firestore.Client
}

// NewFirestoreRepository creates a repository for projectID without dialing.
func NewFirestoreRepository(projectID, collection string) *FirestoreRepository {
	return &FirestoreRepository{projectID: projectID, collection: collection}
}

func (r *FirestoreRepository) EnsureConnected(ctx context.Context) error {
	_, err := r.connect(ctx)
	return err
}

func (r *FirestoreRepository) connect(ctx context.Context) (*firestore.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client != nil {
		return r.client, nil
	}
	client, err := firestore.NewClient(ctx, r.projectID)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	r.client = client
	return client, nil
}

// Close releases the client if one was created.
func (r *FirestoreRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client == nil {
		return nil
	}
	err := r.client.Close()
	r.client = nil
	return err
}

func (r *FirestoreRepository) doc(ctx context.Context, userID string) (*firestore.Client, *firestore.DocumentRef, error) {
	if userID == "" {
		return nil, nil, ErrMissingUserID
	}
	client, err := r.connect(ctx)
	if err != nil {
		return nil, nil, err
	}
	return client, client.Collection(r.collection).Doc(userID), nil
}

func (r *FirestoreRepository) Create(ctx context.Context, u User) error {
	_, ref, err := r.doc(ctx, u.ID)
	if err != nil {
		return err
	}

	_, err = ref.Create(ctx, u)
	if status.Code(err) == codes.AlreadyExists {
		return ErrDuplicateUser
	}
	return err
}

func (r *FirestoreRepository) FindOneAndUpdate(ctx context.Context, userID string, update UserUpdate) (*User, error) {
	client, ref, err := r.doc(ctx, userID)
	if err != nil {
		return nil, err
	}

	var result *User
	err = client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		result = nil

		snap, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			return nil
		}
		if err != nil {
			return err
		}

		var current User
		if err := snap.DataTo(&current); err != nil {
			return fmt.Errorf("unmarshal user: %w", err)
		}
		current.ID = userID

		updates := []firestore.Update{{Path: "name", Value: update.Name}}
		if update.Email != nil {
			updates = append(updates, firestore.Update{Path: "email", Value: *update.Email})
		}
		if update.ImageURL != nil {
			updates = append(updates, firestore.Update{Path: "imageUrl", Value: *update.ImageURL})
		}
		if err := tx.Update(ref, updates); err != nil {
			return err
		}

		updated := update.Apply(current)
		result = &updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *FirestoreRepository) FindOneAndDelete(ctx context.Context, userID string) (*User, error) {
	client, ref, err := r.doc(ctx, userID)
	if err != nil {
		return nil, err
	}

	var result *User
	err = client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		result = nil

		snap, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			return nil
		}
		if err != nil {
			return err
		}

		var current User
		if err := snap.DataTo(&current); err != nil {
			return fmt.Errorf("unmarshal user: %w", err)
		}
		current.ID = userID

		if err := tx.Delete(ref); err != nil {
			return err
		}
		result = &current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *FirestoreRepository) Get(ctx context.Context, userID string) (*User, error) {
	_, ref, err := r.doc(ctx, userID)
	if err != nil {
		return nil, err
	}

	snap, err := ref.Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var u User
	if err := snap.DataTo(&u); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	u.ID = userID
	return &u, nil
}
