package usersync

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// exerciseStore runs the behaviour every backend must share against store.
func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()
	id := "user_" + uuid.NewString()

	if err := store.EnsureConnected(ctx); err != nil {
		t.Fatalf("EnsureConnected returned error: %v", err)
	}
	if err := store.EnsureConnected(ctx); err != nil {
		t.Fatalf("second EnsureConnected returned error: %v", err)
	}

	t.Run("update of missing user does not insert", func(t *testing.T) {
		got, err := store.FindOneAndUpdate(ctx, id, UserUpdate{Name: "Ghost"})
		if err != nil || got != nil {
			t.Fatalf("expected (nil, nil), got (%+v, %v)", got, err)
		}
		if _, err := store.Get(ctx, id); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("create then duplicate", func(t *testing.T) {
		u := User{ID: id, Email: "a@x.com", Name: "Jane Doe"}
		if err := store.Create(ctx, u); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
		if err := store.Create(ctx, u); !errors.Is(err, ErrDuplicateUser) {
			t.Fatalf("expected ErrDuplicateUser, got %v", err)
		}
		got, err := store.Get(ctx, id)
		if err != nil {
			t.Fatalf("Get returned error: %v", err)
		}
		if *got != u {
			t.Fatalf("got %+v, want %+v", *got, u)
		}
	})

	t.Run("update keeps absent optional fields", func(t *testing.T) {
		image := "https://img.clerk.com/jane"
		got, err := store.FindOneAndUpdate(ctx, id, UserUpdate{Name: "Jane Roe", ImageURL: &image})
		if err != nil {
			t.Fatalf("FindOneAndUpdate returned error: %v", err)
		}
		want := User{ID: id, Email: "a@x.com", Name: "Jane Roe", ImageURL: image}
		if got == nil || *got != want {
			t.Fatalf("got %+v, want %+v", got, want)
		}
	})

	t.Run("delete returns removed document once", func(t *testing.T) {
		got, err := store.FindOneAndDelete(ctx, id)
		if err != nil || got == nil || got.ID != id {
			t.Fatalf("unexpected delete result: %+v, %v", got, err)
		}
		got, err = store.FindOneAndDelete(ctx, id)
		if err != nil || got != nil {
			t.Fatalf("expected (nil, nil) on second delete, got (%+v, %v)", got, err)
		}
	})
}

func TestMemoryRepository(t *testing.T) {
	exerciseStore(t, NewMemoryRepository())
}

func TestMongoRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	container, err := testcontainers.Run(ctx, "mongo:7",
		testcontainers.WithExposedPorts("27017/tcp"),
		testcontainers.WithWaitStrategy(
			wait.ForAll(
				wait.ForListeningPort("27017/tcp"),
				wait.ForLog("Waiting for connections"),
			).WithDeadline(90*time.Second),
		),
	)
	if err != nil {
		t.Skipf("mongo container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "27017/tcp")
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}

	repo := NewMongoRepository(fmt.Sprintf("mongodb://%s:%s", host, port.Port()), "webhook_test", "users")
	t.Cleanup(func() { _ = repo.Close(context.Background()) })

	exerciseStore(t, repo)
}

func TestFirestoreRepository(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	repo := NewFirestoreRepository("focusnest-test", "users")
	t.Cleanup(func() { _ = repo.Close() })

	exerciseStore(t, repo)
}

func TestFirestoreRepositoryRejectsEmptyID(t *testing.T) {
	repo := NewFirestoreRepository("focusnest-test", "users")
	if err := repo.Create(context.Background(), User{}); !errors.Is(err, ErrMissingUserID) {
		t.Fatalf("expected ErrMissingUserID, got %v", err)
	}
}
