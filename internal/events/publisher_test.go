package events

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestNewEnvelopeAssignsIDs(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.FixedZone("WIB", 7*3600))
	first := NewEnvelope(TypeUserDeleted, UserDeleted{UserID: "user_1"}, at)
	second := NewEnvelope(TypeUserDeleted, UserDeleted{UserID: "user_1"}, at)

	if first.ID == "" || first.ID == second.ID {
		t.Fatalf("expected distinct non-empty ids, got %q and %q", first.ID, second.ID)
	}
	if first.OccurredAt.Location() != time.UTC {
		t.Fatalf("expected occurredAt normalised to UTC")
	}
}

func TestNoopPublisher(t *testing.T) {
	if err := (NoopPublisher{}).Publish(context.Background(), TopicUserEvents, Envelope{}); err != nil {
		t.Fatalf("noop publisher returned error: %v", err)
	}
}

func TestRedisPublisherDeliversEnvelope(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	container, err := testcontainers.Run(ctx, "redis:7-alpine",
		testcontainers.WithExposedPorts("6379/tcp"),
		testcontainers.WithWaitStrategy(wait.ForLog("Ready to accept connections").WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Skipf("redis container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = client.Close() })

	sub := client.Subscribe(ctx, TopicUserEvents)
	t.Cleanup(func() { _ = sub.Close() })
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	publisher := NewRedisPublisher(client)
	envelope := NewEnvelope(TypeUserSynced, UserSynced{UserID: "user_1", DisplayName: "Jane Doe", Action: "user_created"}, time.Now())
	if err := publisher.Publish(ctx, TopicUserEvents, envelope); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}

	msg, err := sub.ReceiveMessage(ctx)
	if err != nil {
		t.Fatalf("receive message: %v", err)
	}

	var got struct {
		ID   string     `json:"id"`
		Type string     `json:"type"`
		Data UserSynced `json:"data"`
	}
	if err := json.Unmarshal([]byte(msg.Payload), &got); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if got.ID != envelope.ID || got.Type != TypeUserSynced || got.Data.UserID != "user_1" {
		t.Fatalf("unexpected message: %+v", got)
	}
}
