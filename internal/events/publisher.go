package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Publisher delivers envelopes to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, envelope Envelope) error
}

// NoopPublisher drops every envelope. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, Envelope) error { return nil }

// RedisPublisher publishes JSON envelopes with Redis PUBLISH, one channel per topic.
type RedisPublisher struct {
	client redis.UniversalClient
}

// NewRedisPublisher wraps an existing Redis client. The caller owns the client's lifecycle.
func NewRedisPublisher(client redis.UniversalClient) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) Publish(ctx context.Context, topic string, envelope Envelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("encode %s envelope: %w", envelope.Type, err)
	}
	if err := p.client.Publish(ctx, topic, payload).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}
