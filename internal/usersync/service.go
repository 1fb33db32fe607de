package usersync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/focusnest/webhook-service/internal/clerk"
	"github.com/focusnest/webhook-service/internal/events"
)

type service struct {
	conn      Connector
	repo      Repository
	publisher events.Publisher
	topic     string
	logger    *slog.Logger
	now       func() time.Time
}

// Option customises a Service.
type Option func(*service)

// WithPublisher publishes sync notifications to topic after each successful write.
func WithPublisher(publisher events.Publisher, topic string) Option {
	return func(s *service) {
		s.publisher = publisher
		s.topic = topic
	}
}

// WithClock overrides the time source used for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// NewService wires the sync handlers to a connector and repository.
func NewService(conn Connector, repo Repository, logger *slog.Logger, opts ...Option) (Service, error) {
	if conn == nil {
		return nil, errors.New("connector is required")
	}
	if repo == nil {
		return nil, errors.New("repository is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	s := &service{
		conn:      conn,
		repo:      repo,
		publisher: events.NoopPublisher{},
		topic:     events.TopicUserEvents,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *service) SyncCreation(ctx context.Context, data clerk.UserData) (ActionResult, error) {
	if err := requireUserID(data.ID); err != nil {
		return ActionResult{}, err
	}
	u := userFromClerk(data)

	if err := s.conn.EnsureConnected(ctx); err != nil {
		return ActionResult{}, fmt.Errorf("connect user store: %w", err)
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return ActionResult{}, fmt.Errorf("create user %s: %w", u.ID, err)
	}

	s.publishSynced(ctx, u, ActionUserCreated)
	return ActionResult{Success: true, Action: ActionUserCreated}, nil
}

func (s *service) SyncUpdate(ctx context.Context, data clerk.UserData) (ActionResult, error) {
	if err := requireUserID(data.ID); err != nil {
		return ActionResult{}, err
	}
	update := updateFromClerk(data)

	if err := s.conn.EnsureConnected(ctx); err != nil {
		return ActionResult{}, fmt.Errorf("connect user store: %w", err)
	}
	updated, err := s.repo.FindOneAndUpdate(ctx, data.ID, update)
	if err != nil {
		return ActionResult{}, fmt.Errorf("update user %s: %w", data.ID, err)
	}

	// No match is a silent no-op; updates never insert.
	if updated != nil {
		s.publishSynced(ctx, *updated, ActionUserUpdated)
	}
	return ActionResult{Success: true, Action: ActionUserUpdated}, nil
}

func (s *service) SyncDeletion(ctx context.Context, data clerk.DeletedObject) (DeletionResult, error) {
	if err := requireUserID(data.ID); err != nil {
		return DeletionResult{}, err
	}
	if err := s.conn.EnsureConnected(ctx); err != nil {
		return DeletionResult{}, fmt.Errorf("connect user store: %w", err)
	}
	deleted, err := s.repo.FindOneAndDelete(ctx, data.ID)
	if err != nil {
		return DeletionResult{}, fmt.Errorf("delete user %s: %w", data.ID, err)
	}

	if deleted == nil {
		s.logger.WarnContext(ctx, "no user found with clerk id", slog.String("clerkId", data.ID))
		return DeletionResult{Success: true, Deleted: false}, nil
	}

	s.publish(ctx, events.TypeUserDeleted, events.UserDeleted{UserID: deleted.ID, DeletedAt: s.now().UTC()})
	return DeletionResult{Success: true, Deleted: true}, nil
}

func (s *service) GetUser(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}
	if err := s.conn.EnsureConnected(ctx); err != nil {
		return nil, fmt.Errorf("connect user store: %w", err)
	}
	return s.repo.Get(ctx, userID)
}

// requireUserID rejects events without a Clerk id, which would otherwise be stored under an empty key.
func requireUserID(userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, ErrMissingUserID)
	}
	return nil
}

func (s *service) publishSynced(ctx context.Context, u User, action string) {
	s.publish(ctx, events.TypeUserSynced, events.UserSynced{
		UserID:      u.ID,
		Email:       u.Email,
		DisplayName: u.Name,
		ImageURL:    u.ImageURL,
		Action:      action,
		SyncedAt:    s.now().UTC(),
	})
}

// publish never fails the handler: the write already happened and a redelivery would not help.
func (s *service) publish(ctx context.Context, eventType string, data any) {
	envelope := events.NewEnvelope(eventType, data, s.now())
	if err := s.publisher.Publish(ctx, s.topic, envelope); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user event",
			slog.String("type", eventType),
			slog.String("eventId", envelope.ID),
			slog.Any("error", err),
		)
	}
}
