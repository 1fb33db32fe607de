package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/focusnest/webhook-service/internal/auth"
	"github.com/focusnest/webhook-service/internal/clerk"
	"github.com/focusnest/webhook-service/internal/config"
	"github.com/focusnest/webhook-service/internal/events"
	"github.com/focusnest/webhook-service/internal/httpapi"
	"github.com/focusnest/webhook-service/internal/logging"
	"github.com/focusnest/webhook-service/internal/server"
	"github.com/focusnest/webhook-service/internal/usersync"
)

const serviceName = "webhook-service"

func main() {
	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Errorf("config error: %w", err))
	}

	logger := logging.NewLogger(serviceName, cfg.LogLevel)

	store, closeStore, err := newStore(cfg)
	if err != nil {
		panic(fmt.Errorf("store init error: %w", err))
	}

	publisher, closePublisher := newPublisher(cfg)

	syncService, err := usersync.NewService(store, store, logger,
		usersync.WithPublisher(publisher, cfg.Events.Topic))
	if err != nil {
		panic(fmt.Errorf("sync service init error: %w", err))
	}

	webhookVerifier, err := clerk.NewVerifier(clerk.Mode(cfg.Clerk.WebhookMode), cfg.Clerk.WebhookSecret)
	if err != nil {
		panic(fmt.Errorf("webhook verifier error: %w", err))
	}

	sessionVerifier, err := auth.NewVerifier(auth.Config{
		Mode:     auth.Mode(cfg.Auth.Mode),
		JWKSURL:  cfg.Auth.JWKSURL,
		Audience: cfg.Auth.Audience,
		Issuer:   cfg.Auth.Issuer,
		Logger:   logger,
	})
	if err != nil {
		panic(fmt.Errorf("auth verifier error: %w", err))
	}

	functions := usersync.Functions(syncService)
	for _, fn := range functions {
		logger.Info("registered function", slog.String("id", fn.ID), slog.String("name", fn.Name), slog.String("event", fn.Event))
	}

	router := server.NewRouter(serviceName, logger, func(r chi.Router) {
		httpapi.RegisterWebhookRoutes(r, webhookVerifier, functions, cfg.HandlerTimeout, logger)
		httpapi.RegisterUserRoutes(r, sessionVerifier, syncService, logger)
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	closeVerifier := func(context.Context) {
		if c, ok := sessionVerifier.(interface{ Close() }); ok {
			c.Close()
		}
	}

	err = server.Run(ctx, srv, logger, closeStore, closePublisher, closeVerifier)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		panic(err)
	}
}

func newStore(cfg config.Config) (usersync.Store, func(context.Context), error) {
	switch cfg.DataStore {
	case config.DataStoreFirestore:
		if cfg.Firestore.EmulatorHost != "" {
			if err := os.Setenv("FIRESTORE_EMULATOR_HOST", cfg.Firestore.EmulatorHost); err != nil {
				return nil, nil, fmt.Errorf("set FIRESTORE_EMULATOR_HOST: %w", err)
			}
		}
		repo := usersync.NewFirestoreRepository(cfg.GCPProjectID, cfg.Firestore.Collection)
		return repo, func(context.Context) { _ = repo.Close() }, nil
	case config.DataStoreMongo:
		repo := usersync.NewMongoRepository(cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection)
		return repo, func(ctx context.Context) { _ = repo.Close(ctx) }, nil
	default:
		return usersync.NewMemoryRepository(), func(context.Context) {}, nil
	}
}

func newPublisher(cfg config.Config) (events.Publisher, func(context.Context)) {
	if cfg.Events.Publisher != config.PublisherRedis {
		return events.NoopPublisher{}, func(context.Context) {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Events.RedisAddr,
		Password: cfg.Events.RedisPassword,
		DB:       cfg.Events.RedisDB,
	})
	return events.NewRedisPublisher(client), func(context.Context) { _ = client.Close() }
}
