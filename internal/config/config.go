package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"

	"github.com/focusnest/webhook-service/internal/envconfig"
)

const (
	DataStoreMemory    = "memory"
	DataStoreFirestore = "firestore"
	DataStoreMongo     = "mongo"

	PublisherNone  = "none"
	PublisherRedis = "redis"
)

type Config struct {
	Port           string        `validate:"required"`
	GCPProjectID   string        `validate:"required_if=DataStore firestore"`
	DataStore      string        `validate:"required,oneof=memory firestore mongo"`
	LogLevel       string        `validate:"oneof=debug info warn error"`
	HandlerTimeout time.Duration `validate:"gt=0"`
	Clerk          ClerkConfig
	Auth           AuthConfig
	Firestore      FirestoreConfig
	Mongo          MongoConfig
	Events         EventsConfig
}

// ClerkConfig controls how inbound webhook deliveries are authenticated.
type ClerkConfig struct {
	WebhookMode   string `validate:"required,oneof=svix noop"`
	WebhookSecret string `validate:"required_if=WebhookMode svix"`
}

type AuthConfig struct {
	Mode     string `validate:"required,oneof=clerk noop"`
	JWKSURL  string `validate:"required_if=Mode clerk"`
	Audience string
	Issuer   string
}

type FirestoreConfig struct {
	EmulatorHost string
	Collection   string `validate:"required"`
}

type MongoConfig struct {
	URI        string `validate:"required"`
	Database   string `validate:"required"`
	Collection string `validate:"required"`
}

type EventsConfig struct {
	Publisher     string `validate:"required,oneof=none redis"`
	Topic         string `validate:"required"`
	RedisAddr     string `validate:"required_if=Publisher redis"`
	RedisPassword string
	RedisDB       int `validate:"gte=0"`
}

// Load reads configuration from the environment. A local .env file is honoured when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	timeout, err := envconfig.GetDuration("HANDLER_TIMEOUT", 8*time.Second)
	if err != nil {
		return Config{}, err
	}
	redisDB, err := envconfig.GetInt("REDIS_DB", 0)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:           envconfig.Get("PORT", "8080"),
		GCPProjectID:   envconfig.Get("GCP_PROJECT_ID", "focusnest-dev"),
		DataStore:      envconfig.Get("DATASTORE", DataStoreMemory),
		LogLevel:       envconfig.Get("LOG_LEVEL", "info"),
		HandlerTimeout: timeout,
		Clerk: ClerkConfig{
			WebhookMode:   envconfig.Get("CLERK_WEBHOOK_MODE", "svix"),
			WebhookSecret: envconfig.Get("CLERK_WEBHOOK_SECRET", ""),
		},
		Auth: AuthConfig{
			Mode:     envconfig.Get("AUTH_MODE", "clerk"),
			JWKSURL:  envconfig.Get("CLERK_JWKS_URL", ""),
			Audience: envconfig.Get("CLERK_AUDIENCE", ""),
			Issuer:   envconfig.Get("CLERK_ISSUER", ""),
		},
		Firestore: FirestoreConfig{
			EmulatorHost: envconfig.Get("FIRESTORE_EMULATOR_HOST", ""),
			Collection:   envconfig.Get("FIRESTORE_USERS_COLLECTION", "users"),
		},
		Mongo: MongoConfig{
			URI:        envconfig.Get("MONGODB_URI", "mongodb://localhost:27017"),
			Database:   envconfig.Get("MONGODB_DATABASE", "quickcart"),
			Collection: envconfig.Get("MONGODB_USERS_COLLECTION", "users"),
		},
		Events: EventsConfig{
			Publisher:     envconfig.Get("EVENTS_PUBLISHER", PublisherNone),
			Topic:         envconfig.Get("EVENTS_TOPIC", "user.events"),
			RedisAddr:     envconfig.Get("REDIS_ADDR", ""),
			RedisPassword: envconfig.Get("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
		},
	}
	if err := envconfig.Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}
