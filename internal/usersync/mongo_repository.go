package usersync

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoRepository stores users in a MongoDB collection with the Clerk user id as _id.
// Clerk ids are not ObjectIDs, so every lookup filters on the raw string.
type MongoRepository struct {
	uri        string
	database   string
	collection string

	mu     sync.Mutex
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoRepository creates a repository for uri without dialing.
func NewMongoRepository(uri, database, collection string) *MongoRepository {
	return &MongoRepository{uri: uri, database: database, collection: collection}
}

// EnsureConnected dials and pings on first use. Later calls return immediately.
func (r *MongoRepository) EnsureConnected(ctx context.Context) error {
	_, err := r.users(ctx)
	return err
}

func (r *MongoRepository) users(ctx context.Context) (*mongo.Collection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.coll != nil {
		return r.coll, nil
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(r.uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	r.client = client
	r.coll = client.Database(r.database).Collection(r.collection)
	return r.coll, nil
}

// Close disconnects the client if one was created.
func (r *MongoRepository) Close(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client == nil {
		return nil
	}
	err := r.client.Disconnect(ctx)
	r.client = nil
	r.coll = nil
	return err
}

func (r *MongoRepository) Create(ctx context.Context, u User) error {
	coll, err := r.users(ctx)
	if err != nil {
		return err
	}

	_, err = coll.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateUser
	}
	return err
}

func (r *MongoRepository) FindOneAndUpdate(ctx context.Context, userID string, update UserUpdate) (*User, error) {
	coll, err := r.users(ctx)
	if err != nil {
		return nil, err
	}

	set := bson.M{"name": update.Name}
	if update.Email != nil {
		set["email"] = *update.Email
	}
	if update.ImageURL != nil {
		set["imageUrl"] = *update.ImageURL
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u User
	err = coll.FindOneAndUpdate(ctx, bson.M{"_id": userID}, bson.M{"$set": set}, opts).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *MongoRepository) FindOneAndDelete(ctx context.Context, userID string) (*User, error) {
	coll, err := r.users(ctx)
	if err != nil {
		return nil, err
	}

	var u User
	err = coll.FindOneAndDelete(ctx, bson.M{"_id": userID}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *MongoRepository) Get(ctx context.Context, userID string) (*User, error) {
	coll, err := r.users(ctx)
	if err != nil {
		return nil, err
	}

	var u User
	err = coll.FindOne(ctx, bson.M{"_id": userID}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
