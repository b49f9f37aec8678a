package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultMongoCollection is the collection MongoStore writes to.
const DefaultMongoCollection = "kv_entries"

// MongoStore persists values as documents {_id: key, value: <json>, updatedAt}.
// The value is kept as a JSON string so documents round-trip byte for byte.
type MongoStore struct {
	collection *mongo.Collection
}

type mongoEntry struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// NewMongoStore creates a store on the given database.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{collection: db.Collection(DefaultMongoCollection)}
}

// Get implements Store.
func (s *MongoStore) Get(ctx context.Context, key string, dest any) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	var entry mongoEntry
	err := s.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("kv: get %s: %w", key, err)
	}
	return true, decode(key, []byte(entry.Value), dest)
}

// Set implements Store.
func (s *MongoStore) Set(ctx context.Context, key string, value any) error {
	data, err := encode(key, value)
	if err != nil {
		return err
	}
	update := bson.M{"$set": bson.M{"value": string(data), "updatedAt": time.Now().UTC()}}
	opts := options.Update().SetUpsert(true)
	if _, err := s.collection.UpdateOne(ctx, bson.M{"_id": key}, update, opts); err != nil {
		return fmt.Errorf("kv: set %s: %w", key, err)
	}
	return nil
}

// Delete implements Store.
func (s *MongoStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("kv: delete %s: %w", key, err)
	}
	return nil
}
