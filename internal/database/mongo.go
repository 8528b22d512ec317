package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect opens the Mongo client and pings the deployment before returning
// the database handle.
func Connect(uri, dbName string) (*mongo.Database, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}

	disconnect := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}
	return client.Database(dbName), disconnect, nil
}

// EnsureIndexes creates the unique indexes the lifecycle invariants rely on:
// document number, content hash and QR token are globally unique.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	documents := db.Collection("documents")
	_, err := documents.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.M{"documentNumber": 1}, Options: options.Index().SetUnique(true)},
		{Keys: bson.M{"hash": 1}, Options: options.Index().SetUnique(true)},
		{Keys: bson.M{"qrToken": 1}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("create document indexes: %w", err)
	}

	_, err = db.Collection("evidence").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.M{"documentNumber": 1},
	})
	if err != nil {
		return fmt.Errorf("create evidence index: %w", err)
	}

	_, err = db.Collection("audit_log").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.M{"documentNumber": 1},
	})
	if err != nil {
		return fmt.Errorf("create audit index: %w", err)
	}
	return nil
}
