package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoClient wraps a connected client bound to one database.
type MongoClient struct {
	client   *mongo.Client
	database string
}

func ConnectMongo(uri, database string, logger *slog.Logger) (*MongoClient, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		if disconnectErr := client.Disconnect(context.Background()); disconnectErr != nil {
			logger.Warn("failed to disconnect MongoDB client after ping failure", slog.Any("error", disconnectErr))
		}
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return &MongoClient{client: client, database: database}, nil
}

func (c *MongoClient) Collection(name string) *mongo.Collection {
	return c.client.Database(c.database).Collection(name)
}

func (c *MongoClient) Disconnect(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}
