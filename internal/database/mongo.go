package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

const connectTimeout = 10 * time.Second

// Connect opens a client for uri and pings the primary. The caller owns the
// returned client and must Disconnect it on shutdown.
func Connect(ctx context.Context, uri string, log *zap.Logger) (*mongo.Client, error) {
	const op = "database.Connect"

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	log.Info("connected to MongoDB")
	return client, nil
}

// Collection is shorthand for client.Database(db).Collection(name).
func Collection(client *mongo.Client, db, name string) *mongo.Collection {
	return client.Database(db).Collection(name)
}
