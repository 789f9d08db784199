// Package mongo implements the storage ports on MongoDB.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	connectTimeout = 10 * time.Second
	retryAttempts  = 3
	retryInterval  = 2 * time.Second
)

// Connect creates a mongo client, pings it, and returns a handle to the
// named database. Retries a few times so the service survives a database
// that comes up slightly later than it does.
func Connect(ctx context.Context, url, dbName string) (*mongo.Database, error) {
	var lastErr error
	for range retryAttempts {
		client, err := mongo.Connect(
			options.Client().
				ApplyURI(url).
				SetConnectTimeout(connectTimeout).
				SetRetryWrites(true).
				SetRetryReads(true),
		)
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
			err = client.Ping(pingCtx, nil)
			cancel()
			if err == nil {
				return client.Database(dbName), nil
			}
			_ = client.Disconnect(ctx)
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryInterval):
		}
	}
	return nil, fmt.Errorf("failed to connect to mongo: %w", lastErr)
}

// HealthCheck returns a readiness probe function for the database.
func HealthCheck(db *mongo.Database) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if err := db.Client().Ping(ctx, nil); err != nil {
			return fmt.Errorf("mongo ping failed: %w", err)
		}
		return nil
	}
}
