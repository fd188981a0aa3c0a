// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dalemusser/bloodbank/internal/app/system/retry"
	"github.com/dalemusser/bloodbank/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// dialFunc opens a client and proves the server answers.
type dialFunc func(ctx context.Context, uri string) (*mongo.Client, error)

// ConnectDB connects to MongoDB, retrying at the configured interval until
// the server answers a ping, the attempt limit is reached, or ctx ends.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	return connectDB(ctx, appCfg, logger, dialMongo, nil)
}

// connectDB is ConnectDB with the dialer and the retry timer injectable.
// A nil timer waits in real time.
func connectDB(ctx context.Context, appCfg AppConfig, logger *zap.Logger, dial dialFunc, timer backoff.Timer) (DBDeps, error) {
	policy := retry.Policy{
		Interval:    time.Duration(appCfg.RetryIntervalSeconds) * time.Second,
		MaxAttempts: appCfg.RetryMaxAttempts,
		Timer:       timer,
		OnRetry: func(attempt int, err error, delay time.Duration) {
			logger.Warn("cannot connect to MongoDB, will retry",
				zap.Int("attempt", attempt),
				zap.Error(err),
				zap.Duration("retry_after", delay))
		},
	}

	uri := appCfg.MongoURI()
	logger.Info("connecting to MongoDB", zap.String("uri", appCfg.RedactedURI()))

	var client *mongo.Client
	err := retry.Do(ctx, policy, func(ctx context.Context, attempt int) error {
		c, err := dial(ctx, uri)
		if err != nil {
			return err
		}
		client = c
		logger.Info("connected to MongoDB", zap.Int("attempt", attempt))
		return nil
	})
	if err != nil {
		return DBDeps{}, fmt.Errorf("connect to MongoDB: %w", err)
	}

	return DBDeps{
		BloodbankMongoClient:   client,
		BloodbankMongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// dialMongo connects and pings. mongo.Connect does not touch the network,
// so the ping is what tells an unavailable server apart. Unlike
// wafflemongo.ConnectWithPool it disconnects the client when the ping fails.
func dialMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Connect())
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetConnectTimeout(timeouts.Connect()).
		SetServerSelectionTimeout(timeouts.Connect()))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}
