// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/bloodbank/internal/app/system/dbinit"
	"go.uber.org/zap"
)

// InitializeDatabase runs the idempotency guard and, when the database is
// not initialized yet, creates the collections and indexes and writes the
// seed data.
func InitializeDatabase(ctx context.Context, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (dbinit.Result, error) {
	backend := dbinit.NewMongoBackend(deps.BloodbankMongoClient, appCfg.MongoDatabase, appCfg.IDIndexUnique)
	return dbinit.New(backend, appCfg.MongoDatabase, logger).Run(ctx)
}
