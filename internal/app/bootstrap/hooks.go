// internal/app/bootstrap/hooks.go
package bootstrap

import (
	"context"
	"time"

	"github.com/dalemusser/bloodbank/internal/app/system/dbinit"
	"github.com/dalemusser/bloodbank/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/logging"
	"github.com/dalemusser/waffle/server"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Lifecycle lists the steps Run calls, in order.
type Lifecycle struct {
	LoadConfig         func(logger *zap.Logger) (*config.CoreConfig, AppConfig, error)
	ValidateConfig     func(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error
	BuildLogger        func(coreCfg *config.CoreConfig) (*zap.Logger, error)
	ConnectDB          func(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error)
	InitializeDatabase func(ctx context.Context, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (dbinit.Result, error)
	Shutdown           func(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error
}

// Hooks wires the bootstrap steps into Run.
var Hooks = Lifecycle{
	LoadConfig:         LoadConfig,
	ValidateConfig:     ValidateConfig,
	BuildLogger:        BuildLogger,
	ConnectDB:          ConnectDB,
	InitializeDatabase: InitializeDatabase,
	Shutdown:           Shutdown,
}

// shutdownTimeout bounds the disconnect, which runs on a fresh context so a
// cancelled run still closes its client.
const shutdownTimeout = 5 * time.Second

// BuildLogger builds the final logger from the loaded level and env.
func BuildLogger(coreCfg *config.CoreConfig) (*zap.Logger, error) {
	return logging.BuildLogger(coreCfg.LogLevel, coreCfg.Env)
}

// Run executes one bootstrap and returns the process exit code.
//
// The startup sequence follows WAFFLE's app.Run:
//
//  1. Load and validate config with the bootstrap logger
//  2. Build the final logger from core config
//  3. Wire SIGINT/SIGTERM into ctx
//  4. Connect (retrying), initialize, and shut down
func Run(ctx context.Context, hooks Lifecycle, bootstrap *zap.Logger) int {
	runID := zap.String("run_id", uuid.NewString())
	logger := bootstrap.With(runID)

	coreCfg, appCfg, err := hooks.LoadConfig(logger)
	if err != nil {
		logger.Error("loading configuration failed", zap.Error(err))
		return dbinit.ExitError
	}
	if err := hooks.ValidateConfig(coreCfg, appCfg, logger); err != nil {
		logger.Error("configuration rejected", zap.Error(err))
		return dbinit.ExitError
	}

	if hooks.BuildLogger != nil {
		final, err := hooks.BuildLogger(coreCfg)
		if err != nil {
			logger.Error("building logger failed", zap.Error(err))
			return dbinit.ExitError
		}
		defer func() { _ = final.Sync() }()
		defer zap.ReplaceGlobals(final)()
		logger = final.With(runID)
	}

	ctx, cancel := server.WithShutdownSignals(ctx, logger)
	defer cancel()

	timeouts.Configure(timeouts.Config{
		Connect: coreCfg.DBConnectTimeout,
		Command: appCfg.MongoTimeout,
		Write:   appCfg.MongoTimeout,
	})
	t := timeouts.Current()
	logger.Info("timeouts configured",
		zap.Duration("connect", t.Connect),
		zap.Duration("command", t.Command),
		zap.Duration("write", t.Write))

	deps, err := hooks.ConnectDB(ctx, coreCfg, appCfg, logger)
	if err != nil {
		logger.Error("giving up on MongoDB", zap.Error(err))
		return dbinit.ExitError
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = hooks.Shutdown(sctx, coreCfg, appCfg, deps, logger)
	}()

	res, err := hooks.InitializeDatabase(ctx, appCfg, deps, logger)
	if err != nil {
		logger.Error("initialization check failed", zap.Error(err))
		return dbinit.ExitError
	}

	code := res.ExitCode(appCfg.LenientExit)
	fields := []zap.Field{
		zap.String("outcome", res.Outcome.String()),
		zap.Int("donors_inserted", res.DonorsInserted),
		zap.Int("units_inserted", res.UnitsInserted),
		zap.Int("exit_code", code),
	}
	if res.Outcome == dbinit.PartialFailure {
		logger.Error("error when writing the data", append(fields, zap.Error(res.Err()))...)
	} else {
		logger.Info("database bootstrap finished", fields...)
	}
	return code
}
