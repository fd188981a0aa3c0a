// Package dbinit performs the one-time database bootstrap: an idempotency
// guard, collection and index creation, and the seed inserts.
//
// Every step after the guard is attempted even when an earlier one fails.
// Failures are collected in the Result rather than aborting the run, so a
// failed donor insert never prevents the unit insert.
package dbinit

import (
	"context"
	"fmt"
	"slices"

	"github.com/dalemusser/bloodbank/internal/app/seed"
	"github.com/dalemusser/bloodbank/internal/domain/models"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Backend is the part of the database the initializer talks to.
type Backend interface {
	DatabaseNames(ctx context.Context) ([]string, error)
	CollectionNames(ctx context.Context) ([]string, error)
	// CreateCollection must succeed when the collection already exists.
	CreateCollection(ctx context.Context, name string) error
	EnsureIndexes(ctx context.Context) error
	InsertDonors(ctx context.Context, donors []models.Donor) (int, error)
	InsertUnits(ctx context.Context, units []models.Unit) (int, error)
	Count(ctx context.Context, collection string) (int64, error)
}

// Initializer runs the bootstrap against one database.
type Initializer struct {
	backend  Backend
	database string
	logger   *zap.Logger
	validate *validator.Validate

	donors []models.Donor
	units  []models.Unit
}

// Option customizes an Initializer.
type Option func(*Initializer)

// WithSeed replaces the records inserted on a fresh database.
func WithSeed(donors []models.Donor, units []models.Unit) Option {
	return func(in *Initializer) {
		in.donors = donors
		in.units = units
	}
}

// New returns an Initializer for database using the built-in seed data.
func New(backend Backend, database string, logger *zap.Logger, opts ...Option) *Initializer {
	if logger == nil {
		logger = zap.NewNop()
	}
	in := &Initializer{
		backend:  backend,
		database: database,
		logger:   logger.With(zap.String("database", database)),
		validate: validator.New(),
		donors:   seed.Donors(),
		units:    seed.Units(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(in)
		}
	}
	return in
}

// Collections returns the names the guard looks for.
func Collections() []string {
	return []string{seed.DonorCollection, seed.UnitCollection}
}

// CheckInitialized reports whether the target database already contains
// both collections. It only checks names, not contents or indexes.
func (in *Initializer) CheckInitialized(ctx context.Context) (bool, error) {
	dbs, err := in.backend.DatabaseNames(ctx)
	if err != nil {
		return false, fmt.Errorf("list databases: %w", err)
	}
	if !slices.Contains(dbs, in.database) {
		return false, nil
	}

	colls, err := in.backend.CollectionNames(ctx)
	if err != nil {
		return false, fmt.Errorf("list collections: %w", err)
	}
	for _, want := range Collections() {
		if !slices.Contains(colls, want) {
			return false, nil
		}
	}
	return true, nil
}

// Run checks the guard and initializes when needed. The returned error is
// reserved for guard failures; problems during initialization are reported
// through Result.Failures.
func (in *Initializer) Run(ctx context.Context) (Result, error) {
	done, err := in.CheckInitialized(ctx)
	if err != nil {
		return Result{}, err
	}
	if done {
		in.logger.Info("collections already exist, nothing to do",
			zap.Strings("collections", Collections()))
		return Result{Outcome: AlreadyInitialized}, nil
	}
	return in.Initialize(ctx), nil
}

// Initialize creates the collections and indexes and inserts the seed data
// without consulting the guard.
func (in *Initializer) Initialize(ctx context.Context) Result {
	var res Result
	fail := func(stage, coll string, err error) {
		f := Failure{Stage: stage, Collection: coll, Err: err}
		res.Failures = append(res.Failures, f)
		in.logger.Error("initialization step failed",
			zap.String("stage", stage),
			zap.String("collection", coll),
			zap.Error(err))
	}

	for _, name := range Collections() {
		if err := in.backend.CreateCollection(ctx, name); err != nil {
			fail(StageCreate, name, err)
			continue
		}
		in.logger.Info("collection ready", zap.String("collection", name))
	}

	if err := in.backend.EnsureIndexes(ctx); err != nil {
		fail(StageIndex, "", err)
	}

	if err := validateAll(in, in.donors); err != nil {
		fail(StageValidate, seed.DonorCollection, err)
	} else {
		n, err := in.backend.InsertDonors(ctx, in.donors)
		res.DonorsInserted = n
		if err != nil {
			fail(StageInsert, seed.DonorCollection, err)
		}
	}

	if err := validateAll(in, in.units); err != nil {
		fail(StageValidate, seed.UnitCollection, err)
	} else {
		n, err := in.backend.InsertUnits(ctx, in.units)
		res.UnitsInserted = n
		if err != nil {
			fail(StageInsert, seed.UnitCollection, err)
		}
	}

	in.logger.Info("seed data written",
		zap.Int("donors_inserted", res.DonorsInserted),
		zap.Int("units_inserted", res.UnitsInserted))
	in.logCounts(ctx)

	if len(res.Failures) > 0 {
		res.Outcome = PartialFailure
	} else {
		res.Outcome = Initialized
	}
	return res
}

func (in *Initializer) logCounts(ctx context.Context) {
	for _, name := range Collections() {
		n, err := in.backend.Count(ctx, name)
		if err != nil {
			in.logger.Warn("count failed", zap.String("collection", name), zap.Error(err))
			continue
		}
		in.logger.Info("collection document count",
			zap.String("collection", name),
			zap.Int64("documents", n))
	}
}

func validateAll[T any](in *Initializer, docs []T) error {
	for i := range docs {
		if err := in.validate.Struct(docs[i]); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nil
}
