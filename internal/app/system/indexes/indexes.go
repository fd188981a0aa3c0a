// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/bloodbank/internal/app/seed"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called by the initializer after both collections exist. Each
ensure* function is idempotent. Errors are aggregated so every collection is
attempted and any problem is visible.

uniqueIDs selects between an enforcing unique index on `id` and a plain
ascending one. Switching modes on an existing database drops and recreates
the index.
*/
func EnsureAll(ctx context.Context, db *mongo.Database, uniqueIDs bool) error {
	var problems []string

	if err := ensureDonors(ctx, db, uniqueIDs); err != nil {
		problems = append(problems, seed.DonorCollection+": "+err.Error())
	}
	if err := ensureUnits(ctx, db, uniqueIDs); err != nil {
		problems = append(problems, seed.UnitCollection+": "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// IDIndexName returns the name used for the `id` index of a collection.
func IDIndexName(collection string, unique bool) string {
	if unique {
		return "uniq_" + collection + "_id"
	}
	return "idx_" + collection + "_id"
}

func idIndex(collection string, unique bool) mongo.IndexModel {
	opts := options.Index().SetName(IDIndexName(collection, unique))
	if unique {
		opts.SetUnique(true)
	}
	return mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: opts,
	}
}

func ensureDonors(ctx context.Context, db *mongo.Database, unique bool) error {
	c := db.Collection(seed.DonorCollection)
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		idIndex(seed.DonorCollection, unique),
	})
}

func ensureUnits(ctx context.Context, db *mongo.Database, unique bool) error {
	c := db.Collection(seed.UnitCollection)
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		idIndex(seed.UnitCollection, unique),
	})
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func boolVal(b *bool) bool {
	return b != nil && *b
}

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name (or options differ).
func isOptionsConflictErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict")
}

func listExisting(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	existing := map[string]existingIndex{} // sig -> index
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	return existing, cur.Err()
}

func createErr(coll *mongo.Collection, name string, unique bool, err error) string {
	if unique && wafflemongo.IsDup(err) {
		return fmt.Sprintf("%s(%s): cannot create unique index (duplicates present). Example finder:\n"+
			`db.%s.aggregate([{ $group: { _id: "$id", n: { $sum: 1 } } }, { $match: { n: { $gt: 1 } } }])`,
			coll.Name(), name, coll.Name())
	}
	return fmt.Sprintf("%s(%s): %v", coll.Name(), name, err)
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	for _, m := range models {
		var desiredName string
		var desiredUnique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				desiredName = *m.Options.Name
			}
			desiredUnique = m.Options.Unique
		}
		desiredSig := keySig(m.Keys.(bson.D))
		unique := boolVal(desiredUnique)

		start := time.Now()
		log := zap.L().With(
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("keys", desiredSig),
			zap.Bool("unique", unique))
		log.Info("ensuring index")

		existing, err := listExisting(ctx, coll)
		if err != nil {
			// A collection that does not exist yet has no indexes; CreateOne below
			// will surface any real connectivity problem.
			log.Debug("listing indexes failed", zap.Error(err))
		}

		if ex, ok := existing[desiredSig]; ok {
			if boolVal(ex.Unique) == unique {
				if desiredName != "" && ex.Name != desiredName {
					log.Info("renaming index to align with desired name", zap.String("from", ex.Name))
					if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
						errs = append(errs, fmt.Sprintf("%s(%s): rename drop failed: %v", coll.Name(), desiredName, err))
						continue
					}
					if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
						errs = append(errs, createErr(coll, desiredName, unique, err))
						continue
					}
					log.Info("index renamed", zap.String("took", time.Since(start).String()))
					continue
				}

				log.Info("reusing existing index", zap.String("took", time.Since(start).String()))
				continue
			}

			// Uniqueness differs (e.g. switching to an enforcing index). Drop & recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				log.Warn("drop existing index failed", zap.String("existing", ex.Name), zap.Error(err))
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), desiredName, err))
				continue
			}
			if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
				errs = append(errs, createErr(coll, desiredName, unique, err))
				continue
			}
			log.Info("index dropped and recreated", zap.String("took", time.Since(start).String()))
			continue
		}

		created, err := coll.Indexes().CreateOne(ctx, m)
		if err != nil {
			if isOptionsConflictErr(err) {
				log.Warn("index options conflict", zap.Error(err))
			} else {
				log.Warn("index ensure failed", zap.Error(err))
			}
			errs = append(errs, createErr(coll, desiredName, unique, err))
			continue
		}
		log.Info("index ensured",
			zap.String("created_name", created),
			zap.String("took", time.Since(start).String()))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
