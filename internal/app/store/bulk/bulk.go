// Package bulk holds the insert helper shared by the collection stores.
package bulk

import (
	"context"
	"errors"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateID marks an insert rejected by a unique index.
var ErrDuplicateID = errors.New("document with this id already exists")

// InsertUnordered inserts docs with ordered=false so one rejected document
// does not stop the rest. It returns the number of documents stored.
//
// The driver's InsertManyResult lists every attempted id even on failure, so
// the count is derived from the bulk write exception instead.
func InsertUnordered(ctx context.Context, c *mongo.Collection, docs []interface{}) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	_, err := c.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err == nil {
		return len(docs), nil
	}

	inserted := 0
	var bwe mongo.BulkWriteException
	if errors.As(err, &bwe) && bwe.WriteConcernError == nil {
		inserted = len(docs) - len(bwe.WriteErrors)
		if inserted < 0 {
			inserted = 0
		}
	}
	if wafflemongo.IsDup(err) {
		return inserted, errors.Join(ErrDuplicateID, err)
	}
	return inserted, err
}
