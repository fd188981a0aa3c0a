// internal/app/store/donors/donorstore.go
package donorstore

import (
	"context"
	"errors"

	"github.com/dalemusser/bloodbank/internal/app/seed"
	"github.com/dalemusser/bloodbank/internal/app/store/bulk"
	"github.com/dalemusser/bloodbank/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no donor has the requested id.
var ErrNotFound = errors.New("donor not found")

// Store provides access to the donor collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new donor store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(seed.DonorCollection)}
}

// InsertMany writes donors unordered and reports how many were stored.
// A partial failure returns both a positive count and an error.
func (s *Store) InsertMany(ctx context.Context, donors []models.Donor) (int, error) {
	docs := make([]interface{}, len(donors))
	for i := range donors {
		docs[i] = donors[i]
	}
	return bulk.InsertUnordered(ctx, s.c, docs)
}

// GetByID returns the donor with the given application id.
func (s *Store) GetByID(ctx context.Context, id string) (models.Donor, error) {
	var d models.Donor
	err := s.c.FindOne(ctx, bson.M{"id": id}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Donor{}, ErrNotFound
	}
	if err != nil {
		return models.Donor{}, err
	}
	return d, nil
}

// Count returns the number of donor documents.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
