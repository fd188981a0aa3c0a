// internal/app/store/units/unitstore.go
package unitstore

import (
	"context"
	"errors"

	"github.com/dalemusser/bloodbank/internal/app/seed"
	"github.com/dalemusser/bloodbank/internal/app/store/bulk"
	"github.com/dalemusser/bloodbank/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no unit has the requested id.
var ErrNotFound = errors.New("unit not found")

// Store provides access to the unit collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new unit store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(seed.UnitCollection)}
}

// InsertMany writes units unordered and reports how many were stored.
func (s *Store) InsertMany(ctx context.Context, units []models.Unit) (int, error) {
	docs := make([]interface{}, len(units))
	for i := range units {
		docs[i] = units[i]
	}
	return bulk.InsertUnordered(ctx, s.c, docs)
}

// GetByID returns the unit with the given application id.
func (s *Store) GetByID(ctx context.Context, id string) (models.Unit, error) {
	var u models.Unit
	err := s.c.FindOne(ctx, bson.M{"id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Unit{}, ErrNotFound
	}
	if err != nil {
		return models.Unit{}, err
	}
	return u, nil
}

// Count returns the number of unit documents.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
