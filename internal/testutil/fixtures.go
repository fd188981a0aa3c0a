package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/bloodbank/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateCollection creates an empty collection.
func (f *Fixtures) CreateCollection(ctx context.Context, name string) {
	f.t.Helper()
	if err := f.db.CreateCollection(ctx, name); err != nil {
		f.t.Fatalf("failed to create collection %s: %v", name, err)
	}
}

// CreateDonor inserts a donor with the given id and otherwise plausible values.
func (f *Fixtures) CreateDonor(ctx context.Context, id, firstName string) models.Donor {
	f.t.Helper()

	now := time.Now().UTC().Truncate(time.Millisecond)
	donor := models.Donor{
		ID:        id,
		FirstName: firstName,
		LastName:  "Tester",
		BloodType: "0",
		BloodRh:   "+",
		Eligible:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("donor").InsertOne(ctx, donor); err != nil {
		f.t.Fatalf("failed to create test donor: %v", err)
	}
	return donor
}

// CreateUnit inserts a unit for the given donor.
func (f *Fixtures) CreateUnit(ctx context.Context, id, donorID string) models.Unit {
	f.t.Helper()

	now := time.Now().UTC().Truncate(time.Millisecond)
	unit := models.Unit{
		ID:         id,
		DonorID:    donorID,
		BloodType:  "0",
		BloodRh:    "+",
		Status:     "unprocessed",
		Expiration: now.AddDate(2, 0, 0),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("unit").InsertOne(ctx, unit); err != nil {
		f.t.Fatalf("failed to create test unit: %v", err)
	}
	return unit
}

// Count returns the number of documents in a collection.
func (f *Fixtures) Count(ctx context.Context, collection string) int64 {
	f.t.Helper()
	n, err := f.db.Collection(collection).CountDocuments(ctx, bson.M{})
	if err != nil {
		f.t.Fatalf("count %s failed: %v", collection, err)
	}
	return n
}

// IndexNames returns the names of all indexes on a collection.
func (f *Fixtures) IndexNames(ctx context.Context, collection string) map[string]bool {
	f.t.Helper()

	cur, err := f.db.Collection(collection).Indexes().List(ctx)
	if err != nil {
		f.t.Fatalf("list indexes on %s failed: %v", collection, err)
	}
	defer cur.Close(ctx)

	names := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}
	return names
}
