package dbinit

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/bloodbank/internal/app/seed"
	donorstore "github.com/dalemusser/bloodbank/internal/app/store/donors"
	unitstore "github.com/dalemusser/bloodbank/internal/app/store/units"
	"github.com/dalemusser/bloodbank/internal/app/system/indexes"
	"github.com/dalemusser/bloodbank/internal/app/system/timeouts"
	"github.com/dalemusser/bloodbank/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// codeNamespaceExists is returned by create when the collection exists.
const codeNamespaceExists = 48

// MongoBackend implements Backend on a connected client.
type MongoBackend struct {
	client    *mongo.Client
	db        *mongo.Database
	uniqueIDs bool
	donors    *donorstore.Store
	units     *unitstore.Store
}

// NewMongoBackend binds the backend to one database. uniqueIDs selects an
// enforcing unique index on `id`.
func NewMongoBackend(client *mongo.Client, database string, uniqueIDs bool) *MongoBackend {
	db := client.Database(database)
	return &MongoBackend{
		client:    client,
		db:        db,
		uniqueIDs: uniqueIDs,
		donors:    donorstore.New(db),
		units:     unitstore.New(db),
	}
}

func (b *MongoBackend) DatabaseNames(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Command())
	defer cancel()
	return b.client.ListDatabaseNames(ctx, bson.D{})
}

func (b *MongoBackend) CollectionNames(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Command())
	defer cancel()
	return b.db.ListCollectionNames(ctx, bson.D{})
}

func (b *MongoBackend) CreateCollection(ctx context.Context, name string) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Command())
	defer cancel()

	err := b.db.CreateCollection(ctx, name)
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == codeNamespaceExists {
		return nil
	}
	return err
}

func (b *MongoBackend) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Command())
	defer cancel()
	return indexes.EnsureAll(ctx, b.db, b.uniqueIDs)
}

func (b *MongoBackend) InsertDonors(ctx context.Context, donors []models.Donor) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Write())
	defer cancel()
	return b.donors.InsertMany(ctx, donors)
}

func (b *MongoBackend) InsertUnits(ctx context.Context, units []models.Unit) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Write())
	defer cancel()
	return b.units.InsertMany(ctx, units)
}

func (b *MongoBackend) Count(ctx context.Context, collection string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Command())
	defer cancel()
	switch collection {
	case seed.DonorCollection:
		return b.donors.Count(ctx)
	case seed.UnitCollection:
		return b.units.Count(ctx)
	default:
		return 0, fmt.Errorf("unknown collection %q", collection)
	}
}
