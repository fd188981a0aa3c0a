// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds the database handles of one run.
type DBDeps struct {
	BloodbankMongoClient   *mongo.Client
	BloodbankMongoDatabase *mongo.Database
}
