package testutil

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoURIEnv names the environment variable that points tests at an
// existing MongoDB instead of a throwaway container.
const MongoURIEnv = "BLOODBANK_TEST_MONGO_URI"

var (
	containerOnce sync.Once
	containerURI  string
	containerErr  error
)

// TestContext returns a context with a timeout suitable for database tests.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// MongoURI returns the URI of the test MongoDB, starting a shared container
// on first use when MongoURIEnv is not set. The test is skipped when neither
// is available.
func MongoURI(t *testing.T) string {
	t.Helper()

	if uri := strings.TrimSpace(os.Getenv(MongoURIEnv)); uri != "" {
		return uri
	}
	if testing.Short() {
		t.Skip("skipping MongoDB test in short mode")
	}

	testcontainers.SkipIfProviderIsNotHealthy(t)

	containerOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		// The container is shared by every test in the package and reaped
		// by testcontainers when the test binary exits.
		c, err := tcmongo.Run(ctx, "mongo:7")
		if err != nil {
			containerErr = err
			return
		}
		containerURI, containerErr = c.ConnectionString(ctx)
	})
	if containerErr != nil {
		t.Skipf("MongoDB container unavailable: %v", containerErr)
	}
	return containerURI
}

// SetupTestDB connects to the test MongoDB and returns a database with a
// unique name. The database is dropped and the client disconnected when the
// test ends.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := MongoURI(t)

	ctx, cancel := TestContext()
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerSelectionTimeout(5*time.Second))
	if err != nil {
		t.Skipf("MongoDB connect failed: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		t.Skipf("MongoDB ping failed: %v", err)
	}

	db := client.Database(TestDBName())

	t.Cleanup(func() {
		ctx, cancel := TestContext()
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	return db
}

// TestDBName returns a fresh database name for one test.
func TestDBName() string {
	return "bloodbank_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
