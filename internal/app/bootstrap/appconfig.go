// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds the settings of one bootstrap run.
//
// Values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). Connection fields are required;
// everything else has a default.
type AppConfig struct {
	// MongoDB connection
	MongoHost     string `validate:"required"`
	MongoPort     int    `validate:"required,min=1,max=65535"`
	MongoUsername string `validate:"required"`
	MongoPassword string `validate:"required"`
	MongoDatabase string `validate:"required"`
	MongoTimeout  time.Duration

	// Connection retry
	RetryIntervalSeconds int `validate:"min=1"`
	RetryMaxAttempts     int `validate:"min=0"` // 0 = retry forever

	// IDIndexUnique makes the `id` index on both collections enforce uniqueness.
	IDIndexUnique bool

	// LenientExit exits 0 even when a seed write failed.
	LenientExit bool
}
