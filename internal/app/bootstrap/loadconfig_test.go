package bootstrap

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

// clearConfigEnv unsets every variable LoadConfig reads for the duration of
// the test.
func clearConfigEnv(t *testing.T) {
	t.Helper()

	names := []string{legacyRetryEnv, EnvPrefix + "_ENV", EnvPrefix + "_LOG_LEVEL"}
	for _, k := range appConfigKeys {
		names = append(names, EnvPrefix+"_"+strings.ToUpper(k.Name))
	}
	for _, name := range names {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

// loadFromEnv runs the real WAFFLE loader. WAFFLE registers its flags on
// the global pflag set, so each call starts from a fresh one.
func loadFromEnv(t *testing.T, env map[string]string) AppConfig {
	t.Helper()

	clearConfigEnv(t)
	for k, v := range env {
		t.Setenv(k, v)
	}

	saved := pflag.CommandLine
	pflag.CommandLine = pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	t.Cleanup(func() { pflag.CommandLine = saved })

	_, cfg, err := LoadConfig(testLogger())
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	return cfg
}

func requiredEnv() map[string]string {
	return map[string]string{
		"API_MONGODB_HOST":     "mongo",
		"API_MONGODB_PORT":     "27017",
		"API_MONGODB_USERNAME": "root",
		"API_MONGODB_PASSWORD": "secret",
		"API_MONGODB_DATABASE": "bloodbank",
	}
}

func withEnv(extra map[string]string) map[string]string {
	env := requiredEnv()
	for k, v := range extra {
		env[k] = v
	}
	return env
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	base := AppConfig{
		MongoHost:            "mongo",
		MongoPort:            27017,
		MongoUsername:        "root",
		MongoPassword:        "secret",
		MongoDatabase:        "bloodbank",
		MongoTimeout:         10 * time.Second,
		RetryIntervalSeconds: 5,
		RetryMaxAttempts:     0,
		IDIndexUnique:        true,
		LenientExit:          false,
	}

	tests := []struct {
		name   string
		env    map[string]string
		modify func(*AppConfig)
	}{
		{
			name: "defaults",
			env:  requiredEnv(),
		},
		{
			name: "every key set",
			env: withEnv(map[string]string{
				"API_MONGODB_TIMEOUT_SECONDS":  "20",
				"API_RETRY_CONNECTION_SECONDS": "7",
				"API_RETRY_MAX_ATTEMPTS":       "3",
				"API_ID_INDEX_UNIQUE":          "false",
				"API_LENIENT_EXIT":             "true",
			}),
			modify: func(c *AppConfig) {
				c.MongoTimeout = 20 * time.Second
				c.RetryIntervalSeconds = 7
				c.RetryMaxAttempts = 3
				c.IDIndexUnique = false
				c.LenientExit = true
			},
		},
		{
			name: "unique index explicitly on",
			env:  withEnv(map[string]string{"API_ID_INDEX_UNIQUE": "true"}),
		},
		{
			name:   "legacy retry variable",
			env:    withEnv(map[string]string{"RETRY_CONNECTION_SECONDS": "9"}),
			modify: func(c *AppConfig) { c.RetryIntervalSeconds = 9 },
		},
		{
			name: "prefixed retry variable wins",
			env: withEnv(map[string]string{
				"RETRY_CONNECTION_SECONDS":     "9",
				"API_RETRY_CONNECTION_SECONDS": "3",
			}),
			modify: func(c *AppConfig) { c.RetryIntervalSeconds = 3 },
		},
		{
			name: "unparsable retry interval falls back",
			env:  withEnv(map[string]string{"API_RETRY_CONNECTION_SECONDS": "abc"}),
		},
		{
			name: "zero retry interval falls back",
			env:  withEnv(map[string]string{"API_RETRY_CONNECTION_SECONDS": "0"}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := base
			if tt.modify != nil {
				tt.modify(&want)
			}

			got := loadFromEnv(t, tt.env)
			if got != want {
				t.Errorf("config mismatch:\n got  %+v\n want %+v", got, want)
			}
		})
	}
}

func TestLoadConfig_MissingRequiredIsRejected(t *testing.T) {
	env := requiredEnv()
	delete(env, "API_MONGODB_DATABASE")

	cfg := loadFromEnv(t, env)
	err := ValidateConfig(nil, cfg, testLogger())
	if err == nil || !strings.Contains(err.Error(), "API_MONGODB_DATABASE is required") {
		t.Errorf("expected missing database to be rejected, got %v", err)
	}
}
