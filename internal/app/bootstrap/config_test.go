package bootstrap

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func noEnv(string) (string, bool) { return "", false }

// fullSettings mirrors what WAFFLE hands over when every key comes from the
// environment: all values are strings.
func fullSettings() config.AppConfigValues {
	return config.AppConfigValues{
		"mongodb_host":             "mongo",
		"mongodb_port":             "27017",
		"mongodb_username":         "root",
		"mongodb_password":         "secret",
		"mongodb_database":         "bloodbank",
		"mongodb_timeout_seconds":  "10",
		"retry_connection_seconds": "5",
		"retry_max_attempts":       "0",
		"id_index_unique":          "true",
		"lenient_exit":             "false",
	}
}

func TestAppConfigFrom_Full(t *testing.T) {
	cfg := appConfigFrom(fullSettings(), noEnv)

	if cfg.MongoHost != "mongo" || cfg.MongoPort != 27017 {
		t.Errorf("host/port: got %s:%d", cfg.MongoHost, cfg.MongoPort)
	}
	if cfg.MongoDatabase != "bloodbank" {
		t.Errorf("database: got %q", cfg.MongoDatabase)
	}
	if cfg.RetryIntervalSeconds != 5 {
		t.Errorf("retry: got %d", cfg.RetryIntervalSeconds)
	}
	if cfg.MongoTimeout != 10*time.Second {
		t.Errorf("timeout: got %v", cfg.MongoTimeout)
	}
	if !cfg.IDIndexUnique || cfg.LenientExit {
		t.Errorf("flags: unique=%v lenient=%v", cfg.IDIndexUnique, cfg.LenientExit)
	}
}

func TestAppConfigFrom_RetryFallback(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 5},
		{"0", 5},
		{"abc", 5},
		{"-3", 5},
		{" 12 ", 12},
		{"1", 1},
	}
	for _, tt := range tests {
		s := fullSettings()
		s["retry_connection_seconds"] = tt.raw
		cfg := appConfigFrom(s, noEnv)
		if cfg.RetryIntervalSeconds != tt.want {
			t.Errorf("%q: got %d, want %d", tt.raw, cfg.RetryIntervalSeconds, tt.want)
		}
	}
}

func TestAppConfigFrom_LegacyRetryEnv(t *testing.T) {
	env := map[string]string{"RETRY_CONNECTION_SECONDS": "9"}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := appConfigFrom(fullSettings(), lookup)
	if cfg.RetryIntervalSeconds != 9 {
		t.Errorf("legacy variable: got %d, want 9", cfg.RetryIntervalSeconds)
	}

	// The prefixed variable wins when both are set.
	env["API_RETRY_CONNECTION_SECONDS"] = "5"
	cfg = appConfigFrom(fullSettings(), lookup)
	if cfg.RetryIntervalSeconds != 5 {
		t.Errorf("prefixed variable: got %d, want 5", cfg.RetryIntervalSeconds)
	}
}

func TestAppConfigFrom_LegacyRetryDoesNotOverrideFlag(t *testing.T) {
	lookup := func(k string) (string, bool) {
		if k == legacyRetryEnv {
			return "9", true
		}
		return "", false
	}

	s := fullSettings()
	s["retry_connection_seconds"] = 12 // typed: came from a flag or config file
	cfg := appConfigFrom(s, lookup)
	if cfg.RetryIntervalSeconds != 12 {
		t.Errorf("got %d, want 12", cfg.RetryIntervalSeconds)
	}
}

func TestAppConfigFrom_StringTypedValues(t *testing.T) {
	s := fullSettings()
	s["retry_max_attempts"] = "3"
	s["id_index_unique"] = "false"
	s["lenient_exit"] = "true"

	cfg := appConfigFrom(s, noEnv)
	if cfg.RetryMaxAttempts != 3 {
		t.Errorf("RetryMaxAttempts: got %d, want 3", cfg.RetryMaxAttempts)
	}
	if cfg.IDIndexUnique {
		t.Error("IDIndexUnique: got true, want false")
	}
	if !cfg.LenientExit {
		t.Error("LenientExit: got false, want true")
	}
}

func TestAppConfigFrom_NativeTypedValues(t *testing.T) {
	s := fullSettings()
	s["mongodb_port"] = int64(27018)
	s["retry_max_attempts"] = 4
	s["id_index_unique"] = false
	s["lenient_exit"] = true
	s["mongodb_timeout_seconds"] = 30

	cfg := appConfigFrom(s, noEnv)
	if cfg.MongoPort != 27018 || cfg.RetryMaxAttempts != 4 {
		t.Errorf("ints: port=%d attempts=%d", cfg.MongoPort, cfg.RetryMaxAttempts)
	}
	if cfg.IDIndexUnique || !cfg.LenientExit {
		t.Errorf("bools: unique=%v lenient=%v", cfg.IDIndexUnique, cfg.LenientExit)
	}
	if cfg.MongoTimeout != 30*time.Second {
		t.Errorf("timeout: got %v", cfg.MongoTimeout)
	}
}

func TestAppConfigFrom_InvalidValues(t *testing.T) {
	s := fullSettings()
	s["retry_max_attempts"] = "many"
	s["id_index_unique"] = "maybe"
	s["lenient_exit"] = "sometimes"

	cfg := appConfigFrom(s, noEnv)
	if !cfg.IDIndexUnique || cfg.LenientExit {
		t.Errorf("bools should keep defaults: unique=%v lenient=%v", cfg.IDIndexUnique, cfg.LenientExit)
	}

	err := ValidateConfig(nil, cfg, testLogger())
	if !errors.Is(err, ErrInvalidConfig) || !strings.Contains(err.Error(), "API_RETRY_MAX_ATTEMPTS") {
		t.Errorf("expected unparsable attempt limit to be rejected, got %v", err)
	}
}

func TestMongoURI(t *testing.T) {
	cfg := AppConfig{MongoHost: "db", MongoPort: 27017, MongoUsername: "user", MongoPassword: "p@ss:word"}

	if got, want := cfg.MongoURI(), "mongodb://user:p%40ss%3Aword@db:27017"; got != want {
		t.Errorf("MongoURI: got %q, want %q", got, want)
	}
	if got := cfg.RedactedURI(); strings.Contains(got, "p%40ss") || !strings.Contains(got, "user:xxxxx@") {
		t.Errorf("RedactedURI leaks or misses user: %q", got)
	}
}

func TestValidateConfig_Valid(t *testing.T) {
	cfg := appConfigFrom(fullSettings(), noEnv)
	if err := ValidateConfig(nil, cfg, testLogger()); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateConfig_MissingRequired(t *testing.T) {
	s := fullSettings()
	delete(s, "mongodb_host")
	delete(s, "mongodb_password")
	cfg := appConfigFrom(s, noEnv)

	err := ValidateConfig(nil, cfg, testLogger())
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	for _, name := range []string{"API_MONGODB_HOST is required", "API_MONGODB_PASSWORD is required"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("expected %q in %v", name, err)
		}
	}
}

func TestValidateConfig_BadPort(t *testing.T) {
	for _, port := range []string{"abc", "70000"} {
		s := fullSettings()
		s["mongodb_port"] = port
		cfg := appConfigFrom(s, noEnv)

		err := ValidateConfig(nil, cfg, testLogger())
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("port %q: expected ErrInvalidConfig, got %v", port, err)
			continue
		}
		if !strings.Contains(err.Error(), "API_MONGODB_PORT") {
			t.Errorf("port %q: expected the variable name in %v", port, err)
		}
	}
}
