// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

// EnvPrefix is prepended to every config key to form its environment name,
// e.g. mongodb_host -> API_MONGODB_HOST.
const EnvPrefix = "API"

// legacyRetryEnv is the unprefixed retry variable older manifests set.
const legacyRetryEnv = "RETRY_CONNECTION_SECONDS"

const (
	defaultRetrySeconds  = 5
	defaultTimeoutSecond = 10
)

// ErrInvalidConfig wraps every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// appConfigKeys defines the configuration keys for the bootstrap.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongodb_host, mongodb_port, etc.
//   - Environment variables: API_MONGODB_HOST, API_MONGODB_PORT, etc.
//   - Command-line flags: --mongodb_host, --mongodb_port, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongodb_host", Default: "", Desc: "MongoDB host (required)"},
	{Name: "mongodb_port", Default: "", Desc: "MongoDB port (required)"},
	{Name: "mongodb_username", Default: "", Desc: "MongoDB user (required)"},
	{Name: "mongodb_password", Default: "", Desc: "MongoDB password (required)"},
	{Name: "mongodb_database", Default: "", Desc: "Database to initialize (required)"},
	{Name: "mongodb_timeout_seconds", Default: "10", Desc: "Per-operation timeout in seconds"},

	{Name: "retry_connection_seconds", Default: "5", Desc: "Seconds between connection attempts (also read from RETRY_CONNECTION_SECONDS)"},
	{Name: "retry_max_attempts", Default: 0, Desc: "Give up after this many connection attempts (0 = never)"},

	{Name: "id_index_unique", Default: true, Desc: "Create the id indexes as unique"},
	{Name: "lenient_exit", Default: false, Desc: "Exit 0 even when a seed write fails"},
}

// fieldKeys maps AppConfig fields to their config keys for error messages.
var fieldKeys = map[string]string{
	"MongoHost":            "mongodb_host",
	"MongoPort":            "mongodb_port",
	"MongoUsername":        "mongodb_username",
	"MongoPassword":        "mongodb_password",
	"MongoDatabase":        "mongodb_database",
	"RetryIntervalSeconds": "retry_connection_seconds",
	"RetryMaxAttempts":     "retry_max_attempts",
}

// LoadConfig loads WAFFLE core config and the bootstrap's app config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, API_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := appConfigFrom(appValues, os.LookupEnv)

	logger.Info("configuration loaded",
		zap.String("mongo_host", appCfg.MongoHost),
		zap.Int("mongo_port", appCfg.MongoPort),
		zap.String("mongo_user", appCfg.MongoUsername),
		zap.String("mongo_database", appCfg.MongoDatabase),
		zap.Int("retry_seconds", appCfg.RetryIntervalSeconds),
		zap.Int("retry_max_attempts", appCfg.RetryMaxAttempts),
		zap.Bool("id_index_unique", appCfg.IDIndexUnique),
		zap.Bool("lenient_exit", appCfg.LenientExit))

	return coreCfg, appCfg, nil
}

// appConfigFrom maps loaded values into an AppConfig. Values arrive as
// strings from the environment and typed from flags, files, and defaults,
// so every read goes through cast.
func appConfigFrom(v config.AppConfigValues, lookupEnv func(string) (string, bool)) AppConfig {
	retryRaw := v["retry_connection_seconds"]
	if _, ok := lookupEnv(EnvPrefix + "_RETRY_CONNECTION_SECONDS"); !ok && isDefaultRetry(retryRaw) {
		if legacy, ok := lookupEnv(legacyRetryEnv); ok {
			retryRaw = legacy
		}
	}

	return AppConfig{
		MongoHost:     str(v, "mongodb_host"),
		MongoPort:     intOr(v["mongodb_port"], 0),
		MongoUsername: cast.ToString(v["mongodb_username"]),
		MongoPassword: cast.ToString(v["mongodb_password"]),
		MongoDatabase: str(v, "mongodb_database"),
		MongoTimeout:  time.Duration(positiveOr(v["mongodb_timeout_seconds"], defaultTimeoutSecond)) * time.Second,

		RetryIntervalSeconds: positiveOr(retryRaw, defaultRetrySeconds),
		RetryMaxAttempts:     intOr(v["retry_max_attempts"], -1),

		IDIndexUnique: boolOr(v["id_index_unique"], true),
		LenientExit:   boolOr(v["lenient_exit"], false),
	}
}

// isDefaultRetry reports whether the retry interval still has its default,
// i.e. no flag or config file set it.
func isDefaultRetry(raw any) bool {
	s := strings.TrimSpace(cast.ToString(raw))
	return s == "" || s == strconv.Itoa(defaultRetrySeconds)
}

func str(v config.AppConfigValues, key string) string {
	return strings.TrimSpace(cast.ToString(v[key]))
}

// intOr returns raw as an int, or def when it does not parse.
func intOr(raw any, def int) int {
	if s, ok := raw.(string); ok {
		raw = strings.TrimSpace(s)
	}
	n, err := cast.ToIntE(raw)
	if err != nil {
		return def
	}
	return n
}

// positiveOr is intOr that also rejects zero and negative values.
func positiveOr(raw any, def int) int {
	if n := intOr(raw, def); n > 0 {
		return n
	}
	return def
}

func boolOr(raw any, def bool) bool {
	if s, ok := raw.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return def
		}
		raw = s
	}
	if raw == nil {
		return def
	}
	b, err := cast.ToBoolE(raw)
	if err != nil {
		return def
	}
	return b
}

// MongoURI builds the connection string from the config. Credentials are
// percent-encoded.
func (c AppConfig) MongoURI() string {
	u := &url.URL{
		Scheme: "mongodb",
		Host:   c.MongoHost + ":" + strconv.Itoa(c.MongoPort),
	}
	if c.MongoUsername != "" {
		u.User = url.UserPassword(c.MongoUsername, c.MongoPassword)
	}
	return u.String()
}

// RedactedURI is MongoURI with the password masked, for logs.
func (c AppConfig) RedactedURI() string {
	u := &url.URL{
		Scheme: "mongodb",
		Host:   c.MongoHost + ":" + strconv.Itoa(c.MongoPort),
	}
	if c.MongoUsername != "" {
		u.User = url.UserPassword(c.MongoUsername, "xxxxx")
	}
	return u.String()
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error wrapping
// ErrInvalidConfig to abort before any connection attempt.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := validator.New().Struct(appCfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			problems := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				problems = append(problems, describe(fe))
			}
			logger.Error("invalid configuration", zap.Strings("problems", problems))
			return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := wafflemongo.ValidateURI(appCfg.MongoURI()); err != nil {
		logger.Error("invalid MongoDB URI", zap.String("uri", appCfg.RedactedURI()), zap.Error(err))
		return fmt.Errorf("%w: MongoDB URI: %w", ErrInvalidConfig, err)
	}

	return nil
}

func envName(field string) string {
	key, ok := fieldKeys[field]
	if !ok {
		return field
	}
	return EnvPrefix + "_" + strings.ToUpper(key)
}

func describe(fe validator.FieldError) string {
	name := envName(fe.Field())
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "min", "max":
		return fmt.Sprintf("%s is out of range (%s %s)", name, fe.Tag(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", name, fe.Tag())
	}
}
