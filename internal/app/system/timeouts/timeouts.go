// Package timeouts provides centralized timeout values for database work.
//
// Each step of the bootstrap wraps its context with one of these values:
//   - Connect: opening the client and the availability ping
//   - Command: listing databases/collections, creating collections and indexes
//   - Write: seed inserts and post-run counts
//
// Timeouts can be configured at startup using Configure(). If not configured,
// the defaults below are used.
package timeouts

import (
	"sync"
	"time"
)

// Default timeout values (used if Configure is not called).
const (
	DefaultConnect = 10 * time.Second
	DefaultCommand = 10 * time.Second
	DefaultWrite   = 10 * time.Second
)

// mu protects all timeout values from concurrent access.
var mu sync.RWMutex

var (
	connect = DefaultConnect
	command = DefaultCommand
	write   = DefaultWrite
)

// Connect returns the timeout for one connection attempt (connect + ping).
func Connect() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return connect
}

// Command returns the timeout for schema and metadata commands.
func Command() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return command
}

// Write returns the timeout for a single bulk insert.
func Write() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return write
}

// Config holds timeout configuration values.
// Zero values are ignored (defaults are kept).
type Config struct {
	Connect time.Duration
	Command time.Duration
	Write   time.Duration
}

// Configure sets custom timeout values. Zero values in the config are ignored,
// keeping the current (or default) values.
//
// Example:
//
//	timeouts.Configure(timeouts.Config{
//	    Command: 20 * time.Second,
//	    Write:   20 * time.Second,
//	})
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Connect > 0 {
		connect = cfg.Connect
	}
	if cfg.Command > 0 {
		command = cfg.Command
	}
	if cfg.Write > 0 {
		write = cfg.Write
	}
}

// Reset restores all timeouts to their default values.
// Useful for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	connect = DefaultConnect
	command = DefaultCommand
	write = DefaultWrite
}

// Current returns the current timeout configuration as a Config struct.
// Useful for logging.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return Config{
		Connect: connect,
		Command: command,
		Write:   write,
	}
}
