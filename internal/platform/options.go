package platform

import (
	"log/slog"
	"time"

	"github.com/yesilw0rks/airnote/pkg/core"
)

// options holds the internal configuration for an AirNote client.
type options struct {
	logger       *slog.Logger
	cacheAdapter string
	remote       string
	kv           core.KeyValue
	remoteStore  core.RemoteStore
	config       map[string]interface{}
}

// Option defines a functional option for configuring AirNote.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		cacheAdapter: "fs",
		config:       make(map[string]interface{}),
	}
}

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithCacheAdapter selects the local cache by name: "fs" (default) or "memory".
func WithCacheAdapter(name string) Option {
	return func(o *options) {
		o.cacheAdapter = name
	}
}

// WithKeyValue injects the local key/value store. The cache adapter is skipped.
func WithKeyValue(kv core.KeyValue) Option {
	return func(o *options) {
		o.kv = kv
	}
}

// WithRemote selects the remote note service by name: "postgrest",
// "memory" or "offline". When unset, "postgrest" is used if a URL is
// configured and "offline" otherwise.
func WithRemote(name string) Option {
	return func(o *options) {
		o.remote = name
	}
}

// WithRemoteStore injects the remote note service.
func WithRemoteStore(rs core.RemoteStore) Option {
	return func(o *options) {
		o.remoteStore = rs
	}
}

// WithURL sets the PostgREST project URL.
func WithURL(url string) Option {
	return func(o *options) {
		o.config["url"] = url
	}
}

// WithAPIKey sets the PostgREST anon key.
func WithAPIKey(key string) Option {
	return func(o *options) {
		o.config["api_key"] = key
	}
}

// WithAccessToken sets the bearer token of the signed-in user.
func WithAccessToken(token string) Option {
	return func(o *options) {
		o.config["access_token"] = token
	}
}

// WithTable overrides the remote notes table name.
func WithTable(table string) Option {
	return func(o *options) {
		o.config["table"] = table
	}
}

// WithTimeout bounds each remote request.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.config["timeout"] = d
	}
}

// WithCacheExt selects the cache file format by extension (".json", ".yaml").
func WithCacheExt(ext string) Option {
	return func(o *options) {
		o.config["cache_ext"] = ext
	}
}

// WithPollInterval sets how often the note list is refreshed in the background.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		o.config["poll_interval"] = d
	}
}

// WithWelcomeSeed enables or disables the welcome note for new guests.
// Enabled by default.
func WithWelcomeSeed(enabled bool) Option {
	return func(o *options) {
		o.config["welcome_seed"] = enabled
	}
}

// WithSpaces adds spaces to the built-in list shown by the view.
func WithSpaces(spaces ...string) Option {
	return func(o *options) {
		o.config["spaces"] = spaces
	}
}

// WithWatchLocal reloads notes when another process rewrites the local
// cache while the remote is unreachable. Only the fs cache supports it.
func WithWatchLocal(enabled bool) Option {
	return func(o *options) {
		o.config["watch_local"] = enabled
	}
}

// WithForceTemp forces the cache into a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.config["temp_dir"] = force
	}
}

// WithMustExist requires the cache directory to exist already.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithReadOnly opens the cache without writing to it.
// Saves still reach the remote; local writes fail with ErrReadOnly and are logged.
// The dev sandbox is bypassed.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithDevSafety controls the sandbox used when running via `go run` or `go test`.
// By default (true) the cache is re-rooted under a temporary directory.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.config["dev_safety"] = enabled
	}
}

// WithWatcherErrorHandler receives runtime failures of the cache watcher.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}
