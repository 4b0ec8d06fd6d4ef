package airnote

import (
	"log/slog"
	"time"

	"github.com/yesilw0rks/airnote/internal/platform"
	"github.com/yesilw0rks/airnote/pkg/core"
	"github.com/yesilw0rks/airnote/pkg/markup"
)

// --- Types ---

// Client is a fully wired AirNote client.
type Client = platform.Client

// Note is a public alias for the stored note.
type Note = core.Note

// Draft is a public alias for the editable fields of a note.
type Draft = core.Draft

// Event is a public alias for a change notification.
type Event = core.Event

// --- Configuration ---

// Option defines a functional option for configuring AirNote.
type Option = platform.Option

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithCacheAdapter selects the local cache by name ("fs" or "memory").
func WithCacheAdapter(name string) Option {
	return platform.WithCacheAdapter(name)
}

// WithKeyValue injects a custom local key/value store.
func WithKeyValue(kv core.KeyValue) Option {
	return platform.WithKeyValue(kv)
}

// WithRemote selects the remote note service by name ("postgrest", "memory", "offline").
func WithRemote(name string) Option {
	return platform.WithRemote(name)
}

// WithRemoteStore injects a custom remote note service.
func WithRemoteStore(rs core.RemoteStore) Option {
	return platform.WithRemoteStore(rs)
}

// WithURL sets the PostgREST project URL.
func WithURL(url string) Option {
	return platform.WithURL(url)
}

// WithAPIKey sets the PostgREST anon key.
func WithAPIKey(key string) Option {
	return platform.WithAPIKey(key)
}

// WithAccessToken sets the bearer token of the signed-in user.
func WithAccessToken(token string) Option {
	return platform.WithAccessToken(token)
}

// WithTable overrides the remote notes table name.
func WithTable(table string) Option {
	return platform.WithTable(table)
}

// WithTimeout bounds each remote request.
func WithTimeout(d time.Duration) Option {
	return platform.WithTimeout(d)
}

// WithCacheExt selects the cache file format by extension.
func WithCacheExt(ext string) Option {
	return platform.WithCacheExt(ext)
}

// WithPollInterval sets the background refresh period.
func WithPollInterval(d time.Duration) Option {
	return platform.WithPollInterval(d)
}

// WithWelcomeSeed enables or disables the welcome note for new guests.
func WithWelcomeSeed(enabled bool) Option {
	return platform.WithWelcomeSeed(enabled)
}

// WithSpaces adds spaces to the built-in list.
func WithSpaces(spaces ...string) Option {
	return platform.WithSpaces(spaces...)
}

// WithWatchLocal reloads notes written to the cache by other processes while offline.
func WithWatchLocal(enabled bool) Option {
	return platform.WithWatchLocal(enabled)
}

// WithForceTemp forces the cache into a temporary directory.
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithMustExist requires the cache directory to exist already.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithReadOnly opens the cache without writing to it.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithDevSafety controls the `go run` sandbox for the cache directory.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithWatcherErrorHandler receives runtime failures of the cache watcher.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// New creates a client whose local cache lives in dir.
func New(dir string, opts ...Option) (*Client, error) {
	return platform.New(dir, opts...)
}

// DefaultCacheDir returns the cache directory used when none is configured.
func DefaultCacheDir(startDir string) string {
	return platform.DefaultCacheDir(startDir)
}

// Render converts note markup to an HTML fragment.
func Render(text string) string {
	return markup.Render(text)
}
