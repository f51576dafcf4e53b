package platform

import (
	"log/slog"

	"github.com/aretw0/sticky/pkg/core"
	"github.com/aretw0/sticky/pkg/undo"
)

// options holds the internal configuration of a sticky session.
type options struct {
	storage core.Storage
	logger  *slog.Logger
	adapter string
	key     string
	undo    *undo.Config
	clock   core.Clock
	ids     core.IDSource
	config  map[string]any
}

// Option defines a functional option for configuring a session.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: "fs",
		config:  make(map[string]any),
	}
}

func resolve(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// WithLogger sets the logger for the session and its storage.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStorage injects a custom backend. The adapter and URI are ignored.
func WithStorage(storage core.Storage) Option {
	return func(o *options) {
		o.storage = storage
	}
}

// WithAdapter selects the backend by name: "fs" (default), "memory",
// "sqlite" or "redis".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithKey sets the storage key holding the notes. Defaults to
// "sticky-notes-app".
func WithKey(key string) Option {
	return func(o *options) {
		o.key = key
	}
}

// WithUndo selects the undo policy (undo.Stacked by default).
func WithUndo(config undo.Config) Option {
	return func(o *options) {
		o.undo = &config
	}
}

// WithClock pins the time source, e.g. in tests.
func WithClock(clock core.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithIDs replaces the id generator.
func WithIDs(ids core.IDSource) Option {
	return func(o *options) {
		o.ids = ids
	}
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.config["temp_dir"] = force
	}
}

// WithMustExist requires the storage directory to exist already.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithReadOnly enables read-only mode.
// In this mode:
// 1. Every mutation still updates memory but Save returns ErrReadOnly.
// 2. Directory creation and schema migration are skipped.
// 3. Dev Safety Lock (go run temp dir) is BYPASSED (uses real path).
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithDevSafety controls the sandbox used when running via `go run` or
// `go test`. By default (true) file backends are re-rooted into a temporary
// directory so a development build never touches the real board.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.config["dev_safety"] = enabled
	}
}

// WithRedisPrefix namespaces every key of the redis adapter.
func WithRedisPrefix(prefix string) Option {
	return func(o *options) {
		o.config["redis_prefix"] = prefix
	}
}

// WithWatcherErrorHandler registers a callback for runtime watcher failures
// (e.g. permission denied) which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}
