package sticky

import (
	"context"
	"log/slog"

	"github.com/aretw0/sticky/internal/platform"
	"github.com/aretw0/sticky/pkg/core"
	"github.com/aretw0/sticky/pkg/session"
	"github.com/aretw0/sticky/pkg/undo"
)

// --- Types ---

// Note is a public alias for the core note model.
type Note = core.Note

// Todo is a public alias for a checklist entry.
type Todo = core.Todo

// Color is a public alias for the note palette type.
type Color = core.Color

// Draft is a public alias for note form input.
type Draft = core.Draft

// Session is a public alias for the wired engine.
type Session = session.Session

// --- Configuration ---

// Option defines a functional option for configuring a session.
type Option = platform.Option

// WithLogger sets the logger for the session and its storage.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithAdapter selects the backend by name: "fs", "memory", "sqlite", "redis".
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithStorage allows injecting a custom backend.
func WithStorage(storage core.Storage) Option {
	return platform.WithStorage(storage)
}

// WithKey sets the storage key holding the notes.
func WithKey(key string) Option {
	return platform.WithKey(key)
}

// WithUndo selects the undo policy (UndoStacked or UndoTimed).
func WithUndo(config undo.Config) Option {
	return platform.WithUndo(config)
}

// WithClock pins the time source.
func WithClock(clock core.Clock) Option {
	return platform.WithClock(clock)
}

// WithIDs replaces the id generator.
func WithIDs(ids core.IDSource) Option {
	return platform.WithIDs(ids)
}

// WithReadOnly enables read-only mode.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithMustExist requires the storage directory to exist already.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithDevSafety controls the sandbox used under `go run` and `go test`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithRedisPrefix namespaces every key of the redis adapter.
func WithRedisPrefix(prefix string) Option {
	return platform.WithRedisPrefix(prefix)
}

// WithWatcherErrorHandler registers a callback for runtime watcher failures.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// UndoStacked is the multi-slot undo policy (default).
func UndoStacked() undo.Config { return undo.Stacked() }

// UndoTimed is the single-slot undo policy with a 5 second window.
func UndoTimed() undo.Config { return undo.Timed() }

// --- Factory ---

// New opens a session on the board at uri.
func New(uri string, opts ...Option) (*Session, error) {
	return platform.New(uri, opts...)
}

// Open is New with a caller-provided context for the initial load.
func Open(ctx context.Context, uri string, opts ...Option) (*Session, error) {
	return platform.Open(ctx, uri, opts...)
}

// Init prepares the storage backend without opening a session.
func Init(ctx context.Context, uri string, opts ...Option) (core.Storage, error) {
	return platform.Init(ctx, uri, opts...)
}

// --- Safety & Utils ---

// ResolveStorePath determines the directory actually used for a file backend.
func ResolveStorePath(userPath string, forceTemp bool) string {
	return platform.ResolveStorePath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindRoot looks upwards for a board root (.sticky or sticky.yaml).
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
