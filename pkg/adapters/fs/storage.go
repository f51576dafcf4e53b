// Package fs stores each key as a JSON file inside a directory and reports
// changes made by other processes through fsnotify.
package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/sticky/pkg/core"
)

// Ext is the file extension of stored keys.
const Ext = ".json"

// Config holds the configuration for the filesystem storage.
type Config struct {
	Dir       string
	MustExist bool
	ReadOnly  bool
	Logger    *slog.Logger
	// ErrorHandler receives watcher errors. Defaults to logging them.
	ErrorHandler func(error)
	// Debounce collapses bursts of events per key. Defaults to 50ms.
	Debounce time.Duration
}

// Storage implements core.Storage on top of a directory.
type Storage struct {
	Dir    string
	config Config

	mu        sync.RWMutex
	watchers  int
	lastWrite *time.Time
}

// New creates a filesystem storage rooted at config.Dir.
func New(config Config) *Storage {
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	if config.Debounce <= 0 {
		config.Debounce = 50 * time.Millisecond
	}
	return &Storage{
		Dir:    config.Dir,
		config: config,
	}
}

// Initialize creates the directory, or checks it when MustExist is set.
func (s *Storage) Initialize(ctx context.Context) error {
	if s.config.MustExist {
		info, err := os.Stat(s.Dir)
		if os.IsNotExist(err) {
			return fmt.Errorf("storage path does not exist: %s", s.Dir)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("storage path is not a directory: %s", s.Dir)
		}
		return nil
	}
	if s.config.ReadOnly {
		return nil
	}
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}
	return nil
}

// Path returns the file backing key.
func (s *Storage) Path(key string) (string, error) {
	if key == "" {
		return "", errors.New("empty key")
	}
	rel := filepath.FromSlash(key) + Ext
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.Dir, rel), nil
}

// Get reads the file of key.
func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := s.Path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, core.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// Set atomically replaces the file of key.
func (s *Storage) Set(ctx context.Context, key string, value []byte) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	path, err := s.Path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := writeFileAtomic(path, value, 0644); err != nil {
		return err
	}

	s.mu.Lock()
	now := time.Now()
	s.lastWrite = &now
	s.mu.Unlock()

	s.config.Logger.Debug("key written", "key", key, "path", path, "bytes", len(value))
	return nil
}

// Delete removes the file of key. Missing keys are ignored.
func (s *Storage) Delete(ctx context.Context, key string) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	path, err := s.Path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return nil
}

// Keys lists the stored keys, sorted by path.
func (s *Storage) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(s.Dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != s.Dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if key, ok := s.keyOf(path); ok {
			keys = append(keys, key)
		}
		return nil
	})
	if os.IsNotExist(err) {
		return nil, nil
	}
	return keys, err
}

// keyOf maps a file path back to its key. Temp files and foreign files are
// rejected.
func (s *Storage) keyOf(path string) (string, bool) {
	base := filepath.Base(path)
	if strings.HasPrefix(base, TempFilePrefix) || strings.HasPrefix(base, ".") {
		return "", false
	}
	if filepath.Ext(base) != Ext {
		return "", false
	}
	rel, err := filepath.Rel(s.Dir, path)
	if err != nil || !filepath.IsLocal(rel) {
		return "", false
	}
	return filepath.ToSlash(strings.TrimSuffix(rel, Ext)), true
}

// Watch emits debounced events for keys matching pattern until ctx is done.
func (s *Storage) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern %q", pattern)
	}

	events := make(chan core.Event, 16)
	w := newWatchWorker(s, pattern, events)
	if err := w.Start(ctx); err != nil {
		return nil, err
	}

	go func() {
		<-ctx.Done()
		select {
		case <-w.done:
		case <-time.After(5 * time.Second):
			s.config.Logger.Warn("watcher did not stop in time", "dir", s.Dir)
		}
		close(events)
	}()

	return events, nil
}

func (s *Storage) handleError(err error) {
	if s.config.ErrorHandler != nil {
		s.config.ErrorHandler(err)
		return
	}
	s.config.Logger.Error("fs watcher error", "error", err)
}

var (
	_ core.Storage     = (*Storage)(nil)
	_ core.Initializer = (*Storage)(nil)
	_ core.Watchable   = (*Storage)(nil)
)
