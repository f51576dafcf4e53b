// Package sqlite keeps stored keys in a single SQLite table.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/aretw0/sticky/pkg/core"
)

// Config holds the configuration for the SQLite storage.
type Config struct {
	// Path of the database file, or ":memory:".
	Path     string
	ReadOnly bool
	Logger   *slog.Logger
	// PollInterval is how often Watch checks for new revisions.
	PollInterval time.Duration
}

// Storage implements core.Storage on a kv table.
type Storage struct {
	db     *sqlx.DB
	config Config
}

// Open opens (or creates) the database and applies pending migrations.
func Open(config Config) (*Storage, error) {
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	if config.PollInterval <= 0 {
		config.PollInterval = 500 * time.Millisecond
	}

	db, err := sqlx.Open("sqlite", config.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if config.Path == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &Storage{db: db, config: config}
	if err := s.Initialize(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Initialize applies outstanding migrations.
func (s *Storage) Initialize(ctx context.Context) error {
	current := 0

	var tables int
	err := s.db.GetContext(ctx, &tables,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'")
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}
	if tables > 0 {
		if err := s.db.GetContext(ctx, &current, "SELECT COALESCE(MAX(version), 0) FROM schema_version"); err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if s.config.ReadOnly {
			return fmt.Errorf("schema v%d missing: %w", m.version, core.ErrReadOnly)
		}
		if _, err := s.db.ExecContext(ctx, m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Storage) Close() error {
	return s.db.Close()
}

// Get returns the value of key.
func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.GetContext(ctx, &value, "SELECT value FROM kv WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting key %s: %w", key, err)
	}
	return value, nil
}

// Set upserts the value of key and bumps its revision.
func (s *Storage) Set(ctx context.Context, key string, value []byte) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	if value == nil {
		value = []byte{}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, revision, updated_at) VALUES (?, ?, 1, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			revision = kv.revision + 1,
			updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("setting key %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Missing keys are ignored.
func (s *Storage) Delete(ctx context.Context, key string) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("deleting key %s: %w", key, err)
	}
	return nil
}

type revision struct {
	Key      string `db:"key"`
	Revision int64  `db:"revision"`
}

func (s *Storage) revisions(ctx context.Context) (map[string]int64, error) {
	var rows []revision
	if err := s.db.SelectContext(ctx, &rows, "SELECT key, revision FROM kv ORDER BY key"); err != nil {
		return nil, fmt.Errorf("listing revisions: %w", err)
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Revision
	}
	return out, nil
}

// Keys lists the stored keys in order.
func (s *Storage) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	if err := s.db.SelectContext(ctx, &keys, "SELECT key FROM kv ORDER BY key"); err != nil {
		return nil, fmt.Errorf("listing keys: %w", err)
	}
	return keys, nil
}

// Watch polls the table and emits an event for every revision change of a
// key matching pattern, including writes from other processes.
func (s *Storage) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern %q", pattern)
	}
	seen, err := s.revisions(ctx)
	if err != nil {
		return nil, err
	}

	events := make(chan core.Event, 16)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(events)
		ticker := time.NewTicker(s.config.PollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}

			current, err := s.revisions(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				s.config.Logger.Error("sqlite poll failed", "error", err)
				continue
			}
			for _, e := range diffRevisions(seen, current) {
				if ok, _ := doublestar.Match(pattern, e.Key); !ok {
					continue
				}
				select {
				case events <- e:
				case <-ctx.Done():
					return nil
				}
			}
			seen = current
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		s.config.Logger.Error("sqlite watcher panic", "error", err)
	}))

	return events, nil
}

func diffRevisions(before, after map[string]int64) []core.Event {
	now := time.Now().Unix()
	var out []core.Event
	for key, rev := range after {
		if before[key] != rev {
			out = append(out, core.Event{Type: core.EventModify, Key: key, Timestamp: now})
		}
	}
	for key := range before {
		if _, ok := after[key]; !ok {
			out = append(out, core.Event{Type: core.EventDelete, Key: key, Timestamp: now})
		}
	}
	return out
}

var (
	_ core.Storage     = (*Storage)(nil)
	_ core.Initializer = (*Storage)(nil)
	_ core.Watchable   = (*Storage)(nil)
)
