// Package session wires the note store, the undo stack and the persistence
// gateway into one object owned by a single UI session.
//
// The presentation layer dispatches user intents to a Session and renders
// from the returned values (or from Notes().Search) afterwards.
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/sticky/pkg/core"
	"github.com/aretw0/sticky/pkg/gateway"
	"github.com/aretw0/sticky/pkg/notes"
	"github.com/aretw0/sticky/pkg/undo"
)

// Config holds the session dependencies.
type Config struct {
	Normalizer core.Normalizer
	Undo       undo.Config
	Logger     *slog.Logger
	// EventBuffer is the size of the change event channel returned by Watch.
	EventBuffer int
}

// Session owns one store, its undo stack and the gateway.
type Session struct {
	store   *notes.Store
	undo    *undo.Stack
	gateway *gateway.Gateway
	logger  *slog.Logger
	config  Config

	mu      sync.Mutex
	editing string
	watches int
}

// Open loads the store through gw and builds a session around it.
func Open(ctx context.Context, gw *gateway.Gateway, config Config) (*Session, error) {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	config.Logger = logger
	if config.EventBuffer <= 0 {
		config.EventBuffer = 16
	}

	store, err := notes.Open(ctx, gw, notes.Config{Normalizer: config.Normalizer, Logger: logger})
	if err != nil {
		return nil, err
	}

	undoConfig := config.Undo
	if undoConfig.Logger == nil {
		undoConfig.Logger = logger
	}

	return &Session{
		store:   store,
		undo:    undo.New(store, undoConfig),
		gateway: gw,
		logger:  logger,
		config:  config,
	}, nil
}

// Notes returns the note store.
func (s *Session) Notes() *notes.Store { return s.store }

// UndoStack returns the undo stack.
func (s *Session) UndoStack() *undo.Stack { return s.undo }

// Gateway returns the persistence gateway.
func (s *Session) Gateway() *gateway.Gateway { return s.gateway }

// Editing returns the id of the note being edited, if any.
func (s *Session) Editing() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editing, s.editing != ""
}

// BeginEdit enters edit mode for a note. Pending undo entries are discarded
// so they are not actioned across unrelated operations.
func (s *Session) BeginEdit(id string) (core.Note, bool) {
	note, ok := s.store.Get(id)
	if !ok {
		return core.Note{}, false
	}
	s.undo.Clear()

	s.mu.Lock()
	s.editing = id
	s.mu.Unlock()
	return note, true
}

// CancelEdit leaves edit mode.
func (s *Session) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editing = ""
}

// Submit creates a note, or updates the one being edited, from form input.
// Pending undo entries are discarded and edit mode ends. When the note being
// edited no longer exists the submit is a no-op and ok is false.
func (s *Session) Submit(ctx context.Context, draft core.Draft) (core.Note, bool, error) {
	s.undo.Clear()

	s.mu.Lock()
	editing := s.editing
	s.editing = ""
	s.mu.Unlock()

	if editing != "" {
		return s.update(ctx, editing, draft)
	}

	var todos []core.Todo
	if draft.Checklist != nil {
		todos = s.config.Normalizer.TodosFromText(nil, *draft.Checklist)
	}
	note, err := s.store.Create(ctx, draft.Title, draft.Content, draft.Color, todos)
	return note, true, err
}

// update applies the draft as a single patch, so the edit is written once.
func (s *Session) update(ctx context.Context, id string, draft core.Draft) (core.Note, bool, error) {
	current, ok := s.store.Get(id)
	if !ok {
		s.logger.Debug("edited note no longer exists", "id", id)
		return core.Note{}, false, nil
	}

	patch := core.Patch{Title: &draft.Title, Content: &draft.Content}
	if draft.Color != "" {
		patch.Color = &draft.Color
	}
	if draft.Checklist != nil {
		todos := s.config.Normalizer.TodosFromText(current.Todos, *draft.Checklist)
		patch.Todos = &todos
	}
	return s.store.Update(ctx, id, patch)
}

// Delete removes a note and pushes an undo entry for it. Deleting the note
// being edited leaves edit mode.
func (s *Session) Delete(ctx context.Context, id string) (undo.Entry, bool, error) {
	removed, ok, err := s.store.Delete(ctx, id)
	if !ok {
		return undo.Entry{}, false, err
	}

	s.mu.Lock()
	if s.editing == id {
		s.editing = ""
	}
	s.mu.Unlock()

	return s.undo.Push(removed.Note, removed.Index), true, err
}

// Undo replays one entry.
func (s *Session) Undo(ctx context.Context, entryID string) (core.Note, bool, error) {
	return s.undo.Undo(ctx, entryID)
}

// UndoLatest replays the most recent entry.
func (s *Session) UndoLatest(ctx context.Context) (core.Note, bool, error) {
	return s.undo.UndoLatest(ctx)
}

// Dismiss drops an entry without replaying it.
func (s *Session) Dismiss(entryID string) bool {
	return s.undo.Dismiss(entryID)
}

// Watch reloads the store whenever another writer changes the storage key,
// and reports each reload on the returned channel. The channel is closed
// when ctx is done. Backends that cannot be watched yield an error.
func (s *Session) Watch(ctx context.Context) (<-chan core.Event, error) {
	w, ok := s.gateway.Storage().(core.Watchable)
	if !ok {
		return nil, core.ErrNotWatchable
	}
	upstream, err := w.Watch(ctx, s.gateway.Key())
	if err != nil {
		return nil, fmt.Errorf("failed to watch %s: %w", s.gateway.Key(), err)
	}

	out := make(chan core.Event, s.config.EventBuffer)
	s.mu.Lock()
	s.watches++
	s.mu.Unlock()

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(out)
		defer func() {
			s.mu.Lock()
			s.watches--
			s.mu.Unlock()
		}()
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-upstream:
				if !ok {
					return nil
				}
				if reloaded := s.handleExternal(ctx, e); reloaded {
					select {
					case out <- core.Event{Type: core.EventReload, Key: e.Key, Timestamp: time.Now().Unix()}:
					default:
						s.logger.Warn("dropping reload event, consumer too slow")
					}
				}
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		s.logger.Error("session watch panic", "error", err)
	}))

	return out, nil
}

// handleExternal reloads when the stored blob differs from the session's.
func (s *Session) handleExternal(ctx context.Context, e core.Event) bool {
	changed, err := s.gateway.Changed(ctx)
	if err != nil {
		s.logger.Error("failed to check storage", "key", e.Key, "error", err)
		return false
	}
	if !changed {
		return false
	}

	if _, err := s.store.Reload(ctx); err != nil {
		s.logger.Error("failed to reload notes", "key", e.Key, "error", err)
		return false
	}
	// Undo snapshots would resurrect notes the other writer removed on purpose.
	s.undo.Clear()
	s.logger.Info("notes reloaded after external change", "key", e.Key, "count", s.store.Len())
	return true
}

// Close discards pending undo entries and closes the backend if it holds
// resources.
func (s *Session) Close() error {
	s.undo.Clear()
	if c, ok := s.gateway.Storage().(io.Closer); ok {
		return c.Close()
	}
	return nil
}
