// Package notes holds the ordered note collection and every operation that
// mutates it. Each successful mutation is written through to the persister.
package notes

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/sticky/pkg/core"
	"github.com/aretw0/sticky/pkg/gateway"
)

// Persister is the persistence boundary used by the store.
// *gateway.Gateway implements it.
type Persister interface {
	Load(ctx context.Context) ([]core.Note, gateway.Report, error)
	Save(ctx context.Context, notes []core.Note) error
}

// Config holds the store dependencies.
type Config struct {
	Normalizer core.Normalizer
	Logger     *slog.Logger
}

// Removed is the result of a delete: the note and the index it occupied.
type Removed struct {
	Note  core.Note
	Index int
}

// Store is the ordered note collection. Index 0 is the top of the board.
//
// Operations referencing an unknown id are no-ops reported through the
// returned ok flag. Errors only come from the persister; in that case the
// in-memory state has already been updated.
type Store struct {
	mu         sync.RWMutex
	notes      []core.Note
	persister  Persister
	normalizer core.Normalizer
	logger     *slog.Logger
	lastSaved  time.Time
}

// New creates an empty store writing through to persister.
func New(persister Persister, config Config) *Store {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		notes:      []core.Note{},
		persister:  persister,
		normalizer: config.Normalizer,
		logger:     logger,
	}
}

// Open creates a store and loads its state from persister.
func Open(ctx context.Context, persister Persister, config Config) (*Store, error) {
	s := New(persister, config)
	if _, err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces the in-memory state with the persisted one.
func (s *Store) Reload(ctx context.Context) (gateway.Report, error) {
	loaded, report, err := s.persister.Load(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to load notes: %w", err)
	}

	s.mu.Lock()
	s.notes = loaded
	s.mu.Unlock()

	if len(report.Dropped) > 0 {
		s.logger.Warn("dropped invalid notes on load", "dropped", len(report.Dropped), "kept", report.Accepted)
	}
	s.logger.Debug("notes loaded", "count", len(loaded))
	return report, nil
}

func (s *Store) now() time.Time {
	now := time.Now
	if s.normalizer.Now != nil {
		now = s.normalizer.Now
	}
	return now().UTC().Truncate(time.Millisecond)
}

func (s *Store) mint() string {
	if s.normalizer.NewID != nil {
		return s.normalizer.NewID()
	}
	return core.NewID()
}

// persistLocked writes the full collection. Must be called with s.mu held.
func (s *Store) persistLocked(ctx context.Context) error {
	if err := s.persister.Save(ctx, s.notes); err != nil {
		s.logger.Error("failed to persist notes", "error", err)
		return err
	}
	s.lastSaved = time.Now()
	return nil
}

// indexLocked returns the position of id, or -1.
func (s *Store) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(s.notes, func(n core.Note) bool { return n.ID == id })
}

// --- Queries ---

// List returns a snapshot of all notes in board order.
func (s *Store) List() []core.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.notes)
}

// Len returns the number of notes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}

// Get returns a snapshot of the note with the given id.
func (s *Store) Get(id string) (core.Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexLocked(id)
	if i < 0 {
		return core.Note{}, false
	}
	return s.notes[i].Clone(), true
}

// Index returns the current position of id, or -1.
func (s *Store) Index(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexLocked(id)
}

// Search filters notes whose title, content or any to-do text contains the
// query, case-insensitively. A blank query returns every note. Board order
// is preserved.
func (s *Store) Search(query string) []core.Note {
	q := strings.ToLower(strings.TrimSpace(query))

	s.mu.RLock()
	defer s.mu.RUnlock()
	if q == "" {
		return cloneAll(s.notes)
	}

	out := []core.Note{}
	for _, n := range s.notes {
		if matches(n, q) {
			out = append(out, n.Clone())
		}
	}
	return out
}

func matches(n core.Note, q string) bool {
	if strings.Contains(strings.ToLower(n.Title), q) || strings.Contains(strings.ToLower(n.Content), q) {
		return true
	}
	for _, t := range n.Todos {
		if strings.Contains(strings.ToLower(t.Text), q) {
			return true
		}
	}
	return false
}

// --- Mutations ---

// Create adds a new note at the top of the board. An empty color resolves
// to the default; todos are sanitized.
func (s *Store) Create(ctx context.Context, title, content string, color core.Color, todos []core.Todo) (core.Note, error) {
	note := core.Note{
		ID:        s.mint(),
		Title:     title,
		Content:   content,
		Color:     core.NormalizeColor(color),
		Todos:     s.normalizer.Sanitize(todos),
		UpdatedAt: s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = slices.Insert(s.notes, 0, note)
	s.logger.Debug("note created", "id", note.ID)
	return note.Clone(), s.persistLocked(ctx)
}

// Update merges the provided fields into a note and bumps UpdatedAt.
func (s *Store) Update(ctx context.Context, id string, patch core.Patch) (core.Note, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	note, ok := s.applyLocked(id, patch)
	if !ok {
		return core.Note{}, false, nil
	}
	return note, true, s.persistLocked(ctx)
}

// applyLocked merges patch into the note without persisting.
func (s *Store) applyLocked(id string, patch core.Patch) (core.Note, bool) {
	i := s.indexLocked(id)
	if i < 0 {
		return core.Note{}, false
	}

	n := s.notes[i]
	if patch.Title != nil {
		n.Title = *patch.Title
	}
	if patch.Content != nil {
		n.Content = *patch.Content
	}
	if patch.Color != nil {
		n.Color = core.NormalizeColor(*patch.Color)
	}
	if patch.Todos != nil {
		n.Todos = s.normalizer.Sanitize(*patch.Todos)
	}
	n.UpdatedAt = s.now()
	s.notes[i] = n

	s.logger.Debug("note updated", "id", id)
	return n.Clone(), true
}

// Delete removes a note and reports where it was, for undo.
func (s *Store) Delete(ctx context.Context, id string) (Removed, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return Removed{}, false, nil
	}
	removed := Removed{Note: s.notes[i].Clone(), Index: i}
	s.notes = slices.Delete(s.notes, i, i+1)

	s.logger.Debug("note deleted", "id", id, "index", i)
	return removed, true, s.persistLocked(ctx)
}

// Insert puts a note back at min(index, Len()). It is a no-op when a note
// with the same id is already present.
func (s *Store) Insert(ctx context.Context, note core.Note, index int) (core.Note, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexLocked(note.ID) >= 0 || note.ID == "" {
		return core.Note{}, false, nil
	}
	index = max(0, min(index, len(s.notes)))
	s.notes = slices.Insert(s.notes, index, note.Clone())

	s.logger.Debug("note restored", "id", note.ID, "index", index)
	return note.Clone(), true, s.persistLocked(ctx)
}

// Restore implements undo.Restorer.
func (s *Store) Restore(ctx context.Context, note core.Note, index int) (core.Note, bool, error) {
	return s.Insert(ctx, note, index)
}

// Reorder moves the dragged note next to the target: before it when before
// is true, after it otherwise. An empty or unknown target moves the note to
// the end. Dragging a note onto itself or an unknown note is a no-op.
func (s *Store) Reorder(ctx context.Context, draggedID, targetID string, before bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	from := s.indexLocked(draggedID)
	if from < 0 || draggedID == targetID {
		return false, nil
	}

	dragged := s.notes[from]
	s.notes = slices.Delete(s.notes, from, from+1)

	to := s.indexLocked(targetID)
	switch {
	case to < 0:
		to = len(s.notes)
	case !before:
		to++
	}
	s.notes = slices.Insert(s.notes, to, dragged)

	s.logger.Debug("note moved", "id", draggedID, "from", from, "to", to)
	return true, s.persistLocked(ctx)
}

// --- To-do operations ---

// mutateTodos routes a checklist transformation through the update path.
// fn returns the new list and false to signal a no-op.
func (s *Store) mutateTodos(ctx context.Context, noteID string, fn func(todos []core.Todo) ([]core.Todo, bool)) (core.Note, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(noteID)
	if i < 0 {
		return core.Note{}, false, nil
	}

	current := s.notes[i].Clone().Todos
	next, ok := fn(current)
	if !ok {
		return s.notes[i].Clone(), false, nil
	}

	note, _ := s.applyLocked(noteID, core.Patch{Todos: &next})
	return note, true, s.persistLocked(ctx)
}

func findTodo(todos []core.Todo, id string) int {
	return slices.IndexFunc(todos, func(t core.Todo) bool { return t.ID == id })
}

// AddTodo appends a pending to-do. Blank text is a no-op.
func (s *Store) AddTodo(ctx context.Context, noteID, text string) (core.Note, bool, error) {
	text = core.NormalizeText(text)
	return s.mutateTodos(ctx, noteID, func(todos []core.Todo) ([]core.Todo, bool) {
		if text == "" {
			return nil, false
		}
		return append(todos, core.Todo{ID: s.mint(), Text: text, CreatedAt: s.now()}), true
	})
}

// RemoveTodo deletes a to-do from a note.
func (s *Store) RemoveTodo(ctx context.Context, noteID, todoID string) (core.Note, bool, error) {
	return s.mutateTodos(ctx, noteID, func(todos []core.Todo) ([]core.Todo, bool) {
		i := findTodo(todos, todoID)
		if i < 0 {
			return nil, false
		}
		return slices.Delete(todos, i, i+1), true
	})
}

// ToggleTodo flips completion. Completing clears priority and stamps
// CompletedAt; reopening clears CompletedAt.
func (s *Store) ToggleTodo(ctx context.Context, noteID, todoID string) (core.Note, bool, error) {
	return s.mutateTodos(ctx, noteID, func(todos []core.Todo) ([]core.Todo, bool) {
		i := findTodo(todos, todoID)
		if i < 0 {
			return nil, false
		}
		t := &todos[i]
		t.Completed = !t.Completed
		if t.Completed {
			now := s.now()
			t.Priority = false
			t.CompletedAt = &now
		} else {
			t.CompletedAt = nil
		}
		return todos, true
	})
}

// TogglePriority flips the priority flag of a pending to-do.
// Completed to-dos cannot be prioritized.
func (s *Store) TogglePriority(ctx context.Context, noteID, todoID string) (core.Note, bool, error) {
	return s.mutateTodos(ctx, noteID, func(todos []core.Todo) ([]core.Todo, bool) {
		i := findTodo(todos, todoID)
		if i < 0 || todos[i].Completed {
			return nil, false
		}
		todos[i].Priority = !todos[i].Priority
		return todos, true
	})
}

// ReplaceTodosFromText rebuilds the checklist from multi-line text, keeping
// the identity and flags of lines that were already present.
func (s *Store) ReplaceTodosFromText(ctx context.Context, noteID, text string) (core.Note, bool, error) {
	return s.mutateTodos(ctx, noteID, func(todos []core.Todo) ([]core.Todo, bool) {
		return s.normalizer.TodosFromText(todos, text), true
	})
}

func cloneAll(notes []core.Note) []core.Note {
	out := make([]core.Note, len(notes))
	for i, n := range notes {
		out[i] = n.Clone()
	}
	return out
}
