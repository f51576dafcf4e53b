// Package undo keeps the pending delete-reversal entries shown to the user.
package undo

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/sticky/pkg/core"
)

// DefaultTTL is the lifetime of an entry under the Timed policy.
const DefaultTTL = 5 * time.Second

// Restorer puts a deleted note back at (at most) its former index.
type Restorer interface {
	Restore(ctx context.Context, note core.Note, index int) (core.Note, bool, error)
}

// Entry is a reversible record of a just-deleted note.
type Entry struct {
	ID        string
	Note      core.Note
	Index     int
	CreatedAt time.Time
}

// Config selects the interaction model.
type Config struct {
	// Capacity bounds the number of pending entries; older ones are
	// discarded first. Zero means unbounded.
	Capacity int
	// TTL expires each entry after the duration. Zero disables expiry.
	TTL time.Duration
	// OnExpire is called (outside the stack lock) when an entry times out.
	OnExpire func(Entry)
	NewID    core.IDSource
	Logger   *slog.Logger
}

// Stacked is the multi-slot policy: every delete gets its own entry and
// entries stay until undone, dismissed or cleared.
func Stacked() Config {
	return Config{}
}

// Timed is the single-slot snackbar policy: a new delete replaces the
// pending one and entries expire after DefaultTTL.
func Timed() Config {
	return Config{Capacity: 1, TTL: DefaultTTL}
}

// Stack is a LIFO collection of undo entries, latest last.
type Stack struct {
	mu       sync.Mutex
	entries  []Entry
	timers   map[string]*time.Timer
	restorer Restorer
	config   Config
	logger   *slog.Logger
}

// New creates a stack replaying entries through restorer.
func New(restorer Restorer, config Config) *Stack {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if config.NewID == nil {
		config.NewID = core.NewID
	}
	return &Stack{
		timers:   make(map[string]*time.Timer),
		restorer: restorer,
		config:   config,
		logger:   logger,
	}
}

// Push records a deleted note and its pre-removal index.
func (s *Stack) Push(note core.Note, index int) Entry {
	entry := Entry{
		ID:        s.config.NewID(),
		Note:      note.Clone(),
		Index:     index,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config.Capacity > 0 {
		for len(s.entries) >= s.config.Capacity {
			s.removeLocked(s.entries[0].ID)
		}
	}
	s.entries = append(s.entries, entry)
	s.armLocked(entry)

	s.logger.Debug("undo entry pushed", "entry", entry.ID, "note", note.ID, "index", index)
	return entry
}

// armLocked starts the expiry timer of an entry, replacing any prior one.
func (s *Stack) armLocked(entry Entry) {
	if s.config.TTL <= 0 {
		return
	}
	if t, ok := s.timers[entry.ID]; ok {
		t.Stop()
	}
	id := entry.ID
	s.timers[id] = time.AfterFunc(s.config.TTL, func() { s.expire(id) })
}

func (s *Stack) expire(id string) {
	s.mu.Lock()
	entry, ok := s.removeLocked(id)
	s.mu.Unlock()
	if !ok {
		return
	}

	s.logger.Debug("undo entry expired", "entry", id, "note", entry.Note.ID)
	if s.config.OnExpire != nil {
		s.config.OnExpire(entry)
	}
}

// removeLocked drops an entry and cancels its timer.
func (s *Stack) removeLocked(id string) (Entry, bool) {
	i := slices.IndexFunc(s.entries, func(e Entry) bool { return e.ID == id })
	if i < 0 {
		return Entry{}, false
	}
	entry := s.entries[i]
	s.entries = slices.Delete(s.entries, i, i+1)
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
	return entry, true
}

// Undo replays an entry into the store and removes it. Unknown or already
// consumed entries are no-ops.
func (s *Stack) Undo(ctx context.Context, id string) (core.Note, bool, error) {
	s.mu.Lock()
	entry, ok := s.removeLocked(id)
	s.mu.Unlock()
	if !ok {
		return core.Note{}, false, nil
	}

	s.logger.Debug("undo entry replayed", "entry", id, "note", entry.Note.ID, "index", entry.Index)
	return s.restorer.Restore(ctx, entry.Note, entry.Index)
}

// UndoLatest replays the most recent entry.
func (s *Stack) UndoLatest(ctx context.Context) (core.Note, bool, error) {
	latest, ok := s.Latest()
	if !ok {
		return core.Note{}, false, nil
	}
	return s.Undo(ctx, latest.ID)
}

// Dismiss removes an entry without replaying it.
func (s *Stack) Dismiss(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.removeLocked(id)
	return ok
}

// Clear removes every pending entry.
func (s *Stack) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.timers {
		t.Stop()
	}
	if len(s.entries) > 0 {
		s.logger.Debug("undo entries cleared", "count", len(s.entries))
	}
	s.entries = nil
	s.timers = make(map[string]*time.Timer)
}

// Entries returns the pending entries, oldest first.
func (s *Stack) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	for i, e := range s.entries {
		e.Note = e.Note.Clone()
		out[i] = e
	}
	return out
}

// Latest returns the most recent entry.
func (s *Stack) Latest() (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) == 0 {
		return Entry{}, false
	}
	e := s.entries[len(s.entries)-1]
	e.Note = e.Note.Clone()
	return e, true
}

// Len returns the number of pending entries.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
