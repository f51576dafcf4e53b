package notes

import (
	"time"

	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Notes     int        `json:"notes"`
	Todos     int        `json:"todos"`
	Pending   int        `json:"pending_todos"`
	LastSaved *time.Time `json:"last_saved,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := StoreState{Notes: len(s.notes)}
	for _, n := range s.notes {
		state.Todos += len(n.Todos)
		state.Pending += n.Pending()
	}
	if !s.lastSaved.IsZero() {
		saved := s.lastSaved
		state.LastSaved = &saved
	}
	return state
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "note-store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
