package session

import (
	"github.com/aretw0/introspection"
)

// SessionState exposes internal state for observability.
type SessionState struct {
	Key      string `json:"key"`
	Editing  string `json:"editing,omitempty"`
	Watchers int    `json:"watchers"`
	Store    any    `json:"store"`
	Undo     any    `json:"undo"`
}

// State implements introspection.Introspectable.
func (s *Session) State() any {
	s.mu.Lock()
	editing, watches := s.editing, s.watches
	s.mu.Unlock()

	return SessionState{
		Key:      s.gateway.Key(),
		Editing:  editing,
		Watchers: watches,
		Store:    s.store.State(),
		Undo:     s.undo.State(),
	}
}

// ComponentType implements introspection.Component.
func (s *Session) ComponentType() string {
	return "sticky-session"
}

var _ introspection.Introspectable = (*Session)(nil)
var _ introspection.Component = (*Session)(nil)
