package undo

import (
	"github.com/aretw0/introspection"
)

// StackState exposes internal state for observability.
type StackState struct {
	Pending  int    `json:"pending"`
	Armed    int    `json:"armed_timers"`
	Capacity int    `json:"capacity"`
	TTL      string `json:"ttl"`
}

// State implements introspection.Introspectable.
func (s *Stack) State() any {
	s.mu.Lock()
	defer s.mu.Unlock()

	ttl := "none"
	if s.config.TTL > 0 {
		ttl = s.config.TTL.String()
	}
	return StackState{
		Pending:  len(s.entries),
		Armed:    len(s.timers),
		Capacity: s.config.Capacity,
		TTL:      ttl,
	}
}

// ComponentType implements introspection.Component.
func (s *Stack) ComponentType() string {
	return "undo-stack"
}

var _ introspection.Introspectable = (*Stack)(nil)
var _ introspection.Component = (*Stack)(nil)
