package memory

import (
	"github.com/aretw0/introspection"
)

// StorageState exposes internal state for observability.
type StorageState struct {
	Keys        int `json:"keys"`
	Bytes       int `json:"bytes"`
	Subscribers int `json:"subscribers"`
}

// State implements introspection.Introspectable.
func (s *Storage) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := StorageState{Keys: len(s.values), Subscribers: len(s.subscribers)}
	for _, v := range s.values {
		state.Bytes += len(v)
	}
	return state
}

// ComponentType implements introspection.Component.
func (s *Storage) ComponentType() string {
	return "memory-storage"
}

var _ introspection.Introspectable = (*Storage)(nil)
var _ introspection.Component = (*Storage)(nil)
