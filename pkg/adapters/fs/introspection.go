package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// StorageState exposes internal state for observability.
type StorageState struct {
	Dir            string     `json:"dir"`
	ReadOnly       bool       `json:"read_only"`
	Debounce       string     `json:"debounce"`
	ActiveWatchers int        `json:"active_watchers"`
	WatcherActive  bool       `json:"watcher_active"`
	LastWrite      *time.Time `json:"last_write,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Storage) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return StorageState{
		Dir:            s.Dir,
		ReadOnly:       s.config.ReadOnly,
		Debounce:       s.config.Debounce.String(),
		ActiveWatchers: s.watchers,
		WatcherActive:  s.watchers > 0,
		LastWrite:      s.lastWrite,
	}
}

// ComponentType implements introspection.Component.
func (s *Storage) ComponentType() string {
	return "fs-storage"
}

var _ introspection.Introspectable = (*Storage)(nil)
var _ introspection.Component = (*Storage)(nil)

func (s *Storage) watcherStarted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchers++
}

func (s *Storage) watcherStopped() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchers--
}
