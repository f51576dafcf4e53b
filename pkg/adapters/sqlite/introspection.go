package sqlite

import (
	"github.com/aretw0/introspection"
)

// StorageState exposes internal state for observability.
type StorageState struct {
	Path            string `json:"path"`
	ReadOnly        bool   `json:"read_only"`
	PollInterval    string `json:"poll_interval"`
	OpenConnections int    `json:"open_connections"`
	InUse           int    `json:"in_use"`
}

// State implements introspection.Introspectable.
func (s *Storage) State() any {
	stats := s.db.Stats()
	return StorageState{
		Path:            s.config.Path,
		ReadOnly:        s.config.ReadOnly,
		PollInterval:    s.config.PollInterval.String(),
		OpenConnections: stats.OpenConnections,
		InUse:           stats.InUse,
	}
}

// ComponentType implements introspection.Component.
func (s *Storage) ComponentType() string {
	return "sqlite-storage"
}

var _ introspection.Introspectable = (*Storage)(nil)
var _ introspection.Component = (*Storage)(nil)
