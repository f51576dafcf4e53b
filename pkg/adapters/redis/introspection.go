package redis

import (
	"github.com/aretw0/introspection"
)

// StorageState exposes internal state for observability.
type StorageState struct {
	Addr       string `json:"addr"`
	Prefix     string `json:"prefix"`
	Channel    string `json:"channel"`
	ReadOnly   bool   `json:"read_only"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
}

// State implements introspection.Introspectable.
func (s *Storage) State() any {
	pool := s.client.PoolStats()
	return StorageState{
		Addr:       s.client.Options().Addr,
		Prefix:     s.config.Prefix,
		Channel:    s.channel(),
		ReadOnly:   s.config.ReadOnly,
		TotalConns: pool.TotalConns,
		IdleConns:  pool.IdleConns,
	}
}

// ComponentType implements introspection.Component.
func (s *Storage) ComponentType() string {
	return "redis-storage"
}

var _ introspection.Introspectable = (*Storage)(nil)
var _ introspection.Component = (*Storage)(nil)
