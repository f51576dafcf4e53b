// Package memory provides an in-process core.Storage, the equivalent of a
// browser tab's local storage. Useful for tests and ephemeral sessions.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/sticky/pkg/core"
)

type subscriber struct {
	pattern string
	ch      chan core.Event
}

// Storage keeps values in a map.
type Storage struct {
	mu          sync.RWMutex
	values      map[string][]byte
	subscribers map[*subscriber]struct{}
}

// New creates an empty in-memory storage.
func New() *Storage {
	return &Storage{
		values:      make(map[string][]byte),
		subscribers: make(map[*subscriber]struct{}),
	}
}

// Get returns a copy of the stored value.
func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return nil, core.ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value and notifies watchers.
func (s *Storage) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	s.values[key] = append([]byte(nil), value...)
	subs := s.matching(key)
	s.mu.Unlock()

	s.notify(subs, core.Event{Type: core.EventModify, Key: key, Timestamp: time.Now().Unix()})
	return nil
}

// Delete removes a key. Missing keys are ignored.
func (s *Storage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	_, existed := s.values[key]
	delete(s.values, key)
	subs := s.matching(key)
	s.mu.Unlock()

	if existed {
		s.notify(subs, core.Event{Type: core.EventDelete, Key: key, Timestamp: time.Now().Unix()})
	}
	return nil
}

// Watch emits an event for every write to a key matching pattern until ctx
// is done. Slow consumers miss events rather than block writers.
func (s *Storage) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern %q", pattern)
	}

	sub := &subscriber{pattern: pattern, ch: make(chan core.Event, 16)}
	s.mu.Lock()
	s.subscribers[sub] = struct{}{}
	s.mu.Unlock()

	lifecycle.Go(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, sub)
		close(sub.ch)
		return nil
	})

	return sub.ch, nil
}

// matching must be called with s.mu held.
func (s *Storage) matching(key string) []*subscriber {
	var out []*subscriber
	for sub := range s.subscribers {
		if ok, _ := doublestar.Match(sub.pattern, key); ok {
			out = append(out, sub)
		}
	}
	return out
}

func (s *Storage) notify(subs []*subscriber, e core.Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sub := range subs {
		if _, alive := s.subscribers[sub]; !alive {
			continue
		}
		select {
		case sub.ch <- e:
		default:
		}
	}
}

var _ core.Storage = (*Storage)(nil)
var _ core.Watchable = (*Storage)(nil)
