// Package redis keeps stored keys as Redis strings and announces writes on a
// pub/sub channel so other sessions sharing the server can reload.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	goredis "github.com/redis/go-redis/v9"

	"github.com/aretw0/sticky/pkg/core"
)

// DefaultChannel is the pub/sub channel (after the prefix) carrying changes.
const DefaultChannel = "sticky:changes"

// Config holds the configuration for the Redis storage.
type Config struct {
	// Prefix is prepended to every key, e.g. "sticky:".
	Prefix   string
	Channel  string
	ReadOnly bool
	Logger   *slog.Logger
}

// Storage implements core.Storage on a Redis client.
type Storage struct {
	client *goredis.Client
	config Config
	owned  bool
}

// New wraps an existing client. Close leaves it open.
func New(client *goredis.Client, config Config) *Storage {
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	if config.Channel == "" {
		config.Channel = DefaultChannel
	}
	return &Storage{client: client, config: config}
}

// Dial connects to the server at url ("redis://host:port/db" or "host:port").
func Dial(url string, config Config) (*Storage, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		opts = &goredis.Options{Addr: url}
	}
	s := New(goredis.NewClient(opts), config)
	s.owned = true
	return s, nil
}

// Initialize checks the server is reachable.
func (s *Storage) Initialize(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("pinging redis: %w", err)
	}
	return nil
}

// Close closes the client when this storage created it.
func (s *Storage) Close() error {
	if !s.owned {
		return nil
	}
	return s.client.Close()
}

func (s *Storage) redisKey(key string) string {
	return s.config.Prefix + key
}

func (s *Storage) channel() string {
	return s.config.Prefix + s.config.Channel
}

// Get returns the value of key.
func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.redisKey(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, core.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting key %s: %w", key, err)
	}
	return data, nil
}

// Set stores value under key without expiry and publishes the change.
func (s *Storage) Set(ctx context.Context, key string, value []byte) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	_, err := s.client.Pipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, s.redisKey(key), value, 0)
		pipe.Publish(ctx, s.channel(), encodeChange(core.EventModify, key))
		return nil
	})
	if err != nil {
		return fmt.Errorf("setting key %s: %w", key, err)
	}
	return nil
}

// Delete removes key and publishes the change. Missing keys are ignored.
func (s *Storage) Delete(ctx context.Context, key string) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	n, err := s.client.Del(ctx, s.redisKey(key)).Result()
	if err != nil {
		return fmt.Errorf("deleting key %s: %w", key, err)
	}
	if n > 0 {
		_ = s.client.Publish(ctx, s.channel(), encodeChange(core.EventDelete, key)).Err()
	}
	return nil
}

// Keys lists the keys under the prefix.
func (s *Storage) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, s.config.Prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), s.config.Prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scanning keys: %w", err)
	}
	return keys, nil
}

func encodeChange(t core.EventType, key string) string {
	return string(t) + " " + key
}

func decodeChange(payload string) (core.Event, bool) {
	t, key, ok := strings.Cut(payload, " ")
	if !ok || key == "" {
		return core.Event{}, false
	}
	switch core.EventType(t) {
	case core.EventModify, core.EventDelete:
	default:
		return core.Event{}, false
	}
	return core.Event{Type: core.EventType(t), Key: key, Timestamp: time.Now().Unix()}, true
}

// Watch subscribes to the change channel and emits events for keys matching
// pattern until ctx is done.
func (s *Storage) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern %q", pattern)
	}

	sub := s.client.Subscribe(ctx, s.channel())
	// Wait for the confirmation so no write is missed after Watch returns.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribing to %s: %w", s.channel(), err)
	}

	events := make(chan core.Event, 16)
	messages := sub.Channel()
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(events)
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return nil
			case msg, ok := <-messages:
				if !ok {
					return nil
				}
				e, valid := decodeChange(msg.Payload)
				if !valid {
					s.config.Logger.Debug("ignoring malformed change message", "payload", msg.Payload)
					continue
				}
				if match, _ := doublestar.Match(pattern, e.Key); !match {
					continue
				}
				select {
				case events <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		s.config.Logger.Error("redis watcher panic", "error", err)
	}))

	return events, nil
}

var (
	_ core.Storage     = (*Storage)(nil)
	_ core.Initializer = (*Storage)(nil)
	_ core.Watchable   = (*Storage)(nil)
)
