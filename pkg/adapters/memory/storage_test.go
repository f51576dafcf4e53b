package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sticky/pkg/adapters/memory"
	"github.com/aretw0/sticky/pkg/core"
)

func TestStorage_GetSet(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrKeyNotFound)

	value := []byte(`[{"id":"1"}]`)
	require.NoError(t, s.Set(ctx, "notes", value))

	// Caller mutations must not leak into the store.
	value[0] = 'X'
	got, err := s.Get(ctx, "notes")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, string(got))

	require.NoError(t, s.Delete(ctx, "notes"))
	_, err = s.Get(ctx, "notes")
	assert.ErrorIs(t, err, core.ErrKeyNotFound)
}

func TestStorage_Watch(t *testing.T) {
	s := memory.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := s.Watch(ctx, "sticky-*")
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, "other", []byte("x")))
	require.NoError(t, s.Set(ctx, "sticky-notes-app", []byte("[]")))

	select {
	case e := <-events:
		assert.Equal(t, core.EventModify, e.Type)
		assert.Equal(t, "sticky-notes-app", e.Key)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for watch event")
	}

	cancel()
	require.Eventually(t, func() bool {
		_, open := <-events
		return !open
	}, time.Second, 10*time.Millisecond)
}

func TestStorage_WatchInvalidPattern(t *testing.T) {
	_, err := memory.New().Watch(context.Background(), "[")
	assert.Error(t, err)
}

func TestStorage_State(t *testing.T) {
	s := memory.New()
	require.NoError(t, s.Set(context.Background(), "a", []byte("12345")))

	state, ok := s.State().(memory.StorageState)
	require.True(t, ok)
	assert.Equal(t, 1, state.Keys)
	assert.Equal(t, 5, state.Bytes)
	assert.Equal(t, "memory-storage", s.ComponentType())
}
