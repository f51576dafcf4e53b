package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sticky/pkg/adapters/memory"
	"github.com/aretw0/sticky/pkg/core"
	"github.com/aretw0/sticky/pkg/gateway"
	"github.com/aretw0/sticky/pkg/session"
	"github.com/aretw0/sticky/pkg/undo"
)

func openSession(t *testing.T, storage core.Storage, config session.Config) *session.Session {
	t.Helper()
	gw := gateway.New(storage, gateway.Config{})
	s, err := session.Open(context.Background(), gw, config)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func checklist(s string) *string { return &s }

func TestSubmit_CreatesThenUpdates(t *testing.T) {
	ctx := context.Background()
	s := openSession(t, memory.New(), session.Config{})

	created, _, err := s.Submit(ctx, core.Draft{Title: "Groceries", Content: "buy stuff", Checklist: checklist("milk\neggs")})
	require.NoError(t, err)
	require.Len(t, created.Todos, 2)
	assert.Equal(t, core.DefaultColor, created.Color)

	_, ok := s.BeginEdit(created.ID)
	require.True(t, ok)
	id, editing := s.Editing()
	assert.True(t, editing)
	assert.Equal(t, created.ID, id)

	updated, _, err := s.Submit(ctx, core.Draft{Title: "Groceries", Content: "buy more", Color: core.ColorBlue, Checklist: checklist("eggs\nbread")})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "buy more", updated.Content)
	assert.Equal(t, core.ColorBlue, updated.Color)
	require.Len(t, updated.Todos, 2)
	assert.Equal(t, created.Todos[1].ID, updated.Todos[0].ID, "matched lines keep their todo")

	_, editing = s.Editing()
	assert.False(t, editing, "submit leaves edit mode")
	assert.Equal(t, 1, s.Notes().Len())
}

// countingStorage records how many times the notes blob is written.
type countingStorage struct {
	core.Storage
	sets int
}

func (c *countingStorage) Set(ctx context.Context, key string, value []byte) error {
	c.sets++
	return c.Storage.Set(ctx, key, value)
}

func TestSubmit_EditWritesOnce(t *testing.T) {
	ctx := context.Background()
	storage := &countingStorage{Storage: memory.New()}
	s := openSession(t, storage, session.Config{})

	created, _, err := s.Submit(ctx, core.Draft{Title: "Gym", Content: "legs", Checklist: checklist("squat")})
	require.NoError(t, err)
	_, ok := s.BeginEdit(created.ID)
	require.True(t, ok)

	before := storage.sets
	updated, ok, err := s.Submit(ctx, core.Draft{Title: "Gym", Content: "arms", Color: core.ColorGreen, Checklist: checklist("curl\nsquat")})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, storage.sets-before)
	assert.Equal(t, "arms", updated.Content)
	assert.Equal(t, core.ColorGreen, updated.Color)
	require.Len(t, updated.Todos, 2)
}

func TestBeginEdit_UnknownNote(t *testing.T) {
	s := openSession(t, memory.New(), session.Config{})
	_, ok := s.BeginEdit("missing")
	assert.False(t, ok)
	_, editing := s.Editing()
	assert.False(t, editing)
}

func TestDeleteAndUndo_Groceries(t *testing.T) {
	ctx := context.Background()
	storage := memory.New()
	s := openSession(t, storage, session.Config{Undo: undo.Stacked()})

	groceries, _, err := s.Submit(ctx, core.Draft{Title: "Groceries", Content: "buy stuff"})
	require.NoError(t, err)

	entry, ok, err := s.Delete(ctx, groceries.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0, s.Notes().Len())
	assert.Equal(t, 1, s.UndoStack().Len())

	restored, ok, err := s.Undo(ctx, entry.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, groceries, restored)
	assert.Equal(t, 0, s.UndoStack().Len())

	reopened := openSession(t, storage, session.Config{})
	list := reopened.Notes().List()
	require.Len(t, list, 1)
	assert.Equal(t, groceries.ID, list[0].ID)
}

func TestDelete_UnknownIsNoop(t *testing.T) {
	s := openSession(t, memory.New(), session.Config{})
	_, ok, err := s.Delete(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, s.UndoStack().Len())
}

func TestEditClearsUndo(t *testing.T) {
	ctx := context.Background()
	s := openSession(t, memory.New(), session.Config{})

	a, _, err := s.Submit(ctx, core.Draft{Title: "A"})
	require.NoError(t, err)
	b, _, err := s.Submit(ctx, core.Draft{Title: "B"})
	require.NoError(t, err)

	_, ok, err := s.Delete(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, s.UndoStack().Len())

	_, ok = s.BeginEdit(b.ID)
	require.True(t, ok)
	assert.Equal(t, 0, s.UndoStack().Len())

	_, ok, err = s.UndoLatest(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteWhileEditing(t *testing.T) {
	ctx := context.Background()
	s := openSession(t, memory.New(), session.Config{})

	note, _, err := s.Submit(ctx, core.Draft{Title: "Draft"})
	require.NoError(t, err)
	_, ok := s.BeginEdit(note.ID)
	require.True(t, ok)

	_, ok, err = s.Delete(ctx, note.ID)
	require.NoError(t, err)
	require.True(t, ok)

	_, editing := s.Editing()
	assert.False(t, editing)
}

func TestSubmit_EditedNoteVanished(t *testing.T) {
	ctx := context.Background()
	s := openSession(t, memory.New(), session.Config{})

	note, _, err := s.Submit(ctx, core.Draft{Title: "Draft", Content: "body"})
	require.NoError(t, err)
	_, ok := s.BeginEdit(note.ID)
	require.True(t, ok)

	// Removed behind the session's back, so edit mode is still on.
	_, ok, err = s.Notes().Delete(ctx, note.ID)
	require.NoError(t, err)
	require.True(t, ok)
	before := s.Notes().Len()

	got, ok, err := s.Submit(ctx, core.Draft{Title: "Draft again", Content: "body"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, got.ID)
	assert.Equal(t, before, s.Notes().Len())

	_, editing := s.Editing()
	assert.False(t, editing)
}

func TestDismiss(t *testing.T) {
	ctx := context.Background()
	s := openSession(t, memory.New(), session.Config{})

	note, _, err := s.Submit(ctx, core.Draft{Title: "Gone"})
	require.NoError(t, err)
	entry, _, err := s.Delete(ctx, note.ID)
	require.NoError(t, err)

	assert.True(t, s.Dismiss(entry.ID))
	_, ok, err := s.Undo(ctx, entry.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Notes().Len())
}

func TestWatch_ReloadsOnExternalWrite(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storage := memory.New()
	s := openSession(t, storage, session.Config{})
	other := openSession(t, storage, session.Config{})

	events, err := s.Watch(ctx)
	require.NoError(t, err)

	// Our own writes do not trigger a reload.
	_, _, err = s.Submit(ctx, core.Draft{Title: "mine"})
	require.NoError(t, err)

	// The other session still has its stale view; reload it first so its
	// write keeps our note.
	_, err = other.Notes().Reload(ctx)
	require.NoError(t, err)
	_, _, err = other.Submit(ctx, core.Draft{Title: "theirs"})
	require.NoError(t, err)

	select {
	case e := <-events:
		assert.Equal(t, core.EventReload, e.Type)
		assert.Equal(t, gateway.DefaultKey, e.Key)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for reload event")
	}
	assert.Equal(t, 2, s.Notes().Len())

	select {
	case e := <-events:
		t.Fatalf("unexpected extra event: %v", e)
	case <-time.After(50 * time.Millisecond):
	}

	cancel()
	require.Eventually(t, func() bool {
		_, open := <-events
		return !open
	}, time.Second, 10*time.Millisecond)
}

func TestState(t *testing.T) {
	ctx := context.Background()
	s := openSession(t, memory.New(), session.Config{})
	note, _, err := s.Submit(ctx, core.Draft{Title: "x"})
	require.NoError(t, err)
	s.BeginEdit(note.ID)

	state, ok := s.State().(session.SessionState)
	require.True(t, ok)
	assert.Equal(t, gateway.DefaultKey, state.Key)
	assert.Equal(t, note.ID, state.Editing)
	assert.Equal(t, "sticky-session", s.ComponentType())
}
