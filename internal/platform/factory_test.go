package platform_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sticky/internal/platform"
	"github.com/aretw0/sticky/pkg/adapters/fs"
	"github.com/aretw0/sticky/pkg/adapters/memory"
	"github.com/aretw0/sticky/pkg/core"
	"github.com/aretw0/sticky/pkg/undo"
)

func TestNew_FS(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "board")

	s, err := platform.New(dir, platform.WithKey("my-board"))
	require.NoError(t, err)
	defer s.Close()

	_, _, err = s.Submit(context.Background(), core.Draft{Title: "hello"})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "my-board.json"))
	assert.NoError(t, err, "temp paths are used as is")

	fsStorage, ok := s.Gateway().Storage().(*fs.Storage)
	require.True(t, ok)
	assert.Equal(t, dir, fsStorage.Dir)
}

func TestNew_DevSafetyRedirects(t *testing.T) {
	// Relative paths are re-rooted under the dev sandbox during go test.
	name := fmt.Sprintf("sticky-platform-test-%d", time.Now().UnixNano())
	s, err := platform.New(name, platform.WithAdapter("fs"))
	require.NoError(t, err)
	defer s.Close()

	fsStorage := s.Gateway().Storage().(*fs.Storage)
	want := filepath.Join(os.TempDir(), platform.DevDirName, name)
	assert.Equal(t, want, fsStorage.Dir)
	t.Cleanup(func() { _ = os.RemoveAll(want) })

	_, err = os.Stat(name)
	assert.True(t, os.IsNotExist(err), "working directory must stay untouched")
}

func TestNew_ReadOnly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sticky-notes-app.json"),
		[]byte(`[{"id":"a","title":"kept","updatedAt":"2024-01-01T00:00:00.000Z"}]`), 0644))

	s, err := platform.New(dir, platform.WithReadOnly(true))
	require.NoError(t, err)
	defer s.Close()
	require.Equal(t, 1, s.Notes().Len())

	_, _, err = s.Submit(context.Background(), core.Draft{Title: "nope"})
	assert.ErrorIs(t, err, core.ErrReadOnly)
}

func TestNew_Adapters(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	tests := []struct {
		name string
		uri  string
		opts []platform.Option
	}{
		{"memory", "", []platform.Option{platform.WithAdapter("memory")}},
		{"sqlite file", filepath.Join(t.TempDir(), "board.db"), []platform.Option{platform.WithAdapter("sqlite")}},
		{"sqlite memory", ":memory:", []platform.Option{platform.WithAdapter("sqlite")}},
		{"redis", mr.Addr(), []platform.Option{platform.WithAdapter("redis"), platform.WithRedisPrefix("t:")}},
		{"injected", "", []platform.Option{platform.WithStorage(memory.New())}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s, err := platform.Open(ctx, tt.uri, tt.opts...)
			require.NoError(t, err)
			defer s.Close()

			note, _, err := s.Submit(ctx, core.Draft{Title: "Groceries", Checklist: ptr("milk")})
			require.NoError(t, err)

			loaded, _, err := s.Gateway().Load(ctx)
			require.NoError(t, err)
			require.Len(t, loaded, 1)
			assert.Equal(t, note.ID, loaded[0].ID)
		})
	}

	assert.True(t, mr.Exists("t:sticky-notes-app"))
}

func TestNew_UnknownAdapter(t *testing.T) {
	_, err := platform.New("", platform.WithAdapter("s3"))
	assert.True(t, errors.Is(err, core.ErrUnknownAdapter))
}

func TestNew_DeterministicClockAndIDs(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	seq := 0
	s, err := platform.New("",
		platform.WithAdapter("memory"),
		platform.WithClock(func() time.Time { return fixed }),
		platform.WithIDs(func() string { seq++; return fmt.Sprintf("id-%d", seq) }),
		platform.WithUndo(undo.Timed()),
	)
	require.NoError(t, err)
	defer s.Close()

	note, _, err := s.Submit(context.Background(), core.Draft{Title: "x"})
	require.NoError(t, err)
	assert.Equal(t, "id-1", note.ID)
	assert.Equal(t, fixed, note.UpdatedAt)

	entry, ok, err := s.Delete(context.Background(), note.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "id-2", entry.ID)
}

func ptr(s string) *string { return &s }
