package platform_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sticky/internal/platform"
	"github.com/aretw0/sticky/pkg/core"
)

// TestReadOnlyMode ensures read-only boards load but never touch storage.
func TestReadOnlyMode(t *testing.T) {
	tests := []struct {
		name    string
		adapter string
		uri     func(dir string) string
	}{
		{"fs", "fs", func(dir string) string { return dir }},
		{"sqlite", "sqlite", func(dir string) string { return filepath.Join(dir, "board.db") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			uri := tt.uri(t.TempDir())

			// Populate the board with a writable session first.
			writer, err := platform.Open(ctx, uri, platform.WithAdapter(tt.adapter))
			require.NoError(t, err)
			note, _, err := writer.Submit(ctx, core.Draft{Title: "existing"})
			require.NoError(t, err)
			require.NoError(t, writer.Close())

			ro, err := platform.Open(ctx, uri, platform.WithAdapter(tt.adapter), platform.WithReadOnly(true))
			require.NoError(t, err)
			defer ro.Close()

			got, ok := ro.Notes().Get(note.ID)
			require.True(t, ok)
			assert.Equal(t, "existing", got.Title)

			_, _, err = ro.Submit(ctx, core.Draft{Title: "forbidden"})
			assert.ErrorIs(t, err, core.ErrReadOnly)

			_, _, err = ro.Delete(ctx, note.ID)
			assert.ErrorIs(t, err, core.ErrReadOnly)

			// Storage still holds the original board.
			loaded, _, err := ro.Gateway().Load(ctx)
			require.NoError(t, err)
			require.Len(t, loaded, 1)
			assert.Equal(t, note.ID, loaded[0].ID)
		})
	}
}

func TestReadOnlyMode_MissingDirIsNotCreated(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "absent")

	s, err := platform.New(dir, platform.WithReadOnly(true))
	require.NoError(t, err)
	defer s.Close()
	assert.Zero(t, s.Notes().Len())

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}
