package platform_test

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sticky/internal/platform"
	"github.com/aretw0/sticky/pkg/core"
)

// TestConcurrency_ExternalVsInternal runs two sessions on one directory
// while an outside process drops noise files next to the board. Neither
// session may panic and the board must still decode at the end.
func TestConcurrency_ExternalVsInternal(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping stress test in short mode")
	}

	dir := t.TempDir()
	tab1, err := platform.New(dir)
	require.NoError(t, err)
	defer tab1.Close()
	tab2, err := platform.New(dir)
	require.NoError(t, err)
	defer tab2.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err = tab1.Watch(ctx)
	require.NoError(t, err)

	var wg sync.WaitGroup

	// Noise: unrelated files and editor leftovers.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for ctx.Err() == nil {
			name := fmt.Sprintf("noise-%d.json", rand.Intn(10))
			_ = os.WriteFile(filepath.Join(dir, name), []byte(`{"not":"a board"}`), 0644)
			_ = os.WriteFile(filepath.Join(dir, ".board.swp"), []byte("x"), 0644)
			time.Sleep(time.Duration(rand.Intn(10)) * time.Millisecond)
		}
	}()

	for i, tab := range []interface {
		Submit(context.Context, core.Draft) (core.Note, bool, error)
	}{tab1, tab2} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; ctx.Err() == nil; n++ {
				// Errors are tolerated; only panics and corruption fail the test.
				_, _, _ = tab.Submit(context.Background(), core.Draft{Title: fmt.Sprintf("tab%d-%d", i+1, n)})
				time.Sleep(time.Duration(rand.Intn(10)) * time.Millisecond)
			}
		}()
	}

	wg.Wait()

	fresh, err := platform.New(dir)
	require.NoError(t, err)
	defer fresh.Close()

	_, report, err := fresh.Gateway().Load(context.Background())
	require.NoError(t, err)
	assert.False(t, report.Corrupt, "the board must always be a complete write")
	assert.Empty(t, report.Dropped)
	t.Logf("Survived chaos with %d notes", report.Accepted)
}
