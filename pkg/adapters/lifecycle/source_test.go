package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stickylifecycle "github.com/aretw0/sticky/pkg/adapters/lifecycle"
	"github.com/aretw0/sticky/pkg/core"
)

func TestSourceForwardsAndCloses(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan core.Event, 1)
	src := stickylifecycle.NewSource(in)
	require.NoError(t, src.Start(ctx))

	in <- core.Event{Type: core.EventReload, Key: "sticky-notes-app"}
	select {
	case e := <-src.Events():
		assert.Equal(t, core.Event{Type: core.EventReload, Key: "sticky-notes-app"}.String(), e.String())
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for forwarded event")
	}

	close(in)
	select {
	case _, ok := <-src.Events():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("output not closed after input closed")
	}
}
