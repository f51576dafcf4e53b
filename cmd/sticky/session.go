package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/sticky"
)

// shared is the session of an interactive shell. One-shot commands open
// and close their own.
var shared *sticky.Session

// withSession runs fn against the configured board.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, s *sticky.Session) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if shared != nil {
		return fn(ctx, shared)
	}

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(ctx, s)
}

func openSession(ctx context.Context) (*sticky.Session, error) {
	opts, err := sessionOptions()
	if err != nil {
		return nil, err
	}
	adapter := conf.GetString("adapter")
	s, err := sticky.Open(ctx, storeURI(adapter), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open board: %w", err)
	}
	return s, nil
}

func closeShared() {
	if shared != nil {
		_ = shared.Close()
		shared = nil
	}
}
