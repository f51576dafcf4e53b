package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/sticky"
	stickylifecycle "github.com/aretw0/sticky/pkg/adapters/lifecycle"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Redraw the board whenever another process changes it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		query, _ := cmd.Flags().GetString("query")

		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}
		ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
		defer stop()

		return withSession(cmd, func(_ context.Context, s *sticky.Session) error {
			events, err := s.Watch(ctx)
			if err != nil {
				return err
			}
			source := stickylifecycle.NewSource(events)
			if err := source.Start(ctx); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			renderBoard(out, s.Notes().Search(query), query, time.Now())
			fmt.Fprintln(cmd.ErrOrStderr(), "Watching for changes. Press Ctrl+C to stop.")

			for e := range source.Events() {
				fmt.Fprintf(out, "\n--- %s ---\n", e)
				renderBoard(out, s.Notes().Search(query), query, time.Now())
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringP("query", "q", "", "Filter notes by text")
}
