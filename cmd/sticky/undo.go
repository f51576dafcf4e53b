package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/sticky"
)

var undoCmd = &cobra.Command{
	Use:   "undo [entry-id]",
	Short: "Restore the latest (or a given) deleted note",
	Long: `Undo replays a pending delete. Undo entries live in the session, so this
is only useful inside 'sticky shell'.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *sticky.Session) error {
			var (
				note sticky.Note
				ok   bool
				err  error
			)
			if len(args) == 1 {
				note, ok, err = s.Undo(ctx, args[0])
			} else {
				note, ok, err = s.UndoLatest(ctx)
			}
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to undo.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Note restored: %s\n", note.ID)
			return nil
		})
	},
}

var dismissCmd = &cobra.Command{
	Use:   "dismiss <entry-id>",
	Short: "Drop a pending undo entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *sticky.Session) error {
			if !s.Dismiss(args[0]) {
				fmt.Fprintf(cmd.OutOrStdout(), "No undo entry %s.\n", args[0])
			}
			return nil
		})
	},
}

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List pending undo entries, latest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *sticky.Session) error {
			entries := s.UndoStack().Entries()
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to undo.")
				return nil
			}
			for i := len(entries) - 1; i >= 0; i-- {
				e := entries[i]
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %q (was #%d)\n", e.ID, e.Note.Title, e.Index+1)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(undoCmd, dismissCmd, pendingCmd)
}
