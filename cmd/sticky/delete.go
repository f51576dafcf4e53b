package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/sticky"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete notes from the board",
	Long: `Delete removes notes. Inside the interactive shell each delete can be
reverted with 'undo' until the undo window closes.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *sticky.Session) error {
			for _, id := range args {
				entry, ok, err := s.Delete(ctx, id)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintf(cmd.OutOrStdout(), "Note not found: %s\n", id)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Note deleted: %s (undo %s)\n", id, entry.ID)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
