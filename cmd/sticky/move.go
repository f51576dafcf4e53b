package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/sticky"
)

var moveCmd = &cobra.Command{
	Use:   "move <id> (--before <target> | --after <target>)",
	Short: "Reorder a note relative to another",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		before, _ := cmd.Flags().GetString("before")
		after, _ := cmd.Flags().GetString("after")

		target, placeBefore := before, true
		if after != "" {
			target, placeBefore = after, false
		}
		if target == "" {
			return errors.New("one of --before or --after is required")
		}

		return withSession(cmd, func(ctx context.Context, s *sticky.Session) error {
			if _, ok := s.Notes().Get(target); !ok {
				return fmt.Errorf("note not found: %s", target)
			}
			moved, err := s.Notes().Reorder(ctx, args[0], target, placeBefore)
			if err != nil {
				return err
			}
			if !moved {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing moved.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Note moved to #%d\n", s.Notes().Index(args[0])+1)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(moveCmd)
	moveCmd.Flags().String("before", "", "Place the note before this one")
	moveCmd.Flags().String("after", "", "Place the note after this one")
	moveCmd.MarkFlagsMutuallyExclusive("before", "after")
}
