package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/sticky"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load notes from a JSON or YAML file",
	Long: `Import replaces the board with the notes in the file. With --merge, notes
whose id is not on the board yet are appended instead. Malformed records are
dropped and reported.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		merge, _ := cmd.Flags().GetBool("merge")

		codec, err := codecFor(format, args[0])
		if err != nil {
			return err
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		return withSession(cmd, func(ctx context.Context, s *sticky.Session) error {
			notes, report := s.Gateway().DecodeWith(codec, data)
			if report.Corrupt {
				return fmt.Errorf("%s is not a %s list of notes", args[0], codec.Name())
			}
			for _, d := range report.Dropped {
				fmt.Fprintf(cmd.ErrOrStderr(), "Skipped record %d: %s\n", d.Index+1, d.Reason)
			}

			if !merge {
				s.CancelEdit()
				if err := s.Gateway().Save(ctx, notes); err != nil {
					return err
				}
				if _, err := s.Notes().Reload(ctx); err != nil {
					return err
				}
				s.UndoStack().Clear()
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d notes.\n", len(notes))
				return nil
			}

			added := 0
			for _, n := range notes {
				_, ok, err := s.Notes().Insert(ctx, n, s.Notes().Len())
				if err != nil {
					return err
				}
				if ok {
					added++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Merged %d of %d notes.\n", added, len(notes))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringP("format", "f", "", "Input format: json or yaml (default from extension)")
	importCmd.Flags().Bool("merge", false, "Append notes missing from the board instead of replacing it")
}
