package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/sticky"
	"github.com/aretw0/sticky/pkg/core"
)

var addCmd = &cobra.Command{
	Use:   "add <title> <content>",
	Short: "Add a note at the top of the board",
	Long: `Add creates a note. Colors outside the palette fall back to yellow.
Each --todo adds a checklist line.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		draft := core.Draft{Title: args[0], Content: args[1]}
		color, _ := cmd.Flags().GetString("color")
		draft.Color = core.Color(color)
		if todos, _ := cmd.Flags().GetStringArray("todo"); len(todos) > 0 {
			text := strings.Join(todos, "\n")
			draft.Checklist = &text
		}
		if err := cleanDraft(&draft); err != nil {
			return err
		}

		return withSession(cmd, func(ctx context.Context, s *sticky.Session) error {
			s.CancelEdit()
			note, _, err := s.Submit(ctx, draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Note added: %s\n", note.ID)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().String("color", "", "Note color: "+paletteNames())
	addCmd.Flags().StringArray("todo", nil, "Checklist line (repeatable)")
}

// cleanDraft trims the form fields and rejects a blank title or content.
func cleanDraft(d *core.Draft) error {
	d.Title = strings.TrimSpace(d.Title)
	d.Content = strings.TrimSpace(d.Content)
	switch {
	case d.Title == "":
		return errors.New("title must not be empty")
	case d.Content == "":
		return errors.New("content must not be empty")
	}
	return nil
}

func paletteNames() string {
	names := make([]string, 0, len(core.Palette()))
	for _, c := range core.Palette() {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}
