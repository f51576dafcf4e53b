package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/sticky"
	"github.com/aretw0/sticky/pkg/core"
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a note",
	Long: `Edit updates the fields given as flags and bumps the note's timestamp.
--todo replaces the checklist: lines matching an existing item (ignoring
case) keep its state, new lines become pending items.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		return withSession(cmd, func(ctx context.Context, s *sticky.Session) error {
			note, ok := s.BeginEdit(args[0])
			if !ok {
				return fmt.Errorf("note not found: %s", args[0])
			}

			draft := core.Draft{Title: note.Title, Content: note.Content, Color: note.Color}
			if flags.Changed("title") {
				draft.Title, _ = flags.GetString("title")
			}
			if flags.Changed("content") {
				draft.Content, _ = flags.GetString("content")
			}
			if flags.Changed("color") {
				color, _ := flags.GetString("color")
				draft.Color = core.Color(color)
			}
			if flags.Changed("todo") {
				todos, _ := flags.GetStringArray("todo")
				text := strings.Join(todos, "\n")
				draft.Checklist = &text
			} else if clearTodos, _ := flags.GetBool("clear-todos"); clearTodos {
				empty := ""
				draft.Checklist = &empty
			}

			if err := cleanDraft(&draft); err != nil {
				s.CancelEdit()
				return err
			}

			updated, ok, err := s.Submit(ctx, draft)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("note not found: %s", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Note updated: %s\n", updated.ID)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().String("title", "", "New title")
	editCmd.Flags().String("content", "", "New content")
	editCmd.Flags().String("color", "", "New color: "+paletteNames())
	editCmd.Flags().StringArray("todo", nil, "Checklist line (repeatable); replaces the checklist")
	editCmd.Flags().Bool("clear-todos", false, "Remove every checklist item")
}
