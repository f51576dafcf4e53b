package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/sticky"
	"github.com/aretw0/sticky/pkg/core"
)

var todoCmd = &cobra.Command{
	Use:   "todo",
	Short: "Manage a note's checklist",
	Long: `Todo subcommands take the note id first. Items are addressed by id or by
their 1-based position in the checklist.`,
}

// resolveTodo accepts a to-do id or a 1-based position.
func resolveTodo(note core.Note, ref string) (string, error) {
	for _, t := range note.Todos {
		if t.ID == ref {
			return t.ID, nil
		}
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(note.Todos) {
		return note.Todos[n-1].ID, nil
	}
	return "", fmt.Errorf("todo not found: %s", ref)
}

type todoMutation func(ctx context.Context, s *sticky.Session, noteID, todoID string) (core.Note, bool, error)

// todoItemCmd builds a subcommand acting on one existing item.
func todoItemCmd(use, short, done string, mutate todoMutation) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <note-id> <todo>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, s *sticky.Session) error {
				note, ok := s.Notes().Get(args[0])
				if !ok {
					return fmt.Errorf("note not found: %s", args[0])
				}
				todoID, err := resolveTodo(note, args[1])
				if err != nil {
					return err
				}
				_, changed, err := mutate(ctx, s, note.ID, todoID)
				if err != nil {
					return err
				}
				if !changed {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing changed.")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", done, todoID)
				return nil
			})
		},
	}
}

var todoAddCmd = &cobra.Command{
	Use:   "add <note-id> <text>...",
	Short: "Append a pending item",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *sticky.Session) error {
			note, ok, err := s.Notes().AddTodo(ctx, args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("cannot add %q to note %s", strings.Join(args[1:], " "), args[0])
			}
			last := note.Todos[len(note.Todos)-1]
			fmt.Fprintf(cmd.OutOrStdout(), "Todo added: %s\n", last.ID)
			return nil
		})
	},
}

var todoSetCmd = &cobra.Command{
	Use:   "set <note-id> <line>...",
	Short: "Replace the checklist, one item per argument",
	Long: `Set rebuilds the checklist. Lines matching an existing item (ignoring case)
keep its id, completion and priority.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *sticky.Session) error {
			note, ok, err := s.Notes().ReplaceTodosFromText(ctx, args[0], strings.Join(args[1:], "\n"))
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("note not found: %s", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Checklist set: %d/%d pending\n", note.Pending(), len(note.Todos))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(todoCmd)
	todoCmd.AddCommand(
		todoAddCmd,
		todoSetCmd,
		todoItemCmd("rm", "Remove an item", "Todo removed",
			func(ctx context.Context, s *sticky.Session, noteID, todoID string) (core.Note, bool, error) {
				return s.Notes().RemoveTodo(ctx, noteID, todoID)
			}),
		todoItemCmd("done", "Toggle completion of an item", "Todo toggled",
			func(ctx context.Context, s *sticky.Session, noteID, todoID string) (core.Note, bool, error) {
				return s.Notes().ToggleTodo(ctx, noteID, todoID)
			}),
		todoItemCmd("priority", "Toggle the priority flag of a pending item", "Priority toggled",
			func(ctx context.Context, s *sticky.Session, noteID, todoID string) (core.Note, bool, error) {
				return s.Notes().TogglePriority(ctx, noteID, todoID)
			}),
	)
}
