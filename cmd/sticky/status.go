package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aretw0/introspection"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/aretw0/sticky"
	"github.com/aretw0/sticky/pkg/notes"
	"github.com/aretw0/sticky/pkg/session"
	"github.com/aretw0/sticky/pkg/undo"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the board and its storage",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		diagram, _ := cmd.Flags().GetBool("diagram")

		return withSession(cmd, func(ctx context.Context, s *sticky.Session) error {
			out := cmd.OutOrStdout()
			state, _ := s.State().(session.SessionState)

			var storageType string
			var storageState any
			if comp, ok := s.Gateway().Storage().(introspection.Component); ok {
				storageType = comp.ComponentType()
			}
			if intro, ok := s.Gateway().Storage().(introspection.Introspectable); ok {
				storageState = intro.State()
			}

			if asJSON {
				data, err := json.MarshalIndent(map[string]any{
					"session":      state,
					"storage_type": storageType,
					"storage":      storageState,
				}, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
				return nil
			}
			if diagram {
				config := introspection.DefaultDiagramConfig()
				config.SecondaryID = "board"
				config.SecondaryLabel = "Board Topology"
				fmt.Fprintln(out, introspection.TreeDiagram(buildBoardTree(state, storageType, storageType != ""), config))
				return nil
			}

			store, _ := state.Store.(notes.StoreState)
			stack, _ := state.Undo.(undo.StackState)
			fmt.Fprintf(out, "Key:      %s\n", state.Key)
			if storageType != "" {
				fmt.Fprintf(out, "Storage:  %s\n", storageType)
			}
			fmt.Fprintf(out, "Notes:    %d\n", store.Notes)
			fmt.Fprintf(out, "Todos:    %d (%d pending)\n", store.Todos, store.Pending)
			fmt.Fprintf(out, "Undo:     %d pending (ttl %s)\n", stack.Pending, stack.TTL)
			if store.LastSaved != nil {
				fmt.Fprintf(out, "Saved:    %s\n", humanize.RelTime(*store.LastSaved, time.Now(), "ago", "from now"))
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().Bool("json", false, "Output in JSON format")
	statusCmd.Flags().Bool("diagram", false, "Print a Mermaid diagram of the components")
	statusCmd.MarkFlagsMutuallyExclusive("json", "diagram")
}

type boardNode struct {
	Name     string
	Status   string
	Metadata map[string]string
	Children []boardNode
}

// buildBoardTree maps session state onto the statuses of
// introspection.DefaultStyles (running, suspended, ...).
func buildBoardTree(state session.SessionState, storageType string, introspectable bool) boardNode {
	store, _ := state.Store.(notes.StoreState)
	stack, _ := state.Undo.(undo.StackState)

	watcherStatus := "suspended"
	if state.Watchers > 0 {
		watcherStatus = "running"
	}
	undoStatus := "suspended"
	if stack.Pending > 0 {
		undoStatus = "pending"
	}

	children := []boardNode{
		{
			Name:   "Store",
			Status: "running",
			Metadata: map[string]string{
				"type":  "container",
				"notes": fmt.Sprintf("%d", store.Notes),
				"todos": fmt.Sprintf("%d", store.Todos),
			},
		},
		{
			Name:   "Undo",
			Status: undoStatus,
			Metadata: map[string]string{
				"type":    "container",
				"pending": fmt.Sprintf("%d", stack.Pending),
				"ttl":     stack.TTL,
			},
		},
		{
			Name:     "Watcher",
			Status:   watcherStatus,
			Metadata: map[string]string{"type": "goroutine"},
		},
	}
	if introspectable {
		children = append(children, boardNode{
			Name:     "Storage",
			Status:   "running",
			Metadata: map[string]string{"type": "process", "component": storageType},
		})
	}

	return boardNode{
		Name:   "Session",
		Status: "running",
		Metadata: map[string]string{
			"type": "container",
			"key":  state.Key,
		},
		Children: children,
	}
}
