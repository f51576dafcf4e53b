package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aretw0/sticky/pkg/core"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Run commands against one long-lived session",
	Long: `Shell reads commands line by line and runs them against a single open
board, so edits, undo entries and watch reloads survive between commands.
Type 'exit' or press Ctrl+D to leave.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		shared = s
		defer closeShared()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		// Keep the board in sync with other processes while the shell is open.
		reloads, err := s.Watch(ctx)
		if err != nil && !errors.Is(err, core.ErrNotWatchable) {
			return err
		}
		if reloads != nil {
			errOut := cmd.ErrOrStderr()
			go func() {
				for range reloads {
					fmt.Fprintln(errOut, "\n(board changed elsewhere, reloaded)")
				}
			}()
		}

		out := cmd.OutOrStdout()
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for {
			fmt.Fprint(out, "sticky> ")
			if !scanner.Scan() {
				fmt.Fprintln(out)
				return scanner.Err()
			}

			line, err := splitArgs(scanner.Text())
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
				continue
			}
			if len(line) == 0 {
				continue
			}
			switch line[0] {
			case "exit", "quit":
				return nil
			case "shell":
				fmt.Fprintln(cmd.ErrOrStderr(), "Error: already in a shell")
				continue
			}

			resetFlags(cmd.Root())
			cmd.Root().SetArgs(line)
			if err := cmd.Root().ExecuteContext(ctx); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

// resetFlags restores the local flags of every subcommand to their defaults.
// Cobra keeps parsed values in the flag set, so without this a flag given on
// one shell line would leak into the next.
func resetFlags(root *cobra.Command) {
	for _, c := range root.Commands() {
		c.LocalNonPersistentFlags().VisitAll(func(f *pflag.Flag) {
			if !f.Changed {
				return
			}
			if sv, ok := f.Value.(pflag.SliceValue); ok {
				_ = sv.Replace([]string{})
			} else {
				_ = f.Value.Set(f.DefValue)
			}
			f.Changed = false
		})
		resetFlags(c)
	}
}

// splitArgs splits a shell line into words. Single and double quotes group
// words; a backslash escapes the next character outside single quotes.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		word    strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)
	for _, r := range line {
		switch {
		case escaped:
			word.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped, inWord = true, true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				word.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote, inWord = r, true
		case r == ' ' || r == '\t':
			if inWord {
				args = append(args, word.String())
				word.Reset()
				inWord = false
			}
		default:
			word.WriteRune(r)
			inWord = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if escaped {
		return nil, io.ErrUnexpectedEOF
	}
	if inWord {
		args = append(args, word.String())
	}
	return args, nil
}
