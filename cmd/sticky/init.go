package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/sticky"
	"github.com/aretw0/sticky/internal/platform"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a board in the current directory",
	Long: `Init creates a .sticky directory in the working directory, marking it as a
board root, and prepares the configured storage.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		root := filepath.Join(cwd, platform.StoreDirName)
		if err := os.MkdirAll(root, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", root, err)
		}

		adapter := conf.GetString("adapter")
		uri := conf.GetString("store")
		if uri == "" {
			switch adapter {
			case "sqlite":
				uri = filepath.Join(root, "sticky.db")
			case "redis":
				uri = storeURI(adapter)
			default:
				uri = root
			}
		}

		opts, err := sessionOptions()
		if err != nil {
			return err
		}
		storage, err := sticky.Init(context.Background(), uri, opts...)
		if err != nil {
			return fmt.Errorf("failed to initialize board: %w", err)
		}
		if c, ok := storage.(io.Closer); ok {
			_ = c.Close()
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Initialized empty sticky board in", cwd)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
