package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose bool
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sticky",
	Short: "A sticky notes board with checklists, backed by files, SQLite or Redis",
	Long: `Sticky keeps an ordered board of colored notes with checklists.
Notes are stored as one blob under a single key of the selected backend,
so several terminals (or a long-running shell) can share a board.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)

		return loadConfig(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		closeShared()
		os.Exit(1)
	}
	closeShared()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVar(&cfgFile, "config", "", "Config file (default: sticky.yaml in the board root)")
	flags.String("adapter", "fs", "Storage adapter: fs, sqlite, redis, memory")
	flags.String("store", "", "Adapter URI: directory (fs), database file (sqlite), address (redis)")
	flags.String("key", "", "Storage key holding the notes (default sticky-notes-app)")
	flags.Bool("read-only", false, "Open the board without writing")
	flags.String("redis-prefix", "", "Prefix for redis keys")
	flags.String("undo", "stacked", "Undo policy: stacked or timed")
	flags.Bool("dev-safety", true, "Sandbox file stores under the temp dir when running via go run")

	bindFlags(flags)
}
