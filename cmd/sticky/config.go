package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/aretw0/sticky"
	"github.com/aretw0/sticky/internal/platform"
	"github.com/aretw0/sticky/pkg/undo"
)

// conf merges flags, STICKY_* environment variables and sticky.yaml, in
// that order of precedence.
var conf = viper.New()

func configKey(flag string) string {
	return strings.ReplaceAll(flag, "-", "_")
}

func bindFlags(flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" || f.Name == "verbose" {
			return
		}
		_ = conf.BindPFlag(configKey(f.Name), f)
	})
	conf.SetEnvPrefix("STICKY")
	conf.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	conf.AutomaticEnv()
}

// boardRoot is the directory holding the board: the nearest ancestor with a
// .sticky directory or sticky.yaml, or the working directory.
func boardRoot() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	if root, err := sticky.FindRoot(wd); err == nil {
		return root
	}
	return wd
}

func loadConfig(cmd *cobra.Command) error {
	if cfgFile != "" {
		conf.SetConfigFile(cfgFile)
	} else {
		conf.SetConfigName("sticky")
		conf.SetConfigType("yaml")
		conf.AddConfigPath(boardRoot())
	}

	if err := conf.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || (cfgFile == "" && os.IsNotExist(err)) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	slog.Debug("config loaded", "file", conf.ConfigFileUsed())
	return nil
}

// storeURI returns the adapter URI, defaulting to a location inside the
// board root.
func storeURI(adapter string) string {
	if uri := conf.GetString("store"); uri != "" {
		return uri
	}
	switch adapter {
	case "fs", "":
		return filepath.Join(boardRoot(), platform.StoreDirName)
	case "sqlite":
		return filepath.Join(boardRoot(), platform.StoreDirName, "sticky.db")
	case "redis":
		return "localhost:6379"
	default:
		return ""
	}
}

// sessionOptions translates the merged configuration into sticky options.
func sessionOptions() ([]sticky.Option, error) {
	opts := []sticky.Option{
		sticky.WithAdapter(conf.GetString("adapter")),
		sticky.WithLogger(slog.Default()),
		sticky.WithReadOnly(conf.GetBool("read_only")),
		sticky.WithDevSafety(conf.GetBool("dev_safety")),
	}
	if key := conf.GetString("key"); key != "" {
		opts = append(opts, sticky.WithKey(key))
	}
	if prefix := conf.GetString("redis_prefix"); prefix != "" {
		opts = append(opts, sticky.WithRedisPrefix(prefix))
	}

	switch policy := conf.GetString("undo"); policy {
	case "", "stacked":
		opts = append(opts, sticky.WithUndo(sticky.UndoStacked()))
	case "timed":
		timed := sticky.UndoTimed()
		timed.OnExpire = func(e undo.Entry) {
			slog.Info("undo window closed", "note", e.Note.ID, "title", e.Note.Title)
		}
		opts = append(opts, sticky.WithUndo(timed))
	default:
		return nil, fmt.Errorf("unknown undo policy %q (want stacked or timed)", policy)
	}
	return opts, nil
}
