package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/sticky/pkg/adapters/fs"
	"github.com/aretw0/sticky/pkg/adapters/memory"
	"github.com/aretw0/sticky/pkg/adapters/redis"
	"github.com/aretw0/sticky/pkg/adapters/sqlite"
	"github.com/aretw0/sticky/pkg/core"
)

// Init prepares the storage backend selected by the options.
// The 'uri' argument is adapter-specific: a directory for 'fs', a database
// file for 'sqlite', a server address for 'redis'; 'memory' ignores it.
func Init(ctx context.Context, uri string, opts ...Option) (core.Storage, error) {
	return initStorage(ctx, uri, resolve(opts))
}

func initStorage(ctx context.Context, uri string, o *options) (core.Storage, error) {
	if o.storage != nil {
		return o.storage, nil
	}

	var (
		storage core.Storage
		err     error
	)
	switch o.adapter {
	case "memory":
		storage = memory.New()
	case "fs", "":
		storage = initFS(uri, o)
	case "sqlite":
		storage, err = initSQLite(uri, o)
	case "redis":
		storage, err = initRedis(uri, o)
	default:
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownAdapter, o.adapter)
	}
	if err != nil {
		return nil, err
	}

	if i, ok := storage.(core.Initializer); ok {
		if err := i.Initialize(ctx); err != nil {
			return nil, err
		}
	}
	return storage, nil
}

func isReadOnly(o *options) bool {
	ro, _ := o.config["read_only"].(bool)
	return ro
}

// resolvePath applies the dev sandbox to a filesystem location.
func resolvePath(path string, o *options) string {
	tempDir, _ := o.config["temp_dir"].(bool)
	readOnly := isReadOnly(o)

	// Default to true (safe) if not present.
	devSafety := true
	if val, ok := o.config["dev_safety"].(bool); ok {
		devSafety = val
	}

	// Read-only is inherently safe; an explicit opt-out is respected.
	bypassSafety := readOnly || !devSafety
	useTemp := tempDir || (IsDevRun() && !bypassSafety)
	resolved := ResolveStorePath(path, useTemp)

	if IsDevRun() {
		switch {
		case !bypassSafety:
			o.logger.Debug("running in SAFE mode (dev sandbox enabled)", "path", resolved)
		case readOnly:
			o.logger.Debug("running in READ-ONLY mode (bypassing dev sandbox)", "path", resolved)
		default:
			o.logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolved)
		}
	}
	if useTemp && resolved != path {
		o.logger.Warn("running in SAFE MODE (Dev/Test)", "original_path", path, "resolved_path", resolved)
	}
	return resolved
}

// initFS handles the initialization logic for the filesystem adapter.
func initFS(path string, o *options) core.Storage {
	mustExist, _ := o.config["must_exist"].(bool)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))

	return fs.New(fs.Config{
		Dir:          resolvePath(path, o),
		MustExist:    mustExist,
		ReadOnly:     isReadOnly(o),
		Logger:       o.logger,
		ErrorHandler: errorHandler,
	})
}

func initSQLite(path string, o *options) (core.Storage, error) {
	if path == "" {
		path = "sticky.db"
	}
	if path != ":memory:" {
		dir := resolvePath(filepath.Dir(path), o)
		if !isReadOnly(o) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		path = filepath.Join(dir, filepath.Base(path))
	}
	return sqlite.Open(sqlite.Config{
		Path:     path,
		ReadOnly: isReadOnly(o),
		Logger:   o.logger,
	})
}

func initRedis(addr string, o *options) (core.Storage, error) {
	if addr == "" {
		addr = "localhost:6379"
	}
	prefix, _ := o.config["redis_prefix"].(string)
	return redis.Dial(addr, redis.Config{
		Prefix:   prefix,
		ReadOnly: isReadOnly(o),
		Logger:   o.logger,
	})
}
