package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Watch monitors path for changes and calls onChange with the newly loaded
// Configuration each time the file is written or replaced. It runs until ctx
// is cancelled.
//
// The parent directory is watched rather than the file, so a save that
// renames a temporary file over path keeps being observed.
//
// A reload that fails to load or validate is logged and the previous
// configuration remains active; onChange is not called.
func Watch(ctx context.Context, logger *zap.Logger, path string, onChange func(*Configuration)) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return eris.Wrap(err, "config: create watcher")
	}
	defer watcher.Close()

	path = filepath.Clean(path)
	if _, err := os.Stat(path); err != nil {
		return eris.Wrapf(err, "config: watch %s", path)
	}
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return eris.Wrapf(err, "config: watch %s", dir)
	}

	logger.Info("watching configuration for changes",
		zap.String("op", "config.Watch"),
		zap.String("path", path),
	)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			// A rename over path arrives as Create in the directory.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			conf, err := LoadConfiguration(path)
			if err == nil {
				err = conf.Validate()
			}
			if err != nil {
				logger.Error("configuration reload failed, keeping previous configuration",
					zap.String("op", "config.Watch"),
					zap.String("path", path),
					zap.Error(err),
				)
				continue
			}

			logger.Info("configuration reloaded",
				zap.String("op", "config.Watch"),
				zap.String("path", path),
			)
			onChange(conf)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("configuration watcher error",
				zap.String("op", "config.Watch"),
				zap.Error(err),
			)
		}
	}
}
