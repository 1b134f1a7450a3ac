package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay coalesces the burst of events one editor save produces.
var reloadDelay = 250 * time.Millisecond

// WatchAnalytics follows the config file at path and calls onChange with the
// new analytics preferences whenever a saved version changes them. It returns
// when ctx is cancelled.
//
// The whole file is loaded and validated on every save; a file that fails is
// logged and the current preferences stay in effect. Changes to other
// sections only take effect after a restart and never trigger onChange.
func WatchAnalytics(ctx context.Context, path string, log *slog.Logger, onChange func(AnalyticsConfig)) error {
	cfg, err := Load(path)
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	current := cfg.Analytics

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// The directory is watched so saves that replace the file are still seen.
	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(target), err)
	}
	log.Info("watching analytics preferences", "path", target)

	timer := time.NewTimer(reloadDelay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			timer.Reset(reloadDelay)

		case <-timer.C:
			cfg, err := Load(target)
			if err != nil {
				log.Error("config reload failed, keeping analytics preferences", "path", target, "error", err)
				continue
			}
			if cfg.Analytics == current {
				log.Debug("config saved without analytics changes", "path", target)
				continue
			}
			log.Info("analytics preferences changed",
				"weight_unit", cfg.Analytics.WeightUnit,
				"distance_unit", cfg.Analytics.DistanceUnit,
			)
			current = cfg.Analytics
			onChange(current)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("config watcher error", "error", err)
		}
	}
}
