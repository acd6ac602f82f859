// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"sync/atomic"

	"github.com/elroyic/Podcast-Generator-sub001/internal/log"
	"github.com/fsnotify/fsnotify"
)

// ReviewerManager holds the live-reloadable reviewer thresholds (θ_light,
// θ_heavy, pause_backoff). Readers get an atomically-swapped snapshot;
// writers come from either the admin API (PUT /reviewer/config) or an
// fsnotify-watched config file. A reload never affects an article already
// mid-cascade: the Review Cascade reads the snapshot once per article.
type ReviewerManager struct {
	current atomic.Pointer[ReviewerConfig]
	path    string
	loader  *Loader
	watcher *fsnotify.Watcher
}

// NewReviewerManager creates a manager seeded with initial that reloads from
// path; watching the file for changes starts only when WatchFile is called.
func NewReviewerManager(initial ReviewerConfig, path string) *ReviewerManager {
	m := &ReviewerManager{path: path, loader: NewLoader(path)}
	m.current.Store(&initial)
	return m
}

// Get returns the current reviewer configuration snapshot.
func (m *ReviewerManager) Get() ReviewerConfig {
	return *m.current.Load()
}

// Set replaces the current reviewer configuration (used by the admin API).
func (m *ReviewerManager) Set(cfg ReviewerConfig) {
	m.current.Store(&cfg)
}

// WatchFile starts an fsnotify watch on the config file path, reloading the
// reviewer section whenever it changes on disk. Returns immediately if no
// path was configured.
func (m *ReviewerManager) WatchFile(ctx context.Context) error {
	if m.path == "" {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(m.path); err != nil {
		_ = watcher.Close()
		return err
	}
	m.watcher = watcher

	logger := log.WithComponent("config")
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				cfg, err := m.loader.Load()
				if err != nil {
					logger.Warn().Err(err).Msg("reviewer config reload failed, keeping previous values")
					continue
				}
				m.Set(cfg.Reviewer)
				logger.Info().
					Float64("light_threshold", cfg.Reviewer.LightThreshold).
					Float64("heavy_threshold", cfg.Reviewer.HeavyThreshold).
					Dur("pause_backoff", cfg.Reviewer.PauseBackoff).
					Msg("reviewer config reloaded")
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn().Err(err).Msg("config watcher error")
			}
		}
	}()
	return nil
}
