// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jeranaias/aurora-tui/internal/logx"
)

// =============================================================================
// CONFIG WATCHER INTERFACE
// =============================================================================

// ReloadFunc is invoked with the fresh global config after a reload.
type ReloadFunc func(*Config)

// Watcher is the interface for config file watching implementations.
type Watcher interface {
	// Watch starts watching for config file changes
	Watch() error

	// Close stops watching and releases resources
	Close() error
}

// reloadAndNotify reloads the global config from disk and invokes the
// callback. Reload failures keep the previous config in place.
func reloadAndNotify(onReload ReloadFunc) {
	if err := ReloadGlobal(); err != nil {
		logx.Warn().Err(err).Msg("config reload failed, keeping previous configuration")
		return
	}
	logx.Debug().Msg("configuration reloaded")
	if onReload != nil {
		onReload(Global())
	}
}

// =============================================================================
// FSNOTIFY WATCHER
// =============================================================================

// FsnotifyWatcher implements Watcher using fsnotify.
//
// It watches the config directory rather than the file itself: editors
// and atomic writers replace config files by rename, which silently
// invalidates a watch placed on the file.
type FsnotifyWatcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onReload ReloadFunc
	mu       sync.Mutex
	pending  map[string]time.Time // File path -> last change time
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewFsnotifyWatcher creates a new fsnotify-based config watcher.
func NewFsnotifyWatcher(onReload ReloadFunc, debounce time.Duration) (*FsnotifyWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	fw := &FsnotifyWatcher{
		watcher:  watcher,
		debounce: debounce,
		onReload: onReload,
		pending:  make(map[string]time.Time),
		ctx:      ctx,
		cancel:   cancel,
	}

	return fw, nil
}

// Watch starts watching the config directory for changes.
func (fw *FsnotifyWatcher) Watch() error {
	// The directory must exist before it can be watched
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := fw.watcher.Add(dir); err != nil {
		return err
	}

	go fw.processEvents()
	go fw.processPending()

	return nil
}

// isConfigFile reports whether path names one of the recognized config files.
func isConfigFile(path string) bool {
	base := filepath.Base(path)
	return base == "config.toml" || base == "config.json"
}

// processEvents processes file system events.
func (fw *FsnotifyWatcher) processEvents() {
	// Add panic recovery to prevent crashes
	defer func() {
		if r := recover(); r != nil {
			logx.Error().Interface("panic", r).Msg("config watcher goroutine recovered")
		}
	}()

	for {
		select {
		case <-fw.ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}

			if !isConfigFile(event.Name) {
				continue
			}

			// Create covers atomic replace-by-rename; Rename and Remove
			// of the active file also warrant a reload (fallback to the
			// other format or to defaults).
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				fw.mu.Lock()
				fw.pending[event.Name] = time.Now()
				fw.mu.Unlock()
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			logx.Warn().Err(err).Msg("config watcher error")
		}
	}
}

// processPending coalesces change bursts and triggers a single reload
// once the debounce window has passed.
func (fw *FsnotifyWatcher) processPending() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-fw.ctx.Done():
			return

		case <-ticker.C:
			now := time.Now()

			fw.mu.Lock()
			ready := false
			for path, changeTime := range fw.pending {
				if now.Sub(changeTime) >= fw.debounce {
					ready = true
					delete(fw.pending, path)
				}
			}
			fw.mu.Unlock()

			// One reload per burst regardless of how many files changed
			if ready {
				reloadAndNotify(fw.onReload)
			}
		}
	}
}

// Close stops watching and releases resources.
func (fw *FsnotifyWatcher) Close() error {
	fw.cancel()
	if fw.watcher != nil {
		return fw.watcher.Close()
	}
	return nil
}

// =============================================================================
// POLLING WATCHER (FALLBACK)
// =============================================================================

// PollingWatcher implements Watcher using periodic mtime polling. Used
// where fsnotify is unavailable (some network and container filesystems).
type PollingWatcher struct {
	interval time.Duration
	onReload ReloadFunc
	ctx      context.Context
	cancel   context.CancelFunc
	mu       sync.Mutex
	modTimes map[string]time.Time // File path -> mod time
}

// NewPollingWatcher creates a new polling-based config watcher.
func NewPollingWatcher(onReload ReloadFunc, interval time.Duration) *PollingWatcher {
	ctx, cancel := context.WithCancel(context.Background())

	return &PollingWatcher{
		interval: interval,
		onReload: onReload,
		ctx:      ctx,
		cancel:   cancel,
		modTimes: make(map[string]time.Time),
	}
}

// Watch starts watching for config file changes.
func (pw *PollingWatcher) Watch() error {
	// Initial scan establishes the baseline
	if err := pw.scan(); err != nil {
		return err
	}

	go pw.poll()

	return nil
}

// candidatePaths returns the config file paths to poll.
func candidatePaths() []string {
	var paths []string
	if p, err := ConfigPathTOML(); err == nil {
		paths = append(paths, p)
	}
	if p, err := ConfigPathJSON(); err == nil {
		paths = append(paths, p)
	}
	return paths
}

// scan records the current modification times of the config files.
// A missing file is recorded with a zero time so its creation registers
// as a change.
func (pw *PollingWatcher) scan() error {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	for _, path := range candidatePaths() {
		var mod time.Time
		if info, err := os.Stat(path); err == nil {
			mod = info.ModTime()
		}
		pw.modTimes[path] = mod
	}
	return nil
}

// poll periodically checks for config file changes.
func (pw *PollingWatcher) poll() {
	ticker := time.NewTicker(pw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-pw.ctx.Done():
			return

		case <-ticker.C:
			pw.checkChanges()
		}
	}
}

// checkChanges compares mod times against the baseline and reloads once
// when anything differs.
func (pw *PollingWatcher) checkChanges() {
	pw.mu.Lock()
	changed := false
	for _, path := range candidatePaths() {
		var mod time.Time
		if info, err := os.Stat(path); err == nil {
			mod = info.ModTime()
		}
		if !mod.Equal(pw.modTimes[path]) {
			pw.modTimes[path] = mod
			changed = true
		}
	}
	pw.mu.Unlock()

	if changed {
		reloadAndNotify(pw.onReload)
	}
}

// Close stops watching.
func (pw *PollingWatcher) Close() error {
	pw.cancel()
	return nil
}

// =============================================================================
// WATCHER FACTORY
// =============================================================================

// StartWatcher starts a config watcher (fsnotify or polling fallback)
// and returns it already watching.
func StartWatcher(onReload ReloadFunc) (Watcher, error) {
	// Try fsnotify first
	fw, err := NewFsnotifyWatcher(onReload, 200*time.Millisecond)
	if err == nil {
		if err := fw.Watch(); err == nil {
			return fw, nil
		}
		fw.Close()
	}

	// Fallback to polling watcher
	pw := NewPollingWatcher(onReload, 2*time.Second)
	if err := pw.Watch(); err != nil {
		return nil, err
	}

	return pw, nil
}
