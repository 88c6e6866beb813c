// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeConfigTOML writes a minimal config file into the isolated home.
func writeConfigTOML(t *testing.T, home, model string) string {
	t.Helper()
	dir := filepath.Join(home, ".aurora")
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "config.toml")
	content := "[api]\nmodel = \"" + model + "\"\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestWatcher_PollingReload tests that the polling watcher picks up a
// changed config file and replaces the global config.
func TestWatcher_PollingReload(t *testing.T) {
	home := isolateEnv(t)
	ResetGlobalForTesting()

	path := writeConfigTOML(t, home, "gemini-first")
	if err := ReloadGlobal(); err != nil {
		t.Fatalf("initial reload: %v", err)
	}
	if got := Global().API.Model; got != "gemini-first" {
		t.Fatalf("Expected initial model 'gemini-first', got '%s'", got)
	}

	reloaded := make(chan *Config, 1)
	pw := NewPollingWatcher(func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	}, 10*time.Millisecond)
	if err := pw.Watch(); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer pw.Close()

	// Rewrite the file and force a distinct mtime; coarse filesystem
	// timestamps would otherwise hide a quick rewrite.
	writeConfigTOML(t, home, "gemini-second")
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.API.Model != "gemini-second" {
			t.Errorf("Expected reloaded model 'gemini-second', got '%s'", cfg.API.Model)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Timed out waiting for config reload")
	}

	if got := Global().API.Model; got != "gemini-second" {
		t.Errorf("Expected global model 'gemini-second', got '%s'", got)
	}
}

// TestWatcher_PollingIgnoresUnchanged tests that an unchanged file does
// not trigger reload callbacks.
func TestWatcher_PollingIgnoresUnchanged(t *testing.T) {
	home := isolateEnv(t)
	ResetGlobalForTesting()

	writeConfigTOML(t, home, "gemini-stable")

	reloaded := make(chan *Config, 4)
	pw := NewPollingWatcher(func(cfg *Config) { reloaded <- cfg }, 10*time.Millisecond)
	if err := pw.Watch(); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer pw.Close()

	time.Sleep(100 * time.Millisecond)

	select {
	case <-reloaded:
		t.Error("Watcher fired without a file change")
	default:
	}
}

// TestWatcher_FsnotifyLifecycle tests fsnotify watcher setup and teardown.
func TestWatcher_FsnotifyLifecycle(t *testing.T) {
	isolateEnv(t)

	fw, err := NewFsnotifyWatcher(nil, 50*time.Millisecond)
	if err != nil {
		t.Skipf("fsnotify unavailable on this system: %v", err)
	}
	if err := fw.Watch(); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	if err := fw.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

// TestWatcher_StartWatcher tests the factory picks a working implementation.
func TestWatcher_StartWatcher(t *testing.T) {
	isolateEnv(t)

	w, err := StartWatcher(nil)
	if err != nil {
		t.Fatalf("StartWatcher() error = %v", err)
	}
	if w == nil {
		t.Fatal("StartWatcher() returned nil watcher")
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

// TestIsConfigFile tests config file name recognition.
func TestIsConfigFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/home/u/.aurora/config.toml", true},
		{"/home/u/.aurora/config.json", true},
		{"/home/u/.aurora/config.toml.swp", false},
		{"/home/u/.aurora/aurora.log", false},
		{"config.toml", true},
	}

	for _, tt := range tests {
		if got := isConfigFile(tt.path); got != tt.want {
			t.Errorf("isConfigFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
