// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for aurora.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, validation, and hot reload.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - APIConfig: Gemini endpoint, model, timeout, and retry settings
//   - SpeechConfig: Text-to-speech voice and playback settings
//   - VoiceConfig: Microphone capture settings
//   - Watcher: Hot reload of the config file (fsnotify with polling fallback)
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (AURORA_*, plus GEMINI_API_KEY as key fallback)
//   - ~/.aurora/config.toml
//   - ~/.aurora/config.json
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Access settings:
//
//	model := cfg.API.Model
//	timeout := cfg.API.Timeout()
//
// Watch for edits while the app runs:
//
//	w, err := config.StartWatcher(func(cfg *config.Config) {
//	    program.Send(chat.ConfigReloadedMsg{Config: cfg})
//	})
//	if err == nil {
//	    defer w.Close()
//	}
package config
