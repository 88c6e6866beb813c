// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logx wraps zerolog with a file sink suitable for TUI use.
//
// While the Bubble Tea program owns the terminal, anything written to
// stdout/stderr corrupts the screen, so the default sink is a log file
// under the aurora config directory. CLI modes (ask, chat) may opt into
// console output instead.
package logx

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultFileName is the log file created under the config directory.
const DefaultFileName = "aurora.log"

var (
	mu      sync.Mutex
	closers []io.Closer
)

// Options controls logger initialization.
type Options struct {
	// Path is the log file path. Empty selects console output.
	Path string
	// Level is the minimum level name (debug, info, warn, error).
	// Empty or unrecognized means info.
	Level string
	// Verbose lowers the level to debug and adds caller info.
	Verbose bool
}

// Init configures the global logger. Safe to call more than once; the
// last call wins. Returns an error only when the log file cannot be
// opened, in which case logging falls back to a discard sink so the TUI
// stays usable.
func Init(opts Options) error {
	mu.Lock()
	defer mu.Unlock()

	var w io.Writer
	var openErr error

	if opts.Path != "" {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o700); err != nil {
			openErr = err
		} else {
			f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
			if err != nil {
				openErr = err
			} else {
				closers = append(closers, f)
				w = f
			}
		}
		if w == nil {
			w = io.Discard
		}
	} else {
		w = zerolog.NewConsoleWriter()
	}

	level := zerolog.InfoLevel
	if opts.Level != "" {
		if parsed, err := zerolog.ParseLevel(opts.Level); err == nil && parsed != zerolog.NoLevel {
			level = parsed
		}
	}

	logger := zerolog.New(w).With().Timestamp().Logger().Level(level)
	if opts.Verbose {
		logger = logger.With().Caller().Logger().Level(zerolog.DebugLevel)
	}
	log.Logger = logger

	return openErr
}

// Close releases any file sinks opened by Init.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	for _, c := range closers {
		c.Close()
	}
	closers = nil
}

// Debug starts a debug-level event.
func Debug() *zerolog.Event {
	return log.Debug()
}

// Info starts an info-level event.
func Info() *zerolog.Event {
	return log.Info()
}

// Warn starts a warn-level event.
func Warn() *zerolog.Event {
	return log.Warn()
}

// Error starts an error-level event.
func Error() *zerolog.Event {
	return log.Error()
}

// Fatal starts a fatal-level event. The program exits after dispatch.
func Fatal() *zerolog.Event {
	return log.Fatal()
}
