// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// =============================================================================
// TTY DETECTION
// =============================================================================

// IsTTY reports whether stdin is attached to a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsStdoutTTY reports whether stdout is attached to a terminal. Markdown
// rendering and ANSI styling are applied only when it is.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// StdinPiped reports whether stdin carries piped or redirected input.
func StdinPiped() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice == 0
}

// =============================================================================
// TERMINAL GEOMETRY
// =============================================================================

const (
	// DefaultTerminalWidth is assumed when the real width cannot be
	// determined (pipes, CI).
	DefaultTerminalWidth = 80

	// MinRenderWidth and MaxRenderWidth clamp the markdown rendering
	// width so answers stay readable on very narrow or very wide
	// terminals.
	MinRenderWidth = 40
	MaxRenderWidth = 100
)

// GetTerminalWidth returns the stdout width clamped to the rendering
// range, or DefaultTerminalWidth when stdout is not a terminal.
func GetTerminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return DefaultTerminalWidth
	}
	if w < MinRenderWidth {
		return MinRenderWidth
	}
	if w > MaxRenderWidth {
		return MaxRenderWidth
	}
	return w
}

// =============================================================================
// COLOR SUPPORT
// =============================================================================

var (
	colorsOnce    sync.Once
	colorsEnabled bool
)

// ColorsEnabled reports whether ANSI styling should be emitted. NO_COLOR
// wins over FORCE_COLOR; otherwise styling requires a stdout TTY. The
// answer is computed once per process.
func ColorsEnabled() bool {
	colorsOnce.Do(func() {
		switch {
		case os.Getenv("NO_COLOR") != "":
			colorsEnabled = false
		case os.Getenv("FORCE_COLOR") != "":
			colorsEnabled = true
		default:
			colorsEnabled = IsStdoutTTY()
		}
	})
	return colorsEnabled
}

// GetColorProfile returns the termenv profile to render with: Ascii when
// styling is disabled, the detected terminal profile otherwise.
func GetColorProfile() termenv.Profile {
	if !ColorsEnabled() {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}

// =============================================================================
// TTY REQUIREMENTS
// =============================================================================

// TTYRequiredError reports that a command needs an interactive terminal.
type TTYRequiredError struct {
	Command string
}

func (e *TTYRequiredError) Error() string {
	return fmt.Sprintf("%s requires an interactive terminal (stdin is not a TTY)", e.Command)
}

// RequiresTTY returns an error when stdin is not a terminal. Interactive
// commands call it before starting their input loop.
func RequiresTTY(command string) error {
	if !IsTTY() {
		return &TTYRequiredError{Command: command}
	}
	return nil
}
