// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/aurora-tui/internal/ui/styles"
)

// The CLI shares the aurora palette with the TUI so both surfaces look
// like one program. Styling degrades to plain text when stdout is not a
// terminal or NO_COLOR is set.

func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

var (
	// bannerStyle renders the chat welcome line.
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Violet)

	// promptStyle renders the REPL prompt.
	promptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Teal)

	// dimStyle renders secondary detail such as timings and hints.
	dimStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	// sectionStyle renders config section headers.
	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Violet)

	// keyStyle renders config keys.
	keyStyle = lipgloss.NewStyle().
			Foreground(styles.Teal)

	// valueStyle renders config values.
	valueStyle = lipgloss.NewStyle().
			Foreground(styles.TextPrimary)

	// maskedStyle renders redacted secrets.
	maskedStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true)
)
