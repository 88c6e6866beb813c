// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the aurora TUI.
package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/aurora-tui/internal/ui/styles"
)

// =============================================================================
// WELCOME SCREEN
// =============================================================================

// Welcome is the startup screen shown before the first message.
type Welcome struct {
	version   string
	modelName string
	voice     string
	keySet    bool

	width  int
	height int

	theme *styles.Theme
}

// NewWelcome creates the welcome screen.
func NewWelcome(theme *styles.Theme) Welcome {
	return Welcome{
		version: "dev",
		theme:   theme,
	}
}

// SetVersion sets the version line.
func (w *Welcome) SetVersion(version string) {
	w.version = version
}

// SetModelName sets the model shown in the info block.
func (w *Welcome) SetModelName(name string) {
	w.modelName = name
}

// SetVoice sets the speech voice shown in the info block.
func (w *Welcome) SetVoice(voice string) {
	w.voice = voice
}

// SetKeyConfigured records whether an API key was found, switching the
// footer hint between "press any key" and setup instructions.
func (w *Welcome) SetKeyConfigured(set bool) {
	w.keySet = set
}

// SetSize updates the dimensions.
func (w *Welcome) SetSize(width, height int) {
	w.width = width
	w.height = height
}

// Init implements tea.Model.
func (w Welcome) Init() tea.Cmd {
	return nil
}

// Update handles resize messages.
func (w Welcome) Update(msg tea.Msg) (Welcome, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		w.width = size.Width
		w.height = size.Height
	}
	return w, nil
}

// View renders the centered welcome box.
func (w Welcome) View() string {
	width := w.width
	if width == 0 {
		width = 80
	}
	height := w.height
	if height == 0 {
		height = 24
	}

	boxWidth := 56
	if boxWidth > width-4 {
		boxWidth = width - 4
	}
	if boxWidth < 36 {
		boxWidth = 36
	}

	content := w.renderLogo() +
		"\n" + w.theme.WelcomeVersion.Render("v"+w.version) +
		"\n\n" + w.renderInfo() +
		"\n\n" + w.renderFooter()

	box := w.theme.WelcomeBox.Width(boxWidth).Align(lipgloss.Center).Render(content)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// renderLogo renders the ASCII wordmark.
func (w Welcome) renderLogo() string {
	logo := "" +
		"  __ _ _   _ _ __ ___  _ __ __ _ \n" +
		" / _` | | | | '__/ _ \\| '__/ _` |\n" +
		"| (_| | |_| | | | (_) | | | (_| |\n" +
		" \\__,_|\\__,_|_|  \\___/|_|  \\__,_|"
	return w.theme.WelcomeLogo.Render(logo)
}

// renderInfo renders the model and voice lines.
func (w Welcome) renderInfo() string {
	info := w.theme.WelcomeInfo

	lines := ""
	if w.modelName != "" {
		lines += info.Render("model  "+w.modelName) + "\n"
	}
	if w.voice != "" {
		lines += info.Render("voice  "+w.voice) + "\n"
	}
	lines += info.Render("keys   " + w.theme.WelcomeKey.Render("^V") + " talk  " +
		w.theme.WelcomeKey.Render("/") + " commands")
	return lines
}

// renderFooter renders the call to action, or setup help when no API key
// is configured.
func (w Welcome) renderFooter() string {
	if !w.keySet {
		return w.theme.ErrorText.Render(styles.StatusIndicators.Warning+" no API key found") +
			"\n" + w.theme.WelcomePressKey.Render("set AURORA_API_KEY or run: aurora config set api.key <key>")
	}
	return w.theme.WelcomePressKey.Render("start typing to begin")
}
