// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the aurora TUI.
package components

import (
	"strconv"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/aurora-tui/internal/ui/styles"
)

// =============================================================================
// INPUT AREA
// =============================================================================

// DefaultInputLimit caps message length. The API rejects absurdly long
// prompts anyway; the cap keeps the counter meaningful.
const DefaultInputLimit = 4096

// InputArea wraps the text input with aurora styling and a character
// counter.
type InputArea struct {
	input    textinput.Model
	maxChars int
	width    int
	theme    *styles.Theme
}

// NewInputArea creates the styled message input.
func NewInputArea(theme *styles.Theme) *InputArea {
	ti := textinput.New()
	ti.Placeholder = "Type a message, or / for commands"
	ti.CharLimit = DefaultInputLimit
	ti.Width = 70
	ti.Prompt = "> "
	ti.PromptStyle = theme.InputPrompt
	ti.TextStyle = theme.InputText
	ti.PlaceholderStyle = theme.InputPlaceholder

	return &InputArea{
		input:    ti,
		maxChars: DefaultInputLimit,
		width:    80,
		theme:    theme,
	}
}

// Focus gives the input keyboard focus.
func (i *InputArea) Focus() tea.Cmd {
	return i.input.Focus()
}

// Blur removes keyboard focus.
func (i *InputArea) Blur() {
	i.input.Blur()
}

// Focused reports whether the input has focus.
func (i *InputArea) Focused() bool {
	return i.input.Focused()
}

// SetWidth resizes the input to the available width.
func (i *InputArea) SetWidth(width int) {
	i.width = width
	inputWidth := width - 10
	if inputWidth < 20 {
		inputWidth = 20
	}
	i.input.Width = inputWidth
}

// SetPlaceholder replaces the placeholder text.
func (i *InputArea) SetPlaceholder(placeholder string) {
	i.input.Placeholder = placeholder
}

// Value returns the current buffer contents.
func (i *InputArea) Value() string {
	return i.input.Value()
}

// SetValue replaces the buffer contents.
func (i *InputArea) SetValue(value string) {
	i.input.SetValue(value)
	i.input.CursorEnd()
}

// Reset clears the buffer.
func (i *InputArea) Reset() {
	i.input.Reset()
}

// Update forwards messages to the underlying text input.
func (i *InputArea) Update(msg tea.Msg) (*InputArea, tea.Cmd) {
	var cmd tea.Cmd
	i.input, cmd = i.input.Update(msg)
	return i, cmd
}

// View renders the bordered input with the character counter.
func (i *InputArea) View() string {
	counter := i.renderCounter()

	container := i.theme.InputContainer.Width(i.width - 2)
	body := i.input.View()
	if counter != "" {
		body += "  " + counter
	}
	return container.Render(body)
}

// renderCounter shows remaining characters once the buffer passes 80% of
// the limit.
func (i *InputArea) renderCounter() string {
	used := len([]rune(i.input.Value()))
	if used*5 < i.maxChars*4 {
		return ""
	}

	text := strconv.Itoa(used) + "/" + strconv.Itoa(i.maxChars)
	if used >= i.maxChars {
		return i.theme.CharCountWarning.Render(text)
	}
	return i.theme.CharCount.Render(text)
}
