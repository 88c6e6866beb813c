// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the interactive conversation screen.
//
// This file drives tab completion for slash commands: the first tab
// opens the popup and applies the best candidate, further tabs cycle
// through the rest, and any other key closes it.
package chat

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/aurora-tui/internal/commands"
)

// handleTabCompletion opens or cycles the completion popup. The
// highlighted candidate is always mirrored into the input, so enter
// submits exactly what the popup shows.
func (m Model) handleTabCompletion(reverse bool) (tea.Model, tea.Cmd) {
	if m.showCompletions {
		if reverse {
			m.completionState.Prev()
		} else {
			m.completionState.Next()
		}
		m.popup.SetSelected(m.completionState.Selected)
		if c := m.completionState.GetSelected(); c != nil {
			m.applyCompletion(*c)
		}
		return m, nil
	}

	value := m.input.Value()
	if !strings.HasPrefix(strings.TrimSpace(value), "/") {
		// Tab outside a command is just a key the input ignores.
		return m, nil
	}

	completions := m.completer.Complete(value, len(value))
	if len(completions) == 0 {
		return m, nil
	}
	if len(completions) == 1 {
		m.acceptCompletion(value, completions[0])
		return m, nil
	}

	m.completionState.Update(value, completions)
	m.popup.SetCompletions(completions)
	m.popup.SetSelected(m.completionState.Selected)
	m.showCompletions = true
	m.layoutViewport()
	if c := m.completionState.GetSelected(); c != nil {
		m.applyCompletion(*c)
	}
	return m, nil
}

// applyCompletion rewrites the completed token against the input as it
// was when the popup opened, so cycling never stacks suffixes.
func (m *Model) applyCompletion(c commands.Completion) {
	base := m.completionState.OriginalInput
	if base == "" {
		base = m.input.Value()
	}
	start := findCompletionStart(base)
	m.input.SetValue(base[:start] + c.Value)
}

// acceptCompletion applies the only candidate and closes the popup. A
// completed command that takes arguments gets a trailing space so the
// next tab moves on to them.
func (m *Model) acceptCompletion(input string, c commands.Completion) {
	start := findCompletionStart(input)
	value := input[:start] + c.Value
	if start == 0 && strings.HasPrefix(c.Value, "/") {
		if cmd := m.registry.Get(c.Value); cmd != nil && len(cmd.Args) > 0 {
			value += " "
		}
	}
	m.input.SetValue(value)
	m.clearCompletions()
}

// findCompletionStart returns the byte offset where the token being
// completed begins: zero for the command itself, just past the last
// space for an argument.
func findCompletionStart(input string) int {
	idx := strings.LastIndex(input, " ")
	if idx < 0 {
		return 0
	}
	return idx + 1
}

// clearCompletions closes the popup and resets its state.
func (m *Model) clearCompletions() {
	if !m.showCompletions && len(m.completionState.Completions) == 0 {
		return
	}
	m.completionState.Clear()
	m.popup.Clear()
	m.showCompletions = false
	m.layoutViewport()
}
