// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the aurora TUI.
package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/aurora-tui/internal/commands"
	"github.com/jeranaias/aurora-tui/internal/ui/styles"
	"github.com/jeranaias/aurora-tui/internal/util"
)

// =============================================================================
// COMPLETION POPUP COMPONENT
// =============================================================================

// CompletionPopup displays completion suggestions above the input.
type CompletionPopup struct {
	completions []commands.Completion
	selected    int
	maxVisible  int
	width       int
	theme       *styles.Theme
}

// NewCompletionPopup creates a popup showing up to 8 suggestions.
func NewCompletionPopup(theme *styles.Theme) *CompletionPopup {
	return &CompletionPopup{
		maxVisible: 8,
		width:      50,
		theme:      theme,
	}
}

// SetCompletions replaces the suggestions and resets the selection.
func (c *CompletionPopup) SetCompletions(completions []commands.Completion) {
	c.completions = completions
	c.selected = 0
}

// SetSelected moves the highlight. Out-of-range indexes are ignored.
func (c *CompletionPopup) SetSelected(index int) {
	if index < 0 || index >= len(c.completions) {
		return
	}
	c.selected = index
}

// Selected returns the highlighted index.
func (c *CompletionPopup) Selected() int {
	return c.selected
}

// Next moves the highlight down, wrapping.
func (c *CompletionPopup) Next() {
	if len(c.completions) == 0 {
		return
	}
	c.selected = (c.selected + 1) % len(c.completions)
}

// Prev moves the highlight up, wrapping.
func (c *CompletionPopup) Prev() {
	if len(c.completions) == 0 {
		return
	}
	c.selected--
	if c.selected < 0 {
		c.selected = len(c.completions) - 1
	}
}

// SelectedCompletion returns the highlighted completion, or nil.
func (c *CompletionPopup) SelectedCompletion() *commands.Completion {
	if c.selected < 0 || c.selected >= len(c.completions) {
		return nil
	}
	return &c.completions[c.selected]
}

// HasCompletions reports whether the popup has anything to show.
func (c *CompletionPopup) HasCompletions() bool {
	return len(c.completions) > 0
}

// Clear empties the popup.
func (c *CompletionPopup) Clear() {
	c.completions = nil
	c.selected = 0
}

// SetWidth sets the popup width.
func (c *CompletionPopup) SetWidth(width int) {
	if width < 24 {
		width = 24
	}
	c.width = width
}

// SetMaxVisible caps the number of rows shown at once.
func (c *CompletionPopup) SetMaxVisible(n int) {
	if n > 0 {
		c.maxVisible = n
	}
}

// View renders the popup box with a scrolling window over the suggestions.
func (c *CompletionPopup) View() string {
	if len(c.completions) == 0 {
		return ""
	}

	start, end := c.visibleRange()

	var rows []string
	for i := start; i < end; i++ {
		rows = append(rows, c.renderItem(c.completions[i], i == c.selected))
	}

	content := strings.Join(rows, "\n")

	// Position counter when the window is scrolled.
	if len(c.completions) > c.maxVisible {
		counter := strconv.Itoa(c.selected+1) + "/" + strconv.Itoa(len(c.completions))
		content += "\n" + c.theme.CompletionDesc.Render(counter)
	}

	box := c.theme.CompletionPopup.Width(c.width).MaxWidth(c.width)
	return box.Render(content)
}

// visibleRange centers the selection in the window.
func (c *CompletionPopup) visibleRange() (int, int) {
	start := 0
	end := len(c.completions)
	if end <= c.maxVisible {
		return start, end
	}

	start = c.selected - c.maxVisible/2
	if start < 0 {
		start = 0
	}
	end = start + c.maxVisible
	if end > len(c.completions) {
		end = len(c.completions)
		start = end - c.maxVisible
		if start < 0 {
			start = 0
		}
	}
	return start, end
}

// renderItem renders one suggestion row.
func (c *CompletionPopup) renderItem(comp commands.Completion, isSelected bool) string {
	value := comp.Display
	if value == "" {
		value = comp.Value
	}
	value = util.TruncateRunes(value, 20)

	descWidth := c.width - 26
	if descWidth < 0 {
		descWidth = 0
	}
	desc := util.TruncateRunes(comp.Description, descWidth)

	indicator := " "
	valueStyle := c.theme.CompletionItem.Width(20)
	descStyle := c.theme.CompletionDesc.Width(descWidth)
	if isSelected {
		indicator = ">"
		valueStyle = c.theme.CompletionSelected.Width(20)
		descStyle = descStyle.Foreground(styles.TextPrimary)
	}

	indicatorStyle := lipgloss.NewStyle().Width(2).Foreground(styles.Violet)

	return lipgloss.JoinHorizontal(
		lipgloss.Left,
		indicatorStyle.Render(indicator),
		valueStyle.Render(value),
		descStyle.Render(desc),
	)
}

// ViewCompact renders a one-line hint for narrow layouts.
func (c *CompletionPopup) ViewCompact() string {
	if len(c.completions) == 0 {
		return ""
	}

	style := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)

	if len(c.completions) == 1 {
		value := c.completions[0].Display
		if value == "" {
			value = c.completions[0].Value
		}
		return style.Render("Tab: complete \"" + value + "\"")
	}

	return style.Render("Tab: " + strconv.Itoa(len(c.completions)) + " completions")
}

// ViewInline renders the leading suggestions on a single line.
func (c *CompletionPopup) ViewInline() string {
	if len(c.completions) == 0 {
		return ""
	}

	maxInline := 3
	if len(c.completions) < maxInline {
		maxInline = len(c.completions)
	}

	var parts []string
	for i := 0; i < maxInline; i++ {
		comp := c.completions[i]
		value := comp.Display
		if value == "" {
			value = comp.Value
		}

		style := lipgloss.NewStyle().Foreground(styles.TextSecondary)
		if i == c.selected {
			style = style.Foreground(styles.Violet).Bold(true)
		}
		parts = append(parts, style.Render(value))
	}

	if len(c.completions) > maxInline {
		more := lipgloss.NewStyle().Foreground(styles.TextMuted)
		parts = append(parts, more.Render("+"+strconv.Itoa(len(c.completions)-maxInline)+" more"))
	}

	return strings.Join(parts, " | ")
}
