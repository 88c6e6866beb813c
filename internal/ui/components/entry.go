// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the aurora TUI.
package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/aurora-tui/internal/model"
	"github.com/jeranaias/aurora-tui/internal/ui/styles"
	"github.com/jeranaias/aurora-tui/internal/util"
)

// =============================================================================
// ENTRY BUBBLE
// =============================================================================

// EntryBubble renders one conversation entry as a styled bubble. User
// entries sit right-aligned in teal, replies left-aligned in violet.
type EntryBubble struct {
	Entry         *model.Entry
	Width         int
	ShowTimestamp bool
	Highlight     string
	theme         *styles.Theme
}

// NewEntryBubble creates a bubble for an entry.
func NewEntryBubble(entry *model.Entry, theme *styles.Theme) *EntryBubble {
	return &EntryBubble{
		Entry:         entry,
		Width:         80,
		ShowTimestamp: true,
		theme:         theme,
	}
}

// SetWidth sets the bubble width.
func (b *EntryBubble) SetWidth(width int) {
	b.Width = width
}

// View renders the bubble for the entry's role.
func (b *EntryBubble) View() string {
	if b.Entry == nil {
		return ""
	}
	switch b.Entry.Role {
	case model.RoleUser:
		return b.renderUser()
	case model.RoleAssistant:
		return b.renderAssistant()
	default:
		return b.renderPlain()
	}
}

// renderUser renders a right-aligned teal bubble, with an attachment badge
// when the entry carried an image.
func (b *EntryBubble) renderUser() string {
	content := b.Entry.Text
	if content == "" {
		content = "..."
	}

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	wrapped := wrapText(content, maxContentWidth)
	contentWidth := minInt(maxLineWidth(wrapped)+4, b.Width-8)

	bubble := b.theme.UserBubble.Width(contentWidth).Render(
		highlightMatches(wrapped, b.Highlight, b.theme.SearchMatch))

	header := b.theme.UserLabel.Render("you")
	if ts := b.renderTimestamp(); ts != "" {
		header += " " + ts
	}
	if b.Entry.ImageRef != "" {
		header += " " + b.theme.AttachmentBadge.Render("img: "+util.TruncateRunes(b.Entry.ImageRef, 24))
	}

	leftMargin := b.Width - contentWidth - 4
	if leftMargin < 0 {
		leftMargin = 0
	}
	margin := lipgloss.NewStyle().MarginLeft(leftMargin)

	return lipgloss.JoinVertical(lipgloss.Right, margin.Render(header), margin.Render(bubble))
}

// renderAssistant renders a left-aligned violet bubble. Replies containing
// fenced code skip the background bubble so highlighted blocks keep their
// own styling.
func (b *EntryBubble) renderAssistant() string {
	content := b.Entry.Text
	if content == "" {
		content = "..."
	}

	header := b.theme.AssistantLabel.Render("aurora")
	if ts := b.renderTimestamp(); ts != "" {
		header += " " + ts
	}

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}

	if strings.Contains(content, "```") {
		body := ParseCodeBlocks(content, maxContentWidth)
		return lipgloss.JoinVertical(lipgloss.Left, header, body)
	}

	wrapped := wrapText(content, maxContentWidth)
	contentWidth := minInt(maxLineWidth(wrapped)+4, b.Width-8)
	bubble := b.theme.AssistantBubble.Width(contentWidth).Render(
		highlightMatches(wrapped, b.Highlight, b.theme.SearchMatch))

	return lipgloss.JoinVertical(lipgloss.Left, header, bubble)
}

// renderPlain is the fallback for unknown roles.
func (b *EntryBubble) renderPlain() string {
	style := lipgloss.NewStyle().
		Foreground(styles.TextPrimary).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Overlay).
		Padding(0, 1)
	return style.Render(wrapText(b.Entry.Text, b.Width-8))
}

// renderTimestamp renders the entry time, dimming to empty when disabled.
func (b *EntryBubble) renderTimestamp() string {
	if !b.ShowTimestamp || b.Entry.Timestamp.IsZero() {
		return ""
	}

	ts := b.Entry.Timestamp
	now := time.Now()
	layout := "3:04 PM"
	if ts.Year() != now.Year() || ts.YearDay() != now.YearDay() {
		layout = "Jan 2, 3:04 PM"
	}
	return b.theme.Timestamp.Render(ts.Format(layout))
}

// =============================================================================
// ENTRY LIST
// =============================================================================

// EntryList renders a conversation transcript, optionally filtered.
type EntryList struct {
	Entries        []*model.Entry
	Width          int
	ShowTimestamps bool
	Highlight      string
	theme          *styles.Theme
}

// NewEntryList creates an empty transcript view.
func NewEntryList(theme *styles.Theme) *EntryList {
	return &EntryList{
		Width:          80,
		ShowTimestamps: true,
		theme:          theme,
	}
}

// SetEntries replaces the displayed entries. Entries are shared with the
// conversation and never mutated here.
func (el *EntryList) SetEntries(entries []*model.Entry) {
	el.Entries = entries
}

// SetWidth sets the transcript width.
func (el *EntryList) SetWidth(width int) {
	el.Width = width
}

// View renders all entries with blank lines between bubbles.
func (el *EntryList) View() string {
	if len(el.Entries) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true).
			Width(el.Width).
			Align(lipgloss.Center).
			Padding(2, 0)
		return empty.Render("No messages yet. Say something, or press ^V to talk.")
	}

	bubbles := make([]string, 0, len(el.Entries))
	for _, entry := range el.Entries {
		bubble := NewEntryBubble(entry, el.theme)
		bubble.SetWidth(el.Width)
		bubble.ShowTimestamp = el.ShowTimestamps
		bubble.Highlight = el.Highlight
		bubbles = append(bubbles, bubble.View())
	}
	return strings.Join(bubbles, "\n")
}

// =============================================================================
// TEXT HELPERS
// =============================================================================

// wrapText word-wraps text to the given display width.
// UNICODE: widths are terminal cells, not runes, so CJK wraps correctly.
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	for lineIdx, line := range strings.Split(text, "\n") {
		if lineIdx > 0 {
			result.WriteString("\n")
		}

		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}

		current := words[0]
		for _, word := range words[1:] {
			if util.StringWidth(current)+1+util.StringWidth(word) <= width {
				current += " " + word
			} else {
				result.WriteString(current)
				result.WriteString("\n")
				current = word
			}
		}
		result.WriteString(current)
	}
	return result.String()
}

// highlightMatches wraps case-insensitive occurrences of query in the match
// style, line by line so escape sequences never cross a line break. Byte
// offsets assume lowering preserves length; lines where it does not are left
// unhighlighted.
func highlightMatches(text, query string, style lipgloss.Style) string {
	if query == "" {
		return text
	}
	lowerQuery := strings.ToLower(query)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lower := strings.ToLower(line)
		if len(lower) != len(line) {
			continue
		}
		idx := strings.Index(lower, lowerQuery)
		if idx < 0 {
			continue
		}
		var out strings.Builder
		for idx >= 0 {
			out.WriteString(line[:idx])
			out.WriteString(style.Render(line[idx : idx+len(lowerQuery)]))
			line = line[idx+len(lowerQuery):]
			lower = lower[idx+len(lowerQuery):]
			idx = strings.Index(lower, lowerQuery)
		}
		out.WriteString(line)
		lines[i] = out.String()
	}
	return strings.Join(lines, "\n")
}

// maxLineWidth returns the display width of the widest line.
func maxLineWidth(text string) int {
	widest := 0
	for _, line := range strings.Split(text, "\n") {
		if w := util.StringWidth(line); w > widest {
			widest = w
		}
	}
	return widest
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
