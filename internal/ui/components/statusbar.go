// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the aurora TUI.
package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/aurora-tui/internal/ui/styles"
	"github.com/jeranaias/aurora-tui/internal/util"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// StatusBar is the bottom bar showing conversation state, model, and hints.
type StatusBar struct {
	State         OrbMode // idle, busy, or listening
	ModelName     string
	Voice         string
	Muted         bool
	Attachment    string // pending image filename, empty when none
	FilterActive  bool
	FilterMatches int
	EntryCount    int
	TokenEstimate int
	Width         int
	ShowShortcuts bool
	theme         *styles.Theme
}

// NewStatusBar creates a status bar with defaults.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		State:         OrbIdle,
		Width:         80,
		ShowShortcuts: true,
		theme:         theme,
	}
}

// SetWidth updates the bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetState updates the conversation state badge.
func (s *StatusBar) SetState(state OrbMode) {
	s.State = state
}

// SetFilter updates the search filter display. matches is ignored when the
// filter is inactive.
func (s *StatusBar) SetFilter(active bool, matches int) {
	s.FilterActive = active
	s.FilterMatches = matches
}

// stateBadge renders the colored conversation state badge.
// ACCESSIBILITY: state is text, never color alone.
func (s *StatusBar) stateBadge(compact bool) string {
	var style lipgloss.Style
	var label string

	switch s.State {
	case OrbBusy:
		style = s.theme.StateBusy
		label = "BUSY"
	case OrbListening:
		style = s.theme.StateListening
		label = "LISTENING"
	default:
		style = s.theme.StateIdle
		label = "IDLE"
	}

	if compact {
		label = label[:1]
	}
	return style.Render(label)
}

// View renders the status bar for the current width.
func (s *StatusBar) View() string {
	if s.Width < 60 {
		return s.viewNarrow()
	}
	if s.Width < 100 {
		return s.viewMedium()
	}
	return s.viewWide()
}

// viewNarrow renders a minimal bar: state letter plus mute and filter flags.
func (s *StatusBar) viewNarrow() string {
	parts := []string{s.stateBadge(true)}

	if s.Muted {
		parts = append(parts, s.theme.MuteIndicator.Render("M"))
	}
	if s.Attachment != "" {
		parts = append(parts, s.theme.AttachmentBadge.Render("img"))
	}
	if s.FilterActive {
		parts = append(parts, s.theme.SearchCount.Render(strconv.Itoa(s.FilterMatches)))
	}

	return s.theme.StatusBar.Width(s.Width).Render(strings.Join(parts, " "))
}

// viewMedium adds the model name and drops shortcuts.
func (s *StatusBar) viewMedium() string {
	sep := lipgloss.NewStyle().Foreground(styles.Overlay).Render(" | ")

	parts := []string{s.stateBadge(false)}

	if s.ModelName != "" {
		parts = append(parts, s.theme.ShortcutDesc.Render(util.TruncateRunes(s.ModelName, 20)))
	}
	if s.Muted {
		parts = append(parts, s.theme.MuteIndicator.Render("muted"))
	}
	if s.Attachment != "" {
		parts = append(parts, s.theme.AttachmentBadge.Render(util.TruncateRunes(s.Attachment, 16)))
	}
	if s.FilterActive {
		parts = append(parts, s.renderFilterCount())
	}

	return s.theme.StatusBar.Width(s.Width).Render(strings.Join(parts, sep))
}

// viewWide renders the full bar with voice info and shortcuts, right-aligned.
func (s *StatusBar) viewWide() string {
	sep := lipgloss.NewStyle().Foreground(styles.Overlay).Render(" | ")

	left := []string{s.stateBadge(false)}
	if s.ModelName != "" {
		left = append(left, s.theme.ShortcutDesc.Render(s.ModelName))
	}
	if s.Voice != "" {
		voiceLabel := "voice: " + s.Voice
		if s.Muted {
			voiceLabel = "voice: off"
		}
		left = append(left, s.theme.ShortcutDesc.Render(voiceLabel))
	}
	if s.TokenEstimate > 0 {
		left = append(left, s.theme.ShortcutDesc.Render("~"+util.FormatCount(s.TokenEstimate)+" tok"))
	}
	if s.Muted {
		left = append(left, s.theme.MuteIndicator.Render("muted"))
	}
	if s.Attachment != "" {
		left = append(left, s.theme.AttachmentBadge.Render(s.Attachment))
	}
	if s.FilterActive {
		left = append(left, s.renderFilterCount())
	}
	leftSection := strings.Join(left, sep)

	rightSection := ""
	if s.ShowShortcuts {
		rightSection = s.renderShortcuts()
	}

	gap := s.Width - lipgloss.Width(leftSection) - lipgloss.Width(rightSection) - 2
	if gap < 1 {
		gap = 1
	}

	content := leftSection + strings.Repeat(" ", gap) + rightSection
	return s.theme.StatusBar.Width(s.Width).Render(content)
}

// renderFilterCount renders "3/12" style match counts for the active filter.
func (s *StatusBar) renderFilterCount() string {
	count := strconv.Itoa(s.FilterMatches) + "/" + strconv.Itoa(s.EntryCount)
	return s.theme.SearchCount.Render("filter " + count)
}

// renderShortcuts renders the keyboard hint cluster.
func (s *StatusBar) renderShortcuts() string {
	type hint struct {
		key  string
		desc string
	}

	hints := []hint{
		{"^V", "voice"},
		{"^F", "search"},
		{"^E", "export"},
		{"^C", "quit"},
	}

	var parts []string
	for _, h := range hints {
		parts = append(parts, s.theme.ShortcutKey.Render(h.key)+" "+s.theme.ShortcutDesc.Render(h.desc))
	}
	return strings.Join(parts, "  ")
}
