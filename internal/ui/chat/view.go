// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the interactive conversation screen.
//
// This file renders the screen: header, transcript, search bar,
// notice line, completion popup, input, and status bar, plus the help
// and error overlays.
package chat

import (
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/aurora-tui/internal/model"
	"github.com/jeranaias/aurora-tui/internal/util"
)

// View renders the chat screen.
func (m Model) View() string {
	if m.width == 0 {
		return "Starting aurora..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	sections := []string{m.renderHeader()}
	if m.searchMode {
		sections = append(sections, m.renderSearchBar())
	}
	sections = append(sections, m.renderTranscript())
	if m.notice != "" {
		sections = append(sections, m.renderNotice())
	}
	if m.showCompletions {
		sections = append(sections, m.popup.View())
	}
	sections = append(sections, m.input.View())
	sections = append(sections, m.statusBar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// ===== SECTIONS =====

// renderHeader draws the one-line title bar with the orb on the left
// and the active model on the right, plus a spacer line.
func (m Model) renderHeader() string {
	left := m.orb.View() + " " + m.theme.HeaderTitle.Render("aurora")
	right := m.theme.HeaderSubtitle.Render(model.DisplayName(m.modelName))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 1
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right + "\n"
}

// renderSearchBar draws the live filter input with its match count.
func (m Model) renderSearchBar() string {
	bar := m.searchInput.View()
	if m.filter != "" {
		count := len(m.visibleEntries())
		bar += "  " + m.theme.SearchCount.Render(strconv.Itoa(count)+" matching")
	}
	return m.theme.SearchBar.Width(maxInt(1, m.width-2)).Render(bar)
}

// renderTranscript draws the conversation viewport, the welcome screen
// when there is nothing to show yet, or the error overlay centered in
// the same space so the layout height never changes.
func (m Model) renderTranscript() string {
	if m.lastError != nil {
		return lipgloss.Place(m.width, m.viewport.Height,
			lipgloss.Center, lipgloss.Center, m.renderError())
	}
	if m.conversation.IsEmpty() && m.filter == "" && !m.searchMode {
		return lipgloss.Place(m.width, m.viewport.Height,
			lipgloss.Center, lipgloss.Center, m.welcome.View())
	}
	return m.viewport.View()
}

// renderNotice draws the transient one-line notice.
func (m Model) renderNotice() string {
	return m.theme.Notice.MaxWidth(m.width).Render(m.notice)
}

// renderError draws the blocking error box.
func (m Model) renderError() string {
	parts := []string{
		m.theme.ErrorTitle.Render(m.lastError.Title),
		m.theme.ErrorMessage.Render(m.lastError.Message),
	}
	if m.lastError.Tip != "" {
		parts = append(parts, m.theme.ErrorSuggestion.Render(m.lastError.Tip))
	}
	parts = append(parts, m.theme.Timestamp.Render("esc or enter to dismiss"))
	box := lipgloss.JoinVertical(lipgloss.Left, parts...)
	return m.theme.ErrorBox.MaxWidth(maxInt(20, m.width-4)).Render(box)
}

// ===== HELP OVERLAY =====

// renderHelp draws the full-screen help: key bindings for the current
// state, then the slash commands, optionally narrowed to one topic.
func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(m.theme.HeaderTitle.Render("aurora help"))
	b.WriteString("\n\n")

	b.WriteString(m.theme.InfoText.Render("Keys"))
	b.WriteString("\n")
	items := ForContext(GetHelpItems(), helpContextFor(m.state, m.searchMode))
	grouped := ByCategory(items)
	for _, category := range GetCategoryOrder() {
		rows := grouped[category]
		if len(rows) == 0 {
			continue
		}
		b.WriteString("  " + m.theme.ShortcutDesc.Render(category) + "\n")
		for _, item := range rows {
			b.WriteString("    " + m.theme.ShortcutKey.Render(util.PadRight(item.Keys, 12)))
			b.WriteString(" " + item.Description + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.theme.InfoText.Render("Commands"))
	b.WriteString("\n")
	byCat := m.registry.ByCategory()
	categories := make([]string, 0, len(byCat))
	for cat := range byCat {
		categories = append(categories, cat)
	}
	sort.Strings(categories)
	for _, cat := range categories {
		if m.helpTopic != "" && !strings.EqualFold(cat, m.helpTopic) {
			continue
		}
		cmds := byCat[cat]
		sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
		b.WriteString("  " + m.theme.ShortcutDesc.Render(cat) + "\n")
		for _, cmd := range cmds {
			b.WriteString("    " + m.theme.ShortcutKey.Render(util.PadRight(cmd.Name, 12)))
			b.WriteString(" " + cmd.Description + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.theme.Timestamp.Render("esc to close"))

	return lipgloss.Place(m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		m.theme.Container.Render(b.String()))
}
