// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the interactive conversation screen.
//
// This file exports the transcript to a markdown file.
package chat

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/aurora-tui/internal/model"
	"github.com/jeranaias/aurora-tui/internal/util"
)

// exportTimestampLayout names export files down to the second so
// repeated exports never collide.
const exportTimestampLayout = "20060102-150405"

// exportTranscript snapshots the conversation and writes it off the
// UI goroutine. An empty path picks a timestamped file in the working
// directory.
func (m Model) exportTranscript(path string) (tea.Model, tea.Cmd) {
	if m.conversation.IsEmpty() {
		return m, m.setNotice("Nothing to export yet.")
	}
	if path == "" {
		path = defaultExportPath(time.Now())
	}
	title := m.conversation.GetTitle()
	entries := m.conversation.Entries()
	return m, exportCmd(path, title, entries)
}

// exportCmd renders and writes the transcript.
func exportCmd(path, title string, entries []*model.Entry) tea.Cmd {
	return func() tea.Msg {
		content := RenderTranscript(title, entries, time.Now())
		err := util.AtomicWriteFile(path, []byte(content), 0o644)
		return ExportDoneMsg{Path: path, Err: err}
	}
}

// handleExportDone reports the outcome.
func (m Model) handleExportDone(msg ExportDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.lastError = &ErrorState{
			Title:   "Export failed",
			Message: msg.Err.Error(),
			Tip:     "Try /export with a path you can write to.",
		}
		return m, nil
	}
	return m, m.setNotice("Exported transcript to " + msg.Path)
}

// defaultExportPath names the export file from the current time.
func defaultExportPath(now time.Time) string {
	return "aurora-transcript-" + now.Format(exportTimestampLayout) + ".md"
}

// RenderTranscript renders entries as a markdown document.
func RenderTranscript(title string, entries []*model.Entry, exportedAt time.Time) string {
	var b strings.Builder
	b.WriteString("# " + title + "\n\n")
	b.WriteString(fmt.Sprintf("Exported %s. %d entries.\n", exportedAt.Format("2006-01-02 15:04"), len(entries)))

	for _, e := range entries {
		b.WriteString("\n## " + e.Role.DisplayName())
		if !e.Timestamp.IsZero() {
			b.WriteString(" (" + e.Timestamp.Format("15:04:05") + ")")
		}
		b.WriteString("\n\n")
		b.WriteString(strings.TrimRight(e.Text, "\n"))
		b.WriteString("\n")
		if e.ImageRef != "" {
			b.WriteString("\n_Attached image: " + e.ImageRef + "_\n")
		}
	}
	return b.String()
}
