// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the interactive conversation screen.
package chat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/aurora-tui/internal/model"
)

func TestRenderTranscript(t *testing.T) {
	entries := []*model.Entry{
		model.NewUserEntry("show me the config", "aurora.toml"),
		model.NewAssistantEntry("Here it is."),
	}
	exported := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

	got := RenderTranscript("Morning session", entries, exported)

	for _, want := range []string{
		"# Morning session",
		"Exported 2025-06-01 09:30",
		"## You",
		"show me the config",
		"## Aurora",
		"Here it is.",
		"_Attached image: aurora.toml_",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("transcript missing %q\n%s", want, got)
		}
	}
}

func TestDefaultExportPath(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 30, 45, 0, time.UTC)
	got := defaultExportPath(now)
	if got != "aurora-transcript-20250601-093045.md" {
		t.Errorf("path = %q", got)
	}
}

func TestExportCommandWritesFile(t *testing.T) {
	m := newTestModel(t)
	m.conversation.AddUserEntry("keep this", "")
	path := filepath.Join(t.TempDir(), "out.md")

	um, cmd := m.exportTranscript(path)
	m = um.(Model)
	if cmd == nil {
		t.Fatal("no export command returned")
	}

	msg := cmd()
	done, ok := msg.(ExportDoneMsg)
	if !ok {
		t.Fatalf("got %T, want ExportDoneMsg", msg)
	}
	if done.Err != nil {
		t.Fatalf("export failed: %v", done.Err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	if !strings.Contains(string(data), "keep this") {
		t.Error("export file missing the entry text")
	}

	um, _ = m.Update(done)
	m = um.(Model)
	if !strings.Contains(m.notice, path) {
		t.Errorf("notice = %q, want the export path", m.notice)
	}
}

func TestExportEmptyConversation(t *testing.T) {
	m := newTestModel(t)
	um, _ := m.exportTranscript("")
	m = um.(Model)
	if !strings.Contains(m.notice, "Nothing to export") {
		t.Errorf("notice = %q", m.notice)
	}
}
