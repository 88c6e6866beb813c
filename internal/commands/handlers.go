// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the TUI.
package commands

import (
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/aurora-tui/internal/model"
	"github.com/jeranaias/aurora-tui/internal/util"
)

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// Handlers emit these messages; the chat model applies the state changes.

// ShowHelpMsg opens the help listing, optionally scoped to a category.
type ShowHelpMsg struct {
	Topic string
}

// AttachImageMsg stages an image for the next message. The path has been
// checked for existence and a supported format.
type AttachImageMsg struct {
	Path     string
	MIMEType string
}

// DetachImageMsg drops the staged image.
type DetachImageMsg struct{}

// SummarizeRequestMsg asks for a summary of the transcript so far.
type SummarizeRequestMsg struct{}

// SetFilterMsg sets the transcript filter. An empty query clears it.
type SetFilterMsg struct {
	Query string
}

// ToggleVoiceMsg starts or stops voice capture.
type ToggleVoiceMsg struct{}

// ToggleMuteMsg flips spoken-reply playback.
type ToggleMuteMsg struct{}

// ReplayMsg speaks the most recent reply again.
type ReplayMsg struct{}

// ModelSwitchMsg changes the generation model.
type ModelSwitchMsg struct {
	Model string
}

// ShowModelMsg reports the active model without changing it.
type ShowModelMsg struct{}

// ExportTranscriptMsg writes the transcript to a markdown file. An empty
// path selects a timestamped default.
type ExportTranscriptMsg struct {
	Path string
}

// ClearConversationMsg discards the transcript.
type ClearConversationMsg struct{}

// ShowConfigMsg shows or sets a configuration value.
type ShowConfigMsg struct {
	Key   string
	Value string
}

// ThemeSwitchMsg changes the color theme.
type ThemeSwitchMsg struct {
	Name string
}

// NoticeMsg surfaces one-line feedback above the input.
type NoticeMsg struct {
	Text string
}

// ErrorMsg surfaces a command failure.
type ErrorMsg struct {
	Title   string
	Message string
	Tip     string
}

// =============================================================================
// HANDLERS
// =============================================================================

// HandleHelp opens the command listing.
func HandleHelp(ctx *Context, args []string) tea.Cmd {
	topic := ""
	if len(args) > 0 {
		topic = strings.ToLower(args[0])
	}
	return func() tea.Msg {
		return ShowHelpMsg{Topic: topic}
	}
}

// HandleQuit exits the application.
func HandleQuit(ctx *Context, args []string) tea.Cmd {
	return tea.Quit
}

// HandleAttach validates the path and stages the image. Validation happens
// here so a typo surfaces immediately instead of after a send.
func HandleAttach(ctx *Context, args []string) tea.Cmd {
	if len(args) == 0 {
		return errorCmd("Attach failed", "no path given", "usage: /attach <path>")
	}
	path := args[0]

	return func() tea.Msg {
		info, err := os.Stat(path)
		if err != nil {
			return ErrorMsg{Title: "Attach failed", Message: "cannot read " + path, Tip: "check the path"}
		}
		if info.IsDir() {
			return ErrorMsg{Title: "Attach failed", Message: path + " is a directory", Tip: "point at an image file"}
		}

		mime, err := util.DetectImageMIME(path)
		if err != nil {
			return ErrorMsg{
				Title:   "Attach failed",
				Message: "unsupported image format",
				Tip:     "supported: png, jpg, gif, webp",
			}
		}
		return AttachImageMsg{Path: path, MIMEType: mime}
	}
}

// HandleDetach drops the staged image.
func HandleDetach(ctx *Context, args []string) tea.Cmd {
	return func() tea.Msg {
		return DetachImageMsg{}
	}
}

// HandleSummarize requests a transcript summary.
func HandleSummarize(ctx *Context, args []string) tea.Cmd {
	return func() tea.Msg {
		return SummarizeRequestMsg{}
	}
}

// HandleSearch sets or clears the transcript filter.
func HandleSearch(ctx *Context, args []string) tea.Cmd {
	query := strings.Join(args, " ")
	return func() tea.Msg {
		return SetFilterMsg{Query: query}
	}
}

// HandleVoice toggles voice capture.
func HandleVoice(ctx *Context, args []string) tea.Cmd {
	return func() tea.Msg {
		return ToggleVoiceMsg{}
	}
}

// HandleMute toggles spoken replies.
func HandleMute(ctx *Context, args []string) tea.Cmd {
	return func() tea.Msg {
		return ToggleMuteMsg{}
	}
}

// HandleReplay speaks the last reply again.
func HandleReplay(ctx *Context, args []string) tea.Cmd {
	return func() tea.Msg {
		return ReplayMsg{}
	}
}

// HandleModel switches the model, resolving short aliases. Without
// arguments it reports the active model.
func HandleModel(ctx *Context, args []string) tea.Cmd {
	if len(args) == 0 {
		return func() tea.Msg {
			return ShowModelMsg{}
		}
	}

	name := model.ResolveModel(args[0])
	return func() tea.Msg {
		return ModelSwitchMsg{Model: name}
	}
}

// HandleExport writes the transcript to disk.
func HandleExport(ctx *Context, args []string) tea.Cmd {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	return func() tea.Msg {
		return ExportTranscriptMsg{Path: path}
	}
}

// HandleClear discards the transcript.
func HandleClear(ctx *Context, args []string) tea.Cmd {
	return func() tea.Msg {
		return ClearConversationMsg{}
	}
}

// HandleConfig shows or sets configuration.
func HandleConfig(ctx *Context, args []string) tea.Cmd {
	key := ""
	value := ""
	if len(args) > 0 {
		key = args[0]
	}
	if len(args) > 1 {
		value = strings.Join(args[1:], " ")
	}
	return func() tea.Msg {
		return ShowConfigMsg{Key: key, Value: value}
	}
}

// HandleTheme switches the color theme.
func HandleTheme(ctx *Context, args []string) tea.Cmd {
	if len(args) == 0 {
		return errorCmd("Theme", "no theme given", "usage: /theme <dark|light|auto>")
	}
	name := strings.ToLower(args[0])
	return func() tea.Msg {
		return ThemeSwitchMsg{Name: name}
	}
}

// errorCmd wraps an ErrorMsg in a command.
func errorCmd(title, message, tip string) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Title: title, Message: message, Tip: tip}
	}
}
