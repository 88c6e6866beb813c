// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the interactive conversation screen.
//
// This file executes slash commands and applies the messages their
// handlers emit. Handlers in internal/commands never touch model
// state; every mutation happens here, on the Update goroutine.
package chat

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/aurora-tui/internal/commands"
	"github.com/jeranaias/aurora-tui/internal/config"
	"github.com/jeranaias/aurora-tui/internal/logx"
	"github.com/jeranaias/aurora-tui/internal/model"
	"github.com/jeranaias/aurora-tui/internal/ui/styles"
	"github.com/jeranaias/aurora-tui/internal/util"
)

// maxAttachmentBytes caps inline image attachments. The API rejects
// oversized inline payloads, so refuse early with a clear message.
const maxAttachmentBytes = 15 << 20

// ===== EXECUTION =====

// executeCommand parses and runs a slash command line.
func (m Model) executeCommand(line string) (tea.Model, tea.Cmd) {
	result := m.parser.Parse(line)
	m.input.Reset()
	m.clearCompletions()

	if !result.IsCommand || result.Command == nil {
		m.lastError = &ErrorState{
			Title:   "Unknown command",
			Message: fmt.Sprintf("%q is not a command.", result.CommandName),
			Tip:     "Type /help to list the available commands.",
		}
		return m, nil
	}
	if err := commands.ValidateArgs(result.Command, result.Args); err != nil {
		m.lastError = &ErrorState{
			Title:   "Invalid arguments",
			Message: err.Error(),
			Tip:     "Usage: " + result.Command.Usage,
		}
		return m, nil
	}

	ctx := &commands.Context{
		Config:    m.cfg,
		Model:     m.modelName,
		Muted:     m.muted,
		Listening: m.state == StateListening,
	}
	return m, result.Command.Handler(ctx, result.Args)
}

// ===== COMMAND MESSAGE HANDLERS =====

// handleAttachImage loads the validated image into the pending slot.
// The next text message sent will carry it.
func (m Model) handleAttachImage(msg commands.AttachImageMsg) (tea.Model, tea.Cmd) {
	data, err := os.ReadFile(msg.Path)
	if err != nil {
		m.lastError = &ErrorState{
			Title:   "Cannot read image",
			Message: err.Error(),
			Tip:     "Check the path and permissions, then /attach again.",
		}
		return m, nil
	}
	if len(data) > maxAttachmentBytes {
		m.lastError = &ErrorState{
			Title:   "Image too large",
			Message: fmt.Sprintf("%s is %d MB; the inline limit is %d MB.", msg.Path, len(data)>>20, maxAttachmentBytes>>20),
			Tip:     "Resize or compress the image first.",
		}
		return m, nil
	}

	m.pending = &model.PendingImage{
		Path:     msg.Path,
		MIMEType: msg.MIMEType,
		Data:     data,
		DataURI:  util.EncodeDataURI(msg.MIMEType, data),
	}
	m.statusBar.Attachment = m.pending.DisplayRef()
	return m, m.setNotice("Attached " + m.pending.DisplayRef() + ". It will ride along with your next message.")
}

// handleDetachImage drops the pending attachment.
func (m Model) handleDetachImage() (tea.Model, tea.Cmd) {
	if m.pending == nil {
		return m, m.setNotice("No image attached.")
	}
	name := m.pending.DisplayRef()
	m.pending = nil
	m.statusBar.Attachment = ""
	return m, m.setNotice("Detached " + name + ".")
}

// handleSetFilter applies or clears the transcript filter.
func (m Model) handleSetFilter(msg commands.SetFilterMsg) (tea.Model, tea.Cmd) {
	m.filter = strings.TrimSpace(msg.Query)
	m.updateViewport()
	if m.filter == "" {
		return m, m.setNotice("Filter cleared.")
	}
	matches := len(m.visibleEntries())
	return m, m.setNotice(fmt.Sprintf("Filtering for %q (%d matching).", m.filter, matches))
}

// handleToggleMute flips spoken playback. Muting mid-clip stops it.
func (m Model) handleToggleMute() (tea.Model, tea.Cmd) {
	m.muted = !m.muted
	m.statusBar.Muted = m.muted
	m.cfg.Speech.Mute = m.muted
	if m.muted {
		m.player.Stop()
		return m, m.setNotice("Spoken replies muted.")
	}
	return m, m.setNotice("Spoken replies on.")
}

// handleReplay plays the most recent reply clip again.
func (m Model) handleReplay() (tea.Model, tea.Cmd) {
	if m.muted {
		return m, m.setNotice("Muted. Run /mute first to hear replies.")
	}
	if len(m.lastWAV) == 0 {
		return m, m.setNotice("Nothing to replay yet.")
	}
	return m, tea.Batch(m.setNotice("Replaying last reply..."), playCmd(m.player, m.lastWAV))
}

// handleModelSwitch changes the generation model for future requests.
func (m Model) handleModelSwitch(msg commands.ModelSwitchMsg) (tea.Model, tea.Cmd) {
	if msg.Model == m.modelName {
		return m, m.setNotice("Already using " + model.DisplayName(msg.Model) + ".")
	}
	m.modelName = msg.Model
	m.client.SetModel(msg.Model)
	m.cfg.API.Model = msg.Model
	m.conversation.Model = msg.Model
	m.statusBar.ModelName = model.DisplayName(msg.Model)
	m.welcome.SetModelName(model.DisplayName(msg.Model))
	logx.Info().Str("model", msg.Model).Msg("model switched")
	return m, m.setNotice("Model switched to " + model.DisplayName(msg.Model) + ".")
}

// handleShowConfig reads or writes one configuration key. Writes are
// saved to disk and re-applied live where possible.
func (m Model) handleShowConfig(msg commands.ShowConfigMsg) (tea.Model, tea.Cmd) {
	if msg.Key == "" {
		return m, m.setNotice("Usage: /config <key> [value]")
	}

	if msg.Value == "" {
		val, err := m.cfg.Get(msg.Key)
		if err != nil {
			return m, m.setNotice("Unknown key: " + msg.Key)
		}
		if strings.HasSuffix(msg.Key, ".key") {
			return m, m.setNotice(msg.Key + " = " + m.client.APIKeyMasked())
		}
		return m, m.setNotice(fmt.Sprintf("%s = %v", msg.Key, val))
	}

	if err := m.cfg.Set(msg.Key, msg.Value); err != nil {
		m.lastError = &ErrorState{
			Title:   "Config error",
			Message: err.Error(),
			Tip:     "Run /config " + msg.Key + " to see the current value.",
		}
		return m, nil
	}
	if err := config.Save(m.cfg); err != nil {
		logx.Warn().Err(err).Msg("saving config failed")
	}
	m.applyConfig(m.cfg)
	return m, m.setNotice(fmt.Sprintf("%s = %s (saved)", msg.Key, msg.Value))
}

// handleThemeSwitch re-resolves every style against the new
// preference. The theme is shared by pointer, so rebuilding it in
// place restyles all widgets at once.
func (m Model) handleThemeSwitch(msg commands.ThemeSwitchMsg) (tea.Model, tea.Cmd) {
	styles.ApplyPreference(msg.Name)
	*m.theme = *styles.NewTheme()
	m.theme.SetSize(m.width, m.height)
	m.cfg.UI.Theme = msg.Name
	m.updateViewport()
	return m, m.setNotice("Theme: " + msg.Name)
}

// clearConversation wipes the transcript. The filter survives so a
// searching user does not lose their query, but it now matches
// nothing.
func (m Model) clearConversation() (tea.Model, tea.Cmd) {
	if m.conversation.IsEmpty() {
		return m, m.setNotice("Nothing to clear.")
	}
	n := m.conversation.Len()
	m.conversation.Clear()
	m.lastReply = ""
	m.updateViewport()
	return m, m.setNotice(fmt.Sprintf("Cleared %d entries.", n))
}

// handleConfigReloaded re-applies settings after the config file
// changed on disk.
func (m Model) handleConfigReloaded(msg ConfigReloadedMsg) (tea.Model, tea.Cmd) {
	if msg.Config == nil {
		return m, nil
	}
	m.cfg = msg.Config
	m.applyConfig(msg.Config)
	logx.Info().Msg("configuration reloaded from disk")
	return m, m.setNotice("Configuration reloaded.")
}

// applyConfig pushes the live-tunable settings into the running
// widgets and client.
func (m *Model) applyConfig(cfg *config.Config) {
	m.muted = cfg.Speech.Mute
	m.statusBar.Muted = m.muted

	resolved := model.ResolveModel(cfg.API.Model)
	if resolved != m.modelName {
		m.modelName = resolved
		m.client.SetModel(resolved)
		m.conversation.Model = resolved
		m.statusBar.ModelName = model.DisplayName(resolved)
		m.welcome.SetModelName(model.DisplayName(resolved))
	}

	voiceName := cfg.Speech.Voice
	if voiceName == "" {
		voiceName = m.voiceName
	}
	if voiceName != m.voiceName {
		m.voiceName = voiceName
		m.statusBar.Voice = voiceName
		m.welcome.SetVoice(voiceName)
	}
	m.client.WithVoice(cfg.Speech.Voice).WithSpeechModel(cfg.Speech.Model)

	m.entryList.ShowTimestamps = cfg.UI.ShowTimestamps
	if cfg.UI.Theme != "" {
		styles.ApplyPreference(cfg.UI.Theme)
		*m.theme = *styles.NewTheme()
		m.theme.SetSize(m.width, m.height)
	}
	m.updateViewport()
}
