// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the interactive conversation screen.
//
// This file is the request dispatcher and its settlement handlers: the
// three request kinds (text, image, summary), reply handling, the
// apology mapping for failures, speech playback, and voice capture.
package chat

import (
	"context"
	"encoding/base64"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/jeranaias/aurora-tui/internal/audio"
	"github.com/jeranaias/aurora-tui/internal/commands"
	"github.com/jeranaias/aurora-tui/internal/gemini"
	"github.com/jeranaias/aurora-tui/internal/logx"
	"github.com/jeranaias/aurora-tui/internal/model"
	"github.com/jeranaias/aurora-tui/internal/voice"
)

// speechTimeout bounds synthesis and transcription requests. These are
// single-attempt, so the bound is generous.
const speechTimeout = 30 * time.Second

// ===== DISPATCH =====

// submitInput sends the current input: a slash command runs directly,
// anything else becomes a generation request.
func (m Model) submitInput() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	if commands.IsCommand(text) {
		return m.executeCommand(text)
	}
	return m.dispatchChat(text)
}

// dispatchChat sends a text request, or an image request when an
// attachment is pending. The user entry is appended before dispatch so
// it is on screen while the request runs.
func (m Model) dispatchChat(text string) (tea.Model, tea.Cmd) {
	if m.state != StateIdle {
		return m, m.setNotice("Still working on the last request.")
	}
	if m.client == nil || !m.client.IsConfigured() {
		m.lastError = &ErrorState{
			Title:   "No API key",
			Message: "Aurora needs a Gemini API key before it can reply.",
			Tip:     "Set AURORA_API_KEY or run: aurora config set api.key <key>",
		}
		return m, nil
	}

	kind := gemini.KindChat
	req := gemini.BuildTextRequest(text)
	imageRef := ""
	if m.pending != nil {
		kind = gemini.KindVision
		req = gemini.BuildImageRequest(text, m.pending.MIMEType,
			base64.StdEncoding.EncodeToString(m.pending.Data))
		imageRef = m.pending.DisplayRef()
		m.pending = nil
		m.statusBar.Attachment = ""
	}

	m.conversation.AddUserEntry(text, imageRef)
	m.input.Reset()
	return m.startGenerate(kind, req)
}

// dispatchSummary asks the model to summarize the conversation so far.
// The transcript is captured before the visible request entry is added
// so the summary does not describe itself.
func (m Model) dispatchSummary() (tea.Model, tea.Cmd) {
	if m.state != StateIdle {
		return m, m.setNotice("Still working on the last request.")
	}
	if m.conversation.IsEmpty() {
		return m, m.setNotice("Nothing to summarize yet.")
	}
	if m.client == nil || !m.client.IsConfigured() {
		m.lastError = &ErrorState{
			Title:   "No API key",
			Message: "Aurora needs a Gemini API key before it can reply.",
			Tip:     "Set AURORA_API_KEY or run: aurora config set api.key <key>",
		}
		return m, nil
	}

	transcript := transcriptContents(m.conversation.Entries())
	m.conversation.AddUserEntry("Summarize our conversation so far.", "")
	m.input.Reset()
	return m.startGenerate(gemini.KindSummary, gemini.BuildSummaryRequest(transcript))
}

// transcriptContents maps conversation entries onto API turns.
func transcriptContents(entries []*model.Entry) []gemini.Content {
	out := make([]gemini.Content, 0, len(entries))
	for _, e := range entries {
		if e.Role == model.RoleAssistant {
			out = append(out, gemini.NewModelContent(e.Text))
		} else {
			out = append(out, gemini.NewUserContent(e.Text))
		}
	}
	return out
}

// startGenerate transitions to busy and launches the request command.
// The request ID lets settlement ignore replies from a request that
// was canceled or superseded.
func (m Model) startGenerate(kind gemini.RequestKind, req *gemini.GenerateRequest) (tea.Model, tea.Cmd) {
	requestID := uuid.NewString()
	m.activeRequestID = requestID
	m.activeKind = kind
	m.transitionTo(StateBusy)
	m.clearNotice()
	m.updateViewport()

	ctx, cancel := context.WithCancel(context.Background())
	m.setCancelFunc(cancel)

	logx.Debug().
		Str("request_id", requestID).
		Str("kind", kind.String()).
		Msg("dispatching generation request")
	return m, generateCmd(ctx, m.client, req, requestID, kind)
}

// generateCmd runs the request off the UI goroutine and re-enters the
// Update loop with the settled result.
func generateCmd(ctx context.Context, client *gemini.Client, req *gemini.GenerateRequest, requestID string, kind gemini.RequestKind) tea.Cmd {
	return func() tea.Msg {
		text, err := client.Generate(ctx, req)
		if err != nil {
			return ReplyErrorMsg{RequestID: requestID, Kind: kind, Err: err}
		}
		return ReplyMsg{RequestID: requestID, Kind: kind, Text: text}
	}
}

// ===== SETTLEMENT =====

// handleReply settles a successful generation: append the assistant
// entry, return to idle, and hand the text to the synthesizer unless
// muted.
func (m Model) handleReply(msg ReplyMsg) (tea.Model, tea.Cmd) {
	if msg.RequestID != m.activeRequestID {
		logx.Debug().Str("request_id", msg.RequestID).Msg("dropping stale reply")
		return m, nil
	}
	m.settle()

	m.conversation.AddAssistantEntry(msg.Text)
	m.lastReply = msg.Text
	m.updateViewport()

	if m.muted {
		return m, nil
	}
	return m, synthesizeCmd(m.client, msg.Text)
}

// handleReplyError settles a failed generation. The error kind decides
// the rendering here, at the settlement boundary: cancellations become
// a notice, missing configuration becomes an error box, and everything
// else becomes a spoken apology entry.
func (m Model) handleReplyError(msg ReplyErrorMsg) (tea.Model, tea.Cmd) {
	if msg.RequestID != m.activeRequestID {
		logx.Debug().Str("request_id", msg.RequestID).Msg("dropping stale reply error")
		return m, nil
	}
	m.settle()

	kind := gemini.Classify(msg.Err)
	logx.Warn().
		Err(msg.Err).
		Str("kind", msg.Kind.String()).
		Str("error_kind", kind.String()).
		Msg("generation request failed")

	switch kind {
	case gemini.ErrorKindCanceled:
		return m, m.setNotice("Request canceled.")
	case gemini.ErrorKindNotConfigured:
		m.lastError = &ErrorState{
			Title:   "No API key",
			Message: "Aurora needs a Gemini API key before it can reply.",
			Tip:     "Set AURORA_API_KEY or run: aurora config set api.key <key>",
		}
		return m, nil
	}

	apology := apologyFor(msg.Kind, msg.Err)
	m.conversation.AddAssistantEntry(apology)
	m.lastReply = apology
	m.updateViewport()

	if m.muted {
		return m, nil
	}
	return m, synthesizeCmd(m.client, apology)
}

// settle ends the active request: clear the ID and cancel func, drop
// any retry notice, and return to idle. Busy covers exactly the span
// from dispatch to this call.
func (m *Model) settle() {
	m.clearCancelFunc()
	m.activeRequestID = ""
	m.clearNotice()
	m.transitionTo(StateIdle)
}

// handleRetryAttempt surfaces retry progress while the client backs
// off between attempts.
func (m Model) handleRetryAttempt(msg RetryAttemptMsg) (tea.Model, tea.Cmd) {
	if m.state != StateBusy {
		return m, nil
	}
	text := "Retrying (" + strconv.Itoa(msg.Attempt) + "/" + strconv.Itoa(msg.MaxAttempts) + ") in " + msg.Delay.String() + "..."
	return m, m.setNotice(text)
}

// ===== SPEECH =====

// handleSpeechReady stores the clip for /replay and starts playback.
// Playback is single-slot: the player cancels anything still playing.
func (m Model) handleSpeechReady(msg SpeechReadyMsg) (tea.Model, tea.Cmd) {
	m.lastWAV = msg.WAV
	if m.muted || m.player == nil {
		return m, nil
	}
	return m, playCmd(m.player, msg.WAV)
}

// handleSpeechError logs and swallows a synthesis failure. The reply
// text is already on screen, so losing the audio is not an error the
// user needs to act on.
func (m Model) handleSpeechError(msg SpeechErrorMsg) (tea.Model, tea.Cmd) {
	logx.Warn().Err(msg.Err).Msg("speech synthesis failed")
	return m, nil
}

// handlePlaybackDone logs playback failures and otherwise does
// nothing.
func (m Model) handlePlaybackDone(msg PlaybackDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		logx.Warn().Err(msg.Err).Msg("audio playback failed")
	}
	return m, nil
}

// synthesizeCmd synthesizes text to a WAV clip off the UI goroutine.
func synthesizeCmd(client *gemini.Client, text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), speechTimeout)
		defer cancel()
		res, err := client.Synthesize(ctx, text)
		if err != nil {
			return SpeechErrorMsg{Err: err}
		}
		wav, err := audio.EncodeWAV(res.PCM, res.SampleRate)
		if err != nil {
			return SpeechErrorMsg{Err: err}
		}
		return SpeechReadyMsg{WAV: wav, SampleRate: res.SampleRate}
	}
}

// playCmd plays a WAV clip and reports when it finishes.
func playCmd(player *audio.Player, wav []byte) tea.Cmd {
	return func() tea.Msg {
		return PlaybackDoneMsg{Err: player.Play(context.Background(), wav)}
	}
}

// ===== VOICE CAPTURE =====

// toggleVoice flips between idle and listening. Busy requests are not
// interrupted by the microphone.
func (m Model) toggleVoice() (tea.Model, tea.Cmd) {
	switch m.state {
	case StateBusy:
		return m, m.setNotice("Wait for the current request to finish first.")
	case StateListening:
		return m.stopVoice()
	default:
		return m.startVoice()
	}
}

// startVoice transitions to listening and opens the microphone.
func (m Model) startVoice() (tea.Model, tea.Cmd) {
	if m.voice == nil {
		m.lastError = &ErrorState{
			Title:   "Voice capture unavailable",
			Message: "Voice capture is disabled or no recorder was found.",
			Tip:     "Enable voice.enabled and install arecord, sox, or ffmpeg.",
		}
		return m, nil
	}
	m.transitionTo(StateListening)
	return m, startVoiceCmd(m.voice)
}

// stopVoice closes the microphone and transcribes the capture. The
// screen returns to idle immediately; the transcript arrives
// asynchronously and fills the input.
func (m Model) stopVoice() (tea.Model, tea.Cmd) {
	m.transitionTo(StateIdle)
	if m.voice == nil {
		return m, nil
	}
	return m, tea.Batch(m.setNotice("Transcribing..."), stopVoiceCmd(m.voice))
}

// discardVoice closes the microphone and drops the capture.
func (m Model) discardVoice() (tea.Model, tea.Cmd) {
	m.transitionTo(StateIdle)
	if m.voice == nil {
		return m, nil
	}
	if err := m.voice.Discard(); err != nil {
		logx.Warn().Err(err).Msg("discarding voice capture failed")
	}
	return m, m.setNotice("Capture discarded.")
}

// handleVoiceStarted rolls the state back if the recorder failed to
// open.
func (m Model) handleVoiceStarted(msg VoiceStartedMsg) (tea.Model, tea.Cmd) {
	if msg.Err == nil {
		return m, nil
	}
	m.transitionTo(StateIdle)
	logx.Warn().Err(msg.Err).Msg("voice capture failed to start")
	m.lastError = &ErrorState{
		Title:   "Microphone error",
		Message: msg.Err.Error(),
		Tip:     "Install arecord, sox, or ffmpeg, or set voice.recorder.",
	}
	return m, nil
}

// handleTranscript places the transcribed text into the input, ready
// to edit or send.
func (m Model) handleTranscript(msg TranscriptMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		return m, m.setNotice(transcriptErrorNotice(msg.Err))
	}
	m.clearNotice()
	m.input.SetValue(msg.Text)
	return m, m.input.Focus()
}

// startVoiceCmd opens the microphone off the UI goroutine.
func startVoiceCmd(ctl *voice.Controller) tea.Cmd {
	return func() tea.Msg {
		return VoiceStartedMsg{Err: ctl.Start(context.Background())}
	}
}

// stopVoiceCmd stops the capture and transcribes it.
func stopVoiceCmd(ctl *voice.Controller) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), speechTimeout)
		defer cancel()
		text, err := ctl.StopAndTranscribe(ctx)
		return TranscriptMsg{Text: text, Err: err}
	}
}
