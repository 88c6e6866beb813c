// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the interactive conversation screen.
package chat

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/aurora-tui/internal/commands"
	"github.com/jeranaias/aurora-tui/internal/gemini"
	"github.com/jeranaias/aurora-tui/internal/model"
	"github.com/jeranaias/aurora-tui/internal/voice"
)

// =============================================================================
// DISPATCH TESTS
// =============================================================================

func TestDispatchMarksBusy(t *testing.T) {
	m := newTestModel(t)
	if m.State() != StateIdle {
		t.Fatalf("initial state = %v, want idle", m.State())
	}

	m, cmd := dispatchText(t, m, "Hello")

	if m.State() != StateBusy {
		t.Errorf("state after dispatch = %v, want busy", m.State())
	}
	if cmd == nil {
		t.Error("dispatch returned no command")
	}
	if m.conversation.Len() != 1 {
		t.Fatalf("conversation has %d entries, want 1", m.conversation.Len())
	}
	entry := m.conversation.LastEntry()
	if entry.Role != model.RoleUser || entry.Text != "Hello" {
		t.Errorf("entry = %s %q, want user \"Hello\"", entry.Role, entry.Text)
	}
	if m.input.Value() != "" {
		t.Errorf("input not reset, still %q", m.input.Value())
	}
	if m.activeRequestID == "" {
		t.Error("no active request ID recorded")
	}
}

func TestDispatchRefusedWhileBusy(t *testing.T) {
	m, _ := dispatchText(t, newTestModel(t), "first")

	m.input.SetValue("second")
	um, _ := m.submitInput()
	m = um.(Model)

	if m.State() != StateBusy {
		t.Errorf("state = %v, want busy", m.State())
	}
	if m.conversation.Len() != 1 {
		t.Errorf("conversation grew to %d entries while busy", m.conversation.Len())
	}
	if m.notice == "" {
		t.Error("expected a notice explaining the refusal")
	}
}

func TestDispatchWithoutAPIKey(t *testing.T) {
	m := newTestModelWithKey(t, "")
	m, cmd := dispatchText(t, m, "Hello")

	if cmd != nil {
		t.Error("dispatch without a key should not launch a request")
	}
	if m.State() != StateIdle {
		t.Errorf("state = %v, want idle", m.State())
	}
	if m.conversation.Len() != 0 {
		t.Errorf("conversation has %d entries, want 0", m.conversation.Len())
	}
	if m.lastError == nil || m.lastError.Title != "No API key" {
		t.Errorf("lastError = %+v, want the missing key box", m.lastError)
	}
}

func TestVisionDispatchConsumesAttachment(t *testing.T) {
	m := newTestModel(t)
	m.pending = &model.PendingImage{
		Path:     "/tmp/cat.png",
		MIMEType: "image/png",
		Data:     []byte{0x89, 0x50, 0x4e, 0x47},
	}
	m.statusBar.Attachment = "cat.png"

	m, cmd := dispatchText(t, m, "what is this?")

	if cmd == nil {
		t.Fatal("dispatch returned no command")
	}
	if m.activeKind != gemini.KindVision {
		t.Errorf("request kind = %v, want vision", m.activeKind)
	}
	if m.pending != nil {
		t.Error("pending image not consumed by dispatch")
	}
	if m.statusBar.Attachment != "" {
		t.Error("status bar still shows an attachment")
	}
	if got := m.conversation.LastEntry().ImageRef; got != "cat.png" {
		t.Errorf("entry image ref = %q, want cat.png", got)
	}
}

func TestSummaryDispatch(t *testing.T) {
	m := newTestModel(t)
	m.conversation.AddUserEntry("the kernel keeps panicking", "")
	m.conversation.AddAssistantEntry("Check the module you loaded last.")

	um, cmd := m.dispatchSummary()
	m = um.(Model)

	if cmd == nil {
		t.Fatal("summary dispatch returned no command")
	}
	if m.State() != StateBusy {
		t.Errorf("state = %v, want busy", m.State())
	}
	if m.activeKind != gemini.KindSummary {
		t.Errorf("request kind = %v, want summary", m.activeKind)
	}
	// The visible request entry is appended after the transcript
	// snapshot, so the summary covers only the prior turns.
	if m.conversation.Len() != 3 {
		t.Errorf("conversation has %d entries, want 3", m.conversation.Len())
	}
	if got := m.conversation.LastEntry().Text; !strings.Contains(got, "Summarize") {
		t.Errorf("request entry = %q", got)
	}
}

func TestSummaryRefusedWhenEmpty(t *testing.T) {
	m := newTestModel(t)
	um, cmd := m.dispatchSummary()
	m = um.(Model)

	if cmd == nil {
		t.Fatal("expected a notice expiry command")
	}
	if m.State() != StateIdle {
		t.Errorf("state = %v, want idle", m.State())
	}
	if m.notice == "" {
		t.Error("expected a notice, got none")
	}
}

func TestTranscriptContentsMapsRoles(t *testing.T) {
	entries := []*model.Entry{
		model.NewUserEntry("hi", ""),
		model.NewAssistantEntry("hello"),
	}
	contents := transcriptContents(entries)
	if len(contents) != 2 {
		t.Fatalf("got %d contents, want 2", len(contents))
	}
	if contents[0].Role != "user" || contents[1].Role != "model" {
		t.Errorf("roles = %q, %q", contents[0].Role, contents[1].Role)
	}
}

// =============================================================================
// SETTLEMENT TESTS
// =============================================================================

func TestReplySettlesAndSpeaks(t *testing.T) {
	m, _ := dispatchText(t, newTestModel(t), "Hello")

	um, cmd := m.Update(ReplyMsg{RequestID: m.activeRequestID, Kind: gemini.KindChat, Text: "Hi there."})
	m = um.(Model)

	if m.State() != StateIdle {
		t.Errorf("state after settlement = %v, want idle", m.State())
	}
	if m.conversation.Len() != 2 {
		t.Fatalf("conversation has %d entries, want 2", m.conversation.Len())
	}
	entry := m.conversation.LastEntry()
	if entry.Role != model.RoleAssistant || entry.Text != "Hi there." {
		t.Errorf("entry = %s %q", entry.Role, entry.Text)
	}
	if m.lastReply != "Hi there." {
		t.Errorf("lastReply = %q", m.lastReply)
	}
	if cmd == nil {
		t.Error("expected a synthesis command after an unmuted reply")
	}
	if m.activeRequestID != "" {
		t.Error("active request ID not cleared at settlement")
	}
}

func TestReplyWhileMutedSkipsSpeech(t *testing.T) {
	m, _ := dispatchText(t, newTestModel(t), "Hello")
	m.muted = true

	_, cmd := m.Update(ReplyMsg{RequestID: m.activeRequestID, Kind: gemini.KindChat, Text: "Hi."})
	if cmd != nil {
		t.Error("muted reply should not synthesize speech")
	}
}

func TestStaleReplyDropped(t *testing.T) {
	m, _ := dispatchText(t, newTestModel(t), "Hello")

	um, cmd := m.Update(ReplyMsg{RequestID: "stale", Kind: gemini.KindChat, Text: "late"})
	m = um.(Model)

	if cmd != nil {
		t.Error("stale reply should produce no command")
	}
	if m.State() != StateBusy {
		t.Errorf("state = %v, want still busy", m.State())
	}
	if m.conversation.Len() != 1 {
		t.Errorf("stale reply appended an entry")
	}
}

func TestStaleReplyErrorDropped(t *testing.T) {
	m, _ := dispatchText(t, newTestModel(t), "Hello")

	um, _ := m.Update(ReplyErrorMsg{RequestID: "stale", Kind: gemini.KindChat, Err: gemini.ErrRetriesExhausted})
	m = um.(Model)

	if m.State() != StateBusy {
		t.Errorf("state = %v, want still busy", m.State())
	}
	if m.conversation.Len() != 1 {
		t.Error("stale error appended an entry")
	}
}

func TestExhaustedRetriesApology(t *testing.T) {
	m, _ := dispatchText(t, newTestModel(t), "Hello")

	err := fmt.Errorf("giving up after 3 attempts: %w", gemini.ErrRetriesExhausted)
	um, cmd := m.Update(ReplyErrorMsg{RequestID: m.activeRequestID, Kind: gemini.KindChat, Err: err})
	m = um.(Model)

	if m.State() != StateIdle {
		t.Errorf("state = %v, want idle", m.State())
	}
	entry := m.conversation.LastEntry()
	if entry.Role != model.RoleAssistant {
		t.Fatalf("no assistant apology appended")
	}
	if entry.Text != apologyExhausted {
		t.Errorf("apology = %q, want %q", entry.Text, apologyExhausted)
	}
	if cmd == nil {
		t.Error("apology should be spoken like any reply")
	}
}

func TestEmptyReplyApologyDiffers(t *testing.T) {
	m, _ := dispatchText(t, newTestModel(t), "Hello")

	err := fmt.Errorf("parse reply: %w", gemini.ErrEmptyResponse)
	um, _ := m.Update(ReplyErrorMsg{RequestID: m.activeRequestID, Kind: gemini.KindChat, Err: err})
	m = um.(Model)

	entry := m.conversation.LastEntry()
	if entry.Text != apologyEmptyReply {
		t.Errorf("apology = %q, want %q", entry.Text, apologyEmptyReply)
	}
	if apologyEmptyReply == apologyExhausted {
		t.Error("empty-reply apology must differ from the exhausted one")
	}
}

func TestCanceledRequestLeavesNoEntry(t *testing.T) {
	m, _ := dispatchText(t, newTestModel(t), "Hello")

	um, cmd := m.Update(ReplyErrorMsg{RequestID: m.activeRequestID, Kind: gemini.KindChat, Err: context.Canceled})
	m = um.(Model)

	if m.State() != StateIdle {
		t.Errorf("state = %v, want idle", m.State())
	}
	if m.conversation.Len() != 1 {
		t.Errorf("cancellation appended an entry")
	}
	if m.notice == "" {
		t.Error("expected a cancellation notice")
	}
	if cmd == nil {
		t.Error("expected the notice expiry command")
	}
}

func TestBusyCoversDispatchToSettlementOnly(t *testing.T) {
	m := newTestModel(t)
	if m.State() == StateBusy {
		t.Fatal("busy before dispatch")
	}

	m, _ = dispatchText(t, m, "Hello")
	if m.State() != StateBusy {
		t.Fatal("not busy after dispatch")
	}

	// A retry progress report must not end the busy window.
	um, _ := m.Update(RetryAttemptMsg{Attempt: 1, MaxAttempts: 3, Err: gemini.ErrRateLimited})
	m = um.(Model)
	if m.State() != StateBusy {
		t.Fatal("retry report ended the busy window")
	}

	um, _ = m.Update(ReplyMsg{RequestID: m.activeRequestID, Kind: gemini.KindChat, Text: "done"})
	m = um.(Model)
	if m.State() != StateIdle {
		t.Fatal("not idle after settlement")
	}
}

func TestEscCancelsInFlightRequest(t *testing.T) {
	m, _ := dispatchText(t, newTestModel(t), "Hello")

	um, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = um.(Model)

	// Cancellation settles through the error path, not the key handler.
	if m.State() != StateBusy {
		t.Errorf("state = %v, want busy until the canceled request settles", m.State())
	}

	um, _ = m.Update(ReplyErrorMsg{RequestID: m.activeRequestID, Kind: gemini.KindChat, Err: context.Canceled})
	m = um.(Model)
	if m.State() != StateIdle {
		t.Errorf("state = %v, want idle", m.State())
	}
}

// =============================================================================
// SPEECH TESTS
// =============================================================================

func TestSpeechReadyStoresClipAndPlays(t *testing.T) {
	m := newTestModel(t)
	wav := []byte("RIFF....WAVE")

	um, cmd := m.Update(SpeechReadyMsg{WAV: wav, SampleRate: 24000})
	m = um.(Model)

	if string(m.lastWAV) != string(wav) {
		t.Error("clip not stored for replay")
	}
	if cmd == nil {
		t.Error("expected a playback command")
	}
}

func TestSpeechReadyWhileMutedStoresOnly(t *testing.T) {
	m := newTestModel(t)
	m.muted = true

	um, cmd := m.Update(SpeechReadyMsg{WAV: []byte("RIFF"), SampleRate: 24000})
	m = um.(Model)

	if cmd != nil {
		t.Error("muted clip should not play")
	}
	if len(m.lastWAV) == 0 {
		t.Error("clip should still be kept for a later /replay")
	}
}

func TestSpeechErrorIsSwallowed(t *testing.T) {
	m, _ := dispatchText(t, newTestModel(t), "Hello")
	before := m.conversation.Len()

	um, cmd := m.Update(SpeechErrorMsg{Err: fmt.Errorf("tts unavailable")})
	m = um.(Model)

	if cmd != nil {
		t.Error("speech errors should produce no follow-up")
	}
	if m.conversation.Len() != before {
		t.Error("speech error changed the conversation")
	}
	if m.lastError != nil {
		t.Error("speech error raised an error box")
	}
}

func TestPlaybackErrorIsSwallowed(t *testing.T) {
	m := newTestModel(t)
	um, cmd := m.Update(PlaybackDoneMsg{Err: fmt.Errorf("aplay exited 1")})
	m = um.(Model)

	if cmd != nil || m.lastError != nil {
		t.Error("playback errors should be logged and dropped")
	}
}

// =============================================================================
// VOICE CAPTURE TESTS
// =============================================================================

func TestVoiceToggleEntersListening(t *testing.T) {
	m := newTestModel(t)

	um, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlV})
	m = um.(Model)

	if m.State() != StateListening {
		t.Errorf("state = %v, want listening", m.State())
	}
	if cmd == nil {
		t.Error("expected the recorder start command")
	}
}

func TestVoiceToggleStopsListening(t *testing.T) {
	m := newTestModel(t)
	um, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlV})
	m = um.(Model)

	um, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlV})
	m = um.(Model)

	if m.State() != StateIdle {
		t.Errorf("state = %v, want idle after stopping", m.State())
	}
	if cmd == nil {
		t.Error("expected the transcription command")
	}
	if !strings.Contains(m.notice, "Transcribing") {
		t.Errorf("notice = %q", m.notice)
	}
}

func TestVoiceRefusedWhileBusy(t *testing.T) {
	m, _ := dispatchText(t, newTestModel(t), "Hello")

	um, _ := m.Update(commands.ToggleVoiceMsg{})
	m = um.(Model)

	if m.State() != StateBusy {
		t.Errorf("state = %v, want still busy", m.State())
	}
	if m.notice == "" {
		t.Error("expected a refusal notice")
	}
}

func TestVoiceUnavailableShowsError(t *testing.T) {
	m := newTestModel(t)
	m.voice = nil

	um, _ := m.Update(commands.ToggleVoiceMsg{})
	m = um.(Model)

	if m.State() != StateIdle {
		t.Errorf("state = %v, want idle", m.State())
	}
	if m.lastError == nil {
		t.Error("expected an error box when capture is unavailable")
	}
}

func TestVoiceStartFailureRollsBack(t *testing.T) {
	m := newTestModel(t)
	um, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlV})
	m = um.(Model)

	um, _ = m.Update(VoiceStartedMsg{Err: voice.ErrNoRecorder})
	m = um.(Model)

	if m.State() != StateIdle {
		t.Errorf("state = %v, want idle after a failed start", m.State())
	}
	if m.lastError == nil {
		t.Error("expected an error box naming the microphone problem")
	}
}

func TestTranscriptFillsInput(t *testing.T) {
	m := newTestModel(t)

	um, _ := m.Update(TranscriptMsg{Text: "remind me to stretch"})
	m = um.(Model)

	if got := m.input.Value(); got != "remind me to stretch" {
		t.Errorf("input = %q", got)
	}
	if m.conversation.Len() != 0 {
		t.Error("transcription must not dispatch by itself")
	}
}

func TestTranscriptErrorBecomesNotice(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{voice.ErrNoAudio, "No audio"},
		{voice.ErrNoSpeech, "speech"},
		{fmt.Errorf("http 500"), "Transcription failed"},
	}
	for _, tc := range tests {
		m := newTestModel(t)
		um, _ := m.Update(TranscriptMsg{Err: tc.err})
		m = um.(Model)
		if !strings.Contains(m.notice, tc.want) {
			t.Errorf("notice for %v = %q, want substring %q", tc.err, m.notice, tc.want)
		}
		if m.input.Value() != "" {
			t.Errorf("failed transcription filled the input with %q", m.input.Value())
		}
	}
}

func TestDiscardVoiceDropsCapture(t *testing.T) {
	m := newTestModel(t)
	um, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlV})
	m = um.(Model)

	um, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = um.(Model)

	if m.State() != StateIdle {
		t.Errorf("state = %v, want idle", m.State())
	}
	if !strings.Contains(m.notice, "discarded") {
		t.Errorf("notice = %q", m.notice)
	}
	if m.input.Value() != "" {
		t.Error("discard must not fill the input")
	}
}
