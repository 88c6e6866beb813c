// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the interactive conversation screen.
//
// This file is the message catalog for the chat model. Every
// asynchronous result re-enters the Update loop as one of these
// messages:
//
//   - Generation: ReplyMsg, ReplyErrorMsg, RetryAttemptMsg
//   - Speech: SpeechReadyMsg, SpeechErrorMsg, PlaybackDoneMsg
//   - Voice capture: VoiceStartedMsg, TranscriptMsg
//   - Application: ConfigReloadedMsg, ExportDoneMsg, NoticeExpiredMsg
//
// Slash-command messages (AttachImageMsg, SetFilterMsg, ...) are
// defined in internal/commands and handled in commands.go.
package chat

import (
	"time"

	"github.com/jeranaias/aurora-tui/internal/config"
	"github.com/jeranaias/aurora-tui/internal/gemini"
)

// ===== GENERATION MESSAGES =====

// ReplyMsg carries a successful generation result back to the model.
type ReplyMsg struct {
	// RequestID ties the reply to the dispatch that produced it.
	// Replies whose ID no longer matches the active request are stale
	// and must be dropped.
	RequestID string
	Kind      gemini.RequestKind
	Text      string
}

// ReplyErrorMsg carries a failed generation result. The error is mapped
// to user-facing text (apology entry, error box, or notice) when the
// message is handled, not before.
type ReplyErrorMsg struct {
	RequestID string
	Kind      gemini.RequestKind
	Err       error
}

// RetryAttemptMsg reports that the client is about to retry a failed
// attempt. Sent from the client's retry hook via program.Send so the
// status line can show progress while the backoff sleep runs.
type RetryAttemptMsg struct {
	Attempt     int
	MaxAttempts int
	Delay       time.Duration
	Err         error
}

// ===== SPEECH MESSAGES =====

// SpeechReadyMsg delivers a synthesized reply as a playable WAV clip.
type SpeechReadyMsg struct {
	WAV        []byte
	SampleRate int
}

// SpeechErrorMsg reports a synthesis failure. Speech is best-effort:
// the handler logs and drops it without touching the conversation.
type SpeechErrorMsg struct {
	Err error
}

// PlaybackDoneMsg reports that audio playback finished. Err is non-nil
// when the player subprocess failed; like synthesis errors it is logged
// and swallowed.
type PlaybackDoneMsg struct {
	Err error
}

// ===== VOICE CAPTURE MESSAGES =====

// VoiceStartedMsg reports whether the recorder actually started after a
// listening transition. A non-nil Err rolls the state back to idle.
type VoiceStartedMsg struct {
	Err error
}

// TranscriptMsg delivers the transcription of a finished capture. On
// success the text becomes the pending input, ready to edit or send.
type TranscriptMsg struct {
	Text string
	Err  error
}

// ===== APPLICATION MESSAGES =====

// ConfigReloadedMsg is sent by the config file watcher when config.toml
// changes on disk. The handler re-applies the live-tunable settings
// (model, voice, mute, theme).
type ConfigReloadedMsg struct {
	Config *config.Config
}

// ExportDoneMsg reports the outcome of a transcript export.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// NoticeExpiredMsg clears the transient notice line. The ID guards
// against an old timer clearing a newer notice.
type NoticeExpiredMsg struct {
	ID int
}
