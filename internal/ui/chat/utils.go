// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the interactive conversation screen.
//
// This file holds the apology texts, small mapping helpers, and the
// arithmetic helpers shared across the package.
package chat

import (
	"errors"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/aurora-tui/internal/gemini"
	"github.com/jeranaias/aurora-tui/internal/ui/components"
	"github.com/jeranaias/aurora-tui/internal/voice"
)

// ===== APOLOGY TEXTS =====

// Fallback replies appended to the conversation when a request fails
// for good. They read as assistant turns and are spoken like one.
const (
	// apologyEmptyReply covers replies that arrived but carried nothing
	// usable. No retry happened, so the wording differs from the
	// exhausted-retries apology.
	apologyEmptyReply = "Sorry, I could not read the reply I got back. Please try asking again."

	// apologyExhausted covers requests that failed on every attempt.
	apologyExhausted = "Sorry, I was unable to process that request. Please try again in a moment."

	// apologyVision covers failed image requests.
	apologyVision = "Sorry, I was unable to process that image. Please try a different one."

	// apologySummary covers failed summarization requests.
	apologySummary = "Sorry, I could not put a summary together just now. Please try again."
)

// apologyFor maps a settled failure to its fallback reply. An invalid
// or empty reply gets its own wording regardless of request kind; the
// remaining failures are worded per kind.
func apologyFor(kind gemini.RequestKind, err error) string {
	if gemini.Classify(err) == gemini.ErrorKindInvalidResponse {
		return apologyEmptyReply
	}
	switch kind {
	case gemini.KindVision:
		return apologyVision
	case gemini.KindSummary:
		return apologySummary
	default:
		return apologyExhausted
	}
}

// transcriptErrorNotice maps a capture or transcription failure to the
// one-line notice shown under the transcript.
func transcriptErrorNotice(err error) string {
	switch {
	case errors.Is(err, voice.ErrNoAudio):
		return "No audio was captured."
	case errors.Is(err, voice.ErrNoSpeech):
		return "Did not catch any speech. Try again?"
	default:
		return "Transcription failed. See the log for details."
	}
}

// popupReservedHeight is the number of transcript lines the completion
// popup displaces when visible.
func popupReservedHeight(popup *components.CompletionPopup) int {
	if popup == nil || !popup.HasCompletions() {
		return 0
	}
	return lipgloss.Height(popup.View())
}

// minInt returns the smaller of two ints.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// maxInt returns the larger of two ints.
func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
