// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the interactive conversation screen.
package chat

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jeranaias/aurora-tui/internal/gemini"
	"github.com/jeranaias/aurora-tui/internal/ui/components"
	"github.com/jeranaias/aurora-tui/internal/voice"
)

func TestApologyFor(t *testing.T) {
	tests := []struct {
		name string
		kind gemini.RequestKind
		err  error
		want string
	}{
		{
			name: "empty reply gets its own wording",
			kind: gemini.KindChat,
			err:  fmt.Errorf("parse: %w", gemini.ErrEmptyResponse),
			want: apologyEmptyReply,
		},
		{
			name: "unparseable reply counts as empty",
			kind: gemini.KindVision,
			err:  gemini.ErrInvalidResponse,
			want: apologyEmptyReply,
		},
		{
			name: "exhausted chat request",
			kind: gemini.KindChat,
			err:  gemini.ErrRetriesExhausted,
			want: apologyExhausted,
		},
		{
			name: "exhausted vision request",
			kind: gemini.KindVision,
			err:  gemini.ErrRetriesExhausted,
			want: apologyVision,
		},
		{
			name: "exhausted summary request",
			kind: gemini.KindSummary,
			err:  gemini.ErrRetriesExhausted,
			want: apologySummary,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := apologyFor(tc.kind, tc.err); got != tc.want {
				t.Errorf("apologyFor(%v, %v) = %q, want %q", tc.kind, tc.err, got, tc.want)
			}
		})
	}
}

func TestApologiesAreDistinct(t *testing.T) {
	seen := map[string]bool{}
	for _, a := range []string{apologyEmptyReply, apologyExhausted, apologyVision, apologySummary} {
		if seen[a] {
			t.Errorf("duplicate apology text %q", a)
		}
		seen[a] = true
	}
}

func TestTranscriptErrorNotice(t *testing.T) {
	if got := transcriptErrorNotice(voice.ErrNoAudio); got != "No audio was captured." {
		t.Errorf("no-audio notice = %q", got)
	}
	if got := transcriptErrorNotice(fmt.Errorf("wrapped: %w", voice.ErrNoSpeech)); got == "" || got == transcriptErrorNotice(voice.ErrNoAudio) {
		t.Errorf("no-speech notice = %q", got)
	}
	if got := transcriptErrorNotice(errors.New("boom")); got != "Transcription failed. See the log for details." {
		t.Errorf("generic notice = %q", got)
	}
}

func TestPopupReservedHeight(t *testing.T) {
	if got := popupReservedHeight(nil); got != 0 {
		t.Errorf("nil popup height = %d", got)
	}

	m := newTestModel(t)
	if got := popupReservedHeight(m.popup); got != 0 {
		t.Errorf("empty popup height = %d", got)
	}

	m.input.SetValue("/")
	um, _ := m.handleTabCompletion(false)
	m = um.(Model)
	if got := popupReservedHeight(m.popup); got <= 0 {
		t.Errorf("open popup height = %d, want > 0", got)
	}
}

func TestMinMaxInt(t *testing.T) {
	if minInt(2, 5) != 2 || minInt(5, 2) != 2 {
		t.Error("minInt wrong")
	}
	if maxInt(2, 5) != 5 || maxInt(5, 2) != 5 {
		t.Error("maxInt wrong")
	}
}

func TestOrbModeFor(t *testing.T) {
	if orbModeFor(StateIdle) != components.OrbIdle {
		t.Error("idle maps wrong")
	}
	if orbModeFor(StateBusy) != components.OrbBusy {
		t.Error("busy maps wrong")
	}
	if orbModeFor(StateListening) != components.OrbListening {
		t.Error("listening maps wrong")
	}
}
