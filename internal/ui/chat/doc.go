// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the interactive conversation screen.
//
// The screen is a Bubble Tea model that owns the conversation log, the
// request lifecycle against the Gemini API, speech playback, and voice
// capture. It composes the widgets from internal/ui/components and the
// slash-command layer from internal/commands.
//
// # State Machine
//
// The model is always in exactly one of three states:
//
//   - StateIdle: accepting input
//   - StateBusy: a generation request is in flight
//   - StateListening: the microphone is capturing audio
//
// Transitions are funneled through transitionTo, which rejects anything
// not present in the legal transition table. Busy begins when a request
// is dispatched and ends when its reply (or error) settles; listening
// is entered and left only from idle. The animated orb and the status
// bar are re-synced on every transition so the indicator can never
// disagree with the state.
//
// # Request Lifecycle
//
// Submitting input dispatches one of three request kinds: plain text,
// image plus text when an attachment is pending, or a conversation
// summary. Each dispatch is tagged with a request ID; replies carrying
// a stale ID (a request that was canceled or superseded) are dropped on
// arrival. Retries and backoff live in internal/gemini. When a reply
// settles, the text is appended to the conversation and handed to the
// speech synthesizer unless muted. Errors are mapped to user-facing
// text at this boundary, never mid-flight: invalid replies and
// exhausted retries each produce a spoken apology entry, configuration
// problems produce an error box, and cancellations produce a notice.
//
// # Usage
//
//	m := chat.New(cfg, styles.NewTheme())
//	p := tea.NewProgram(m, tea.WithAltScreen())
//	if _, err := p.Run(); err != nil { ... }
package chat
