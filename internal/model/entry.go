// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the conversation transcript.
package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the author of a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Aurora"
	default:
		return string(r)
	}
}

// =============================================================================
// ENTRY TYPE
// =============================================================================

// Entry is one unit of chat history. Entries are immutable once appended
// to a Conversation; every field is set at construction and never written
// again.
type Entry struct {
	// Identity
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`

	// Content
	Text string `json:"text"`

	// ImageRef is a short display reference for an attached image
	// (typically the file base name), empty when the entry carries no
	// attachment. The encoded image bytes themselves are consumed by the
	// request payload and never stored on the transcript.
	ImageRef string `json:"image_ref,omitempty"`
}

// NewEntry creates an entry with a generated ID.
func NewEntry(role Role, text string) *Entry {
	return &Entry{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// NewUserEntry creates a user-authored entry, optionally referencing an
// attached image.
func NewUserEntry(text, imageRef string) *Entry {
	e := NewEntry(RoleUser, text)
	e.ImageRef = imageRef
	return e
}

// NewAssistantEntry creates an assistant-authored entry.
func NewAssistantEntry(text string) *Entry {
	return NewEntry(RoleAssistant, text)
}

// =============================================================================
// ENTRY METHODS
// =============================================================================

// Preview returns a truncated preview of the entry text.
// Uses rune-based truncation to handle Unicode correctly.
func (e *Entry) Preview(maxLen int) string {
	runes := []rune(e.Text)
	if len(runes) <= maxLen {
		return e.Text
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// IsEmpty returns true if the entry has neither text nor an image
// reference.
func (e *Entry) IsEmpty() bool {
	return len(e.Text) == 0 && len(e.ImageRef) == 0
}

// EstimateTokens gives a rough estimate of token count.
// Uses the approximation of ~4 characters per token.
func (e *Entry) EstimateTokens() int {
	return (len(e.Text) + 3) / 4
}
