// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the conversation transcript.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds the in-memory chat transcript.
//
// The transcript is append-only: entries are inserted in call order and
// never mutated afterwards. Clear replaces the slice wholesale, it does
// not touch the entries a caller may still hold. The conversation lives
// exactly as long as the session; there is no persistence.
type Conversation struct {
	// Identity
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Transcript
	entries []*Entry

	// Model configuration
	Model string `json:"model"`

	// Context tracking
	TokensUsed     int     `json:"tokens_used"`
	MaxTokens      int     `json:"max_tokens"`
	ContextPercent float64 `json:"-"`
}

// NewConversation creates an empty conversation with a generated ID.
func NewConversation() *Conversation {
	return &Conversation{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		entries:   make([]*Entry, 0),
		MaxTokens: 1000000, // Gemini flash-class context window
	}
}

// NewConversationWithModel creates a conversation tagged with a model name.
func NewConversationWithModel(model string) *Conversation {
	conv := NewConversation()
	conv.Model = model
	return conv
}

// =============================================================================
// ENTRY MANAGEMENT
// =============================================================================

// append adds an entry and refreshes derived fields.
func (c *Conversation) append(e *Entry) {
	c.entries = append(c.entries, e)
	c.UpdatedAt = time.Now()
	c.updateTokenEstimate()
	c.updateTitle()
}

// AddUserEntry appends a user entry. imageRef may be empty.
func (c *Conversation) AddUserEntry(text, imageRef string) *Entry {
	e := NewUserEntry(text, imageRef)
	c.append(e)
	return e
}

// AddAssistantEntry appends an assistant entry.
func (c *Conversation) AddAssistantEntry(text string) *Entry {
	e := NewAssistantEntry(text)
	c.append(e)
	return e
}

// LastEntry returns the most recent entry, or nil if empty.
func (c *Conversation) LastEntry() *Entry {
	if len(c.entries) == 0 {
		return nil
	}
	return c.entries[len(c.entries)-1]
}

// LastUserEntry returns the most recent user entry, or nil.
func (c *Conversation) LastUserEntry() *Entry {
	for i := len(c.entries) - 1; i >= 0; i-- {
		if c.entries[i].Role == RoleUser {
			return c.entries[i]
		}
	}
	return nil
}

// Entries returns a snapshot copy of the transcript slice. The entries
// themselves are shared and immutable.
func (c *Conversation) Entries() []*Entry {
	out := make([]*Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// EntryByID returns the entry with the given ID, or nil.
func (c *Conversation) EntryByID(id string) *Entry {
	for _, e := range c.entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// Len returns the number of entries.
func (c *Conversation) Len() int {
	return len(c.entries)
}

// IsEmpty returns true if there are no entries.
func (c *Conversation) IsEmpty() bool {
	return len(c.entries) == 0
}

// Clear discards the transcript and starts over. Previously returned
// entries remain valid; only the conversation's view of them is dropped.
func (c *Conversation) Clear() {
	c.entries = make([]*Entry, 0)
	c.Title = ""
	c.TokensUsed = 0
	c.ContextPercent = 0
	c.UpdatedAt = time.Now()
}

// =============================================================================
// SEARCH FILTERING
// =============================================================================

// MatchesQuery reports whether text contains query, ignoring case.
// Comparison is rune-wise so multi-byte text folds correctly. An empty
// query matches everything.
func MatchesQuery(text, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(query))
}

// FilterEntries returns the subsequence of entries whose text contains
// query case-insensitively, in their original order. The result is a new
// slice; the entries are shared.
func FilterEntries(entries []*Entry, query string) []*Entry {
	if query == "" {
		out := make([]*Entry, len(entries))
		copy(out, entries)
		return out
	}
	out := make([]*Entry, 0, len(entries))
	for _, e := range entries {
		if MatchesQuery(e.Text, query) {
			out = append(out, e)
		}
	}
	return out
}

// Filter returns the transcript entries matching query, order preserved.
func (c *Conversation) Filter(query string) []*Entry {
	return FilterEntries(c.entries, query)
}

// =============================================================================
// TOKEN TRACKING
// =============================================================================

// EstimateTokens estimates the total token count of the transcript.
func (c *Conversation) EstimateTokens() int {
	total := 0
	for _, e := range c.entries {
		total += e.EstimateTokens()
		// Overhead for message structure (~4 tokens per entry)
		total += 4
	}
	return total
}

// updateTokenEstimate refreshes token usage and context percentage.
func (c *Conversation) updateTokenEstimate() {
	c.TokensUsed = c.EstimateTokens()
	if c.MaxTokens > 0 {
		c.ContextPercent = float64(c.TokensUsed) / float64(c.MaxTokens) * 100
	}
}

// =============================================================================
// TITLE MANAGEMENT
// =============================================================================

// updateTitle auto-generates a title from the first user entry if unset.
func (c *Conversation) updateTitle() {
	if c.Title != "" {
		return
	}
	for _, e := range c.entries {
		if e.Role == RoleUser {
			c.Title = e.Preview(50)
			return
		}
	}
}

// GetTitle returns the conversation title or a default.
func (c *Conversation) GetTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return "New Conversation"
}

// =============================================================================
// HELPERS
// =============================================================================

// Clone creates a copy of the conversation sharing the (immutable)
// entries.
func (c *Conversation) Clone() *Conversation {
	clone := &Conversation{
		ID:         c.ID,
		Title:      c.Title,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
		Model:      c.Model,
		TokensUsed: c.TokensUsed,
		MaxTokens:  c.MaxTokens,
		entries:    make([]*Entry, len(c.entries)),
	}
	copy(clone.entries, c.entries)
	return clone
}
