// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the conversation transcript.
//
// This package defines the core domain types used throughout the application
// for representing the in-memory chat transcript and its entries.
//
// # Key Types
//
//   - Conversation: Append-only container for a chat session
//   - Entry: Single immutable transcript entry (user or assistant authored)
//   - Role: Entry author enumeration (user, assistant)
//   - PendingImage: Transient attachment awaiting the next send
//
// # Usage
//
// Create a conversation and append entries:
//
//	conv := model.NewConversation()
//	conv.AddUserEntry("Hello!", "")
//	conv.AddAssistantEntry("Hi there.")
//
// Filter the transcript for display:
//
//	visible := conv.Filter("hello")
//
// Entries are never mutated after they are appended; filtering and
// snapshots share the same immutable Entry values.
package model
