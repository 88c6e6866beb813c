// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the TUI.
//
// This package handles parsing and executing slash commands in the chat
// interface, providing autocomplete and command registration. Handlers
// never mutate application state directly; each returns a tea.Cmd that
// emits a message, and the chat model applies the change.
//
// # Key Types
//
//   - Registry: Command registry with all available commands
//   - Command: A single command definition with handler and arguments
//   - ParseResult: Parsed command with name and arguments
//   - Completer: Tab completion for commands and arguments
//   - CompletionState: Selection tracking for the completion popup
//
// # Built-in Commands
//
//   - /attach: Attach an image to the next message
//   - /summarize: Ask for a summary of the conversation
//   - /search: Filter the transcript
//   - /voice: Toggle voice capture
//   - /mute: Toggle speech playback
//   - /model: Switch models
//   - /export: Export the transcript
//   - /help: Show available commands
//
// # Usage
//
// Parse and execute a command:
//
//	result := parser.Parse(input)
//	if result.IsCommand {
//	    return result.Command.Handler(ctx, result.Args)
//	}
//
// Get completions:
//
//	completions := completer.Complete("/at", 3)
//	// Returns /attach
package commands
