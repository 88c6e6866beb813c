// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the aurora command surface outside the
// full-screen terminal UI: argument parsing, the one-shot ask command,
// the line-based chat REPL, and the config command.
//
// Running aurora with no command starts the TUI; the commands here are
// the fallback for scripts, pipes, and terminals where a full-screen
// program is unwelcome.
//
// Commands:
//
//	aurora                   start the terminal UI
//	aurora ask <question>    one-shot question, answer on stdout
//	aurora chat              interactive line-based REPL
//	aurora config <sub>      show and edit the configuration file
//	aurora version           print build information
//	aurora help              print usage
//
// Output discipline: answers go to stdout, progress and diagnostics go
// to stderr, so piped output stays clean. Markdown rendering and ANSI
// styling are applied only when stdout is a terminal.
package cli
