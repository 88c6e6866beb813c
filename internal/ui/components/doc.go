// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for the aurora TUI.

This package contains a collection of styled components built on top of
the Bubble Tea and Lip Gloss libraries. Each component is designed to be
visually polished and consistent with the aurora design language.

# Core Components

## Input Components

InputArea (input.go) - Styled text input with character counter.
CompletionPopup (completion.go) - Tab completion popup for slash commands.

## Display Components

EntryList (entry.go) - Conversation transcript with role-styled bubbles,
attachment badges, and search-match highlighting.
CodeBlock (codeblock.go) - Syntax-highlighted code blocks using Chroma.
StatusBar (statusbar.go) - Bottom status bar with model, state badge,
token estimate, and key hints.
Orb (orb.go) - The ambient animated indicator. Its rotation speed and
emissive intensity track the session state (idle, busy, listening).
Welcome (welcome.go) - First-run welcome screen with key-setup hint.

# Theme Integration

All components accept a *styles.Theme for consistent styling:

	theme := styles.NewTheme()
	bar := components.NewStatusBar(theme)
	bar.SetWidth(80)
	view := bar.View()

# Animation

The orb is the only self-animating component. It advances on
OrbTickMsg, emitted at OrbTickRate by the command returned from Tick;
everything else renders statically from its current fields.
*/
package components
