// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the interactive conversation screen.
//
// This file defines the key bindings and the context-sensitive help
// metadata derived from them.
package chat

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all key bindings for the chat screen. Single letters
// are deliberately absent from the global set: the text input owns
// them, so every global binding is a control chord or function key.
type KeyMap struct {
	Submit   key.Binding
	Cancel   key.Binding
	Quit     key.Binding
	Voice    key.Binding
	Search   key.Binding
	Export   key.Binding
	Clear    key.Binding
	Complete key.Binding
	Help     key.Binding

	ScrollUp   key.Binding
	ScrollDown key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Top        key.Binding
	Bottom     key.Binding
}

// DefaultKeyMap returns the standard chat bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel/dismiss"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Voice: key.NewBinding(
			key.WithKeys("ctrl+v"),
			key.WithHelp("ctrl+v", "toggle voice capture"),
		),
		Search: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("ctrl+f", "search transcript"),
		),
		Export: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "export transcript"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "clear conversation"),
		),
		Complete: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "complete command"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "help"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("up", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("down", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "page down"),
		),
		Top: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("end", "bottom"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Voice, k.Search, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Complete, k.Cancel, k.Quit},
		{k.Voice, k.Search, k.Export, k.Clear},
		{k.ScrollUp, k.ScrollDown, k.PageUp, k.PageDown},
	}
}

// ===== CONTEXT-SENSITIVE HELP =====

// HelpContext identifies which state's bindings should be shown.
type HelpContext int

const (
	ContextIdle HelpContext = iota
	ContextBusy
	ContextListening
	ContextSearch
)

// HelpItem is one row of the help overlay.
type HelpItem struct {
	Keys        string
	Description string
	Category    string
	Contexts    []HelpContext
}

// helpCategoryOrder fixes the section order of the help overlay.
var helpCategoryOrder = []string{"Conversation", "Speech", "Navigation", "General"}

// GetHelpItems returns every help row, across all contexts.
func GetHelpItems() []HelpItem {
	return []HelpItem{
		{"enter", "send message or run /command", "Conversation", []HelpContext{ContextIdle}},
		{"tab", "complete /command or argument", "Conversation", []HelpContext{ContextIdle}},
		{"ctrl+f", "filter the transcript", "Conversation", []HelpContext{ContextIdle}},
		{"ctrl+e", "export transcript to markdown", "Conversation", []HelpContext{ContextIdle}},
		{"ctrl+l", "clear the conversation", "Conversation", []HelpContext{ContextIdle}},
		{"esc", "cancel the request in flight", "Conversation", []HelpContext{ContextBusy}},

		{"ctrl+v", "start voice capture", "Speech", []HelpContext{ContextIdle}},
		{"ctrl+v", "stop capture and transcribe", "Speech", []HelpContext{ContextListening}},
		{"esc", "discard the capture", "Speech", []HelpContext{ContextListening}},

		{"up/down", "scroll the transcript", "Navigation", []HelpContext{ContextIdle, ContextBusy, ContextListening}},
		{"pgup/pgdn", "page through the transcript", "Navigation", []HelpContext{ContextIdle, ContextBusy, ContextListening}},
		{"home/end", "jump to top or bottom", "Navigation", []HelpContext{ContextIdle, ContextBusy, ContextListening}},
		{"enter", "keep the filter and return", "Navigation", []HelpContext{ContextSearch}},
		{"esc", "clear the filter and return", "Navigation", []HelpContext{ContextSearch}},

		{"f1", "toggle this help", "General", []HelpContext{ContextIdle, ContextBusy, ContextListening, ContextSearch}},
		{"ctrl+c", "quit", "General", []HelpContext{ContextIdle, ContextBusy, ContextListening, ContextSearch}},
	}
}

// ForContext filters items to those visible in the given context.
func ForContext(items []HelpItem, ctx HelpContext) []HelpItem {
	var out []HelpItem
	for _, item := range items {
		for _, c := range item.Contexts {
			if c == ctx {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// ByCategory groups items by category, preserving item order.
func ByCategory(items []HelpItem) map[string][]HelpItem {
	out := make(map[string][]HelpItem)
	for _, item := range items {
		out[item.Category] = append(out[item.Category], item)
	}
	return out
}

// GetCategoryOrder returns the display order for help categories.
func GetCategoryOrder() []string {
	return helpCategoryOrder
}

// helpContextFor maps a model state to its help context.
func helpContextFor(state State, searching bool) HelpContext {
	if searching {
		return ContextSearch
	}
	switch state {
	case StateBusy:
		return ContextBusy
	case StateListening:
		return ContextListening
	default:
		return ContextIdle
	}
}
