// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the TUI.
package commands

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/aurora-tui/internal/config"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Command is a slash command the chat input can execute.
type Command struct {
	// Name is the primary command name (e.g., "/attach").
	Name string

	// Aliases are alternative names (e.g., "/img").
	Aliases []string

	// Description is shown in help and completion.
	Description string

	// Usage shows argument syntax (e.g., "/attach <path>").
	Usage string

	// Args defines the expected arguments.
	Args []ArgDef

	// Handler executes the command. Handlers emit messages; the chat
	// model owns all state changes.
	Handler func(ctx *Context, args []string) tea.Cmd

	// Hidden commands don't appear in help or completion.
	Hidden bool

	// Category groups commands in help output.
	Category string
}

// ArgDef defines one command argument.
type ArgDef struct {
	Name        string
	Required    bool
	Type        ArgType
	Description string

	// Values for enum arguments.
	Values []string
}

// ArgType selects completion behavior for an argument.
type ArgType int

const (
	ArgTypeString ArgType = iota // free-form text
	ArgTypeFile                  // filesystem path
	ArgTypeEnum                  // one of Values
	ArgTypeModel                 // generation model name
	ArgTypeConfig                // configuration key
)

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds all registered commands, indexed by name and alias.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
}

// NewRegistry creates a registry populated with the built-in commands.
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
	r.registerBuiltins()
	return r
}

// Register adds a command and its aliases.
func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[alias] = cmd
	}
}

// Get retrieves a command by name or alias, or nil.
func (r *Registry) Get(name string) *Command {
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	if cmd, ok := r.aliases[name]; ok {
		return cmd
	}
	return nil
}

// All returns every registered command.
func (r *Registry) All() []*Command {
	cmds := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	return cmds
}

// ByCategory returns visible commands grouped for help display.
func (r *Registry) ByCategory() map[string][]*Command {
	result := make(map[string][]*Command)
	for _, cmd := range r.commands {
		if cmd.Hidden {
			continue
		}
		category := cmd.Category
		if category == "" {
			category = "General"
		}
		result[category] = append(result[category], cmd)
	}
	return result
}

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

func (r *Registry) registerBuiltins() {
	// Conversation
	r.Register(&Command{
		Name:        "/attach",
		Aliases:     []string{"/img"},
		Description: "Attach an image to the next message",
		Usage:       "/attach <path>",
		Args: []ArgDef{
			{Name: "path", Required: true, Type: ArgTypeFile, Description: "Image file (png, jpg, gif, webp)"},
		},
		Category: "Conversation",
		Handler:  HandleAttach,
	})

	r.Register(&Command{
		Name:        "/detach",
		Description: "Drop the pending image attachment",
		Category:    "Conversation",
		Handler:     HandleDetach,
	})

	r.Register(&Command{
		Name:        "/summarize",
		Aliases:     []string{"/sum"},
		Description: "Summarize the conversation so far",
		Category:    "Conversation",
		Handler:     HandleSummarize,
	})

	r.Register(&Command{
		Name:        "/search",
		Aliases:     []string{"/find"},
		Description: "Filter the transcript, or clear the filter",
		Usage:       "/search [text]",
		Args: []ArgDef{
			{Name: "text", Required: false, Type: ArgTypeString, Description: "Filter text; omit to clear"},
		},
		Category: "Conversation",
		Handler:  HandleSearch,
	})

	r.Register(&Command{
		Name:        "/clear",
		Aliases:     []string{"/c"},
		Description: "Clear the conversation",
		Category:    "Conversation",
		Handler:     HandleClear,
	})

	r.Register(&Command{
		Name:        "/export",
		Description: "Export the transcript to a markdown file",
		Usage:       "/export [path]",
		Args: []ArgDef{
			{Name: "path", Required: false, Type: ArgTypeFile, Description: "Destination file"},
		},
		Category: "Conversation",
		Handler:  HandleExport,
	})

	// Speech
	r.Register(&Command{
		Name:        "/voice",
		Aliases:     []string{"/v"},
		Description: "Start or stop voice capture",
		Category:    "Speech",
		Handler:     HandleVoice,
	})

	r.Register(&Command{
		Name:        "/mute",
		Description: "Toggle spoken replies",
		Category:    "Speech",
		Handler:     HandleMute,
	})

	r.Register(&Command{
		Name:        "/replay",
		Description: "Speak the last reply again",
		Category:    "Speech",
		Handler:     HandleReplay,
	})

	// Settings
	r.Register(&Command{
		Name:        "/model",
		Aliases:     []string{"/m"},
		Description: "Switch or show the generation model",
		Usage:       "/model [name]",
		Args: []ArgDef{
			{Name: "name", Required: false, Type: ArgTypeModel, Description: "Model name or alias"},
		},
		Category: "Settings",
		Handler:  HandleModel,
	})

	r.Register(&Command{
		Name:        "/config",
		Description: "Show or set a configuration value",
		Usage:       "/config [key] [value]",
		Args: []ArgDef{
			{Name: "key", Required: false, Type: ArgTypeConfig, Description: "Config key"},
			{Name: "value", Required: false, Type: ArgTypeString, Description: "New value"},
		},
		Category: "Settings",
		Handler:  HandleConfig,
	})

	r.Register(&Command{
		Name:        "/theme",
		Description: "Change the color theme",
		Usage:       "/theme <dark|light|auto>",
		Args: []ArgDef{
			{Name: "name", Required: true, Type: ArgTypeEnum, Values: []string{"dark", "light", "auto"}, Description: "Theme name"},
		},
		Category: "Settings",
		Handler:  HandleTheme,
	})

	// Navigation
	r.Register(&Command{
		Name:        "/help",
		Aliases:     []string{"/h", "/?"},
		Description: "Show available commands",
		Usage:       "/help [category]",
		Args: []ArgDef{
			{Name: "category", Required: false, Type: ArgTypeEnum, Values: []string{"conversation", "speech", "settings"}, Description: "Command category"},
		},
		Category: "Navigation",
		Handler:  HandleHelp,
	})

	r.Register(&Command{
		Name:        "/quit",
		Aliases:     []string{"/q", "/exit"},
		Description: "Exit aurora",
		Category:    "Navigation",
		Handler:     HandleQuit,
	})
}

// =============================================================================
// CONTEXT TYPE
// =============================================================================

// Context gives handlers read access to application state. Handlers never
// mutate it; state changes travel as messages back to the chat model.
type Context struct {
	// Config is the active configuration.
	Config *config.Config

	// Model is the active generation model.
	Model string

	// Muted reports whether spoken replies are off.
	Muted bool

	// Listening reports whether voice capture is running.
	Listening bool
}

// NewContext creates a handler context.
func NewContext(cfg *config.Config) *Context {
	return &Context{Config: cfg}
}

// =============================================================================
// COMPLETION TYPE
// =============================================================================

// Completion is one completion suggestion.
type Completion struct {
	// Value to insert.
	Value string

	// Display text, defaults to Value.
	Display string

	// Description shown alongside.
	Description string

	// Score for ranking, higher is better.
	Score int
}
