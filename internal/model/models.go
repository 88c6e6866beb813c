// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the conversation transcript.
package model

import (
	"sort"
	"strings"
)

// =============================================================================
// MODEL INFO TYPE
// =============================================================================

// ModelInfo contains detailed information about a generation model.
// This is used for alias resolution and display in the UI.
type ModelInfo struct {
	// ID is the model identifier used in API calls
	ID string `json:"id"`

	// Name is the human-readable display name
	Name string `json:"name"`

	// Audio marks text-to-speech capable models
	Audio bool `json:"audio"`

	// MaxTokens is the maximum context window size
	MaxTokens int `json:"max_tokens"`

	// Description is a brief explanation of the model's strengths
	Description string `json:"description"`
}

// =============================================================================
// MODEL REGISTRY
// =============================================================================

// Models is the registry of known generative-language models, keyed by
// friendly alias.
var Models = map[string]ModelInfo{
	"flash": {
		ID:          "gemini-2.0-flash",
		Name:        "Gemini 2.0 Flash",
		MaxTokens:   1000000,
		Description: "Fast general-purpose chat and vision",
	},
	"flash-2.5": {
		ID:          "gemini-2.5-flash",
		Name:        "Gemini 2.5 Flash",
		MaxTokens:   1000000,
		Description: "Newer flash generation with stronger reasoning",
	},
	"pro": {
		ID:          "gemini-2.5-pro",
		Name:        "Gemini 2.5 Pro",
		MaxTokens:   1000000,
		Description: "Strongest reasoning, slower and costlier",
	},
	"tts": {
		ID:          "gemini-2.5-flash-preview-tts",
		Name:        "Gemini 2.5 Flash TTS",
		Audio:       true,
		MaxTokens:   8000,
		Description: "Speech synthesis (AUDIO response modality)",
	},
}

// =============================================================================
// REGISTRY HELPERS
// =============================================================================

// ResolveModel maps a friendly alias to its API model ID. Unknown names
// are returned unchanged so callers can pass full IDs directly.
func ResolveModel(name string) string {
	if info, ok := Models[strings.ToLower(strings.TrimSpace(name))]; ok {
		return info.ID
	}
	return name
}

// LookupModel returns registry info for an alias or full ID.
func LookupModel(name string) (ModelInfo, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if info, ok := Models[needle]; ok {
		return info, true
	}
	for _, info := range Models {
		if info.ID == needle {
			return info, true
		}
	}
	return ModelInfo{}, false
}

// DisplayName returns the human-readable name for a model ID, falling
// back to the ID itself.
func DisplayName(id string) string {
	if info, ok := LookupModel(id); ok {
		return info.Name
	}
	return id
}

// KnownAliases returns the registry aliases in sorted order.
func KnownAliases() []string {
	aliases := make([]string, 0, len(Models))
	for alias := range Models {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}
