// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the aurora color palette and theme.
//
// All colors are defined as lipgloss.AdaptiveColor pairs so the UI reads
// well on both dark and light terminal backgrounds. The palette leans on
// polar-light hues (teal, violet, emerald) with rose and amber reserved
// for semantic states.
package styles

import "github.com/charmbracelet/lipgloss"

// ===== PRIMARY ACCENT COLORS =====

var (
	// Violet is the primary accent. Assistant replies and brand chrome.
	Violet = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}

	// VioletDeep for borders and pressed states.
	VioletDeep = lipgloss.AdaptiveColor{Light: "#6D28D9", Dark: "#8B5CF6"}

	// Teal is the secondary accent. User input and the idle indicator.
	Teal = lipgloss.AdaptiveColor{Light: "#0D9488", Dark: "#2DD4BF"}

	// TealDeep for borders around user content.
	TealDeep = lipgloss.AdaptiveColor{Light: "#0F766E", Dark: "#14B8A6"}

	// Emerald marks success and the listening state.
	Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

	// EmeraldDeep for success borders.
	EmeraldDeep = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#10B981"}
)

// ===== SEMANTIC COLORS =====

var (
	// Rose marks errors and destructive actions.
	Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

	// RoseDeep for error borders.
	RoseDeep = lipgloss.AdaptiveColor{Light: "#BE123C", Dark: "#F43F5E"}

	// Amber marks warnings and the busy state.
	Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

	// AmberDeep for warning borders.
	AmberDeep = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#F59E0B"}
)

// ===== SURFACE COLORS =====

var (
	// Surface is the base background for panels.
	Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}

	// SurfaceDim for de-emphasized panels.
	SurfaceDim = lipgloss.AdaptiveColor{Light: "#F8FAFC", Dark: "#181825"}

	// SurfaceBright for elevated panels such as popups.
	SurfaceBright = lipgloss.AdaptiveColor{Light: "#F1F5F9", Dark: "#313244"}

	// Overlay for floating elements.
	Overlay = lipgloss.AdaptiveColor{Light: "#E2E8F0", Dark: "#45475A"}

	// OverlayDim for subtle borders.
	OverlayDim = lipgloss.AdaptiveColor{Light: "#CBD5E1", Dark: "#313244"}
)

// ===== TEXT COLORS =====

var (
	// TextPrimary for main content.
	TextPrimary = lipgloss.AdaptiveColor{Light: "#1E293B", Dark: "#CDD6F4"}

	// TextSecondary for supporting content.
	TextSecondary = lipgloss.AdaptiveColor{Light: "#475569", Dark: "#A6ADC8"}

	// TextMuted for hints and timestamps.
	TextMuted = lipgloss.AdaptiveColor{Light: "#94A3B8", Dark: "#6C7086"}

	// TextInverse for text on accent backgrounds.
	TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#11111B"}
)

// ===== CONVERSATION BUBBLES =====

var (
	// UserBubbleBg tints what the user typed.
	UserBubbleBg = lipgloss.AdaptiveColor{Light: "#CCFBF1", Dark: "#134E4A"}

	// UserBubbleFg for user text.
	UserBubbleFg = lipgloss.AdaptiveColor{Light: "#134E4A", Dark: "#CCFBF1"}

	// UserBubbleBorder frames user entries.
	UserBubbleBorder = lipgloss.AdaptiveColor{Light: "#5EEAD4", Dark: "#0F766E"}

	// AssistantBubbleBg tints replies.
	AssistantBubbleBg = lipgloss.AdaptiveColor{Light: "#F5F3FF", Dark: "#2D2B55"}

	// AssistantBubbleFg for reply text.
	AssistantBubbleFg = lipgloss.AdaptiveColor{Light: "#3730A3", Dark: "#DDD6FE"}

	// AssistantBubbleBorder frames replies.
	AssistantBubbleBorder = lipgloss.AdaptiveColor{Light: "#C4B5FD", Dark: "#6D28D9"}

	// NoticeFg for inline notices such as mute toggles and exports.
	NoticeFg = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}
)

// ===== INDICATOR STATE COLORS =====

// The animated indicator tints itself by conversation state. Idle is calm,
// busy runs warm, listening runs bright.
var (
	OrbIdleColor      = lipgloss.AdaptiveColor{Light: "#0D9488", Dark: "#2DD4BF"}
	OrbBusyColor      = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}
	OrbListeningColor = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}
)

// ===== SEARCH =====

var (
	// SearchMatchBg highlights filter matches inside the transcript.
	SearchMatchBg = lipgloss.AdaptiveColor{Light: "#FEF08A", Dark: "#854D0E"}

	// SearchMatchFg keeps matched text readable on the highlight.
	SearchMatchFg = lipgloss.AdaptiveColor{Light: "#713F12", Dark: "#FEF9C3"}
)

// ===== SYNTAX HIGHLIGHTING =====

// Token colors for fenced code. Loosely Catppuccin.
var (
	SyntaxKeyword  = lipgloss.AdaptiveColor{Light: "#8839EF", Dark: "#CBA6F7"}
	SyntaxString   = lipgloss.AdaptiveColor{Light: "#40A02B", Dark: "#A6E3A1"}
	SyntaxNumber   = lipgloss.AdaptiveColor{Light: "#FE640B", Dark: "#FAB387"}
	SyntaxComment  = lipgloss.AdaptiveColor{Light: "#9CA0B0", Dark: "#6C7086"}
	SyntaxFunction = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"}
	SyntaxType     = lipgloss.AdaptiveColor{Light: "#DF8E1D", Dark: "#F9E2AF"}
)

// ===== SPECIAL EFFECTS =====

var (
	// GradientStart and GradientEnd for banner effects.
	GradientStart = lipgloss.AdaptiveColor{Light: "#0D9488", Dark: "#2DD4BF"}
	GradientEnd   = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}

	// FocusRing for focused outlines.
	FocusRing = lipgloss.AdaptiveColor{Light: "#0D9488", Dark: "#2DD4BF"}

	// SelectionBg for selected completion rows.
	SelectionBg = lipgloss.AdaptiveColor{Light: "#CCFBF1", Dark: "#134E4A"}

	// LinkColor for URLs.
	LinkColor = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"}
)

// ===== STATUS INDICATORS =====

// StatusIndicatorSet pairs a textual indicator with its color so status is
// never conveyed by color alone.
//
// ACCESSIBILITY: every indicator keeps an ASCII marker for screen readers
// and colorblind users.
type StatusIndicatorSet struct {
	Success   string
	Error     string
	Warning   string
	Info      string
	Pending   string
	Listening string
}

// StatusIndicators is the default ASCII indicator set.
var StatusIndicators = StatusIndicatorSet{
	Success:   "[OK]",
	Error:     "[X]",
	Warning:   "[!]",
	Info:      "[i]",
	Pending:   "[*]",
	Listening: "[>]",
}

// ===== HIGH CONTRAST =====

// High contrast alternatives for low-vision users. WCAG AAA against both
// default backgrounds.
var (
	HighContrastText    = lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}
	HighContrastError   = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#FF8A80"}
	HighContrastSuccess = lipgloss.AdaptiveColor{Light: "#1B5E20", Dark: "#B9F6CA"}
	HighContrastWarning = lipgloss.AdaptiveColor{Light: "#E65100", Dark: "#FFD180"}
)

// ===== RENDER HELPERS =====

// RenderSuccess renders a message with the success indicator and color.
func RenderSuccess(msg string) string {
	return lipgloss.NewStyle().
		Foreground(Emerald).
		Render(StatusIndicators.Success + " " + msg)
}

// RenderError renders a message with the error indicator and color.
func RenderError(msg string) string {
	return lipgloss.NewStyle().
		Foreground(Rose).
		Render(StatusIndicators.Error + " " + msg)
}

// RenderWarning renders a message with the warning indicator and color.
func RenderWarning(msg string) string {
	return lipgloss.NewStyle().
		Foreground(Amber).
		Render(StatusIndicators.Warning + " " + msg)
}

// RenderInfo renders a message with the info indicator and color.
func RenderInfo(msg string) string {
	return lipgloss.NewStyle().
		Foreground(Teal).
		Render(StatusIndicators.Info + " " + msg)
}

// RenderLink renders a URL underlined in the link color.
func RenderLink(url string) string {
	return lipgloss.NewStyle().
		Foreground(LinkColor).
		Underline(true).
		Render(url)
}
