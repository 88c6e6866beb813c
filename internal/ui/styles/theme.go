// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ===== THEME =====

// Theme holds every pre-built style the chat UI renders with. Styles are
// initialized once at startup and resized on terminal resize rather than
// rebuilt per frame.
//
// PERFORMANCE: lipgloss style construction allocates. Building the full
// set once keeps the render loop allocation-free for styling.
type Theme struct {
	// Terminal capabilities detected at startup.
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Current terminal dimensions.
	Width  int
	Height int

	// App-level containers.
	App       lipgloss.Style
	Container lipgloss.Style

	// Header bar.
	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// Conversation bubbles.
	UserBubble      lipgloss.Style
	UserLabel       lipgloss.Style
	AssistantBubble lipgloss.Style
	AssistantLabel  lipgloss.Style
	Notice          lipgloss.Style
	Timestamp       lipgloss.Style

	// Attachments.
	AttachmentBadge lipgloss.Style

	// Input area.
	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputText        lipgloss.Style
	InputPlaceholder lipgloss.Style
	CharCount        lipgloss.Style
	CharCountWarning lipgloss.Style

	// Status bar.
	StatusBar      lipgloss.Style
	StateIdle      lipgloss.Style
	StateBusy      lipgloss.Style
	StateListening lipgloss.Style
	MuteIndicator  lipgloss.Style
	ShortcutKey    lipgloss.Style
	ShortcutDesc   lipgloss.Style

	// Search filter.
	SearchBar   lipgloss.Style
	SearchMatch lipgloss.Style
	SearchCount lipgloss.Style

	// Animated indicator and pending-reply row.
	OrbIdle      lipgloss.Style
	OrbBusy      lipgloss.Style
	OrbListening lipgloss.Style
	ThinkingText lipgloss.Style

	// Completion popup.
	CompletionPopup    lipgloss.Style
	CompletionItem     lipgloss.Style
	CompletionSelected lipgloss.Style
	CompletionDesc     lipgloss.Style

	// Code blocks inside replies.
	CodeBlock     lipgloss.Style
	CodeLangBadge lipgloss.Style

	// Error panel.
	ErrorBox        lipgloss.Style
	ErrorTitle      lipgloss.Style
	ErrorMessage    lipgloss.Style
	ErrorSuggestion lipgloss.Style

	// Welcome screen.
	WelcomeBox      lipgloss.Style
	WelcomeLogo     lipgloss.Style
	WelcomeVersion  lipgloss.Style
	WelcomeInfo     lipgloss.Style
	WelcomeKey      lipgloss.Style
	WelcomePressKey lipgloss.Style

	// Accessibility helpers for plain status lines.
	SuccessText lipgloss.Style
	ErrorText   lipgloss.Style
	WarningText lipgloss.Style
	InfoText    lipgloss.Style
}

// ApplyPreference forces lipgloss background detection for an explicit
// theme preference. "auto" keeps terminal detection.
func ApplyPreference(pref string) {
	switch pref {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "light":
		lipgloss.SetHasDarkBackground(false)
	}
}

// NewTheme detects terminal capabilities and builds the full style set.
func NewTheme() *Theme {
	profile := termenv.ColorProfile()

	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: profile == termenv.TrueColor,
		ColorProfile: profile,
		Width:        80,
		Height:       24,
	}
	t.initStyles()
	return t
}

// initStyles builds every style from the palette. Called once from
// NewTheme; SetSize only adjusts width-dependent styles afterwards.
func (t *Theme) initStyles() {
	// ===== APP CONTAINERS =====

	t.App = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.Container = lipgloss.NewStyle().
		Padding(0, 1)

	// ===== HEADER =====

	t.Header = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(SurfaceBright).
		Padding(0, 1).
		Bold(true)

	t.HeaderTitle = lipgloss.NewStyle().
		Foreground(Violet).
		Bold(true)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextMuted)

	// ===== CONVERSATION BUBBLES =====

	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 1)

	t.UserLabel = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		Background(AssistantBubbleBg).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 1)

	t.AssistantLabel = lipgloss.NewStyle().
		Foreground(Violet).
		Bold(true)

	t.Notice = lipgloss.NewStyle().
		Foreground(NoticeFg).
		Italic(true)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	// ===== ATTACHMENTS =====

	t.AttachmentBadge = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Teal).
		Padding(0, 1).
		Bold(true)

	// ===== INPUT AREA =====

	t.InputContainer = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(OverlayDim).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)

	t.InputText = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.CharCount = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.CharCountWarning = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	// ===== STATUS BAR =====

	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)

	t.StateIdle = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(TealDeep).
		Padding(0, 1).
		Bold(true)

	t.StateBusy = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(AmberDeep).
		Padding(0, 1).
		Bold(true)

	t.StateListening = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(EmeraldDeep).
		Padding(0, 1).
		Bold(true)

	t.MuteIndicator = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Violet).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// ===== SEARCH =====

	t.SearchBar = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(SurfaceBright).
		Padding(0, 1)

	t.SearchMatch = lipgloss.NewStyle().
		Foreground(SearchMatchFg).
		Background(SearchMatchBg).
		Bold(true)

	t.SearchCount = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// ===== INDICATOR =====

	t.OrbIdle = lipgloss.NewStyle().
		Foreground(OrbIdleColor)

	t.OrbBusy = lipgloss.NewStyle().
		Foreground(OrbBusyColor)

	t.OrbListening = lipgloss.NewStyle().
		Foreground(OrbListeningColor)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// ===== COMPLETION POPUP =====

	t.CompletionPopup = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Violet).
		Background(SurfaceBright).
		Padding(0, 1)

	t.CompletionItem = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.CompletionSelected = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(SelectionBg).
		Bold(true)

	t.CompletionDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// ===== CODE BLOCKS =====

	t.CodeBlock = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)

	t.CodeLangBadge = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Violet).
		Padding(0, 1).
		Bold(true)

	// ===== ERROR PANEL =====

	t.ErrorBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(RoseDeep).
		Padding(0, 1)

	t.ErrorTitle = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.ErrorMessage = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.ErrorSuggestion = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// ===== WELCOME =====

	t.WelcomeBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Violet).
		Padding(1, 2)

	t.WelcomeLogo = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)

	t.WelcomeVersion = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.WelcomeInfo = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.WelcomeKey = lipgloss.NewStyle().
		Foreground(Violet).
		Bold(true)

	t.WelcomePressKey = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// ===== ACCESSIBILITY =====

	t.SuccessText = lipgloss.NewStyle().Foreground(Emerald)
	t.ErrorText = lipgloss.NewStyle().Foreground(Rose)
	t.WarningText = lipgloss.NewStyle().Foreground(Amber)
	t.InfoText = lipgloss.NewStyle().Foreground(Teal)
}

// SetSize records the terminal dimensions and adjusts width-dependent
// styles. Animation state is never touched here.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height

	barWidth := width
	if barWidth < 0 {
		barWidth = 0
	}
	t.StatusBar = t.StatusBar.Width(barWidth)
	t.Header = t.Header.Width(barWidth)

	// Bubbles wrap at roughly three quarters of the terminal.
	bubbleMax := width * 3 / 4
	if bubbleMax < 20 {
		bubbleMax = 20
	}
	t.UserBubble = t.UserBubble.MaxWidth(bubbleMax)
	t.AssistantBubble = t.AssistantBubble.MaxWidth(bubbleMax)
}

// ===== LAYOUT MODES =====

// LayoutMode describes how much chrome fits in the current terminal.
type LayoutMode int

const (
	// LayoutNarrow hides labels and the indicator. Under 60 columns.
	LayoutNarrow LayoutMode = iota
	// LayoutMedium shows compact chrome. 60 to 99 columns.
	LayoutMedium
	// LayoutWide shows full chrome. 100 columns and up.
	LayoutWide
)

// GetLayoutMode returns the layout mode for the current width.
func (t *Theme) GetLayoutMode() LayoutMode {
	switch {
	case t.Width < 60:
		return LayoutNarrow
	case t.Width < 100:
		return LayoutMedium
	default:
		return LayoutWide
	}
}
