// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles defines the aurora visual identity: the adaptive color
// palette, the pre-built lipgloss style set, and small animation helpers.
//
// # Key Components
//
//   - Palette: lipgloss.AdaptiveColor variables (Violet, Teal, Emerald,
//     Rose, Amber plus surface and text tiers) that adapt to light and
//     dark terminal backgrounds.
//   - Theme: every style the chat view renders with, built once by
//     NewTheme and resized with SetSize.
//   - SpinnerConfig: frame sequences and playback rates for the animated
//     indicator.
//   - StatusIndicators: ASCII markers paired with semantic colors so
//     state is never conveyed by color alone.
//
// # Usage
//
//	styles.ApplyPreference(cfg.UI.Theme)
//	theme := styles.NewTheme()
//	theme.SetSize(width, height)
//	fmt.Println(theme.AssistantLabel.Render("aurora"))
//
// Layout decisions key off Theme.GetLayoutMode, which buckets the
// terminal width into narrow, medium, and wide modes.
package styles
