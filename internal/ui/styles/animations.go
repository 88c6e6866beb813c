// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"time"
)

// ===== SPINNER CONFIGURATIONS =====

// SpinnerConfig defines an animation frame sequence and playback rate.
type SpinnerConfig struct {
	Frames []string
	FPS    int
}

// Duration returns the per-frame delay for the configured FPS.
func (s SpinnerConfig) Duration() time.Duration {
	if s.FPS <= 0 {
		return 100 * time.Millisecond
	}
	return time.Second / time.Duration(s.FPS)
}

// DotsSpinner is the classic three-dot thinking sequence.
var DotsSpinner = SpinnerConfig{
	Frames: []string{"   ", ".  ", ".. ", "...", " ..", "  .", "   "},
	FPS:    8,
}

// PulseSpinner is the breathing ramp used by the animated indicator.
// Frames are ordered dim to bright and ASCII only.
var PulseSpinner = SpinnerConfig{
	Frames: []string{"( )", "(.)", "(o)", "(O)", "(@)", "(O)", "(o)", "(.)"},
	FPS:    10,
}

// ===== PROGRESS BARS =====

// Progress bar characters. ASCII for terminal compatibility.
const (
	ProgressFull  = "#"
	ProgressEmpty = "-"
)

// RenderProgressBar renders a fixed-width ASCII progress bar.
// Progress is clamped to [0, 1].
func RenderProgressBar(width int, progress float64) string {
	if width <= 0 {
		return ""
	}
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}

	filled := int(progress * float64(width))
	if filled > width {
		filled = width
	}

	var b strings.Builder
	b.Grow(width)
	for i := 0; i < width; i++ {
		if i < filled {
			b.WriteString(ProgressFull)
		} else {
			b.WriteString(ProgressEmpty)
		}
	}
	return b.String()
}

// ===== EASING FUNCTIONS =====

// EasingFunc maps linear progress [0, 1] to eased progress [0, 1].
type EasingFunc func(t float64) float64

// EaseLinear passes progress through unchanged.
func EaseLinear(t float64) float64 { return t }

// EaseOutQuad decelerates toward the end.
func EaseOutQuad(t float64) float64 { return t * (2 - t) }

// EaseInOutQuad accelerates then decelerates. The indicator's frame
// ramp runs through it so the pulse reads as breathing rather than
// blinking.
func EaseInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}

// EaseOutCubic decelerates strongly toward the end.
func EaseOutCubic(t float64) float64 {
	t--
	return t*t*t + 1
}

// ===== TREE RENDERING =====

// TreeCharSet holds the drawing characters for hierarchical listings.
type TreeCharSet struct {
	Branch     string
	LastBranch string
	Vertical   string
	Indent     string
}

// TreeChars is the default ASCII tree charset.
var TreeChars = TreeCharSet{
	Branch:     "|- ",
	LastBranch: "`- ",
	Vertical:   "|  ",
	Indent:     "   ",
}

// RenderTreeLine renders one line of a tree listing at the given depth.
func RenderTreeLine(depth int, isLast bool, content string) string {
	if depth <= 0 {
		return content
	}

	var b strings.Builder
	for i := 0; i < depth-1; i++ {
		b.WriteString(TreeChars.Indent)
	}
	if isLast {
		b.WriteString(TreeChars.LastBranch)
	} else {
		b.WriteString(TreeChars.Branch)
	}
	b.WriteString(content)
	return b.String()
}
