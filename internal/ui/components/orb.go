// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the aurora TUI.
package components

import (
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/aurora-tui/internal/ui/styles"
)

// =============================================================================
// ORB INDICATOR
// =============================================================================

// OrbMode is the conversation state the orb reflects.
type OrbMode int

const (
	// OrbIdle means the app is waiting for input.
	OrbIdle OrbMode = iota
	// OrbBusy means a request is in flight.
	OrbBusy
	// OrbListening means the microphone is capturing.
	OrbListening
)

// String returns the display name for the mode.
func (m OrbMode) String() string {
	switch m {
	case OrbIdle:
		return "idle"
	case OrbBusy:
		return "busy"
	case OrbListening:
		return "listening"
	default:
		return "unknown"
	}
}

// Per-mode rotation speed in radians per tick. Idle barely drifts, busy
// turns visibly, listening spins.
const (
	orbIdleSpeed      = 0.005
	orbBusySpeed      = 0.02
	orbListeningSpeed = 0.05
)

// Per-mode glow intensity. Values at or above orbBoldThreshold render bold.
const (
	orbIdleIntensity      = 1.0
	orbBusyIntensity      = 1.5
	orbListeningIntensity = 2.0

	orbBoldThreshold = 1.5
)

// OrbTickRate is the animation frame interval.
const OrbTickRate = time.Second / 30

// OrbTickMsg advances the orb animation by one tick.
type OrbTickMsg struct {
	At time.Time
}

// Orb is the animated presence indicator. It rotates continuously; the
// current conversation state selects rotation speed and glow intensity.
//
// Mode changes take effect on the next tick and never reset the angle, so
// the orb keeps turning smoothly through state transitions. Resizes update
// the projection only and never touch animation state.
type Orb struct {
	mode   OrbMode
	angle  float64 // accumulated rotation in radians, wrapped to [0, 2pi)
	width  int     // projection width, display only
	active bool
	theme  *styles.Theme
}

// NewOrb creates an orb in the idle state.
func NewOrb(theme *styles.Theme) Orb {
	return Orb{
		mode:  OrbIdle,
		width: 80,
		theme: theme,
	}
}

// SetMode switches the conversation state. The rotation angle is preserved
// across the switch.
func (o *Orb) SetMode(mode OrbMode) {
	o.mode = mode
}

// Mode returns the current conversation state.
func (o Orb) Mode() OrbMode {
	return o.mode
}

// Angle returns the accumulated rotation in radians.
func (o Orb) Angle() float64 {
	return o.angle
}

// SetWidth updates the projection width. Rotation angle, mode, speed, and
// intensity are unaffected.
func (o *Orb) SetWidth(width int) {
	o.width = width
}

// Speed returns the rotation speed for the current mode in radians per tick.
func (o Orb) Speed() float64 {
	switch o.mode {
	case OrbBusy:
		return orbBusySpeed
	case OrbListening:
		return orbListeningSpeed
	default:
		return orbIdleSpeed
	}
}

// Intensity returns the glow intensity for the current mode.
func (o Orb) Intensity() float64 {
	switch o.mode {
	case OrbBusy:
		return orbBusyIntensity
	case OrbListening:
		return orbListeningIntensity
	default:
		return orbIdleIntensity
	}
}

// Start activates the animation and schedules the first tick.
func (o *Orb) Start() tea.Cmd {
	o.active = true
	return orbTick()
}

// Stop halts the animation. The angle is kept so a restart resumes rather
// than snaps.
func (o *Orb) Stop() {
	o.active = false
}

// IsActive reports whether the animation loop is running.
func (o Orb) IsActive() bool {
	return o.active
}

func orbTick() tea.Cmd {
	return tea.Tick(OrbTickRate, func(t time.Time) tea.Msg {
		return OrbTickMsg{At: t}
	})
}

// Update advances the animation on tick messages and reschedules the next
// tick while active.
func (o Orb) Update(msg tea.Msg) (Orb, tea.Cmd) {
	if _, ok := msg.(OrbTickMsg); !ok {
		return o, nil
	}
	if !o.active {
		return o, nil
	}

	o.angle += o.Speed()
	// Wrap to keep float precision over long sessions.
	if o.angle >= 2*math.Pi {
		o.angle = math.Mod(o.angle, 2*math.Pi)
	}

	return o, orbTick()
}

// FrameIndex maps the current angle onto the pulse frame ramp. The
// phase is eased so the glyph lingers at the dim and bright ends of the
// ramp instead of stepping through it evenly.
func (o Orb) FrameIndex() int {
	frames := len(styles.PulseSpinner.Frames)
	if frames == 0 {
		return 0
	}
	phase := o.angle / (2 * math.Pi)
	idx := int(styles.EaseInOutQuad(phase) * float64(frames))
	if idx >= frames {
		idx = frames - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

// View renders the orb glyph for the current angle, tinted and weighted by
// the mode's intensity.
func (o Orb) View() string {
	frame := styles.PulseSpinner.Frames[o.FrameIndex()]

	var style = o.theme.OrbIdle
	switch o.mode {
	case OrbBusy:
		style = o.theme.OrbBusy
	case OrbListening:
		style = o.theme.OrbListening
	}

	if o.Intensity() >= orbBoldThreshold {
		style = style.Bold(true)
	}
	return style.Render(frame)
}
