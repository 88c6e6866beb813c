// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the interactive conversation screen.
//
// This file holds the Bubble Tea model itself: construction, the state
// machine, the Update dispatch loop, resizing, and key routing.
package chat

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/aurora-tui/internal/audio"
	"github.com/jeranaias/aurora-tui/internal/commands"
	"github.com/jeranaias/aurora-tui/internal/config"
	"github.com/jeranaias/aurora-tui/internal/gemini"
	"github.com/jeranaias/aurora-tui/internal/logx"
	"github.com/jeranaias/aurora-tui/internal/model"
	"github.com/jeranaias/aurora-tui/internal/ui/components"
	"github.com/jeranaias/aurora-tui/internal/ui/styles"
	"github.com/jeranaias/aurora-tui/internal/voice"
)

// ===== STATE MACHINE =====

// State is the single activity state of the chat screen.
type State int

const (
	// StateIdle accepts input and dispatches requests.
	StateIdle State = iota
	// StateBusy has a generation request in flight.
	StateBusy
	// StateListening is capturing microphone audio.
	StateListening
)

// String returns the state name for logs and status display.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBusy:
		return "busy"
	case StateListening:
		return "listening"
	default:
		return "unknown"
	}
}

// legalTransitions enumerates every allowed state change. Busy begins
// at dispatch and ends at settlement; listening is entered and left
// only from idle. Anything else is a bug and is refused.
var legalTransitions = map[State][]State{
	StateIdle:      {StateBusy, StateListening},
	StateBusy:      {StateIdle},
	StateListening: {StateIdle},
}

// ===== LAYOUT CONSTANTS =====

const (
	headerHeight      = 2
	inputHeight       = 3
	statusBarHeight   = 1
	searchBarHeight   = 2
	minViewportHeight = 3

	// noticeTTL is how long a transient notice stays on screen.
	noticeTTL = 4 * time.Second

	defaultPlaceholder = "Message Aurora, or / for commands"
)

// ErrorState is a blocking error box shown over the input area until
// dismissed with esc or enter.
type ErrorState struct {
	Title   string
	Message string
	Tip     string
}

// ===== MODEL =====

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	// Dependencies
	cfg    *config.Config
	theme  *styles.Theme
	client *gemini.Client
	player *audio.Player
	voice  *voice.Controller

	// Conversation state
	conversation *model.Conversation
	filter       string
	pending      *model.PendingImage
	muted        bool
	lastReply    string
	lastWAV      []byte

	// Request lifecycle
	state           State
	activeRequestID string
	activeKind      gemini.RequestKind
	cancelMgr       *cancelManager

	// Widgets
	viewport    viewport.Model
	entryList   *components.EntryList
	input       *components.InputArea
	orb         components.Orb
	statusBar   *components.StatusBar
	welcome     components.Welcome
	popup       *components.CompletionPopup
	searchInput textinput.Model

	// Slash commands
	registry        *commands.Registry
	parser          *commands.Parser
	completer       *commands.Completer
	completionState *commands.CompletionState
	showCompletions bool

	// Overlays and notices
	searchMode bool
	showHelp   bool
	helpTopic  string
	lastError  *ErrorState
	notice     string
	noticeID   int

	// Display metadata
	modelName string
	voiceName string

	keyMap KeyMap
	width  int
	height int
}

// New builds the chat model, wiring the Gemini client, audio player,
// and voice recorder from configuration.
func New(cfg *config.Config, theme *styles.Theme) Model {
	client := gemini.NewClient(cfg.API.Key).
		WithTimeout(cfg.API.Timeout()).
		WithMaxAttempts(cfg.API.MaxAttempts).
		WithRequestInterval(cfg.API.RequestInterval()).
		WithVoice(cfg.Speech.Voice).
		WithSpeechModel(cfg.Speech.Model)
	if cfg.API.BaseURL != "" {
		client = client.WithBaseURL(cfg.API.BaseURL)
	}
	client.SetModel(model.ResolveModel(cfg.API.Model))
	return NewWithClient(cfg, theme, client)
}

// NewWithClient builds the chat model around an existing client. Used
// by tests to inject a client pointed at a local server.
func NewWithClient(cfg *config.Config, theme *styles.Theme, client *gemini.Client) Model {
	player := audio.NewPlayer()
	if cfg.Speech.Player != "" {
		player = player.WithCommand(strings.Fields(cfg.Speech.Player))
	}

	var voiceCtl *voice.Controller
	if cfg.Voice.Enabled {
		rec := voice.NewRecorder().WithRate(cfg.Voice.CaptureRate)
		if cfg.Voice.Recorder != "" {
			rec = rec.WithCommand(strings.Fields(cfg.Voice.Recorder))
		}
		voiceCtl = voice.NewController(rec, client)
	}

	registry := commands.NewRegistry()
	completer := commands.NewCompleter(registry)
	completer.ModelsFn = modelCompletions
	completer.ConfigFn = config.GetAllKeys

	voiceName := cfg.Speech.Voice
	if voiceName == "" {
		voiceName = gemini.DefaultVoice
	}
	modelID := model.ResolveModel(cfg.API.Model)
	client.SetModel(modelID)

	searchInput := textinput.New()
	searchInput.Placeholder = "filter transcript..."
	searchInput.Prompt = "/ "
	searchInput.CharLimit = 128

	vp := viewport.New(80, 20)
	// Scrolling is driven explicitly from handleScrollKey so plain
	// letters stay with the text input.
	vp.KeyMap = viewport.KeyMap{}

	m := Model{
		cfg:             cfg,
		theme:           theme,
		client:          client,
		player:          player,
		voice:           voiceCtl,
		conversation:    model.NewConversationWithModel(modelID),
		cancelMgr:       &cancelManager{},
		viewport:        vp,
		entryList:       components.NewEntryList(theme),
		input:           components.NewInputArea(theme),
		orb:             components.NewOrb(theme),
		statusBar:       components.NewStatusBar(theme),
		welcome:         components.NewWelcome(theme),
		popup:           components.NewCompletionPopup(theme),
		searchInput:     searchInput,
		registry:        registry,
		parser:          commands.NewParser(registry),
		completer:       completer,
		completionState: commands.NewCompletionState(),
		muted:           cfg.Speech.Mute,
		modelName:       modelID,
		voiceName:       voiceName,
		keyMap:          DefaultKeyMap(),
	}

	m.entryList.ShowTimestamps = cfg.UI.ShowTimestamps
	m.input.SetPlaceholder(defaultPlaceholder)
	m.statusBar.ModelName = model.DisplayName(modelID)
	m.statusBar.Voice = voiceName
	m.statusBar.Muted = m.muted
	m.welcome.SetVersion(cfg.Version)
	m.welcome.SetModelName(model.DisplayName(modelID))
	m.welcome.SetVoice(voiceName)
	m.welcome.SetKeyConfigured(client.IsConfigured())

	if cfg.UI.ShowOrb {
		// Activate now; Init schedules the first tick.
		m.orb.Start()
	}
	return m
}

// modelCompletions lists the names accepted by /model: short aliases
// first, then the full model IDs they resolve to.
func modelCompletions() []string {
	aliases := model.KnownAliases()
	out := make([]string, 0, len(aliases)*2)
	seen := make(map[string]bool)
	for _, alias := range aliases {
		out = append(out, alias)
		seen[alias] = true
	}
	for _, alias := range aliases {
		id := model.ResolveModel(alias)
		if !seen[id] {
			out = append(out, id)
			seen[id] = true
		}
	}
	return out
}

// ===== INIT =====

// Init starts the cursor blink and the orb animation.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.input.Focus()}
	if m.orb.IsActive() {
		cmds = append(cmds, orbTickCmd())
	}
	return tea.Batch(cmds...)
}

// orbTickCmd schedules the next orb animation frame. After the first
// tick the orb reschedules itself from its own Update.
func orbTickCmd() tea.Cmd {
	return tea.Tick(components.OrbTickRate, func(t time.Time) tea.Msg {
		return components.OrbTickMsg{At: t}
	})
}

// ===== UPDATE =====

// Update is the message dispatch loop.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)

	// Generation lifecycle
	case ReplyMsg:
		return m.handleReply(msg)
	case ReplyErrorMsg:
		return m.handleReplyError(msg)
	case RetryAttemptMsg:
		return m.handleRetryAttempt(msg)

	// Speech
	case SpeechReadyMsg:
		return m.handleSpeechReady(msg)
	case SpeechErrorMsg:
		return m.handleSpeechError(msg)
	case PlaybackDoneMsg:
		return m.handlePlaybackDone(msg)

	// Voice capture
	case VoiceStartedMsg:
		return m.handleVoiceStarted(msg)
	case TranscriptMsg:
		return m.handleTranscript(msg)

	// Slash commands
	case commands.ShowHelpMsg:
		m.showHelp = true
		m.helpTopic = msg.Topic
		return m, nil
	case commands.AttachImageMsg:
		return m.handleAttachImage(msg)
	case commands.DetachImageMsg:
		return m.handleDetachImage()
	case commands.SummarizeRequestMsg:
		return m.dispatchSummary()
	case commands.SetFilterMsg:
		return m.handleSetFilter(msg)
	case commands.ToggleVoiceMsg:
		return m.toggleVoice()
	case commands.ToggleMuteMsg:
		return m.handleToggleMute()
	case commands.ReplayMsg:
		return m.handleReplay()
	case commands.ModelSwitchMsg:
		return m.handleModelSwitch(msg)
	case commands.ShowModelMsg:
		return m, m.setNotice("Model: " + model.DisplayName(m.modelName) + " (" + m.modelName + ")")
	case commands.ExportTranscriptMsg:
		return m.exportTranscript(msg.Path)
	case commands.ClearConversationMsg:
		return m.clearConversation()
	case commands.ShowConfigMsg:
		return m.handleShowConfig(msg)
	case commands.ThemeSwitchMsg:
		return m.handleThemeSwitch(msg)
	case commands.NoticeMsg:
		return m, m.setNotice(msg.Text)
	case commands.ErrorMsg:
		m.lastError = &ErrorState{Title: msg.Title, Message: msg.Message, Tip: msg.Tip}
		return m, nil

	// Application
	case ConfigReloadedMsg:
		return m.handleConfigReloaded(msg)
	case ExportDoneMsg:
		return m.handleExportDone(msg)
	case NoticeExpiredMsg:
		if msg.ID == m.noticeID {
			m.notice = ""
			m.layoutViewport()
		}
		return m, nil

	case components.OrbTickMsg:
		var cmd tea.Cmd
		m.orb, cmd = m.orb.Update(msg)
		return m, cmd
	}

	return m.updateWidgets(msg)
}

// updateWidgets forwards messages the dispatch switch did not claim to
// the focused widgets. The viewport always gets a copy so mouse wheel
// scrolling works in every state.
func (m Model) updateWidgets(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if m.searchMode {
		m.searchInput, cmd = m.searchInput.Update(msg)
		cmds = append(cmds, cmd)
	} else if m.state == StateIdle && m.lastError == nil && !m.showHelp {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// ===== RESIZE =====

// handleResize recomputes the layout. Animation state is untouched:
// only projections (widths, heights) change.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	m.theme.SetSize(msg.Width, msg.Height)
	m.statusBar.SetWidth(msg.Width)
	m.input.SetWidth(msg.Width)
	m.orb.SetWidth(msg.Width)
	m.popup.SetWidth(minInt(60, msg.Width-4))
	m.searchInput.Width = maxInt(16, msg.Width-8)
	m.welcome.SetSize(msg.Width, maxInt(1, msg.Height-headerHeight-inputHeight-statusBarHeight))

	m.viewport.Width = msg.Width
	m.layoutViewport()
	m.updateViewport()
	return m, nil
}

// layoutViewport sizes the transcript viewport from the terminal
// height minus the chrome currently on screen.
func (m *Model) layoutViewport() {
	chrome := headerHeight + inputHeight + statusBarHeight
	if m.searchMode {
		chrome += searchBarHeight
	}
	if m.notice != "" {
		chrome++
	}
	if m.showCompletions {
		chrome += popupReservedHeight(m.popup)
	}
	h := m.height - chrome
	if h < minViewportHeight {
		h = minViewportHeight
	}
	m.viewport.Height = h
	m.viewport.Width = m.width
}

// ===== KEY ROUTING =====

// handleKey routes key presses by overlay first, then state.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Quit always works, even mid-request.
	if key.Matches(msg, m.keyMap.Quit) {
		m.cancelActiveRequest()
		m.player.Stop()
		return m, tea.Quit
	}

	if m.showHelp {
		return m.handleHelpKey(msg)
	}
	if m.lastError != nil {
		return m.handleErrorKey(msg)
	}
	if m.searchMode {
		return m.handleSearchKey(msg)
	}

	if key.Matches(msg, m.keyMap.Help) {
		m.showHelp = true
		m.helpTopic = ""
		return m, nil
	}

	switch m.state {
	case StateBusy:
		return m.handleBusyKey(msg)
	case StateListening:
		return m.handleListeningKey(msg)
	default:
		return m.handleIdleKey(msg)
	}
}

// handleHelpKey dismisses the help overlay.
func (m Model) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "q", "f1":
		m.showHelp = false
		m.helpTopic = ""
	}
	return m, nil
}

// handleErrorKey dismisses the error box.
func (m Model) handleErrorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.lastError = nil
	}
	return m, nil
}

// handleSearchKey edits the transcript filter. The filter applies live
// while typing; esc clears it, enter keeps it and returns focus to the
// input.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Cancel):
		m.searchMode = false
		m.filter = ""
		m.searchInput.Reset()
		m.layoutViewport()
		m.updateViewport()
		return m, m.input.Focus()
	case key.Matches(msg, m.keyMap.Submit), key.Matches(msg, m.keyMap.Search):
		m.searchMode = false
		m.layoutViewport()
		m.updateViewport()
		return m, m.input.Focus()
	default:
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		m.filter = strings.TrimSpace(m.searchInput.Value())
		m.updateViewport()
		return m, cmd
	}
}

// handleBusyKey handles keys while a request is in flight. The input
// is parked; esc cancels the request.
func (m Model) handleBusyKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Cancel):
		if m.cancelActiveRequest() {
			return m, m.setNotice("Canceling request...")
		}
		return m, nil
	case key.Matches(msg, m.keyMap.Search):
		return m.enterSearch()
	default:
		m.handleScrollKey(msg)
		return m, nil
	}
}

// handleListeningKey handles keys while the microphone is open.
func (m Model) handleListeningKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Voice), key.Matches(msg, m.keyMap.Submit):
		return m.stopVoice()
	case key.Matches(msg, m.keyMap.Cancel):
		return m.discardVoice()
	default:
		m.handleScrollKey(msg)
		return m, nil
	}
}

// handleIdleKey handles keys in the idle state, where the text input
// owns everything not claimed by a chord.
func (m Model) handleIdleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Complete):
		return m.handleTabCompletion(false)
	case msg.String() == "shift+tab":
		if m.showCompletions {
			return m.handleTabCompletion(true)
		}
		return m, nil
	case key.Matches(msg, m.keyMap.Submit):
		m.clearCompletions()
		return m.submitInput()
	case key.Matches(msg, m.keyMap.Voice):
		return m.toggleVoice()
	case key.Matches(msg, m.keyMap.Search):
		return m.enterSearch()
	case key.Matches(msg, m.keyMap.Export):
		return m.exportTranscript("")
	case key.Matches(msg, m.keyMap.Clear):
		return m.clearConversation()
	case key.Matches(msg, m.keyMap.Cancel):
		if m.showCompletions {
			m.clearCompletions()
			return m, nil
		}
		if m.filter != "" {
			m.filter = ""
			m.searchInput.Reset()
			m.updateViewport()
			return m, m.setNotice("Filter cleared.")
		}
		return m, nil
	default:
		if m.handleScrollKey(msg) {
			return m, nil
		}
		// Any other key invalidates the completion popup.
		m.clearCompletions()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

// handleScrollKey drives the transcript viewport. Home and end jump
// only while the input is empty, since the text input needs them for
// cursor movement otherwise. Reports whether the key was consumed.
func (m *Model) handleScrollKey(msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, m.keyMap.ScrollUp):
		m.viewport.LineUp(1)
	case key.Matches(msg, m.keyMap.ScrollDown):
		m.viewport.LineDown(1)
	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.ViewUp()
	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.ViewDown()
	case key.Matches(msg, m.keyMap.Top):
		if m.input.Value() != "" {
			return false
		}
		m.viewport.GotoTop()
	case key.Matches(msg, m.keyMap.Bottom):
		if m.input.Value() != "" {
			return false
		}
		m.viewport.GotoBottom()
	default:
		return false
	}
	return true
}

// enterSearch opens the transcript filter bar.
func (m Model) enterSearch() (tea.Model, tea.Cmd) {
	m.searchMode = true
	m.searchInput.SetValue(m.filter)
	m.searchInput.CursorEnd()
	m.input.Blur()
	m.layoutViewport()
	return m, m.searchInput.Focus()
}

// ===== STATE TRANSITIONS =====

// transitionTo moves the state machine to next, refusing anything the
// transition table does not allow. The orb, status bar, and input
// placeholder are re-synced on every successful transition.
func (m *Model) transitionTo(next State) bool {
	if next == m.state {
		return false
	}
	allowed := false
	for _, s := range legalTransitions[m.state] {
		if s == next {
			allowed = true
			break
		}
	}
	if !allowed {
		logx.Warn().
			Str("from", m.state.String()).
			Str("to", next.String()).
			Msg("illegal state transition refused")
		return false
	}
	m.state = next
	m.syncIndicators()
	return true
}

// syncIndicators aligns every state-derived widget with m.state.
func (m *Model) syncIndicators() {
	mode := orbModeFor(m.state)
	m.orb.SetMode(mode)
	m.statusBar.SetState(mode)

	switch m.state {
	case StateBusy:
		m.input.Blur()
		m.input.SetPlaceholder("Waiting for Aurora...")
	case StateListening:
		m.input.Blur()
		m.input.SetPlaceholder("Listening... ctrl+v or enter to stop, esc to discard")
	default:
		m.input.SetPlaceholder(defaultPlaceholder)
		m.input.Focus()
	}
}

// orbModeFor maps a chat state to the orb display mode.
func orbModeFor(s State) components.OrbMode {
	switch s {
	case StateBusy:
		return components.OrbBusy
	case StateListening:
		return components.OrbListening
	default:
		return components.OrbIdle
	}
}

// State returns the current activity state.
func (m Model) State() State {
	return m.state
}

// ===== NOTICES =====

// setNotice shows a transient one-line notice and returns the command
// that expires it. A newer notice supersedes the pending expiry.
func (m *Model) setNotice(text string) tea.Cmd {
	m.notice = text
	m.noticeID++
	id := m.noticeID
	m.layoutViewport()
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return NoticeExpiredMsg{ID: id}
	})
}

// clearNotice removes the notice immediately.
func (m *Model) clearNotice() {
	m.notice = ""
	m.layoutViewport()
}

// ===== TRANSCRIPT =====

// visibleEntries returns the entries the transcript should show,
// honoring the active filter.
func (m *Model) visibleEntries() []*model.Entry {
	if m.filter == "" {
		return m.conversation.Entries()
	}
	return m.conversation.Filter(m.filter)
}

// updateViewport re-renders the transcript into the viewport, keeping
// the scroll position pinned to the bottom when it already was.
func (m *Model) updateViewport() {
	m.layoutViewport()

	entries := m.visibleEntries()
	m.entryList.SetEntries(entries)
	m.entryList.SetWidth(m.viewport.Width)
	m.entryList.Highlight = m.filter

	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.entryList.View())
	if atBottom {
		m.viewport.GotoBottom()
	}

	m.statusBar.EntryCount = m.conversation.Len()
	m.statusBar.TokenEstimate = m.conversation.EstimateTokens()
	if m.filter != "" {
		m.statusBar.SetFilter(true, len(entries))
	} else {
		m.statusBar.SetFilter(false, 0)
	}
}
