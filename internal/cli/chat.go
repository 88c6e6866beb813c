// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/peterh/liner"

	"github.com/jeranaias/aurora-tui/internal/audio"
	"github.com/jeranaias/aurora-tui/internal/config"
	"github.com/jeranaias/aurora-tui/internal/gemini"
	"github.com/jeranaias/aurora-tui/internal/logx"
	"github.com/jeranaias/aurora-tui/internal/model"
	"github.com/jeranaias/aurora-tui/internal/ui/styles"
	"github.com/jeranaias/aurora-tui/internal/util"
)

// chatHistoryFile is the liner history file under the config directory.
const chatHistoryFile = "chat_history"

// =============================================================================
// LINE EDITOR
// =============================================================================

// ChatCLI wraps the liner state with history persistence.
type ChatCLI struct {
	line        *liner.State
	historyPath string
}

// NewChatCLI creates the line editor. History lives under the config
// directory, falling back to the temp dir when that is unavailable.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return &ChatCLI{
		line:        line,
		historyPath: filepath.Join(dir, chatHistoryFile),
	}
}

// LoadHistory restores history from the previous session. A missing
// file is fine.
func (c *ChatCLI) LoadHistory() {
	f, err := os.Open(c.historyPath)
	if err != nil {
		return
	}
	defer f.Close()
	if _, err := c.line.ReadHistory(f); err != nil {
		logx.Warn().Err(err).Str("path", c.historyPath).Msg("reading chat history failed")
	}
}

// ReadInput reads one line, appending non-empty input to history.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists history for the next session.
func (c *ChatCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return
	}
	defer f.Close()
	if _, err := c.line.WriteHistory(f); err != nil {
		logx.Warn().Err(err).Str("path", c.historyPath).Msg("writing chat history failed")
	}
}

// Close restores the terminal state.
func (c *ChatCLI) Close() {
	c.line.Close()
}

// =============================================================================
// CHAT SESSION
// =============================================================================

// ChatSession holds REPL state for one run of the chat command.
type ChatSession struct {
	Client    *gemini.Client
	Quiet     bool
	Muted     bool
	StartTime time.Time
	Turns     int

	// Transcript mirrors the exchange for /summarize replay and /history
	// display. Every question still goes out as a standalone turn.
	Transcript []gemini.Content

	player *audio.Player

	mu         sync.Mutex
	cancelFunc context.CancelFunc
}

// setCancel records the abort handle for the in-flight request.
func (s *ChatSession) setCancel(fn context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelFunc = fn
}

// cancelActive aborts the in-flight request, if any.
func (s *ChatSession) cancelActive() {
	s.mu.Lock()
	fn := s.cancelFunc
	s.cancelFunc = nil
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// =============================================================================
// CHAT COMMAND
// =============================================================================

// HandleChat runs the line-based REPL.
func HandleChat(args Args) error {
	if err := RequiresTTY("aurora chat"); err != nil {
		return err
	}

	cfg := config.Global()
	client := BuildClient(cfg, args.Model, args.Quiet)
	if !client.IsConfigured() {
		return errNotConfigured()
	}

	input := NewChatCLI()
	defer input.Close()
	input.LoadHistory()

	player := audio.NewPlayer()
	if cfg.Speech.Player != "" {
		player = player.WithCommand(strings.Fields(cfg.Speech.Player))
	}
	defer player.Close()

	session := &ChatSession{
		Client:    client,
		Quiet:     args.Quiet,
		Muted:     args.Mute || cfg.Speech.Mute,
		StartTime: time.Now(),
		player:    player,
	}

	// Ctrl+C during generation aborts the request, not the REPL. At the
	// prompt, liner reports Ctrl+C as ErrPromptAborted instead.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		for range sigCh {
			session.cancelActive()
		}
	}()

	session.printWelcome()

loop:
	for {
		line, err := input.ReadInput(promptStyle.Render("aurora> "))
		switch {
		case errors.Is(err, liner.ErrPromptAborted), errors.Is(err, io.EOF):
			fmt.Println()
			break loop
		case err != nil:
			return fmt.Errorf("chat input: %w", err)
		}

		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case line == "exit", line == "quit":
			break loop
		case strings.HasPrefix(line, "/"):
			cont, err := session.handleSlash(line)
			if err != nil {
				fmt.Fprintln(os.Stderr, styles.RenderError(err.Error()))
			}
			if !cont {
				break loop
			}
		default:
			session.processMessage(line)
		}
	}

	session.printExitSummary()
	input.SaveHistory()
	return nil
}

// processMessage dispatches one standalone question and shows the reply.
func (s *ChatSession) processMessage(text string) {
	ctx, cancel := context.WithCancel(context.Background())
	s.setCancel(cancel)
	defer func() {
		s.setCancel(nil)
		cancel()
	}()

	start := time.Now()
	answer, err := s.Client.Generate(ctx, gemini.BuildTextRequest(text))
	if err != nil {
		s.showFailure(gemini.KindChat, err)
		return
	}

	displayAnswer(answer)
	s.Transcript = append(s.Transcript,
		gemini.NewUserContent(text),
		gemini.NewModelContent(answer))
	s.Turns++

	if !s.Quiet {
		fmt.Println(dimStyle.Render(fmt.Sprintf("%s | %d chars",
			time.Since(start).Round(100*time.Millisecond), len(answer))))
	}
	s.speak(answer)
}

// summarize asks for a recap of the transcript so far. This is the one
// place history is replayed.
func (s *ChatSession) summarize() {
	if len(s.Transcript) == 0 {
		fmt.Println(styles.RenderInfo("Nothing to summarize yet."))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.setCancel(cancel)
	defer func() {
		s.setCancel(nil)
		cancel()
	}()

	answer, err := s.Client.Generate(ctx, gemini.BuildSummaryRequest(s.Transcript))
	if err != nil {
		s.showFailure(gemini.KindSummary, err)
		return
	}

	displayAnswer(answer)
	s.Transcript = append(s.Transcript,
		gemini.NewUserContent("Summarize our conversation so far."),
		gemini.NewModelContent(answer))
	s.Turns++
	s.speak(answer)
}

// showFailure prints the conversational fallback for a settled failure,
// with the cause as a dim line on stderr. A canceled request is the
// user's own doing and gets a plain note instead.
func (s *ChatSession) showFailure(kind gemini.RequestKind, err error) {
	if gemini.Classify(err) == gemini.ErrorKindCanceled {
		fmt.Println(styles.RenderWarning("canceled"))
		return
	}
	fmt.Println(fallbackReply(kind, err))
	fmt.Fprintln(os.Stderr, dimStyle.Render(err.Error()))
}

// speak plays a reply unless muted. Synthesis is synchronous; playback
// runs in the background, and the player's single slot means a new reply
// cuts off the previous one.
func (s *ChatSession) speak(answer string) {
	if s.Muted {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), speechTimeout)
	defer cancel()

	result, err := s.Client.Synthesize(ctx, answer)
	if err != nil {
		logx.Warn().Err(err).Msg("speech synthesis failed")
		return
	}
	wav, err := audio.EncodeWAV(result.PCM, result.SampleRate)
	if err != nil {
		logx.Warn().Err(err).Msg("speech encoding failed")
		return
	}
	if err := s.player.Play(context.Background(), wav); err != nil {
		logx.Warn().Err(err).Msg("speech playback failed")
	}
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleSlash runs a slash command. The bool reports whether the REPL
// should continue.
func (s *ChatSession) handleSlash(line string) (bool, error) {
	fields := strings.Fields(line)
	name := fields[0]
	args := fields[1:]

	switch name {
	case "/help", "/h", "/?":
		s.printHelp()
	case "/model", "/m":
		return true, s.switchModel(args)
	case "/summarize", "/s":
		s.summarize()
	case "/history":
		s.printHistory()
	case "/clear", "/c":
		s.Transcript = nil
		fmt.Println(styles.RenderInfo("Transcript cleared."))
	case "/mute":
		s.toggleMute()
	case "/status":
		s.printStatus()
	case "/quit", "/q", "/exit":
		return false, nil
	default:
		return true, fmt.Errorf("unknown command %s (try /help)", name)
	}
	return true, nil
}

// switchModel shows or changes the active model.
func (s *ChatSession) switchModel(args []string) error {
	if len(args) == 0 {
		fmt.Println(styles.RenderInfo("Model: " + model.DisplayName(s.Client.Model())))
		return nil
	}
	if _, ok := model.LookupModel(args[0]); !ok {
		fmt.Println(styles.RenderWarning("Unknown alias " + args[0] + ", using it as a raw model ID."))
	}
	id := model.ResolveModel(args[0])
	s.Client.SetModel(id)
	fmt.Println(styles.RenderSuccess("Model switched to " + model.DisplayName(id)))
	return nil
}

// toggleMute flips speech playback, stopping anything in flight when
// muting.
func (s *ChatSession) toggleMute() {
	s.Muted = !s.Muted
	if s.Muted {
		s.player.Stop()
		fmt.Println(styles.RenderInfo("Speech muted."))
		return
	}
	fmt.Println(styles.RenderInfo("Speech on."))
}

// =============================================================================
// DISPLAY
// =============================================================================

func (s *ChatSession) printWelcome() {
	fmt.Println(bannerStyle.Render("aurora chat " + Version))
	fmt.Println(dimStyle.Render("Model: " + model.DisplayName(s.Client.Model())))
	if s.Muted {
		fmt.Println(dimStyle.Render("Speech: muted"))
	} else {
		fmt.Println(dimStyle.Render("Speech: on, voice " + s.Client.Voice()))
	}
	fmt.Println(dimStyle.Render("Type /help for commands, /quit to leave."))
	fmt.Println()
}

func (s *ChatSession) printHelp() {
	rows := [][2]string{
		{"/help", "show this help"},
		{"/model [name]", "show or switch the model (" + strings.Join(model.KnownAliases(), ", ") + ")"},
		{"/summarize", "summarize the conversation so far"},
		{"/history", "list the transcript"},
		{"/clear", "clear the transcript"},
		{"/mute", "toggle speech playback"},
		{"/status", "show session details"},
		{"/quit", "leave the chat"},
	}
	fmt.Println(sectionStyle.Render("Commands"))
	for _, row := range rows {
		fmt.Printf("  %s  %s\n", keyStyle.Render(util.PadRight(row[0], 14)), dimStyle.Render(row[1]))
	}
	fmt.Println(dimStyle.Render("Ctrl+C aborts a running request; at the prompt it exits."))
}

// printHistory lists the transcript one line per turn.
func (s *ChatSession) printHistory() {
	if len(s.Transcript) == 0 {
		fmt.Println(styles.RenderInfo("No messages yet."))
		return
	}
	for _, c := range s.Transcript {
		marker := promptStyle.Render("you    ")
		if c.Role == gemini.RoleModel {
			marker = bannerStyle.Render("aurora ")
		}
		text := ""
		if len(c.Parts) > 0 {
			text = strings.ReplaceAll(c.Parts[0].Text, "\n", " ")
		}
		fmt.Printf("  %s %s\n", marker, util.TruncateWidth(text, GetTerminalWidth()-12))
	}
}

func (s *ChatSession) printStatus() {
	speech := "on, voice " + s.Client.Voice()
	if s.Muted {
		speech = "muted"
	}
	rows := [][2]string{
		{"model", model.DisplayName(s.Client.Model())},
		{"key", s.Client.APIKeyMasked()},
		{"speech", speech},
		{"turns", fmt.Sprintf("%d", s.Turns)},
		{"uptime", time.Since(s.StartTime).Round(time.Second).String()},
	}
	fmt.Println(sectionStyle.Render("Session"))
	for _, row := range rows {
		fmt.Printf("  %s %s\n", keyStyle.Render(util.PadRight(row[0], 8)), valueStyle.Render(row[1]))
	}
}

// printExitSummary reports the session on the way out and stops any
// playback still running.
func (s *ChatSession) printExitSummary() {
	s.player.Stop()
	if s.Quiet {
		return
	}
	fmt.Println(dimStyle.Render(fmt.Sprintf("%d turns in %s. Goodbye!",
		s.Turns, time.Since(s.StartTime).Round(time.Second))))
}
