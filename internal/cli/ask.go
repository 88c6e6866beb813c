// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/aurora-tui/internal/audio"
	"github.com/jeranaias/aurora-tui/internal/config"
	"github.com/jeranaias/aurora-tui/internal/gemini"
	"github.com/jeranaias/aurora-tui/internal/logx"
	"github.com/jeranaias/aurora-tui/internal/model"
	"github.com/jeranaias/aurora-tui/internal/ui/styles"
	"github.com/jeranaias/aurora-tui/internal/util"
)

const (
	// maxContextFileBytes caps --file context so a stray binary or log
	// dump cannot blow up the request.
	maxContextFileBytes = 64 * 1024

	// maxImageBytes matches the inline attachment limit the TUI enforces.
	maxImageBytes = 15 << 20

	// speechTimeout bounds synthesis plus playback for --speak.
	speechTimeout = 2 * time.Minute
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

var (
	markdownOnce     sync.Once
	markdownRenderer *glamour.TermRenderer
)

// getMarkdownRenderer returns the shared glamour renderer, or nil when
// one cannot be constructed. Callers fall back to plain text on nil.
func getMarkdownRenderer() *glamour.TermRenderer {
	markdownOnce.Do(func() {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(GetTerminalWidth()),
		)
		if err != nil {
			logx.Warn().Err(err).Msg("markdown renderer unavailable, using plain output")
			return
		}
		markdownRenderer = r
	})
	return markdownRenderer
}

// renderMarkdown renders text for terminal display. On any failure the
// text is returned unchanged.
func renderMarkdown(text string) string {
	r := getMarkdownRenderer()
	if r == nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n") + "\n"
}

// displayAnswer writes the answer to stdout: markdown-rendered on a
// terminal, verbatim when piped so scripts get clean text.
func displayAnswer(text string) {
	if IsStdoutTTY() {
		fmt.Print(renderMarkdown(text))
		return
	}
	fmt.Println(text)
}

// =============================================================================
// INPUT ASSEMBLY
// =============================================================================

// readPipedStdin returns piped stdin content, trimmed, or "".
func readPipedStdin() string {
	if !StdinPiped() {
		return ""
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		logx.Warn().Err(err).Msg("reading piped stdin failed")
		return ""
	}
	return strings.TrimSpace(string(data))
}

// readContextFile loads a --file attachment, enforcing the size cap.
func readContextFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("context file: %w", err)
	}
	if info.Size() > maxContextFileBytes {
		return "", fmt.Errorf("context file %s is %d bytes; the limit is %d", path, info.Size(), maxContextFileBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("context file: %w", err)
	}
	return string(data), nil
}

// loadImage reads and validates an --image attachment, returning its
// content type and base64 payload ready for the request builder.
func loadImage(path string) (mimeType, payload string, err error) {
	mimeType, err = util.DetectImageMIME(path)
	if err != nil {
		return "", "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("image file: %w", err)
	}
	if len(data) > maxImageBytes {
		return "", "", fmt.Errorf("image %s is %d MB; the inline limit is %d MB", path, len(data)>>20, maxImageBytes>>20)
	}
	return mimeType, base64.StdEncoding.EncodeToString(data), nil
}

// =============================================================================
// FALLBACK REPLIES
// =============================================================================

// fallbackReply maps a settled failure to conversational wording.
// Kept in step with the TUI apologies so both surfaces speak alike.
func fallbackReply(kind gemini.RequestKind, err error) string {
	if gemini.Classify(err) == gemini.ErrorKindInvalidResponse {
		return "Sorry, I could not read the reply I got back. Please try asking again."
	}
	switch kind {
	case gemini.KindVision:
		return "Sorry, I was unable to process that image. Please try a different one."
	case gemini.KindSummary:
		return "Sorry, I could not put a summary together just now. Please try again."
	default:
		return "Sorry, I was unable to process that request. Please try again in a moment."
	}
}

// =============================================================================
// ASK COMMAND
// =============================================================================

// HandleAsk answers a single question and exits. The question comes from
// the arguments, from piped stdin, or both; piped content is appended
// below the argument text as context.
func HandleAsk(args Args) error {
	cfg := config.Global()

	question := strings.TrimSpace(args.Query)
	if piped := readPipedStdin(); piped != "" {
		if question == "" {
			question = piped
		} else {
			question = question + "\n\n" + piped
		}
	}
	if question == "" {
		return errors.New("nothing to ask; pass a question or pipe input (run 'aurora help')")
	}

	if args.File != "" {
		content, err := readContextFile(args.File)
		if err != nil {
			return err
		}
		question = fmt.Sprintf("%s\n\n--- %s ---\n%s", question, filepath.Base(args.File), content)
	}

	client := BuildClient(cfg, args.Model, args.Quiet)
	if !client.IsConfigured() {
		return errNotConfigured()
	}

	kind := gemini.KindChat
	req := gemini.BuildTextRequest(question)
	if args.Image != "" {
		mimeType, payload, err := loadImage(args.Image)
		if err != nil {
			return err
		}
		kind = gemini.KindVision
		req = gemini.BuildImageRequest(question, mimeType, payload)
	}

	if !args.Quiet {
		fmt.Fprintln(os.Stderr, styles.RenderInfo("asking "+model.DisplayName(client.Model())+"..."))
	}

	start := time.Now()
	answer, err := client.Generate(context.Background(), req)
	if err != nil {
		// The fallback line is the reply; the cause goes to stderr with
		// the non-zero exit.
		fmt.Println(fallbackReply(kind, err))
		return fmt.Errorf("ask: %w", err)
	}

	displayAnswer(answer)

	if args.Speak && !args.Mute && !cfg.Speech.Mute {
		speakAnswer(client, cfg, answer)
	}

	if !args.Quiet {
		fmt.Fprintln(os.Stderr, dimStyle.Render(fmt.Sprintf(
			"%s | %d chars | %s",
			model.DisplayName(client.Model()), len(answer),
			time.Since(start).Round(100*time.Millisecond))))
	}
	return nil
}

// speakAnswer synthesizes the answer and blocks until playback ends so
// the process does not exit mid-sentence. Failures are reported on
// stderr, never fatal.
func speakAnswer(client *gemini.Client, cfg *config.Config, answer string) {
	ctx, cancel := context.WithTimeout(context.Background(), speechTimeout)
	defer cancel()

	result, err := client.Synthesize(ctx, answer)
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.RenderWarning("speech unavailable: "+err.Error()))
		return
	}
	wav, err := audio.EncodeWAV(result.PCM, result.SampleRate)
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.RenderWarning("speech encoding failed: "+err.Error()))
		return
	}

	player := audio.NewPlayer()
	if cfg.Speech.Player != "" {
		player = player.WithCommand(strings.Fields(cfg.Speech.Player))
	}
	defer player.Close()

	if err := player.Play(ctx, wav); err != nil {
		fmt.Fprintln(os.Stderr, styles.RenderWarning("speech playback failed: "+err.Error()))
		return
	}
	player.Wait()
}
