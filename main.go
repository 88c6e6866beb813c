// aurora - voice-enabled Gemini chat for the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/jeranaias/aurora-tui/internal/cli"
	"github.com/jeranaias/aurora-tui/internal/config"
	"github.com/jeranaias/aurora-tui/internal/logx"
	"github.com/jeranaias/aurora-tui/internal/ui/chat"
	"github.com/jeranaias/aurora-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.3.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	// A .env in the working directory may carry AURORA_API_KEY during
	// development. Loading it before the config means the normal
	// environment override path picks it up. A missing file is fine.
	_ = godotenv.Load()

	args, err := cli.Parse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "aurora: %v\n", err)
		os.Exit(2)
	}

	initLogging(args)
	defer logx.Close()

	if err := run(args); err != nil {
		fmt.Fprintf(os.Stderr, "aurora: %v\n", err)
		os.Exit(1)
	}
}

// run routes the parsed command line to its handler.
func run(args cli.Args) error {
	switch args.Command {
	case cli.CmdAsk:
		return cli.HandleAsk(args)
	case cli.CmdChat:
		return cli.HandleChat(args)
	case cli.CmdConfig:
		return cli.HandleConfig(args)
	case cli.CmdVersion:
		cli.PrintVersion()
		return nil
	case cli.CmdHelp:
		cli.PrintUsage()
		return nil
	default:
		return runTUI(args)
	}
}

// initLogging points zerolog at the log file so nothing scribbles over
// the alternate screen. One-shot commands run with --verbose log to the
// console instead, where the output can actually be read.
func initLogging(args cli.Args) {
	cfg := config.Global()

	opts := logx.Options{Level: cfg.Log.Level, Verbose: args.Verbose}
	if args.Command == cli.CmdTUI || !args.Verbose {
		if path, err := cfg.LogFile(); err == nil {
			opts.Path = path
		}
	}
	if err := logx.Init(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
}

// runTUI starts the full-screen interface.
func runTUI(args cli.Args) error {
	if err := cli.RequiresTTY("aurora"); err != nil {
		return fmt.Errorf("%w; try 'aurora ask' or 'aurora chat' instead", err)
	}

	cfg := config.Global()

	// CLI flags override the config file for this process only.
	if args.Model != "" {
		cfg.API.Model = args.Model
	}
	if args.Mute {
		cfg.Speech.Mute = true
	}

	client := cli.BuildClient(cfg, "", true)
	m := chat.NewWithClient(cfg, styles.NewTheme(), client)

	program := tea.NewProgram(m, tea.WithAltScreen())

	// The retry hook fires on the request goroutine while the backoff
	// sleep runs; program.Send is safe to call from there.
	client.WithRetryHook(func(attempt, maxAttempts int, err error, delay time.Duration) {
		program.Send(chat.RetryAttemptMsg{
			Attempt:     attempt,
			MaxAttempts: maxAttempts,
			Delay:       delay,
			Err:         err,
		})
	})

	// Config edits land live: the watcher reloads the file and the
	// model re-applies the tunable settings.
	watcher, err := config.StartWatcher(func(fresh *config.Config) {
		program.Send(chat.ConfigReloadedMsg{Config: fresh})
	})
	if err != nil {
		logx.Warn().Err(err).Msg("config watcher unavailable, edits require a restart")
	} else {
		defer watcher.Close()
	}

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running aurora: %w", err)
	}
	return nil
}
