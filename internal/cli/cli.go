// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jeranaias/aurora-tui/internal/config"
	"github.com/jeranaias/aurora-tui/internal/gemini"
	"github.com/jeranaias/aurora-tui/internal/model"
	"github.com/jeranaias/aurora-tui/internal/ui/styles"
)

// Build metadata, overridden at link time:
//
//	go build -ldflags "-X github.com/jeranaias/aurora-tui/internal/cli.Version=..."
var (
	Version   = "0.3.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// =============================================================================
// COMMANDS
// =============================================================================

// Command identifies which aurora mode was requested.
type Command int

const (
	// CmdTUI starts the full-screen terminal UI (the default).
	CmdTUI Command = iota

	// CmdAsk answers a single question and exits.
	CmdAsk

	// CmdChat runs the line-based REPL.
	CmdChat

	// CmdConfig shows or edits the configuration file.
	CmdConfig

	// CmdVersion prints build information.
	CmdVersion

	// CmdHelp prints usage.
	CmdHelp
)

// Args holds the parsed command line.
type Args struct {
	Command Command

	// Global flags.
	Quiet   bool   // suppress progress output on stderr
	Verbose bool   // debug logging
	Mute    bool   // disable speech playback
	Model   string // model alias or ID override

	// ask arguments.
	Query string // the question; empty means read piped stdin
	File  string // text file appended to the question as context
	Image string // image attached to the question
	Speak bool   // read the answer aloud after printing it

	// config arguments.
	Subcommand string
	ConfigKey  string
	ConfigVal  string

	// Raw preserves the unparsed arguments for error reporting.
	Raw []string
}

// =============================================================================
// PARSING
// =============================================================================

// Parse interprets os.Args[1:]. An empty command line, or one carrying
// only global flags, selects the terminal UI.
func Parse() (Args, error) {
	return parseArgs(os.Args[1:])
}

func parseArgs(argv []string) (Args, error) {
	args := Args{Command: CmdTUI, Raw: argv}

	rest, err := parseGlobalFlags(&args, argv)
	if err != nil || len(rest) == 0 {
		return args, err
	}

	command := rest[0]
	rest = rest[1:]

	switch command {
	case "ask":
		args.Command = CmdAsk
		err = parseAskArgs(&args, rest)
	case "chat":
		args.Command = CmdChat
		err = parseChatArgs(&args, rest)
	case "config":
		args.Command = CmdConfig
		err = parseConfigArgs(&args, rest)
	case "version":
		args.Command = CmdVersion
	case "help":
		args.Command = CmdHelp
	default:
		err = fmt.Errorf("unknown command %q (run 'aurora help')", command)
	}
	return args, err
}

// parseGlobalFlags consumes flags that may precede the command word and
// returns the remaining arguments starting at that word. Help and
// version flags short-circuit: everything after them is ignored.
func parseGlobalFlags(args *Args, argv []string) ([]string, error) {
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		name, _ := splitFlag(arg)
		switch name {
		case "-q", "--quiet":
			args.Quiet = true
		case "-v", "--verbose":
			args.Verbose = true
		case "--mute":
			args.Mute = true
		case "--model":
			v, n, err := flagValue(arg, argv, i)
			if err != nil {
				return nil, err
			}
			args.Model = v
			i = n
		case "-h", "--help":
			args.Command = CmdHelp
			return nil, nil
		case "-V", "--version":
			args.Command = CmdVersion
			return nil, nil
		default:
			if strings.HasPrefix(arg, "-") {
				return nil, fmt.Errorf("unknown flag %q (run 'aurora help')", arg)
			}
			return argv[i:], nil
		}
	}
	return nil, nil
}

// parseAskArgs parses 'aurora ask' arguments. Words that are not flags
// are joined into the question, so quoting is optional.
func parseAskArgs(args *Args, argv []string) error {
	var words []string
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		name, _ := splitFlag(arg)
		switch name {
		case "-f", "--file":
			v, n, err := flagValue(arg, argv, i)
			if err != nil {
				return err
			}
			args.File = v
			i = n
		case "-i", "--image":
			v, n, err := flagValue(arg, argv, i)
			if err != nil {
				return err
			}
			args.Image = v
			i = n
		case "-m", "--model":
			v, n, err := flagValue(arg, argv, i)
			if err != nil {
				return err
			}
			args.Model = v
			i = n
		case "--speak":
			args.Speak = true
		default:
			if strings.HasPrefix(arg, "-") {
				return fmt.Errorf("unknown ask flag %q (run 'aurora help')", arg)
			}
			words = append(words, arg)
		}
	}
	args.Query = strings.Join(words, " ")
	return nil
}

// parseChatArgs parses 'aurora chat' arguments.
func parseChatArgs(args *Args, argv []string) error {
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		name, _ := splitFlag(arg)
		switch name {
		case "-m", "--model":
			v, n, err := flagValue(arg, argv, i)
			if err != nil {
				return err
			}
			args.Model = v
			i = n
		default:
			return fmt.Errorf("unknown chat argument %q (run 'aurora help')", arg)
		}
	}
	return nil
}

// parseConfigArgs parses 'aurora config' arguments. The bare command
// defaults to show.
func parseConfigArgs(args *Args, argv []string) error {
	if len(argv) == 0 {
		args.Subcommand = "show"
		return nil
	}
	args.Subcommand = argv[0]
	rest := argv[1:]

	switch args.Subcommand {
	case "show", "path", "reset":
		if len(rest) > 0 {
			return fmt.Errorf("config %s takes no arguments", args.Subcommand)
		}
	case "get":
		if len(rest) != 1 {
			return errors.New("usage: aurora config get <key>")
		}
		args.ConfigKey = rest[0]
	case "set":
		if len(rest) != 2 {
			return errors.New("usage: aurora config set <key> <value>")
		}
		args.ConfigKey = rest[0]
		args.ConfigVal = rest[1]
	default:
		return fmt.Errorf("unknown config subcommand %q (show, get, set, reset, path)", args.Subcommand)
	}
	return nil
}

// splitFlag separates "--flag=value" into name and value. A flag without
// "=" returns the whole argument as the name.
func splitFlag(arg string) (name, value string) {
	if !strings.HasPrefix(arg, "-") {
		return arg, ""
	}
	if eq := strings.IndexByte(arg, '='); eq >= 0 {
		return arg[:eq], arg[eq+1:]
	}
	return arg, ""
}

// flagValue resolves the value for a flag at position i, either from its
// "=value" suffix or from the following argument. It returns the value
// and the position of the last argument consumed.
func flagValue(arg string, argv []string, i int) (string, int, error) {
	name, value := splitFlag(arg)
	if strings.ContainsRune(arg, '=') {
		if value == "" {
			return "", i, fmt.Errorf("%s requires a value", name)
		}
		return value, i, nil
	}
	if i+1 >= len(argv) {
		return "", i, fmt.Errorf("%s requires a value", name)
	}
	return argv[i+1], i + 1, nil
}

// =============================================================================
// USAGE AND VERSION
// =============================================================================

const usageText = `aurora %s - voice-enabled Gemini chat for the terminal

USAGE:
    aurora [flags]                 start the terminal UI
    aurora ask [flags] <question>  one-shot question, answer on stdout
    aurora chat [flags]            interactive line-based chat
    aurora config <subcommand>     show and edit configuration
    aurora version                 print build information
    aurora help                    print this help

GLOBAL FLAGS:
    -q, --quiet        suppress progress output
    -v, --verbose      debug logging
        --mute         disable speech playback
        --model <m>    model alias or ID (flash, flash-2.5, pro)

ASK FLAGS:
    -f, --file <path>   append a text file to the question as context
    -i, --image <path>  attach an image (png, jpg, gif, webp)
    -m, --model <m>     model override for this question
        --speak         read the answer aloud after printing it

CONFIG SUBCOMMANDS:
    show               print the resolved configuration (default)
    get <key>          print one value
    set <key> <value>  update a value and save
    reset              restore defaults
    path               print the config file location

EXAMPLES:
    aurora
    aurora ask "how do I read a file in Go?"
    cat main.go | aurora ask "review this code"
    aurora ask -i chart.png "what does this chart show?"
    aurora ask --speak "tell me a joke"
    aurora chat --model pro
    aurora config set speech.voice Puck

The API key comes from AURORA_API_KEY (or GEMINI_API_KEY / GOOGLE_API_KEY)
or from 'aurora config set api.key <key>'. Config file: ~/.aurora/config.toml
NO_COLOR disables styling.
`

// PrintUsage writes usage to stdout.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion writes build information to stdout.
func PrintVersion() {
	fmt.Printf("aurora %s\n", Version)
	if GitCommit != "unknown" {
		fmt.Printf("  commit: %s\n", GitCommit)
	}
	if BuildDate != "unknown" {
		fmt.Printf("  built:  %s\n", BuildDate)
	}
}

// =============================================================================
// CLIENT CONSTRUCTION
// =============================================================================

// BuildClient constructs a Gemini client from the resolved
// configuration with an optional model override. The ask and chat
// commands report retry progress on stderr unless quiet is set; the TUI
// passes quiet and bridges retries into its own status line instead.
func BuildClient(cfg *config.Config, modelOverride string, quiet bool) *gemini.Client {
	client := gemini.NewClient(cfg.API.Key).
		WithTimeout(cfg.API.Timeout()).
		WithMaxAttempts(cfg.API.MaxAttempts).
		WithRequestInterval(cfg.API.RequestInterval()).
		WithVoice(cfg.Speech.Voice).
		WithSpeechModel(cfg.Speech.Model)
	if cfg.API.BaseURL != "" {
		client = client.WithBaseURL(cfg.API.BaseURL)
	}
	if !quiet {
		client = client.WithRetryHook(func(attempt, maxAttempts int, err error, delay time.Duration) {
			fmt.Fprintln(os.Stderr, styles.RenderWarning(fmt.Sprintf(
				"attempt %d/%d failed (%v), retrying in %s", attempt, maxAttempts, err, delay)))
		})
	}

	id := cfg.API.Model
	if modelOverride != "" {
		id = modelOverride
	}
	client.SetModel(model.ResolveModel(id))
	return client
}

// errNotConfigured is returned when no API key is available from any
// source. The wording matches the TUI's error box tip.
func errNotConfigured() error {
	return errors.New("no API key configured; set AURORA_API_KEY or run: aurora config set api.key <key>")
}
