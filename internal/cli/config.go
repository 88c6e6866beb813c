// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"crypto/sha256"
	"fmt"
	"os"
	"strings"

	"github.com/jeranaias/aurora-tui/internal/config"
	"github.com/jeranaias/aurora-tui/internal/ui/styles"
)

// HandleConfig dispatches the config subcommands.
func HandleConfig(args Args) error {
	switch args.Subcommand {
	case "", "show":
		return showConfig()
	case "get":
		return getConfigValue(args.ConfigKey)
	case "set":
		return setConfigValue(args.ConfigKey, args.ConfigVal)
	case "reset":
		return resetConfig()
	case "path":
		return printConfigPath()
	default:
		return fmt.Errorf("unknown config subcommand %q", args.Subcommand)
	}
}

// =============================================================================
// SUBCOMMANDS
// =============================================================================

// showConfig prints the resolved configuration grouped by section.
// Resolved means file values with environment overrides applied, exactly
// what the TUI runs with.
func showConfig() error {
	cfg := config.Global()

	section := ""
	for _, key := range config.GetAllKeys() {
		head, _, found := strings.Cut(key, ".")
		if !found {
			head = ""
		}
		if head != section {
			section = head
			fmt.Println(sectionStyle.Render("[" + section + "]"))
		}
		value, err := cfg.Get(key)
		if err != nil {
			continue
		}
		fmt.Printf("  %s = %s\n", keyStyle.Render(key), renderConfigValue(key, value))
	}

	path, err := config.ConfigPathTOML()
	if err == nil {
		fmt.Println()
		fmt.Println(dimStyle.Render("file: " + path))
	}
	return nil
}

// getConfigValue prints one resolved value, plain for scripts. Secrets
// stay masked.
func getConfigValue(key string) error {
	key = normalizeConfigKey(key)
	value, err := config.Global().Get(key)
	if err != nil {
		return fmt.Errorf("config get: %w", err)
	}
	if isSecretKey(key) {
		fmt.Println(maskAPIKey(fmt.Sprintf("%v", value)))
		return nil
	}
	fmt.Printf("%v\n", value)
	return nil
}

// setConfigValue updates one key in the config file. The file is read
// without environment overrides so a set never bakes transient env
// values into it.
func setConfigValue(key, value string) error {
	key = normalizeConfigKey(key)

	cfg := loadFileConfig()
	if err := cfg.Set(key, value); err != nil {
		return fmt.Errorf("config set: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config set: %w", err)
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("config set: %w", err)
	}

	fmt.Println(styles.RenderSuccess(key + " = " + maskIfSecret(key, value)))
	return nil
}

// resetConfig writes defaults over the config file.
func resetConfig() error {
	if err := config.Save(config.Default()); err != nil {
		return fmt.Errorf("config reset: %w", err)
	}
	fmt.Println(styles.RenderSuccess("configuration reset to defaults"))
	return nil
}

// printConfigPath prints the config file location and whether it exists.
func printConfigPath() error {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return err
	}
	fmt.Println(path)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, dimStyle.Render("(not created yet; 'aurora config set' will create it)"))
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// loadFileConfig reads the on-disk configuration without environment
// overrides, falling back to defaults when no file exists.
func loadFileConfig() *config.Config {
	cfg := config.Default()
	if path, err := config.ConfigPathTOML(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := config.LoadTOML(cfg, path); err == nil {
				return cfg
			}
		}
	}
	if path, err := config.ConfigPathJSON(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := config.LoadJSON(cfg, path); err == nil {
				return cfg
			}
		}
	}
	return cfg
}

// normalizeConfigKey lowercases a dotted key so "API.Key" works.
func normalizeConfigKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// isSecretKey reports whether a key holds a credential.
func isSecretKey(key string) bool {
	return strings.HasSuffix(key, ".key")
}

// maskAPIKey renders a key as a short fingerprint so two keys can be
// told apart without exposing either.
func maskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	sum := sha256.Sum256([]byte(key))
	return fmt.Sprintf("sha256:%x...", sum[:4])
}

// maskIfSecret masks the value of credential keys, passing everything
// else through.
func maskIfSecret(key, value string) string {
	if isSecretKey(key) {
		return maskAPIKey(value)
	}
	return value
}

// renderConfigValue styles one value for the show listing.
func renderConfigValue(key string, value interface{}) string {
	text := fmt.Sprintf("%v", value)
	if isSecretKey(key) {
		return maskedStyle.Render(maskAPIKey(text))
	}
	if text == "" {
		return dimStyle.Render(`""`)
	}
	return valueStyle.Render(text)
}
