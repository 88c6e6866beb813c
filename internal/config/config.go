// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for aurora.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.aurora/config.toml
//   - ~/.aurora/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"

	"github.com/jeranaias/aurora-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete aurora configuration.
type Config struct {
	// Version of the config schema, written on save.
	Version string `toml:"version" json:"version"`

	// API configuration (Gemini generative language endpoint)
	API APIConfig `toml:"api" json:"api"`

	// Speech (text-to-speech playback) configuration
	Speech SpeechConfig `toml:"speech" json:"speech"`

	// Voice (microphone capture) configuration
	Voice VoiceConfig `toml:"voice" json:"voice"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`

	// Log configuration
	Log LogConfig `toml:"log" json:"log"`
}

// APIConfig contains Gemini API client configuration.
type APIConfig struct {
	// Key is the Gemini API key. Also settable via AURORA_API_KEY or
	// GEMINI_API_KEY; the environment wins over the file.
	Key string `toml:"key" json:"key"`
	// Model is the generation model ID or a short alias ("flash", "pro").
	Model string `toml:"model" json:"model"`
	// BaseURL is the API endpoint base.
	BaseURL string `toml:"base_url" json:"base_url"`
	// TimeoutSecs is the per-request HTTP timeout in seconds.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// MaxAttempts is the number of attempts per generation request,
	// including the first one.
	MaxAttempts int `toml:"max_attempts" json:"max_attempts"`
	// RequestIntervalMS is the minimum spacing between outbound requests
	// in milliseconds. 0 disables throttling.
	RequestIntervalMS int `toml:"request_interval_ms" json:"request_interval_ms"`
}

// Timeout returns the request timeout as a duration.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSecs) * time.Second
}

// RequestInterval returns the minimum request spacing as a duration.
func (a APIConfig) RequestInterval() time.Duration {
	return time.Duration(a.RequestIntervalMS) * time.Millisecond
}

// SpeechConfig contains text-to-speech configuration.
type SpeechConfig struct {
	// Mute disables spoken playback of assistant replies.
	Mute bool `toml:"mute" json:"mute"`
	// Voice is the prebuilt voice used for synthesis.
	Voice string `toml:"voice" json:"voice"`
	// Model is the speech synthesis model ID.
	Model string `toml:"model" json:"model"`
	// Player overrides the audio playback command. Empty auto-detects
	// an installed player (afplay, aplay, ffplay, ...).
	Player string `toml:"player" json:"player"`
}

// VoiceConfig contains microphone capture configuration.
type VoiceConfig struct {
	// Enabled controls whether the voice capture toggle is available.
	Enabled bool `toml:"enabled" json:"enabled"`
	// CaptureRate is the recording sample rate in Hz.
	CaptureRate int `toml:"capture_rate" json:"capture_rate"`
	// Recorder overrides the capture command. Empty auto-detects an
	// installed recorder (arecord, rec, ffmpeg, ...).
	Recorder string `toml:"recorder" json:"recorder"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme"`
	// ShowOrb displays the animated activity indicator
	ShowOrb bool `toml:"show_orb" json:"show_orb"`
	// ShowTimestamps displays entry timestamps in the transcript
	ShowTimestamps bool `toml:"show_timestamps" json:"show_timestamps"`
	// CompactMode uses a more compact transcript layout
	CompactMode bool `toml:"compact_mode" json:"compact_mode"`
}

// LogConfig contains logging configuration.
type LogConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error"
	Level string `toml:"level" json:"level"`
	// File is the log file path (empty = ~/.aurora/aurora.log)
	File string `toml:"file" json:"file"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "0.3.0",

		API: APIConfig{
			Key:               "",
			Model:             "gemini-2.0-flash",
			BaseURL:           "https://generativelanguage.googleapis.com/v1beta",
			TimeoutSecs:       60,
			MaxAttempts:       3,
			RequestIntervalMS: 500,
		},

		Speech: SpeechConfig{
			Mute:   false,
			Voice:  "Kore",
			Model:  "gemini-2.5-flash-preview-tts",
			Player: "",
		},

		Voice: VoiceConfig{
			Enabled:     true,
			CaptureRate: 16000,
			Recorder:    "",
		},

		UI: UIConfig{
			Theme:          "dark",
			ShowOrb:        true,
			ShowTimestamps: false,
			CompactMode:    false,
		},

		Log: LogConfig{
			Level: "info",
			File:  "",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the aurora configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".aurora"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// LogFile returns the effective log file path, falling back to
// aurora.log under the config directory when none is configured.
func (c *Config) LogFile() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "aurora.log"), nil
}

// ensureSecurePermissions checks and fixes permissions on config files.
// SECURITY: Config files should be 0600 (owner read/write only) to protect the API key.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err // File doesn't exist or not accessible
	}

	mode := info.Mode().Perm()

	// If permissions are too permissive (anything other than 0600), fix them
	if mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}

	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	// Try TOML first
	tomlPath, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
			} else {
				return finishLoad(cfg)
			}
		}
	}

	// Try JSON as fallback
	jsonPath, err := ConfigPathJSON()
	if err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				loadErr = fmt.Errorf("failed to load JSON config: %w", err)
			} else {
				return finishLoad(cfg)
			}
		}
	}

	// No file found (or file unreadable): defaults plus environment.
	cfg, err = finishLoad(cfg)
	if err != nil {
		return nil, err
	}

	// Return defaults (with any load error for informational purposes)
	return cfg, loadErr
}

// finishLoad applies the post-decode pipeline shared by every load path:
// environment overrides, then migration, defaults, and validation.
func finishLoad(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	if err := cfg.Migrate(); err != nil {
		return nil, fmt.Errorf("config migration failed: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
// SECURITY: Checks and fixes file permissions on load.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		// Log warning but don't fail - permissions might not be fixable on all systems
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	_, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadJSON loads configuration from a JSON file.
// SECURITY: Checks and fixes file permissions on load.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		// Log warning but don't fail - permissions might not be fixable on all systems
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadFromPath loads configuration from a specific file path with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		// Default to TOML
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	return finishLoad(cfg)
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) error {
	defaults := Default()

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}

	// API
	if cfg.API.Model == "" {
		cfg.API.Model = defaults.API.Model
	}
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = defaults.API.BaseURL
	}
	if cfg.API.TimeoutSecs == 0 {
		cfg.API.TimeoutSecs = defaults.API.TimeoutSecs
	}
	if cfg.API.MaxAttempts == 0 {
		cfg.API.MaxAttempts = defaults.API.MaxAttempts
	}

	// Speech
	if cfg.Speech.Voice == "" {
		cfg.Speech.Voice = defaults.Speech.Voice
	}
	if cfg.Speech.Model == "" {
		cfg.Speech.Model = defaults.Speech.Model
	}

	// Voice
	if cfg.Voice.CaptureRate == 0 {
		cfg.Voice.CaptureRate = defaults.Voice.CaptureRate
	}

	// UI
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}

	// Log
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}

	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
// SECURITY: Creates config files with 0600 permissions (owner read/write only).
func SaveTOML(cfg *Config, path string) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	// SECURITY: Ensure permissions are correct even if file already existed
	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	fmt.Fprintln(file, "# aurora configuration file")
	fmt.Fprintln(file, "# Generated by aurora - edit with care")
	fmt.Fprintln(file, "#")
	fmt.Fprintln(file, "# Documentation: https://github.com/jeranaias/aurora-tui")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// SaveJSON saves the configuration to a JSON file.
// SECURITY: Creates config files with 0600 permissions (owner read/write only).
// RELIABILITY: Atomic write with fsync prevents data loss on crash
func SaveJSON(cfg *Config, path string) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// ==========================================================================
	// API Settings Validation
	// ==========================================================================

	if c.API.Model == "" {
		errs = append(errs, ValidationError{
			Field:   "api.model",
			Message: "model must not be empty",
		})
	}

	if c.API.BaseURL != "" {
		u, err := url.Parse(c.API.BaseURL)
		if err != nil {
			errs = append(errs, ValidationError{
				Field:   "api.base_url",
				Message: fmt.Sprintf("invalid URL: %v", err),
			})
		} else if u.Scheme != "http" && u.Scheme != "https" {
			errs = append(errs, ValidationError{
				Field:   "api.base_url",
				Message: fmt.Sprintf("scheme must be http or https, got '%s'", u.Scheme),
			})
		}
	}

	if c.API.TimeoutSecs < 1 || c.API.TimeoutSecs > 600 {
		errs = append(errs, ValidationError{
			Field:   "api.timeout_secs",
			Message: fmt.Sprintf("must be 1-600 seconds, got %d", c.API.TimeoutSecs),
		})
	}

	if c.API.MaxAttempts < 1 || c.API.MaxAttempts > 10 {
		errs = append(errs, ValidationError{
			Field:   "api.max_attempts",
			Message: fmt.Sprintf("must be 1-10, got %d", c.API.MaxAttempts),
		})
	}

	if c.API.RequestIntervalMS < 0 || c.API.RequestIntervalMS > 60000 {
		errs = append(errs, ValidationError{
			Field:   "api.request_interval_ms",
			Message: fmt.Sprintf("must be 0-60000 milliseconds, got %d", c.API.RequestIntervalMS),
		})
	}

	// ==========================================================================
	// Speech Settings Validation
	// ==========================================================================

	if c.Speech.Voice == "" {
		errs = append(errs, ValidationError{
			Field:   "speech.voice",
			Message: "voice must not be empty",
		})
	}

	if c.Speech.Model == "" {
		errs = append(errs, ValidationError{
			Field:   "speech.model",
			Message: "model must not be empty",
		})
	}

	// ==========================================================================
	// Voice Settings Validation
	// ==========================================================================

	// Recorders and the transcription endpoint both operate in this range;
	// rates outside it produce unusable captures.
	if c.Voice.CaptureRate < 8000 || c.Voice.CaptureRate > 48000 {
		errs = append(errs, ValidationError{
			Field:   "voice.capture_rate",
			Message: fmt.Sprintf("must be 8000-48000 Hz, got %d", c.Voice.CaptureRate),
		})
	}

	// ==========================================================================
	// UI Settings Validation
	// ==========================================================================

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	// ==========================================================================
	// Log Settings Validation
	// ==========================================================================

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults sets default values for any missing or zero-value configuration fields.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}

	// API defaults
	if c.API.Model == "" {
		c.API.Model = defaults.API.Model
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaults.API.BaseURL
	}
	if c.API.TimeoutSecs == 0 {
		c.API.TimeoutSecs = defaults.API.TimeoutSecs
	}
	if c.API.MaxAttempts == 0 {
		c.API.MaxAttempts = defaults.API.MaxAttempts
	}

	// Speech defaults
	if c.Speech.Voice == "" {
		c.Speech.Voice = defaults.Speech.Voice
	}
	if c.Speech.Model == "" {
		c.Speech.Model = defaults.Speech.Model
	}

	// Voice defaults
	if c.Voice.CaptureRate == 0 {
		c.Voice.CaptureRate = defaults.Voice.CaptureRate
	}

	// UI defaults
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}

	// Log defaults
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
}

// Migrate handles migration from old configuration formats to new ones.
func (c *Config) Migrate() error {
	// "system" theme was renamed to "auto"
	if strings.ToLower(c.UI.Theme) == "system" {
		c.UI.Theme = "auto"
	}

	// Normalize log level spellings from older releases
	switch strings.ToLower(c.Log.Level) {
	case "warning":
		c.Log.Level = "warn"
	case "err":
		c.Log.Level = "error"
	}

	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// envOverrides mirrors the environment variables that may override file
// values. Processed with the AURORA_ prefix.
type envOverrides struct {
	APIKey   string `envconfig:"API_KEY"`
	Model    string `envconfig:"MODEL"`
	BaseURL  string `envconfig:"BASE_URL"`
	Voice    string `envconfig:"VOICE"`
	Mute     *bool  `envconfig:"MUTE"`
	Theme    string `envconfig:"THEME"`
	LogLevel string `envconfig:"LOG_LEVEL"`
}

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - AURORA_API_KEY: overrides api.key
//   - AURORA_MODEL: overrides api.model
//   - AURORA_BASE_URL: overrides api.base_url
//   - AURORA_VOICE: overrides speech.voice
//   - AURORA_MUTE: set to "true" or "false" to override speech.mute
//   - AURORA_THEME: overrides ui.theme
//   - AURORA_LOG_LEVEL: overrides log.level
//   - GEMINI_API_KEY / GOOGLE_API_KEY: fallback for api.key when nothing
//     else sets it (the names Google's own tooling uses)
func (c *Config) ApplyEnvOverrides() {
	var env envOverrides
	if err := envconfig.Process("aurora", &env); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: ignoring malformed AURORA_* environment variable: %v\n", err)
	}

	if env.APIKey != "" {
		c.API.Key = env.APIKey
	}
	if env.Model != "" {
		c.API.Model = env.Model
	}
	if env.BaseURL != "" {
		c.API.BaseURL = env.BaseURL
	}
	if env.Voice != "" {
		c.Speech.Voice = env.Voice
	}
	if env.Mute != nil {
		c.Speech.Mute = *env.Mute
	}
	if env.Theme != "" {
		c.UI.Theme = env.Theme
	}
	if env.LogLevel != "" {
		c.Log.Level = env.LogLevel
	}

	// Fall back to the conventional Google key names only when no key is
	// configured anywhere else.
	if c.API.Key == "" {
		for _, name := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
			if key := os.Getenv(name); key != "" {
				c.API.Key = key
				break
			}
		}
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "api.model").
func (c *Config) Get(key string) (interface{}, error) {
	parts := strings.Split(key, ".")
	if len(parts) == 0 {
		return nil, errors.New("empty key")
	}

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)

		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})

		if !field.IsValid() {
			return nil, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		// If this is the last part, return the value
		if i == len(parts)-1 {
			return field.Interface(), nil
		}

		// Otherwise, navigate into the struct
		if field.Kind() == reflect.Struct {
			v = field
		} else {
			return nil, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
	}

	return nil, fmt.Errorf("invalid key: %s", key)
}

// Set sets a configuration value using dot notation (e.g., "speech.voice").
func (c *Config) Set(key string, value interface{}) error {
	parts := strings.Split(key, ".")
	if len(parts) == 0 {
		return errors.New("empty key")
	}

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)

		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})

		if !field.IsValid() {
			return fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		// If this is the last part, set the value
		if i == len(parts)-1 {
			if !field.CanSet() {
				return fmt.Errorf("cannot set field: %s", key)
			}
			return setFieldValue(field, value)
		}

		// Otherwise, navigate into the struct
		if field.Kind() == reflect.Struct {
			v = field
		} else {
			return fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
	}

	return fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	// Remove underscores and capitalize following letters. Case
	// differences against the real field name (API, BaseURL) are
	// absorbed by the EqualFold match in the caller.
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}

	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	// Handle string input with type conversion
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			boolVal := strVal == "1" || strings.ToLower(strVal) == "true" || strings.ToLower(strVal) == "yes"
			field.SetBool(boolVal)
			return nil
		}
	}

	// Direct assignment for matching types
	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}

	// Type conversion for compatible types
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}

	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"api.key",
		"api.model",
		"api.base_url",
		"api.timeout_secs",
		"api.max_attempts",
		"api.request_interval_ms",
		"speech.mute",
		"speech.voice",
		"speech.model",
		"speech.player",
		"voice.enabled",
		"voice.capture_rate",
		"voice.recorder",
		"ui.theme",
		"ui.show_orb",
		"ui.show_timestamps",
		"ui.compact_mode",
		"log.level",
		"log.file",
	}
}

// HasAPIKey reports whether an API key is configured from any source.
func (c *Config) HasAPIKey() bool {
	return c.API.Key != ""
}

// Clone creates a copy of the configuration. The struct holds only value
// types, so a field copy is a full copy.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns a string representation of the config for debugging.
// SECURITY: Redacts the API key to prevent accidental exposure in logs,
// error messages, or debug output.
func (c *Config) String() string {
	safe := c.Clone()

	if safe.API.Key != "" {
		safe.API.Key = "[REDACTED]"
	}

	data, _ := json.MarshalIndent(safe, "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			// Log but don't fail - use defaults
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		}
		globalConfig = cfg
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
// This should only be used in tests to reset state between test runs.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
