// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the TUI.
package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// =============================================================================
// PARSER TESTS
// =============================================================================

func TestIsCommand(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"/help", true},
		{"/model flash", true},
		{"  /help", true},
		{"hello", false},
		{"hello /help", false},
		{"", false},
		{"/", true},
	}

	for _, tc := range tests {
		got := IsCommand(tc.input)
		if got != tc.want {
			t.Errorf("IsCommand(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestExtractCommandName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"/help", "/help"},
		{"/model flash", "/model"},
		{"/attach cat.png", "/attach"},
		{"  /help  ", "/help"},
		{"hello", ""},
		{"/", "/"},
	}

	for _, tc := range tests {
		got := ExtractCommandName(tc.input)
		if got != tc.want {
			t.Errorf("ExtractCommandName(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestSplitCommandLine(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"/help", []string{"/help"}},
		{"/model flash", []string{"/model", "flash"}},
		{`/attach "my file.png"`, []string{"/attach", "my file.png"}},
		{`/attach 'my file.png'`, []string{"/attach", "my file.png"}},
		{"/config key value", []string{"/config", "key", "value"}},
		{`/export "file with spaces.md"`, []string{"/export", "file with spaces.md"}},
		{`/attach "quoted \"inner\".png"`, []string{"/attach", `quoted "inner".png`}},
		{"   ", nil},
	}

	for _, tc := range tests {
		got := splitCommandLine(tc.input)
		if len(got) != len(tc.want) {
			t.Errorf("splitCommandLine(%q) = %v, want %v", tc.input, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("splitCommandLine(%q)[%d] = %q, want %q", tc.input, i, got[i], tc.want[i])
			}
		}
	}
}

func TestParser_Parse(t *testing.T) {
	r := NewRegistry()
	p := NewParser(r)

	tests := []struct {
		input     string
		isCommand bool
		cmdName   string
		argsLen   int
	}{
		{"/help", true, "/help", 0},
		{"/model flash", true, "/model", 1},
		{"hello world", false, "", 0},
		{"/nonexistent", true, "/nonexistent", 0},
		{`/attach "my file.png"`, true, "/attach", 1},
		{"/config api.model flash", true, "/config", 2},
	}

	for _, tc := range tests {
		result := p.Parse(tc.input)

		if result.IsCommand != tc.isCommand {
			t.Errorf("Parse(%q).IsCommand = %v, want %v", tc.input, result.IsCommand, tc.isCommand)
		}

		if result.CommandName != tc.cmdName {
			t.Errorf("Parse(%q).CommandName = %q, want %q", tc.input, result.CommandName, tc.cmdName)
		}

		if len(result.Args) != tc.argsLen {
			t.Errorf("Parse(%q) args length = %d, want %d", tc.input, len(result.Args), tc.argsLen)
		}
	}
}

func TestParser_Parse_CommandLookup(t *testing.T) {
	r := NewRegistry()
	p := NewParser(r)

	result := p.Parse("/attach cat.png")
	if result.Command == nil {
		t.Error("Parse(/attach).Command should not be nil")
	}

	// Alias lookup
	result = p.Parse("/img cat.png")
	if result.Command == nil {
		t.Error("Parse(/img).Command should not be nil (alias)")
	}

	result = p.Parse("/nonexistent")
	if result.Command != nil {
		t.Error("Parse(/nonexistent).Command should be nil")
	}
}

// =============================================================================
// REGISTRY TESTS
// =============================================================================

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}

	if len(r.commands) == 0 {
		t.Error("Registry should have built-in commands")
	}
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	cmd := &Command{
		Name:        "/test",
		Aliases:     []string{"/t"},
		Description: "Test command",
	}

	r.Register(cmd)

	if r.Get("/test") == nil {
		t.Error("Should get command by name")
	}

	if r.Get("/t") == nil {
		t.Error("Should get command by alias")
	}
}

func TestRegistry_Get(t *testing.T) {
	r := NewRegistry()

	if r.Get("/help") == nil {
		t.Error("/help command should exist")
	}

	if r.Get("/h") == nil {
		t.Error("/h alias should resolve to /help")
	}

	if r.Get("/img") == nil {
		t.Error("/img alias should resolve to /attach")
	}

	if r.Get("/sum") == nil {
		t.Error("/sum alias should resolve to /summarize")
	}

	if r.Get("/nonexistent") != nil {
		t.Error("/nonexistent should return nil")
	}
}

func TestRegistry_All(t *testing.T) {
	r := NewRegistry()
	all := r.All()

	if len(all) == 0 {
		t.Error("All() should return commands")
	}

	found := make(map[string]bool)
	for _, cmd := range all {
		found[cmd.Name] = true
	}

	essentials := []string{"/attach", "/summarize", "/search", "/voice", "/mute", "/model", "/export", "/help", "/quit"}
	for _, name := range essentials {
		if !found[name] {
			t.Errorf("Essential command %s not found in All()", name)
		}
	}
}

func TestRegistry_ByCategory(t *testing.T) {
	r := NewRegistry()
	byCategory := r.ByCategory()

	if len(byCategory) == 0 {
		t.Error("ByCategory() should return categories")
	}

	expectedCategories := []string{"Conversation", "Speech", "Settings", "Navigation"}
	for _, cat := range expectedCategories {
		if _, ok := byCategory[cat]; !ok {
			t.Errorf("Expected category %q not found", cat)
		}
	}

	for _, cmds := range byCategory {
		for _, cmd := range cmds {
			if cmd.Hidden {
				t.Errorf("Hidden command %s should not appear in ByCategory()", cmd.Name)
			}
		}
	}
}

// =============================================================================
// VALIDATION TESTS
// =============================================================================

func TestValidateArgs(t *testing.T) {
	r := NewRegistry()

	attach := r.Get("/attach")
	if err := ValidateArgs(attach, []string{}); err == nil {
		t.Error("ValidateArgs(/attach, no args) should fail, path is required")
	}
	if err := ValidateArgs(attach, []string{"cat.png"}); err != nil {
		t.Errorf("ValidateArgs(/attach, cat.png) should pass: %v", err)
	}

	theme := r.Get("/theme")
	if err := ValidateArgs(theme, []string{"blue"}); err == nil {
		t.Error("ValidateArgs(/theme, blue) should fail, not an allowed value")
	}
	if err := ValidateArgs(theme, []string{"dark"}); err != nil {
		t.Errorf("ValidateArgs(/theme, dark) should pass: %v", err)
	}
	// Enum matching ignores case.
	if err := ValidateArgs(theme, []string{"DARK"}); err != nil {
		t.Errorf("ValidateArgs(/theme, DARK) should pass: %v", err)
	}

	// Optional arguments may be absent.
	search := r.Get("/search")
	if err := ValidateArgs(search, []string{}); err != nil {
		t.Errorf("ValidateArgs(/search, no args) should pass: %v", err)
	}

	if err := ValidateArgs(nil, []string{"x"}); err != nil {
		t.Errorf("ValidateArgs(nil) should pass: %v", err)
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Command:  "/theme",
		Arg:      "name",
		Message:  "invalid value",
		Got:      "blue",
		Expected: "dark, light, auto",
	}

	msg := err.Error()
	for _, want := range []string{"/theme", "name", "blue", "dark, light, auto"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, should contain %q", msg, want)
		}
	}
}

// =============================================================================
// HANDLER TESTS
// =============================================================================

func TestHandleSearch(t *testing.T) {
	cmd := HandleSearch(nil, []string{"hello", "world"})
	msg, ok := cmd().(SetFilterMsg)
	if !ok {
		t.Fatal("HandleSearch should emit SetFilterMsg")
	}
	if msg.Query != "hello world" {
		t.Errorf("Query = %q, want %q", msg.Query, "hello world")
	}

	// No arguments clears the filter.
	msg = HandleSearch(nil, nil)().(SetFilterMsg)
	if msg.Query != "" {
		t.Errorf("Query = %q, want empty", msg.Query)
	}
}

func TestHandleModel(t *testing.T) {
	if _, ok := HandleModel(nil, nil)().(ShowModelMsg); !ok {
		t.Error("HandleModel without args should emit ShowModelMsg")
	}

	msg, ok := HandleModel(nil, []string{"flash"})().(ModelSwitchMsg)
	if !ok {
		t.Fatal("HandleModel with arg should emit ModelSwitchMsg")
	}
	if msg.Model != "gemini-2.0-flash" {
		t.Errorf("Model = %q, want alias resolved to gemini-2.0-flash", msg.Model)
	}
}

func TestHandleAttach(t *testing.T) {
	if _, ok := HandleAttach(nil, nil)().(ErrorMsg); !ok {
		t.Error("HandleAttach without args should emit ErrorMsg")
	}

	if _, ok := HandleAttach(nil, []string{"/no/such/file.png"})().(ErrorMsg); !ok {
		t.Error("HandleAttach with missing file should emit ErrorMsg")
	}

	dir := t.TempDir()
	if _, ok := HandleAttach(nil, []string{dir})().(ErrorMsg); !ok {
		t.Error("HandleAttach with directory should emit ErrorMsg")
	}

	path := filepath.Join(dir, "cat.png")
	if err := os.WriteFile(path, []byte("not a real png"), 0o644); err != nil {
		t.Fatal(err)
	}

	msg, ok := HandleAttach(nil, []string{path})().(AttachImageMsg)
	if !ok {
		t.Fatal("HandleAttach with an image path should emit AttachImageMsg")
	}
	if msg.Path != path {
		t.Errorf("Path = %q, want %q", msg.Path, path)
	}
	if msg.MIMEType != "image/png" {
		t.Errorf("MIMEType = %q, want image/png", msg.MIMEType)
	}

	textPath := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(textPath, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok := HandleAttach(nil, []string{textPath})().(ErrorMsg); !ok {
		t.Error("HandleAttach with a non-image should emit ErrorMsg")
	}
}

func TestHandleTheme(t *testing.T) {
	if _, ok := HandleTheme(nil, nil)().(ErrorMsg); !ok {
		t.Error("HandleTheme without args should emit ErrorMsg")
	}

	msg, ok := HandleTheme(nil, []string{"Dark"})().(ThemeSwitchMsg)
	if !ok {
		t.Fatal("HandleTheme should emit ThemeSwitchMsg")
	}
	if msg.Name != "dark" {
		t.Errorf("Name = %q, want lowercased dark", msg.Name)
	}
}

func TestHandleConfig(t *testing.T) {
	msg := HandleConfig(nil, []string{"speech.voice", "Puck"})().(ShowConfigMsg)
	if msg.Key != "speech.voice" || msg.Value != "Puck" {
		t.Errorf("ShowConfigMsg = %+v, want key speech.voice value Puck", msg)
	}

	msg = HandleConfig(nil, nil)().(ShowConfigMsg)
	if msg.Key != "" || msg.Value != "" {
		t.Errorf("ShowConfigMsg = %+v, want empty key and value", msg)
	}
}

func TestHandleToggles(t *testing.T) {
	if _, ok := HandleVoice(nil, nil)().(ToggleVoiceMsg); !ok {
		t.Error("HandleVoice should emit ToggleVoiceMsg")
	}
	if _, ok := HandleMute(nil, nil)().(ToggleMuteMsg); !ok {
		t.Error("HandleMute should emit ToggleMuteMsg")
	}
	if _, ok := HandleReplay(nil, nil)().(ReplayMsg); !ok {
		t.Error("HandleReplay should emit ReplayMsg")
	}
	if _, ok := HandleDetach(nil, nil)().(DetachImageMsg); !ok {
		t.Error("HandleDetach should emit DetachImageMsg")
	}
	if _, ok := HandleSummarize(nil, nil)().(SummarizeRequestMsg); !ok {
		t.Error("HandleSummarize should emit SummarizeRequestMsg")
	}
}

// =============================================================================
// COMPLETION TESTS
// =============================================================================

func TestCompleterComplete(t *testing.T) {
	completer := NewCompleter(NewRegistry())

	tests := []struct {
		name        string
		input       string
		cursorPos   int
		wantMinimum int
		wantFirst   string
	}{
		{
			name:        "bare slash lists everything",
			input:       "/",
			cursorPos:   1,
			wantMinimum: 14,
		},
		{
			name:        "partial command",
			input:       "/at",
			cursorPos:   3,
			wantMinimum: 1,
			wantFirst:   "/attach",
		},
		{
			name:        "theme enum values",
			input:       "/theme ",
			cursorPos:   7,
			wantMinimum: 3,
		},
		{
			name:        "theme enum partial",
			input:       "/theme d",
			cursorPos:   8,
			wantMinimum: 1,
			wantFirst:   "dark",
		},
		{
			name:        "model names after space",
			input:       "/model ",
			cursorPos:   7,
			wantMinimum: 1,
		},
		{
			name:        "plain text gets nothing",
			input:       "hello",
			cursorPos:   5,
			wantMinimum: 0,
		},
		{
			name:        "no match",
			input:       "/xyz",
			cursorPos:   4,
			wantMinimum: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completions := completer.Complete(tt.input, tt.cursorPos)
			if len(completions) < tt.wantMinimum {
				t.Errorf("Complete() got %d completions, want at least %d", len(completions), tt.wantMinimum)
			}
			if tt.wantFirst != "" && len(completions) > 0 && completions[0].Value != tt.wantFirst {
				t.Errorf("First completion = %q, want %q", completions[0].Value, tt.wantFirst)
			}
		})
	}
}

func TestCompleterAliasDisplay(t *testing.T) {
	completer := NewCompleter(NewRegistry())

	completions := completer.Complete("/img", 4)
	if len(completions) == 0 {
		t.Fatal("Complete(/img) should offer the alias")
	}
	if !strings.Contains(completions[0].Display, "->") {
		t.Errorf("Alias display = %q, want an arrow to the primary name", completions[0].Display)
	}
}

func TestCompleterFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"cat.png", "notes.txt", ".hidden"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "pics"), 0o755); err != nil {
		t.Fatal(err)
	}

	completer := NewCompleter(NewRegistry())
	input := "/attach " + dir + string(os.PathSeparator)
	completions := completer.Complete(input, len(input))

	byValue := make(map[string]bool)
	imageIdx, textIdx := -1, -1
	for i, comp := range completions {
		byValue[filepath.Base(strings.TrimSuffix(comp.Value, string(os.PathSeparator)))] = true
		switch filepath.Base(comp.Value) {
		case "cat.png":
			imageIdx = i
		case "notes.txt":
			textIdx = i
		}
	}

	if !byValue["cat.png"] || !byValue["notes.txt"] || !byValue["pics"] {
		t.Fatalf("Complete() = %v, want cat.png, notes.txt and pics offered", completions)
	}
	if byValue[".hidden"] {
		t.Error("Hidden files should be skipped without a dot prefix")
	}
	if imageIdx == -1 || textIdx == -1 || imageIdx > textIdx {
		t.Errorf("Image files should rank above others for /attach (image at %d, text at %d)", imageIdx, textIdx)
	}
}

func TestCompleterCallbacks(t *testing.T) {
	completer := NewCompleter(NewRegistry())
	completer.ModelsFn = func() []string {
		return []string{"custom-model-a", "custom-model-b"}
	}
	completer.ConfigFn = func() []string {
		return []string{"api.key", "api.model"}
	}

	completions := completer.Complete("/model custom", 13)
	if len(completions) != 2 {
		t.Fatalf("Complete(/model custom) = %d results, want 2 from ModelsFn", len(completions))
	}

	completions = completer.Complete("/config api.k", 13)
	if len(completions) != 1 || completions[0].Value != "api.key" {
		t.Errorf("Complete(/config api.k) = %v, want api.key from ConfigFn", completions)
	}
}

func TestMatchScore(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		partial    string
		wantHigher bool // score above the 100 baseline
	}{
		{"exact match", "/help", "/help", true},
		{"prefix match", "/help", "/he", true},
		{"no match", "/help", "/xyz", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := matchScore(tt.value, tt.partial)
			if tt.wantHigher && score <= 100 {
				t.Errorf("matchScore() = %d, want > 100", score)
			}
			if !tt.wantHigher && score > 100 {
				t.Errorf("matchScore() = %d, want <= 100", score)
			}
		})
	}

	if matchScore("/help", "/help") <= matchScore("/help", "/he") {
		t.Error("Exact match should outscore prefix match")
	}
}

func TestSortCompletions(t *testing.T) {
	completions := []Completion{
		{Value: "c", Score: 50},
		{Value: "a", Score: 150},
		{Value: "b", Score: 150},
		{Value: "d", Score: 100},
	}

	sortCompletions(completions)

	wantOrder := []string{"a", "b", "d", "c"}
	for i, want := range wantOrder {
		if completions[i].Value != want {
			t.Errorf("completions[%d] = %q, want %q", i, completions[i].Value, want)
		}
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{3 * 1024 * 1024, "3.0 MB"},
	}

	for _, tc := range tests {
		if got := formatFileSize(tc.size); got != tc.want {
			t.Errorf("formatFileSize(%d) = %q, want %q", tc.size, got, tc.want)
		}
	}
}

// =============================================================================
// COMPLETION STATE TESTS
// =============================================================================

func TestCompletionState(t *testing.T) {
	cs := NewCompletionState()
	if cs.Visible {
		t.Error("New state should not be visible")
	}

	cs.Update("/at", []Completion{
		{Value: "/attach"},
		{Value: "/atlas"},
	})

	if !cs.Visible {
		t.Error("State with completions should be visible")
	}
	if cs.Selected != 0 {
		t.Errorf("Selected = %d, want auto-selected 0", cs.Selected)
	}
	if cs.Accept() != "/attach" {
		t.Errorf("Accept() = %q, want /attach", cs.Accept())
	}

	cs.Next()
	if cs.GetSelected().Value != "/atlas" {
		t.Errorf("After Next, selected = %q, want /atlas", cs.GetSelected().Value)
	}

	cs.Next() // wraps
	if cs.GetSelected().Value != "/attach" {
		t.Errorf("Next should wrap to the first entry, got %q", cs.GetSelected().Value)
	}

	cs.Prev() // wraps back
	if cs.GetSelected().Value != "/atlas" {
		t.Errorf("Prev should wrap to the last entry, got %q", cs.GetSelected().Value)
	}

	cs.Clear()
	if cs.Visible || cs.Selected != -1 || cs.GetSelected() != nil {
		t.Error("Clear should reset the state")
	}

	// Empty offer hides the popup.
	cs.Update("/xyz", nil)
	if cs.Visible {
		t.Error("Empty completions should not be visible")
	}
}
