package domain

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestDetectKind(t *testing.T) {
	tests := []struct {
		value string
		want  ItemKind
	}{
		{"https://github.com", KindLink},
		{"HTTP://example.com", KindLink},
		{">code ~/notes", KindCommand},
		{"hunter2", KindText},
		{"ftp://example.com", KindText},
		{"", KindText},
	}

	for _, tt := range tests {
		if got := DetectKind(tt.value); got != tt.want {
			t.Errorf("DetectKind(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestStoredItemDisplay(t *testing.T) {
	tests := []struct {
		name          string
		item          StoredItem
		expectedTitle string
		expectedValue string
	}{
		{
			name:          "titled link",
			item:          StoredItem{Title: "GitHub", Value: "https://github.com"},
			expectedTitle: "GitHub",
			expectedValue: "https://github.com",
		},
		{
			name:          "untitled command strips sigil",
			item:          StoredItem{Value: ">  code ~/notes"},
			expectedTitle: "⚡ Command",
			expectedValue: "code ~/notes",
		},
		{
			name:          "empty command",
			item:          StoredItem{Value: ">"},
			expectedTitle: "⚡ Command",
			expectedValue: "...",
		},
		{
			name:          "encrypted text is masked",
			item:          StoredItem{Title: "wifi", Value: "hunter2", IsEncrypted: true},
			expectedTitle: "wifi",
			expectedValue: MaskedValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.DisplayTitle(); got != tt.expectedTitle {
				t.Errorf("DisplayTitle() = %q, want %q", got, tt.expectedTitle)
			}
			if got := tt.item.DisplayValue(); got != tt.expectedValue {
				t.Errorf("DisplayValue() = %q, want %q", got, tt.expectedValue)
			}
		})
	}
}

func TestListItemAction(t *testing.T) {
	result := ResultItem{
		Name:            "readme",
		Path:            "/home/me/docs/readme.md",
		Extension:       ".md",
		DisplayName:     "readme.md",
		ExecuteTemplate: `code "{item.path}" # {item.name}{item.extension}`,
	}
	terminal := result
	terminal.OpenInTerminal = true

	tests := []struct {
		name     string
		item     ListItem
		expected Action
	}{
		{
			name:     "link opens url",
			item:     FromStoredItem(StoredItem{Value: "https://github.com"}),
			expected: Action{Type: ActionOpenURL, Payload: "https://github.com", HideWindow: true},
		},
		{
			name:     "text is copied",
			item:     FromStoredItem(StoredItem{Value: "hunter2", IsEncrypted: true}),
			expected: Action{Type: ActionCopy, Payload: "hunter2", HideWindow: true},
		},
		{
			name:     "command runs without sigil",
			item:     FromStoredItem(StoredItem{Value: "> ls -la"}),
			expected: Action{Type: ActionExecute, Payload: "ls -la", HideWindow: true},
		},
		{
			name:     "result expands template",
			item:     ResultRow(result),
			expected: Action{Type: ActionExecute, Payload: `code "/home/me/docs/readme.md" # readme.md`, HideWindow: true},
		},
		{
			name:     "terminal result",
			item:     ResultRow(terminal),
			expected: Action{Type: ActionExecuteInTerminal, Payload: `code "/home/me/docs/readme.md" # readme.md`, HideWindow: true},
		},
		{
			name:     "suggestion autocompletes",
			item:     SuggestionFor(UserCommand{Prefix: "/docs"}),
			expected: Action{Type: ActionAutocomplete, Payload: "/docs "},
		},
		{
			name:     "web search escapes query",
			item:     SearchSuggestion("go generics & you", "https://search.example/?q={query}"),
			expected: Action{Type: ActionOpenURL, Payload: "https://search.example/?q=go+generics+%26+you", HideWindow: true},
		},
		{
			name:     "execute suggestion",
			item:     ExecuteSuggestion(">> shutdown /s "),
			expected: Action{Type: ActionExecute, Payload: "shutdown /s", HideWindow: true},
		},
		{
			name:     "media built-in",
			item:     Builtin("Next Track", MediaNext),
			expected: Action{Type: ActionMedia, Payload: "next", HideWindow: true},
		},
		{
			name:     "app built-in",
			item:     Builtin("Settings", InternalSettings),
			expected: Action{Type: ActionInternal, Payload: "settings"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.Action(); got != tt.expected {
				t.Errorf("Action() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestListItemUsageKey(t *testing.T) {
	tests := []struct {
		item ListItem
		want string
	}{
		{FromStoredItem(StoredItem{Title: "GitHub", Value: "https://github.com"}), "GitHub|https://github.com"},
		{Builtin("Settings", InternalSettings), "internal|internal:settings"},
		{ResultRow(ResultItem{Path: "/a/b.md"}), "command|/a/b.md"},
		{SuggestionFor(UserCommand{Prefix: "/docs"}), "suggestion|/docs"},
		{SearchSuggestion("weather", ""), "search|weather"},
		{ExecuteSuggestion("> ls"), ""},
	}

	for _, tt := range tests {
		if got := tt.item.UsageKey(); got != tt.want {
			t.Errorf("UsageKey(%s) = %q, want %q", tt.item.Kind, got, tt.want)
		}
	}
}

func TestListItemMatches(t *testing.T) {
	item := FromStoredItem(StoredItem{Title: "Team Wiki", Value: "https://wiki.example.com"})

	if !item.Matches("WIKI") {
		t.Error("Matches() should be case-insensitive")
	}
	if !item.Matches("example") {
		t.Error("Matches() should search the value")
	}
	if item.Matches("gitlab") {
		t.Error("Matches() should reject unrelated text")
	}
	if !item.Matches("  ") {
		t.Error("Matches() should accept an empty query")
	}

	builtin := Builtin("Settings", InternalSettings)
	if !builtin.Matches("internal:set") {
		t.Error("built-ins should match on their command value")
	}
}

func TestBuiltinDisplayValue(t *testing.T) {
	if got := Builtin("Settings", InternalSettings).DisplayValue(); got != "settings" {
		t.Errorf("DisplayValue() = %q, want settings", got)
	}
	if got := Builtin("Next Track", MediaNext).DisplayValue(); got != "next" {
		t.Errorf("DisplayValue() = %q, want next", got)
	}
}

func TestScores(t *testing.T) {
	if got := TextScore("GitHub.com", "git"); got != ScorePrefixMatch {
		t.Errorf("TextScore(prefix) = %v, want %v", got, ScorePrefixMatch)
	}
	if got := TextScore("https://github.com", "git"); got != ScoreSubstringMatch {
		t.Errorf("TextScore(substring) = %v, want %v", got, ScoreSubstringMatch)
	}

	for n := 0; n < 10; n++ {
		want := math.Log2(float64(n) + 1)
		if got := UsageScore(n); math.Abs(got-want) > 1e-9 {
			t.Errorf("UsageScore(%d) = %v, want %v", n, got, want)
		}
	}
	if UsageScore(-3) != 0 {
		t.Error("UsageScore() should clamp negative counts")
	}
}

func TestSortRankedIsStable(t *testing.T) {
	results := []RankedResult{
		{Item: ListItem{Value: "a"}, Score: 1},
		{Item: ListItem{Value: "b"}, Score: 2},
		{Item: ListItem{Value: "c"}, Score: 1},
		{Item: ListItem{Value: "d"}, Score: 2},
	}

	SortRanked(results)

	want := []string{"b", "d", "a", "c"}
	for i, r := range results {
		if r.Item.Value != want[i] {
			t.Errorf("position %d = %s, want %s", i, r.Item.Value, want[i])
		}
	}
}

func TestValidateCommand(t *testing.T) {
	tests := []struct {
		name string
		cmd  UserCommand
		want error
	}{
		{"valid directory", NewDirectoryCommand("/docs", "/tmp", "code {item.path}"), nil},
		{"empty prefix", UserCommand{Prefix: " ", Source: SourceStatic}, ErrEmptyPrefix},
		{"missing path", UserCommand{Prefix: "/d", Source: SourceDirectory, SourceConfig: SourceConfig{Glob: "*"}}, ErrEmptyPath},
		{"missing glob", UserCommand{Prefix: "/d", Source: SourceDirectory, SourceConfig: SourceConfig{Path: "/tmp"}}, ErrEmptyGlob},
		{"static needs no path", UserCommand{Prefix: "/s", Source: SourceStatic}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

type recordingContext struct {
	calls  []string
	hidden bool
}

func (r *recordingContext) OpenURL(_ context.Context, url string) error {
	r.calls = append(r.calls, "open:"+url)
	return nil
}

func (r *recordingContext) CopyToClipboard(text string) error {
	r.calls = append(r.calls, "copy:"+text)
	return nil
}

func (r *recordingContext) ExecuteCommand(_ context.Context, command string) error {
	r.calls = append(r.calls, "exec:"+command)
	return nil
}

func (r *recordingContext) ExecuteCommandInTerminal(_ context.Context, command string) error {
	r.calls = append(r.calls, "term:"+command)
	return nil
}

func (r *recordingContext) HideWindow() { r.hidden = true }

func TestDispatch(t *testing.T) {
	ctx := context.Background()

	ec := &recordingContext{}
	if err := Dispatch(ctx, ec, Action{Type: ActionCopy, Payload: "x", HideWindow: true}); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if len(ec.calls) != 1 || ec.calls[0] != "copy:x" {
		t.Errorf("calls = %v, want [copy:x]", ec.calls)
	}
	if !ec.hidden {
		t.Error("Dispatch() should hide the window")
	}

	ec = &recordingContext{}
	if err := Dispatch(ctx, ec, Action{Type: ActionAutocomplete, Payload: "/docs "}); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if len(ec.calls) != 0 || ec.hidden {
		t.Error("autocomplete should not touch the execution context")
	}

	err := Dispatch(ctx, ec, Action{Type: ActionMedia, Payload: "next"})
	if !errors.Is(err, ErrUnsupportedAction) {
		t.Errorf("Dispatch(media) error = %v, want ErrUnsupportedAction", err)
	}
}
