package domain

import "strings"

// QueryMode is the interpretation chosen for a raw search string.
type QueryMode string

const (
	ModeBrowse     QueryMode = "browse"
	ModeSuggestion QueryMode = "suggestion"
	ModeInvocation QueryMode = "invocation"
	ModeFilter     QueryMode = "filter"
)

// Query represents a classified user input
type Query struct {
	Raw  string    // Original input
	Mode QueryMode // Interpretation, first matching rule wins

	// Suggestion mode: text after the sigil, lowercased, used to filter prefixes.
	// Invocation mode: free text after the command prefix.
	Text string

	// Invocation mode only
	Prefix  string
	Command *UserCommand
}

// ParseQuery classifies input against the registered commands.
// Examples:
//   - "" or "   " -> browse
//   - "/" or "/do" (no "/do" command) -> suggestion, Text "do"
//   - "/docs readme" with a "/docs" command -> invocation, Text "readme"
//   - "git" or "> ls" -> filter
func ParseQuery(input string, commands []UserCommand) Query {
	q := Query{Raw: input}

	if strings.TrimSpace(input) == "" {
		q.Mode = ModeBrowse
		return q
	}

	if !strings.HasPrefix(input, UserCommandSigil) {
		q.Mode = ModeFilter
		q.Text = input
		return q
	}

	token, rest, _ := strings.Cut(input, " ")
	cmd, ok := FindCommand(commands, token)
	if input == UserCommandSigil || !ok {
		q.Mode = ModeSuggestion
		q.Text = strings.ToLower(strings.TrimSpace(strings.TrimLeft(input, UserCommandSigil)))
		return q
	}

	q.Mode = ModeInvocation
	q.Prefix = token
	q.Text = strings.TrimSpace(rest)
	q.Command = &cmd
	return q
}

// FindCommand returns the first command whose prefix equals token,
// case-insensitively. Duplicate prefixes resolve to the earliest definition.
func FindCommand(commands []UserCommand, token string) (UserCommand, bool) {
	for _, c := range commands {
		if c.HasPrefix(token) {
			return c, true
		}
	}
	return UserCommand{}, false
}
