package domain

import (
	"net/url"
	"strings"
)

// ListKind discriminates the closed set of rows the launcher can show.
type ListKind string

const (
	ListLink              ListKind = "link"
	ListCommand           ListKind = "command"
	ListText              ListKind = "text"
	ListInternal          ListKind = "internal"
	ListCommandSuggestion ListKind = "command_suggestion"
	ListResult            ListKind = "result"
	ListSearchSuggestion  ListKind = "search_suggestion"
	ListExecuteSuggestion ListKind = "execute_suggestion"
)

// QueryPlaceholder is replaced by the escaped query in the search URL.
const QueryPlaceholder = "{query}"

// DefaultSearchURL is used when no search URL is configured.
const DefaultSearchURL = "https://chatgpt.com/?q={query}"

// ListItem is one row of a query response. Which fields are set depends on
// Kind:
//
//   - link, command, text: ItemID, Title, Value, Encrypted (a stored item)
//   - internal: Title, Value (the built-in command value)
//   - command_suggestion: Value (the prefix), Command
//   - result: Result
//   - search_suggestion: Value (the raw query), SearchURL
//   - execute_suggestion: Value (the command with the sigil stripped)
type ListItem struct {
	Kind      ListKind     `json:"kind"`
	ItemID    string       `json:"item_id,omitempty"`
	Title     string       `json:"title,omitempty"`
	Value     string       `json:"value,omitempty"`
	Encrypted bool         `json:"encrypted,omitempty"`
	Command   *UserCommand `json:"command,omitempty"`
	Result    *ResultItem  `json:"result,omitempty"`
	SearchURL string       `json:"search_url,omitempty"`
}

// FromStoredItem wraps a stored item, choosing the kind from its value.
func FromStoredItem(it StoredItem) ListItem {
	kind := ListText
	switch it.Kind() {
	case KindLink:
		kind = ListLink
	case KindCommand:
		kind = ListCommand
	}
	return ListItem{
		Kind:      kind,
		ItemID:    it.ID,
		Title:     it.Title,
		Value:     it.Value,
		Encrypted: it.IsEncrypted,
	}
}

// SuggestionFor builds the autocomplete row for a user command. The row keeps
// the full definition so a client can edit or delete it.
func SuggestionFor(cmd UserCommand) ListItem {
	c := cmd
	return ListItem{Kind: ListCommandSuggestion, Value: cmd.Prefix, Command: &c}
}

// ResultRow wraps a resolved command result.
func ResultRow(r ResultItem) ListItem {
	res := r
	return ListItem{Kind: ListResult, Title: r.DisplayName, Value: r.Path, Result: &res}
}

// SearchSuggestion is the fallback row offering a web search for query.
func SearchSuggestion(query, searchURL string) ListItem {
	if searchURL == "" {
		searchURL = DefaultSearchURL
	}
	return ListItem{Kind: ListSearchSuggestion, Title: "Start conversation", Value: query, SearchURL: searchURL}
}

// ExecuteSuggestion is the fallback row offering to run a typed command.
func ExecuteSuggestion(raw string) ListItem {
	return ListItem{Kind: ListExecuteSuggestion, Title: "Execute command", Value: StripCommandSigil(raw)}
}

// DisplayTitle is the primary line of the row.
func (li ListItem) DisplayTitle() string {
	switch li.Kind {
	case ListLink, ListCommand, ListText:
		return li.stored().DisplayTitle()
	case ListCommandSuggestion:
		return li.Value + " - " + li.description()
	case ListResult:
		if li.Result != nil {
			return li.Result.DisplayName
		}
	}
	return li.Title
}

// DisplayValue is the secondary line of the row and the text prefix matching
// scores against.
func (li ListItem) DisplayValue() string {
	switch li.Kind {
	case ListLink, ListCommand, ListText:
		return li.stored().DisplayValue()
	case ListInternal:
		if rest, ok := strings.CutPrefix(li.Value, InternalPrefix); ok {
			return rest
		}
		return StripCommandSigil(li.Value)
	case ListCommandSuggestion:
		return li.description()
	case ListResult:
		if li.Result != nil {
			return li.Result.Path
		}
	}
	return li.Value
}

// Icon returns the glyph tag a client shows for the row.
func (li ListItem) Icon() string {
	switch li.Kind {
	case ListLink:
		return lockedOr(li.Encrypted, "link")
	case ListCommand:
		return lockedOr(li.Encrypted, "terminal")
	case ListText:
		return lockedOr(li.Encrypted, "text")
	case ListInternal:
		return internalIcon(li.Value)
	case ListCommandSuggestion:
		if li.Command != nil {
			return li.Command.IconDisplay()
		}
	case ListResult:
		if li.Result != nil {
			return li.Result.Icon
		}
	case ListSearchSuggestion:
		return "search"
	case ListExecuteSuggestion:
		return "terminal"
	}
	return "list"
}

// Editable rows show edit and delete buttons.
func (li ListItem) Editable() bool {
	switch li.Kind {
	case ListLink, ListCommand, ListText, ListCommandSuggestion:
		return true
	}
	return false
}

// UsageKey is the identity recorded when the row is executed. Kinds that are
// never tracked return "".
func (li ListItem) UsageKey() string {
	switch li.Kind {
	case ListLink, ListCommand, ListText:
		return li.stored().UsageKey()
	case ListInternal:
		return "internal|" + li.Value
	case ListResult:
		if li.Result != nil {
			return li.Result.UsageKey()
		}
	case ListCommandSuggestion:
		return "suggestion|" + li.Value
	case ListSearchSuggestion:
		return "search|" + li.Value
	}
	return ""
}

// Matches reports whether the row survives a case-insensitive substring
// filter. An empty query matches everything.
func (li ListItem) Matches(query string) bool {
	if strings.TrimSpace(query) == "" {
		return true
	}
	q := strings.ToLower(query)
	switch li.Kind {
	case ListLink, ListCommand, ListText, ListInternal:
		return strings.Contains(strings.ToLower(li.Title), q) ||
			strings.Contains(strings.ToLower(li.Value), q)
	case ListCommandSuggestion:
		return strings.Contains(strings.ToLower(li.Value), q) ||
			strings.Contains(strings.ToLower(li.description()), q)
	default:
		// Results are filtered by their source; fallbacks always show.
		return true
	}
}

// Action describes what activating the row does.
func (li ListItem) Action() Action {
	switch li.Kind {
	case ListLink:
		return Action{Type: ActionOpenURL, Payload: li.Value, HideWindow: true}
	case ListText:
		return Action{Type: ActionCopy, Payload: li.Value, HideWindow: true}
	case ListCommand:
		return Action{Type: ActionExecute, Payload: StripCommandSigil(li.Value), HideWindow: true}
	case ListInternal:
		return internalAction(li.Value)
	case ListCommandSuggestion:
		return Action{Type: ActionAutocomplete, Payload: li.Value + " "}
	case ListResult:
		if li.Result == nil {
			return Action{Type: ActionNone}
		}
		t := ActionExecute
		if li.Result.OpenInTerminal {
			t = ActionExecuteInTerminal
		}
		return Action{Type: t, Payload: li.Result.ExpandTemplate(), HideWindow: true}
	case ListSearchSuggestion:
		u := li.SearchURL
		if u == "" {
			u = DefaultSearchURL
		}
		return Action{
			Type:       ActionOpenURL,
			Payload:    strings.ReplaceAll(u, QueryPlaceholder, url.QueryEscape(li.Value)),
			HideWindow: true,
		}
	case ListExecuteSuggestion:
		return Action{Type: ActionExecute, Payload: StripCommandSigil(li.Value), HideWindow: true}
	}
	return Action{Type: ActionNone}
}

func (li ListItem) stored() StoredItem {
	return StoredItem{ID: li.ItemID, Title: li.Title, Value: li.Value, IsEncrypted: li.Encrypted}
}

func (li ListItem) description() string {
	if li.Command != nil {
		return li.Command.Description()
	}
	return ""
}

func lockedOr(encrypted bool, icon string) string {
	if encrypted {
		return "lock"
	}
	return icon
}
