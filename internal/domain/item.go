package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// ItemKind is derived from a stored value's prefix.
type ItemKind string

const (
	KindLink    ItemKind = "link"
	KindCommand ItemKind = "command"
	KindText    ItemKind = "text"
)

const (
	// CommandSigil marks a literal shell command (">shutdown /s").
	CommandSigil = ">"
	// UserCommandSigil selects the user command namespace ("/docs readme").
	UserCommandSigil = "/"
	// MaskedValue replaces encrypted values in display text.
	MaskedValue = "••••••••"
)

// StoredItem is a user-created snippet: a link, a shell command or plain text.
//
// Items have no ordering semantics; ranking reorders them at query time.
type StoredItem struct {
	// ID addresses the item through the API. It plays no part in ranking.
	ID string `json:"id" yaml:"id"`

	// Title is the optional display label.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Value is the raw content.
	// Example: https://github.com, >code ~/notes, hunter2
	Value string `json:"value" yaml:"value"`

	// IsEncrypted values are encrypted at rest and masked on display.
	IsEncrypted bool `json:"is_encrypted,omitempty" yaml:"is_encrypted,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// UnmarshalJSON also accepts the desktop data.json spelling "IsEncrypted",
// which does not fold onto "is_encrypted".
func (it *StoredItem) UnmarshalJSON(data []byte) error {
	type plain StoredItem
	aux := struct {
		*plain
		DesktopEncrypted *bool `json:"IsEncrypted"`
	}{plain: (*plain)(it)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.DesktopEncrypted != nil && *aux.DesktopEncrypted {
		it.IsEncrypted = true
	}
	return nil
}

// DetectKind classifies a raw value.
func DetectKind(value string) ItemKind {
	lower := strings.ToLower(value)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return KindLink
	case strings.HasPrefix(value, CommandSigil):
		return KindCommand
	default:
		return KindText
	}
}

// Kind returns the item's derived kind.
func (it StoredItem) Kind() ItemKind {
	return DetectKind(it.Value)
}

// UsageKey is the identity under which the usage tracker counts this item.
func (it StoredItem) UsageKey() string {
	return it.Title + "|" + it.Value
}

// DisplayTitle falls back to a kind label when no title is set.
func (it StoredItem) DisplayTitle() string {
	if strings.TrimSpace(it.Title) != "" {
		return it.Title
	}
	switch it.Kind() {
	case KindLink:
		return "🔗 Link"
	case KindCommand:
		return "⚡ Command"
	default:
		return "📝 Text"
	}
}

// DisplayValue is the secondary line shown under the title. It is also the
// text that prefix matching scores against.
func (it StoredItem) DisplayValue() string {
	if it.IsEncrypted {
		return MaskedValue
	}
	if it.Kind() == KindCommand {
		trimmed := StripCommandSigil(it.Value)
		if trimmed == "" {
			return "..."
		}
		return trimmed
	}
	return it.Value
}

// StripCommandSigil removes every leading '>' and surrounding whitespace.
func StripCommandSigil(value string) string {
	return strings.TrimSpace(strings.TrimLeft(value, CommandSigil))
}
