package domain

import "strings"

// InternalPrefix marks app-level built-in commands.
const InternalPrefix = "internal:"

// Built-in command values.
const (
	InternalAdd         = "internal:add"
	InternalAddCommand  = "internal:addcommand"
	InternalSettings    = "internal:settings"
	InternalExit        = "internal:exit"
	MediaNext           = ">next"
	MediaPrevious       = ">prev"
	MediaPlayPause      = ">playpause"
	builtinDefaultGlyph = "list"
)

// Builtins returns the built-in rows in display order: media controls first,
// then app commands.
func Builtins() []ListItem {
	return []ListItem{
		Builtin("Next Track", MediaNext),
		Builtin("Previous Track", MediaPrevious),
		Builtin("Play/Pause", MediaPlayPause),
		Builtin("Add new item", InternalAdd),
		Builtin("Add new command (advanced)", InternalAddCommand),
		Builtin("Settings", InternalSettings),
		Builtin("Exit app", InternalExit),
	}
}

// Builtin builds an internal row.
func Builtin(title, value string) ListItem {
	return ListItem{Kind: ListInternal, Title: title, Value: value}
}

func internalIcon(value string) string {
	switch value {
	case InternalAdd, InternalAddCommand:
		return "add"
	case InternalSettings:
		return "settings"
	case InternalExit:
		return "exit"
	case MediaNext:
		return "next"
	case MediaPrevious:
		return "previous"
	case MediaPlayPause:
		return "playpause"
	}
	return builtinDefaultGlyph
}

func internalAction(value string) Action {
	switch value {
	case MediaNext, MediaPrevious, MediaPlayPause:
		return Action{Type: ActionMedia, Payload: StripCommandSigil(value), HideWindow: true}
	}
	if rest, ok := strings.CutPrefix(value, InternalPrefix); ok {
		return Action{Type: ActionInternal, Payload: rest}
	}
	return Action{Type: ActionNone}
}
