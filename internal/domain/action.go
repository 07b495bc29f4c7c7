package domain

import (
	"context"
	"errors"
	"fmt"
)

// ActionType tells the client which side effect to perform.
type ActionType string

const (
	ActionNone              ActionType = "none"
	ActionOpenURL           ActionType = "open_url"
	ActionCopy              ActionType = "copy"
	ActionExecute           ActionType = "execute"
	ActionExecuteInTerminal ActionType = "execute_in_terminal"
	ActionAutocomplete      ActionType = "autocomplete"
	ActionInternal          ActionType = "internal"
	ActionMedia             ActionType = "media"
)

// ErrUnsupportedAction is returned by Dispatch when the context cannot carry
// out an action.
var ErrUnsupportedAction = errors.New("unsupported action")

// Action is the data a client needs to activate a row. The daemon never
// performs it itself.
type Action struct {
	Type       ActionType `json:"type"`
	Payload    string     `json:"payload,omitempty"`
	HideWindow bool       `json:"hide_window,omitempty"`
}

// RecordsUsage is false for actions that only edit the search box.
func (a Action) RecordsUsage() bool {
	return a.Type != ActionAutocomplete && a.Type != ActionNone
}

// ExecutionContext is implemented by whatever hosts the launcher window.
type ExecutionContext interface {
	OpenURL(ctx context.Context, url string) error
	CopyToClipboard(text string) error
	ExecuteCommand(ctx context.Context, command string) error
	ExecuteCommandInTerminal(ctx context.Context, command string) error
	HideWindow()
}

// InternalHandler is optionally implemented by an ExecutionContext that can
// run built-in and media commands.
type InternalHandler interface {
	RunInternal(ctx context.Context, name string) error
	RunMedia(ctx context.Context, name string) error
}

// Dispatch performs a on ec.
func Dispatch(ctx context.Context, ec ExecutionContext, a Action) error {
	var err error
	switch a.Type {
	case ActionOpenURL:
		err = ec.OpenURL(ctx, a.Payload)
	case ActionCopy:
		err = ec.CopyToClipboard(a.Payload)
	case ActionExecute:
		err = ec.ExecuteCommand(ctx, a.Payload)
	case ActionExecuteInTerminal:
		err = ec.ExecuteCommandInTerminal(ctx, a.Payload)
	case ActionInternal, ActionMedia:
		h, ok := ec.(InternalHandler)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnsupportedAction, a.Type)
		}
		if a.Type == ActionMedia {
			err = h.RunMedia(ctx, a.Payload)
		} else {
			err = h.RunInternal(ctx, a.Payload)
		}
	case ActionAutocomplete, ActionNone:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedAction, a.Type)
	}
	if err != nil {
		return fmt.Errorf("failed to %s: %w", a.Type, err)
	}
	if a.HideWindow {
		ec.HideWindow()
	}
	return nil
}
