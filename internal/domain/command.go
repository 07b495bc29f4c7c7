package domain

import (
	"errors"
	"strings"
)

// SourceType selects where a user command gets its candidates from.
type SourceType string

const (
	SourceDirectory SourceType = "directory"
	SourceStatic    SourceType = "static"
)

// CommandIcon is the icon tag shown next to a command and its static results.
type CommandIcon string

const (
	IconFolder   CommandIcon = "folder"
	IconWeb      CommandIcon = "web"
	IconScript   CommandIcon = "script"
	IconDocument CommandIcon = "document"
)

// Placeholders substituted into ExecuteTemplate.
const (
	PlaceholderPath      = "{item.path}"
	PlaceholderName      = "{item.name}"
	PlaceholderExtension = "{item.extension}"
)

// Default source settings for new commands.
const (
	DefaultGlob      = "*.*"
	DefaultRecursive = true
)

var (
	ErrEmptyPrefix = errors.New("command prefix is empty")
	ErrEmptyPath   = errors.New("directory command needs a path")
	ErrEmptyGlob   = errors.New("directory command needs a glob")
)

// SourceConfig holds the per-source settings. Path, Glob and Recursive apply
// to directory commands, Items to static ones.
type SourceConfig struct {
	Path      string   `json:"path,omitempty" yaml:"path,omitempty"`
	Glob      string   `json:"glob,omitempty" yaml:"glob,omitempty"`
	Recursive bool     `json:"recursive" yaml:"recursive"`
	Items     []string `json:"items,omitempty" yaml:"items,omitempty"`
}

// UserCommand is a slash command definition such as "/docs".
type UserCommand struct {
	Prefix          string       `json:"prefix" yaml:"prefix"`
	Source          SourceType   `json:"source" yaml:"source"`
	SourceConfig    SourceConfig `json:"source_config" yaml:"source_config"`
	ExecuteTemplate string       `json:"execute_template" yaml:"execute_template"`
	Icon            CommandIcon  `json:"icon,omitempty" yaml:"icon,omitempty"`
	OpenInTerminal  bool         `json:"open_in_terminal,omitempty" yaml:"open_in_terminal,omitempty"`
}

// NewDirectoryCommand returns a directory command with the default glob and
// recursion settings.
func NewDirectoryCommand(prefix, path, template string) UserCommand {
	return UserCommand{
		Prefix: prefix,
		Source: SourceDirectory,
		SourceConfig: SourceConfig{
			Path:      path,
			Glob:      DefaultGlob,
			Recursive: DefaultRecursive,
		},
		ExecuteTemplate: template,
		Icon:            IconFolder,
	}
}

// Validate checks the definition invariant: a prefix, and for directory
// sources a path and a glob.
func (c UserCommand) Validate() error {
	if strings.TrimSpace(c.Prefix) == "" {
		return ErrEmptyPrefix
	}
	if c.Source == SourceDirectory {
		if strings.TrimSpace(c.SourceConfig.Path) == "" {
			return ErrEmptyPath
		}
		if strings.TrimSpace(c.SourceConfig.Glob) == "" {
			return ErrEmptyGlob
		}
	}
	return nil
}

// HasPrefix reports whether token names this command (case-insensitive).
func (c UserCommand) HasPrefix(token string) bool {
	return strings.EqualFold(c.Prefix, token)
}

// IconDisplay maps the icon tag to its glyph.
func (c UserCommand) IconDisplay() string {
	switch c.Icon {
	case IconWeb:
		return "🌐"
	case IconScript:
		return "⚙️"
	case IconDocument:
		return "📄"
	default:
		return "📁"
	}
}

// Description is the subtitle used by command suggestions.
func (c UserCommand) Description() string {
	switch c.Source {
	case SourceStatic:
		return "Static command"
	default:
		return "Directory command"
	}
}
