package dirindex

import (
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/MrSnakeDoc/quicklink/internal/domain"
)

// Source describes one directory listing.
type Source struct {
	Path            string
	Glob            string
	Recursive       bool
	ExecuteTemplate string
	OpenInTerminal  bool
}

// SourceFor extracts the listing parameters of a directory command.
func SourceFor(cmd domain.UserCommand) Source {
	return Source{
		Path:            cmd.SourceConfig.Path,
		Glob:            cmd.SourceConfig.Glob,
		Recursive:       cmd.SourceConfig.Recursive,
		ExecuteTemplate: cmd.ExecuteTemplate,
		OpenInTerminal:  cmd.OpenInTerminal,
	}
}

// valid reports whether the source can be listed at all.
func (s Source) valid() bool {
	return strings.TrimSpace(s.Path) != "" && strings.TrimSpace(s.Glob) != ""
}

// cacheKey is path|glob|recursive|template. OpenInTerminal is not part of it.
func (s Source) cacheKey() string {
	return s.Path + "|" + s.Glob + "|" + strconv.FormatBool(s.Recursive) + "|" + s.ExecuteTemplate
}

// pattern returns the lowercased glob matched against relative paths. A
// recursive source whose glob has no directory part matches at any depth.
func (s Source) pattern() (string, bool) {
	p := strings.ToLower(strings.TrimSpace(s.Glob))
	if s.Recursive && !strings.Contains(p, "/") && !strings.Contains(p, "**") {
		p = "**/" + p
	}
	return p, doublestar.ValidatePattern(p)
}
