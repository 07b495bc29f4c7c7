package domain

import "strings"

// ResultItem is produced by expanding a user command against its source. It
// is never persisted.
type ResultItem struct {
	Name            string `json:"name"`
	Path            string `json:"path"`
	Extension       string `json:"extension"`
	DisplayName     string `json:"display_name"`
	Icon            string `json:"icon"`
	ExecuteTemplate string `json:"execute_template"`
	OpenInTerminal  bool   `json:"open_in_terminal,omitempty"`
}

// UsageKey identifies a result for usage tracking.
func (r ResultItem) UsageKey() string {
	return "command|" + r.Path
}

// ExpandTemplate substitutes the placeholders verbatim.
func (r ResultItem) ExpandTemplate() string {
	return strings.NewReplacer(
		PlaceholderPath, r.Path,
		PlaceholderName, r.Name,
		PlaceholderExtension, r.Extension,
	).Replace(r.ExecuteTemplate)
}

// StaticResult maps one entry of a static command's item list.
func StaticResult(cmd UserCommand, entry string) ResultItem {
	return ResultItem{
		Name:            entry,
		Path:            entry,
		DisplayName:     entry,
		Icon:            cmd.IconDisplay(),
		ExecuteTemplate: cmd.ExecuteTemplate,
		OpenInTerminal:  cmd.OpenInTerminal,
	}
}
