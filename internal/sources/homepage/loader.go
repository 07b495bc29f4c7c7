package homepage

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// templateVar matches Homepage template variables ({{HOMEPAGE_VAR_...}})
var templateVar = regexp.MustCompile(`\{\{[^}]+\}\}`)

// LoadServices reads and parses a Homepage services.yaml file
func LoadServices(path string) (ServicesConfig, error) {
	var config ServicesConfig
	if err := readYAML(path, &config); err != nil {
		return nil, fmt.Errorf("failed to load services file: %w", err)
	}
	return config, nil
}

// LoadBookmarks reads and parses a Homepage bookmarks.yaml file
func LoadBookmarks(path string) (BookmarksConfig, error) {
	var config BookmarksConfig
	if err := readYAML(path, &config); err != nil {
		return nil, fmt.Errorf("failed to load bookmarks file: %w", err)
	}
	return config, nil
}

func readYAML(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	// Template variables are secrets or widget settings, never part of a link
	data = stripTemplateVariables(data)

	return yaml.Unmarshal(data, v)
}

// stripTemplateVariables removes Homepage template variables from YAML
// Example: {{HOMEPAGE_VAR_ADGUARD_USER}} -> ""
func stripTemplateVariables(data []byte) []byte {
	return templateVar.ReplaceAll(data, []byte(`""`))
}
