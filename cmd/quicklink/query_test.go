package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/quicklink/internal/domain"
	"github.com/MrSnakeDoc/quicklink/internal/httpserver/handlers"
)

func TestPrintRows(t *testing.T) {
	var buf bytes.Buffer
	err := printRows(&buf, queryOutput{
		Mode: domain.ModeFilter,
		Results: []handlers.Row{
			{Icon: "🔗", Title: "GitHub", Value: "https://github.com", Score: 2.5,
				Action: domain.Action{Type: domain.ActionOpenURL}},
		},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Mode: filter")
	assert.Contains(t, out, "GitHub")
	assert.Contains(t, out, "2.50")
	assert.Contains(t, out, "open_url")
}

func TestPrintRows_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printRows(&buf, queryOutput{Mode: domain.ModeSuggestion}))
	assert.Contains(t, buf.String(), "No results.")
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "query", "import", "version"} {
		assert.True(t, names[want], "missing %s command", want)
	}
}
