package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/quicklink/internal/domain"
	"github.com/MrSnakeDoc/quicklink/internal/usage"
)

func TestStore_MissingFilesReadEmpty(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "QuickLink"))
	require.NoError(t, err)
	ctx := context.Background()

	items, err := s.LoadItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	cmds, err := s.LoadCommands(ctx)
	require.NoError(t, err)
	assert.Empty(t, cmds)

	records, err := s.LoadUsage(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	require.NoError(t, s.Ping(ctx))
}

func TestStore_ItemsRoundTripKeepsOrder(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	in := []domain.StoredItem{
		{ID: "2", Title: "b", Value: "https://b.example"},
		{ID: "1", Title: "a", Value: "sb1:sealed", IsEncrypted: true},
	}
	require.NoError(t, s.SaveItems(ctx, in))

	out, err := s.LoadItems(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "2", out[0].ID)
	assert.True(t, out[1].IsEncrypted)

	leftovers, _ := filepath.Glob(filepath.Join(s.Dir(), ".data.json.*"))
	assert.Empty(t, leftovers, "temp files should be renamed away")
}

func TestStore_CommandsAreYAML(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.SaveCommands(ctx, []domain.UserCommand{
		domain.NewDirectoryCommand("/docs", "/home/me/docs", `code "{item.path}"`),
	}))

	raw, err := os.ReadFile(filepath.Join(s.Dir(), CommandsFile))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "prefix: /docs")

	hand := `commands:
  - prefix: /ssh
    source: static
    source_config:
      items: [prod, staging]
    execute_template: ssh {item.name}
    open_in_terminal: true
`
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), CommandsFile), []byte(hand), 0o600))

	cmds, err := s.LoadCommands(ctx)
	require.NoError(t, err)
	require.Len(t, cmds, 1)
	assert.Equal(t, domain.SourceStatic, cmds[0].Source)
	assert.Equal(t, []string{"prod", "staging"}, cmds[0].SourceConfig.Items)
	assert.True(t, cmds[0].OpenInTerminal)
}

func TestStore_UsageRoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	when := time.Date(2026, 5, 1, 8, 30, 0, 0, time.UTC)
	require.NoError(t, s.SaveUsage(ctx, map[string]usage.Record{
		"search|weather": {UseCount: 4, LastUsed: when},
	}))

	records, err := s.LoadUsage(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, records["search|weather"].UseCount)
	assert.True(t, when.Equal(records["search|weather"].LastUsed))
}

func TestStore_CorruptFileIsAnError(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), UsageFile), []byte("{not json"), 0o600))

	_, err = s.LoadUsage(context.Background())
	assert.Error(t, err)
}
