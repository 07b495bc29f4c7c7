package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/quicklink/internal/config"
	"github.com/MrSnakeDoc/quicklink/internal/domain"
	"github.com/MrSnakeDoc/quicklink/internal/logger"
	"github.com/MrSnakeDoc/quicklink/internal/store/file"
	"github.com/MrSnakeDoc/quicklink/internal/store/sqlite"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		ShutdownTimeout:    time.Second,
		DataDir:            dir,
		StoreBackend:       backend,
		SeedFromFiles:      true,
		KeyFile:            filepath.Join(dir, "secret.key"),
		SearchURL:          config.DefaultSearchURL,
		ResultLimit:        6,
		IncludeBuiltins:    true,
		DirCacheTTL:        30 * time.Second,
		DirMaxCacheItems:   200,
		DirWorkers:         2,
		UsageFlushDelay:    10 * time.Millisecond,
		ReloadInterval:     time.Minute,
		CachePruneInterval: time.Minute,
	}
}

func seedFiles(t *testing.T, dir string) {
	t.Helper()
	files, err := file.New(dir)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, files.SaveItems(ctx, []domain.StoredItem{
		{ID: "1", Title: "GitHub", Value: "https://github.com"},
		{ID: "2", Title: "Notes", Value: "remember the milk"},
	}))
	require.NoError(t, files.SaveCommands(ctx, []domain.UserCommand{
		{
			Prefix:          "/ssh",
			Source:          domain.SourceStatic,
			SourceConfig:    domain.SourceConfig{Items: []string{"prod", "staging"}},
			ExecuteTemplate: "ssh {item.name}",
		},
	}))
}

func TestOpenBackend(t *testing.T) {
	log := logger.Nop()

	t.Run("file", func(t *testing.T) {
		cfg := testConfig(t, config.BackendFile)
		store, err := OpenBackend(context.Background(), cfg, log)
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &file.Store{}, store)
		assert.NoError(t, store.Ping(context.Background()))
	})

	t.Run("sqlite", func(t *testing.T) {
		cfg := testConfig(t, config.BackendSQLite)
		store, err := OpenBackend(context.Background(), cfg, log)
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &sqlite.Store{}, store)
		assert.FileExists(t, filepath.Join(cfg.DataDir, sqlite.DBFile))
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := testConfig(t, "etcd")
		_, err := OpenBackend(context.Background(), cfg, log)
		assert.Error(t, err)
	})
}

func TestCore_FileBackendQuery(t *testing.T) {
	cfg := testConfig(t, config.BackendFile)
	seedFiles(t, cfg.DataDir)

	core, err := NewCore(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer core.Close(time.Second)

	require.NoError(t, core.Prepare(context.Background()))

	resp := core.Query(context.Background(), "git", 0, true)
	assert.Equal(t, domain.ModeFilter, resp.Mode)
	require.NotEmpty(t, resp.Results)
	assert.Equal(t, "GitHub", resp.Results[0].Item.DisplayTitle())

	resp = core.Query(context.Background(), "/ssh st", 0, false)
	assert.Equal(t, domain.ModeInvocation, resp.Mode)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "staging", resp.Results[0].Item.DisplayTitle())
}

func TestCore_SeedsSQLiteFromFiles(t *testing.T) {
	cfg := testConfig(t, config.BackendSQLite)
	seedFiles(t, cfg.DataDir)

	core, err := NewCore(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer core.Close(time.Second)

	require.NoError(t, core.Prepare(context.Background()))

	stored, err := core.store.LoadItems(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	cmds, err := core.store.LoadCommands(context.Background())
	require.NoError(t, err)
	require.Len(t, cmds, 1)
	assert.Equal(t, "/ssh", cmds[0].Prefix)

	resp := core.Query(context.Background(), "", 2, false)
	assert.Equal(t, domain.ModeBrowse, resp.Mode)
	assert.Len(t, resp.Results, 2)
}

func TestCore_CloseFlushesUsage(t *testing.T) {
	cfg := testConfig(t, config.BackendFile)
	cfg.UsageFlushDelay = time.Hour
	seedFiles(t, cfg.DataDir)

	core, err := NewCore(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, core.Prepare(context.Background()))

	core.usage.RecordUsage("GitHub|https://github.com")
	core.Close(time.Second)

	_, err = os.Stat(filepath.Join(cfg.DataDir, file.UsageFile))
	require.NoError(t, err)

	files, err := file.New(cfg.DataDir)
	require.NoError(t, err)
	records, err := files.LoadUsage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, records["GitHub|https://github.com"].UseCount)
}

func TestCore_DepsCarryConfig(t *testing.T) {
	cfg := testConfig(t, config.BackendFile)
	cfg.RateLimitBurst = 7

	core, err := NewCore(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer core.Close(time.Second)

	d := core.Deps()
	assert.Equal(t, config.BackendFile, d.StoreBackend)
	assert.Equal(t, 7, d.RateLimitBurst)
	assert.Equal(t, 6, d.ResultLimit)
	assert.NotNil(t, d.ReloadTrigger)
	assert.Same(t, core.memIndex, d.MemoryIndex)
}

func TestCore_ImportHomepage(t *testing.T) {
	cfg := testConfig(t, config.BackendFile)
	seedFiles(t, cfg.DataDir)

	services := filepath.Join(t.TempDir(), "services.yaml")
	require.NoError(t, os.WriteFile(services, []byte(`---
- Dev:
    - GitHub:
        href: https://github.com
    - Gitea:
        href: https://gitea.domain.ext
`), 0o644))

	core, err := NewCore(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer core.Close(time.Second)
	require.NoError(t, core.Prepare(context.Background()))

	res, err := core.ImportHomepage(context.Background(), services, "")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Added)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 3, core.memIndex.Count())
}
