package dirindex

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/quicklink/internal/logger"
)

func TestWatcher_ClearsListingOnChange(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.md", "sub/b.md")

	ix, _ := newTestIndexer(Options{TTL: time.Hour})
	w, err := NewWatcher(ix, logger.Nop())
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := Source{Path: root, Glob: "*.md", Recursive: true}
	w.Sync([]Source{src})
	w.Start(ctx)
	assert.Equal(t, 1, w.Roots())

	items, err := ix.ListFiles(ctx, src, 50)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, 1, ix.Len())

	writeFiles(t, root, "sub/c.md")

	require.Eventually(t, func() bool { return ix.Len() == 0 }, 2*time.Second, 10*time.Millisecond)

	items, err = ix.ListFiles(ctx, src, 50)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestWatcher_SyncDropsRemovedRoots(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()

	ix, _ := newTestIndexer(Options{})
	w, err := NewWatcher(ix, logger.Nop())
	require.NoError(t, err)
	defer w.Close()

	w.Sync([]Source{
		{Path: a, Glob: "*"},
		{Path: b, Glob: "*", Recursive: true},
		{Path: filepath.Join(a, "missing"), Glob: ""},
	})
	assert.Equal(t, 2, w.Roots())

	w.Sync([]Source{{Path: b, Glob: "*", Recursive: true}})
	assert.Equal(t, 1, w.Roots())

	w.Sync(nil)
	assert.Equal(t, 0, w.Roots())
}
