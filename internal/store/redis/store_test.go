package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/quicklink/internal/domain"
	"github.com/MrSnakeDoc/quicklink/internal/usage"
)

// liveStore connects to QUICKLINK_TEST_REDIS_ADDR on a scratch database.
func liveStore(t *testing.T) *Store {
	t.Helper()
	addr := os.Getenv("QUICKLINK_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("QUICKLINK_TEST_REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	require.NoError(t, client.FlushDB(ctx).Err())

	s := NewStore(client)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_Live(t *testing.T) {
	s := liveStore(t)
	ctx := context.Background()

	items, err := s.LoadItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, s.SaveItems(ctx, []domain.StoredItem{{ID: "b", Value: "2"}, {ID: "a", Value: "1"}}))
	require.NoError(t, s.SaveItems(ctx, []domain.StoredItem{{ID: "c", Value: "3"}, {ID: "b", Value: "2"}}))

	items, err = s.LoadItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "c", items[0].ID)
	assert.Equal(t, "b", items[1].ID)

	cmds := []domain.UserCommand{domain.NewDirectoryCommand("/docs", "/srv", "code {item.path}")}
	require.NoError(t, s.SaveCommands(ctx, cmds))
	gotCmds, err := s.LoadCommands(ctx)
	require.NoError(t, err)
	assert.Equal(t, cmds, gotCmds)

	require.NoError(t, s.SaveUsage(ctx, map[string]usage.Record{"x|y": {UseCount: 3}}))
	records, err := s.LoadUsage(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, records["x|y"].UseCount)

	require.NoError(t, s.SaveUsage(ctx, map[string]usage.Record{}))
	records, err = s.LoadUsage(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}
