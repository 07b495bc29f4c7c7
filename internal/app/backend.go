package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/MrSnakeDoc/quicklink/internal/commands"
	"github.com/MrSnakeDoc/quicklink/internal/config"
	"github.com/MrSnakeDoc/quicklink/internal/items"
	"github.com/MrSnakeDoc/quicklink/internal/logger"
	"github.com/MrSnakeDoc/quicklink/internal/redis"
	"github.com/MrSnakeDoc/quicklink/internal/store/file"
	redisstore "github.com/MrSnakeDoc/quicklink/internal/store/redis"
	"github.com/MrSnakeDoc/quicklink/internal/store/sqlite"
	"github.com/MrSnakeDoc/quicklink/internal/usage"
)

// Backend is the persistence layer shared by items, commands and usage.
type Backend interface {
	items.Store
	commands.Store
	usage.Store
	Ping(ctx context.Context) error
	Close() error
}

var (
	_ Backend = (*file.Store)(nil)
	_ Backend = (*sqlite.Store)(nil)
	_ Backend = (*redisstore.Store)(nil)
)

// OpenBackend opens the store selected by cfg.StoreBackend.
func OpenBackend(ctx context.Context, cfg *config.Config, log logger.Logger) (Backend, error) {
	switch cfg.StoreBackend {
	case config.BackendFile:
		store, err := file.New(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		return store, nil

	case config.BackendSQLite:
		path := filepath.Join(cfg.DataDir, sqlite.DBFile)
		log.Info("opening sqlite store", logger.String("path", path))
		store, err := sqlite.Open(path)
		if err != nil {
			return nil, err
		}
		return store, nil

	case config.BackendRedis:
		// Fail fast if unavailable
		log.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(ctx, redis.OptionsFromConfig(cfg), log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Info("Redis initialized successfully")
		return redisstore.NewStore(client), nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
