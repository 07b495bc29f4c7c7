package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/quicklink/internal/commands"
	"github.com/MrSnakeDoc/quicklink/internal/config"
	"github.com/MrSnakeDoc/quicklink/internal/dirindex"
	"github.com/MrSnakeDoc/quicklink/internal/httpserver"
	"github.com/MrSnakeDoc/quicklink/internal/httpserver/deps"
	"github.com/MrSnakeDoc/quicklink/internal/index"
	"github.com/MrSnakeDoc/quicklink/internal/items"
	"github.com/MrSnakeDoc/quicklink/internal/logger"
	"github.com/MrSnakeDoc/quicklink/internal/resolver"
	"github.com/MrSnakeDoc/quicklink/internal/scheduler"
	"github.com/MrSnakeDoc/quicklink/internal/secret"
	"github.com/MrSnakeDoc/quicklink/internal/store/file"
	"github.com/MrSnakeDoc/quicklink/internal/usage"
	"github.com/MrSnakeDoc/quicklink/internal/utils"
	"github.com/MrSnakeDoc/quicklink/internal/version"
)

// Core is the search engine without any transport: the store, the live
// collections and the services that read and write them.
type Core struct {
	cfg      *config.Config
	logger   logger.Logger
	store    Backend
	memIndex *index.MemoryIndex
	items    *items.Service
	commands *commands.Registry
	usage    *usage.Tracker
	dirs     *dirindex.Indexer
	watcher  *dirindex.Watcher
	resolver *resolver.Resolver
	syncer   *scheduler.StoreSyncer
	reloader *scheduler.Reloader
	pruner   *scheduler.CachePruner

	reloadTrigger chan struct{}
}

// NewCore opens the configured backend and builds every service on top of
// it. Nothing is loaded yet: call Prepare, or let App.Run do it.
func NewCore(ctx context.Context, cfg *config.Config, log logger.Logger) (*Core, error) {
	store, err := OpenBackend(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	box, err := secret.LoadOrCreate(cfg.KeyFile)
	if err != nil {
		utils.MustClose(store, "store", log)
		return nil, fmt.Errorf("failed to load encryption key: %w", err)
	}

	memIndex := index.NewMemoryIndex()
	itemService := items.NewService(store, box, memIndex, log.Named("items"))
	registry := commands.NewRegistry(store, memIndex, log.Named("commands"))
	tracker := usage.NewTracker(store, cfg.UsageFlushDelay, log.Named("usage"))

	dirs := dirindex.New(dirindex.Options{
		TTL:           cfg.DirCacheTTL,
		MaxCacheItems: cfg.DirMaxCacheItems,
		Workers:       cfg.DirWorkers,
	}, log.Named("dirindex"))

	res := resolver.New(tracker, dirs, resolver.Options{SearchURL: cfg.SearchURL}, log)

	// The data directory files seed an empty sqlite or redis store
	var seed scheduler.DataStore
	if cfg.SeedFromFiles && cfg.StoreBackend != config.BackendFile {
		files, err := file.New(cfg.DataDir)
		if err != nil {
			log.Warn("seed files unavailable", logger.Error(err))
		} else {
			seed = files
		}
	}
	syncer := scheduler.NewStoreSyncer(seed, store, tracker, log.Named("sync"))

	var (
		watcher   *dirindex.Watcher
		dirWatch  scheduler.DirectoryWatcher
		triggerCh = make(chan struct{}, 1)
	)
	if cfg.WatchDirectories {
		watcher, err = dirindex.NewWatcher(dirs, log)
		if err != nil {
			log.Warn("directory watching disabled, listings expire by TTL only",
				logger.Error(err))
			watcher = nil
		} else {
			dirWatch = watcher
		}
	}

	reloader := scheduler.NewReloader(
		itemService,
		registry,
		memIndex,
		dirWatch,
		log.Named("reloader"),
		cfg.ReloadInterval,
		triggerCh,
	)

	pruner := scheduler.NewCachePruner(dirs, log.Named("pruner"), cfg.CachePruneInterval)

	return &Core{
		cfg:           cfg,
		logger:        log,
		store:         store,
		memIndex:      memIndex,
		items:         itemService,
		commands:      registry,
		usage:         tracker,
		dirs:          dirs,
		watcher:       watcher,
		resolver:      res,
		syncer:        syncer,
		reloader:      reloader,
		pruner:        pruner,
		reloadTrigger: triggerCh,
	}, nil
}

// Prepare seeds the store, loads usage and fills the memory index once.
func (c *Core) Prepare(ctx context.Context) error {
	if err := c.syncer.Sync(ctx); err != nil {
		return fmt.Errorf("failed to sync store: %w", err)
	}
	return c.reloader.Reload(ctx)
}

// Query resolves one search box text against the live collections.
func (c *Core) Query(ctx context.Context, text string, limit int, includeBuiltins bool) resolver.Response {
	if limit <= 0 {
		limit = c.cfg.ResultLimit
	}
	return c.resolver.Resolve(ctx, resolver.Request{
		Query:           text,
		Items:           c.memIndex.GetAllItems(),
		Commands:        c.memIndex.GetAllCommands(),
		IncludeBuiltins: includeBuiltins,
		Limit:           limit,
	})
}

// Deps exposes the core to the HTTP layer.
func (c *Core) Deps() deps.Deps {
	return deps.Deps{
		Logger:          c.logger,
		StartTime:       time.Now(),
		Version:         version.Version,
		Commit:          version.Commit,
		BuildDate:       version.BuildDate,
		GoVersion:       version.GoVersion,
		AllowedHosts:    c.cfg.AllowedHosts,
		AllowedCIDRS:    c.cfg.AllowedCIDRS,
		TrustProxy:      c.cfg.TrustProxy,
		RateLimitBurst:  c.cfg.RateLimitBurst,
		RateLimitPerMin: c.cfg.RateLimitPerMin,
		StoreBackend:    c.cfg.StoreBackend,
		Store:           c.store,
		MemoryIndex:     c.memIndex,
		Resolver:        c.resolver,
		Items:           c.items,
		Commands:        c.commands,
		Usage:           c.usage,
		Directories:     c.dirs,
		ResultLimit:     c.cfg.ResultLimit,
		IncludeBuiltins: c.cfg.IncludeBuiltins,
		ReloadTrigger:   c.reloadTrigger,
	}
}

// Close flushes pending usage and releases the store. The flush gets its
// own deadline so a stuck backend cannot hang shutdown.
func (c *Core) Close(timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := c.usage.Close(ctx); err != nil {
		c.logger.Warn("failed to flush usage", logger.Error(err))
	} else {
		c.logger.Info("✅ Usage flushed")
	}

	if c.watcher != nil {
		utils.MustClose(c.watcher, "directory watcher", c.logger)
	}
	utils.MustClose(c.store, c.cfg.StoreBackend+" store", c.logger)
}

type App struct {
	cfg    *config.Config
	logger logger.Logger
	core   *Core
	server *httpserver.Server
}

// New builds the server application. Configuration errors panic in
// config.Load; backend errors are returned.
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	core, err := NewCore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:    cfg,
		logger: log,
		core:   core,
		server: httpserver.New(cfg, log, core.Deps()),
	}, nil
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting QuickLink v%s on %s", version.Version, a.cfg.ListenAddr)
	a.logger.Info(version.String(), logger.String("store", a.cfg.StoreBackend))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer a.core.Close(a.cfg.ShutdownTimeout)

	// Seed the store and load usage before the first index fill
	if err := a.core.syncer.Sync(ctx); err != nil {
		return fmt.Errorf("failed to sync store: %w", err)
	}

	if err := a.core.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start reloader: %w", err)
	}
	a.logger.Info("reloader started",
		logger.Duration("interval", a.cfg.ReloadInterval))

	a.core.pruner.Start(ctx)
	a.logger.Info("cache pruner started",
		logger.Duration("interval", a.cfg.CachePruneInterval))

	if a.core.watcher != nil {
		a.core.watcher.Start(ctx)
		a.logger.Info("directory watcher started")
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		a.core.reloader.Stop()
		a.core.pruner.Stop()
		return err
	}

	a.core.reloader.Stop()
	a.core.pruner.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.logger.Info("✅ QuickLink stopped cleanly")
	return nil
}
