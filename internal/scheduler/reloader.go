package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/quicklink/internal/dirindex"
	"github.com/MrSnakeDoc/quicklink/internal/domain"
	"github.com/MrSnakeDoc/quicklink/internal/index"
	"github.com/MrSnakeDoc/quicklink/internal/logger"
)

// Loader refreshes one collection from its store.
type Loader interface {
	Load(ctx context.Context) error
}

// DirectoryWatcher re-registers directory roots after commands change.
type DirectoryWatcher interface {
	Sync(sources []dirindex.Source)
}

// Reloader handles periodic reloading of items and commands from the store
type Reloader struct {
	items         Loader
	commands      Loader
	index         *index.MemoryIndex
	watcher       DirectoryWatcher
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewReloader creates a new reloader. watcher may be nil.
func NewReloader(
	items Loader,
	commands Loader,
	idx *index.MemoryIndex,
	watcher DirectoryWatcher,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *Reloader {
	return &Reloader{
		items:         items,
		commands:      commands,
		index:         idx,
		watcher:       watcher,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start begins the periodic reload process
func (rl *Reloader) Start(ctx context.Context) error {
	// Load immediately on start
	if err := rl.Reload(ctx); err != nil {
		return fmt.Errorf("initial reload failed: %w", err)
	}

	// Start periodic reload
	ticker := time.NewTicker(rl.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := rl.Reload(ctx); err != nil {
					rl.logger.Error("failed to reload store",
						logger.Error(err))
				}
			case <-rl.manualTrigger:
				rl.logger.Info("manual reload triggered")
				if err := rl.Reload(ctx); err != nil {
					rl.logger.Error("failed to reload store",
						logger.Error(err))
				}
			case <-rl.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (rl *Reloader) Stop() {
	close(rl.stopCh)
}

// Reload loads items and commands from the store into the index, then
// points the directory watcher at the current directory commands. Only an
// item store failure is returned.
func (rl *Reloader) Reload(ctx context.Context) error {
	rl.logger.Debug("reloading items and commands")

	if err := rl.items.Load(ctx); err != nil {
		return fmt.Errorf("failed to load items: %w", err)
	}
	// A command store fault keeps the last loaded list (empty on first load)
	if err := rl.commands.Load(ctx); err != nil {
		rl.logger.Warn("failed to load commands, keeping previous list",
			logger.Error(err))
	}

	commands := rl.index.GetAllCommands()
	rl.logger.Info("store reloaded",
		logger.Int("items", rl.index.Count()),
		logger.Int("commands", len(commands)))

	if rl.watcher != nil {
		rl.watcher.Sync(directorySources(commands))
	}

	return nil
}

// directorySources returns the sources of every well-formed directory command
func directorySources(commands []domain.UserCommand) []dirindex.Source {
	var sources []dirindex.Source
	for _, cmd := range commands {
		if cmd.Source != domain.SourceDirectory || cmd.Validate() != nil {
			continue
		}
		sources = append(sources, dirindex.SourceFor(cmd))
	}
	return sources
}
