package scheduler

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/quicklink/internal/domain"
	"github.com/MrSnakeDoc/quicklink/internal/items"
	"github.com/MrSnakeDoc/quicklink/internal/logger"
)

// DataStore is the item and command half of a backend.
type DataStore interface {
	LoadItems(ctx context.Context) ([]domain.StoredItem, error)
	SaveItems(ctx context.Context, items []domain.StoredItem) error
	LoadCommands(ctx context.Context) ([]domain.UserCommand, error)
	SaveCommands(ctx context.Context, commands []domain.UserCommand) error
}

// StoreSyncer prepares the active store on startup: it seeds an empty
// backend from another one (usually the data directory files) and loads
// persisted usage counts.
type StoreSyncer struct {
	seed   DataStore
	target DataStore
	usage  Loader
	logger logger.Logger
}

// NewStoreSyncer creates a new store syncer. seed may be nil.
func NewStoreSyncer(
	seed DataStore,
	target DataStore,
	usage Loader,
	log logger.Logger,
) *StoreSyncer {
	return &StoreSyncer{
		seed:   seed,
		target: target,
		usage:  usage,
		logger: log,
	}
}

// Sync seeds empty collections, then loads usage. Usage failures are logged
// and leave every count at zero.
func (ss *StoreSyncer) Sync(ctx context.Context) error {
	if ss.seed != nil {
		if err := ss.seedItems(ctx); err != nil {
			return err
		}
		if err := ss.seedCommands(ctx); err != nil {
			return err
		}
	}

	if err := ss.usage.Load(ctx); err != nil {
		ss.logger.Warn("failed to load usage, starting from zero",
			logger.Error(err))
	}

	return nil
}

func (ss *StoreSyncer) seedItems(ctx context.Context) error {
	existing, err := ss.target.LoadItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to read items: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	seeded, err := ss.seed.LoadItems(ctx)
	if err != nil {
		ss.logger.Warn("failed to read seed items", logger.Error(err))
		return nil
	}
	if len(seeded) == 0 {
		return nil
	}

	// Keyed backends need an ID per row
	items.AssignIDs(seeded)
	if err := ss.target.SaveItems(ctx, seeded); err != nil {
		return fmt.Errorf("failed to seed items: %w", err)
	}
	ss.logger.Info("seeded items into store", logger.Int("count", len(seeded)))
	return nil
}

func (ss *StoreSyncer) seedCommands(ctx context.Context) error {
	existing, err := ss.target.LoadCommands(ctx)
	if err != nil {
		return fmt.Errorf("failed to read commands: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	commands, err := ss.seed.LoadCommands(ctx)
	if err != nil {
		ss.logger.Warn("failed to read seed commands", logger.Error(err))
		return nil
	}
	if len(commands) == 0 {
		return nil
	}

	if err := ss.target.SaveCommands(ctx, commands); err != nil {
		return fmt.Errorf("failed to seed commands: %w", err)
	}
	ss.logger.Info("seeded commands into store", logger.Int("count", len(commands)))
	return nil
}
