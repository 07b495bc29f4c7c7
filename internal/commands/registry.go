package commands

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MrSnakeDoc/quicklink/internal/domain"
	"github.com/MrSnakeDoc/quicklink/internal/index"
	"github.com/MrSnakeDoc/quicklink/internal/logger"
)

var (
	ErrInvalidCommand = errors.New("invalid command")
	ErrNotFound       = errors.New("command not found")
)

// Store persists the full command list in enumeration order.
type Store interface {
	LoadCommands(ctx context.Context) ([]domain.UserCommand, error)
	SaveCommands(ctx context.Context, commands []domain.UserCommand) error
}

// Registry resolves slash prefixes to user commands. The memory index holds
// the live list; every mutation is persisted before the index is updated.
type Registry struct {
	store  Store
	index  *index.MemoryIndex
	logger logger.Logger

	// Serializes read-modify-write cycles against the store.
	mu sync.Mutex
}

// NewRegistry creates a registry backed by store and idx.
func NewRegistry(store Store, idx *index.MemoryIndex, log logger.Logger) *Registry {
	if log == nil {
		log = logger.Nop()
	}
	return &Registry{
		store:  store,
		index:  idx,
		logger: log.Named("commands"),
	}
}

// Load replaces the live list with the stored one. Malformed definitions are
// kept; they simply produce no results.
func (r *Registry) Load(ctx context.Context) error {
	cmds, err := r.store.LoadCommands(ctx)
	if err != nil {
		return fmt.Errorf("failed to load commands: %w", err)
	}

	for _, c := range cmds {
		if err := c.Validate(); err != nil {
			r.logger.Warn("malformed command kept",
				logger.String("prefix", c.Prefix),
				logger.Error(err))
		}
	}

	r.index.UpdateCommands(cmds)
	r.logger.Info("commands loaded", logger.Int("count", len(cmds)))
	return nil
}

// List returns the commands in enumeration order.
func (r *Registry) List() []domain.UserCommand {
	return r.index.GetAllCommands()
}

// FindByPrefix returns the first command whose prefix equals token,
// case-insensitively.
func (r *Registry) FindByPrefix(token string) (domain.UserCommand, bool) {
	return domain.FindCommand(r.index.GetAllCommands(), token)
}

// Add appends cmd. Duplicate prefixes are accepted; the earlier one wins.
func (r *Registry) Add(ctx context.Context, cmd domain.UserCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCommand, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cmds := append(r.index.GetAllCommands(), cmd)
	return r.commit(ctx, cmds)
}

// Update replaces the first command matching prefix.
func (r *Registry) Update(ctx context.Context, prefix string, cmd domain.UserCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCommand, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cmds := r.index.GetAllCommands()
	i := position(cmds, prefix)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, prefix)
	}
	cmds[i] = cmd
	return r.commit(ctx, cmds)
}

// Delete removes the first command matching prefix.
func (r *Registry) Delete(ctx context.Context, prefix string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cmds := r.index.GetAllCommands()
	i := position(cmds, prefix)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, prefix)
	}
	cmds = append(cmds[:i], cmds[i+1:]...)
	return r.commit(ctx, cmds)
}

func (r *Registry) commit(ctx context.Context, cmds []domain.UserCommand) error {
	if err := r.store.SaveCommands(ctx, cmds); err != nil {
		return fmt.Errorf("failed to save commands: %w", err)
	}
	r.index.UpdateCommands(cmds)
	return nil
}

func position(cmds []domain.UserCommand, prefix string) int {
	for i, c := range cmds {
		if c.HasPrefix(prefix) {
			return i
		}
	}
	return -1
}
