package index

import (
	"sync"
	"time"

	"github.com/MrSnakeDoc/quicklink/internal/domain"
)

// MemoryIndex holds the live items and commands every query runs against.
// Both collections keep their stored order: ties in ranking and prefix
// lookups depend on it.
type MemoryIndex struct {
	mu                sync.RWMutex
	items             []domain.StoredItem  // Decrypted, stored order
	commands          []domain.UserCommand // Enumeration order
	lastReload        time.Time            // Timestamp of last items reload
	lastCommandReload time.Time            // Timestamp of last commands reload
}

// NewMemoryIndex creates a new memory index
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{}
}

// UpdateItems replaces all items in the index
func (idx *MemoryIndex) UpdateItems(items []domain.StoredItem) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.items = append([]domain.StoredItem(nil), items...)
	idx.lastReload = time.Now()
}

// GetItem retrieves an item by ID
func (idx *MemoryIndex) GetItem(id string) (domain.StoredItem, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	for _, it := range idx.items {
		if it.ID == id {
			return it, true
		}
	}
	return domain.StoredItem{}, false
}

// GetAllItems returns a copy of all items in stored order
func (idx *MemoryIndex) GetAllItems() []domain.StoredItem {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return append([]domain.StoredItem(nil), idx.items...)
}

// PutItem replaces the item with the same ID in place, or appends it
func (idx *MemoryIndex) PutItem(item domain.StoredItem) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for i := range idx.items {
		if idx.items[i].ID == item.ID {
			idx.items[i] = item
			return
		}
	}
	idx.items = append(idx.items, item)
}

// DeleteItem removes an item from the index
func (idx *MemoryIndex) DeleteItem(id string) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for i := range idx.items {
		if idx.items[i].ID == id {
			idx.items = append(idx.items[:i:i], idx.items[i+1:]...)
			return true
		}
	}
	return false
}

// Count returns the number of items in the index
func (idx *MemoryIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.items)
}

// GetLastReload returns the timestamp of the last items reload
func (idx *MemoryIndex) GetLastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}

// ─────────────────────────────────────────────────────────────────
// Command methods
// ─────────────────────────────────────────────────────────────────

// UpdateCommands replaces all commands in the index
func (idx *MemoryIndex) UpdateCommands(commands []domain.UserCommand) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.commands = append([]domain.UserCommand(nil), commands...)
	idx.lastCommandReload = time.Now()
}

// GetAllCommands returns a copy of all commands in enumeration order
func (idx *MemoryIndex) GetAllCommands() []domain.UserCommand {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return append([]domain.UserCommand(nil), idx.commands...)
}

// CommandCount returns the number of commands in the index
func (idx *MemoryIndex) CommandCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.commands)
}

// GetLastCommandReload returns the timestamp of the last commands reload
func (idx *MemoryIndex) GetLastCommandReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastCommandReload
}
