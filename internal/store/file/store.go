package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/quicklink/internal/domain"
	"github.com/MrSnakeDoc/quicklink/internal/usage"
)

const (
	ItemsFile    = "data.json"
	CommandsFile = "commands.yaml"
	UsageFile    = "usage.json"
)

// Store keeps items, commands and usage as plain files in one directory.
// A missing file reads as empty. Writes go to a temp file that is renamed
// over the target, so readers never see a half-written file.
type Store struct {
	dir string

	itemsMu    sync.Mutex
	commandsMu sync.Mutex
	usageMu    sync.Mutex
}

// New creates the data directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the data directory.
func (s *Store) Dir() string { return s.dir }

// Ping reports whether the data directory is still reachable.
func (s *Store) Ping(_ context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s.dir)
	}
	return nil
}

func (s *Store) Close() error { return nil }

// ─────────────────────────────────────────────────────────────────
// Items (JSON list)
// ─────────────────────────────────────────────────────────────────

func (s *Store) LoadItems(_ context.Context) ([]domain.StoredItem, error) {
	s.itemsMu.Lock()
	defer s.itemsMu.Unlock()

	var items []domain.StoredItem
	if err := s.readJSON(ItemsFile, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) SaveItems(_ context.Context, items []domain.StoredItem) error {
	s.itemsMu.Lock()
	defer s.itemsMu.Unlock()

	if items == nil {
		items = []domain.StoredItem{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode items: %w", err)
	}
	return s.writeAtomic(ItemsFile, data)
}

// ─────────────────────────────────────────────────────────────────
// Commands (YAML list, hand-editable)
// ─────────────────────────────────────────────────────────────────

type commandsDocument struct {
	Commands []domain.UserCommand `yaml:"commands"`
}

func (s *Store) LoadCommands(_ context.Context) ([]domain.UserCommand, error) {
	s.commandsMu.Lock()
	defer s.commandsMu.Unlock()

	data, err := os.ReadFile(s.path(CommandsFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read commands file: %w", err)
	}

	var doc commandsDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse commands yaml: %w", err)
	}
	return doc.Commands, nil
}

func (s *Store) SaveCommands(_ context.Context, commands []domain.UserCommand) error {
	s.commandsMu.Lock()
	defer s.commandsMu.Unlock()

	if commands == nil {
		commands = []domain.UserCommand{}
	}
	data, err := yaml.Marshal(commandsDocument{Commands: commands})
	if err != nil {
		return fmt.Errorf("failed to encode commands: %w", err)
	}
	return s.writeAtomic(CommandsFile, data)
}

// ─────────────────────────────────────────────────────────────────
// Usage (JSON object keyed by usage key)
// ─────────────────────────────────────────────────────────────────

func (s *Store) LoadUsage(_ context.Context) (map[string]usage.Record, error) {
	s.usageMu.Lock()
	defer s.usageMu.Unlock()

	records := make(map[string]usage.Record)
	if err := s.readJSON(UsageFile, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Store) SaveUsage(_ context.Context, records map[string]usage.Record) error {
	s.usageMu.Lock()
	defer s.usageMu.Unlock()

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode usage: %w", err)
	}
	return s.writeAtomic(UsageFile, data)
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *Store) readJSON(name string, v interface{}) error {
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

func (s *Store) writeAtomic(name string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, "."+name+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, s.path(name)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}
