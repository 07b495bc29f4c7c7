package items

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/quicklink/internal/domain"
	"github.com/MrSnakeDoc/quicklink/internal/index"
	"github.com/MrSnakeDoc/quicklink/internal/logger"
	"github.com/MrSnakeDoc/quicklink/internal/secret"
)

var (
	ErrNotFound   = errors.New("item not found")
	ErrEmptyValue = errors.New("item value is empty")
)

// Store persists the full item list in display order. Encrypted values
// arrive already sealed.
type Store interface {
	LoadItems(ctx context.Context) ([]domain.StoredItem, error)
	SaveItems(ctx context.Context, items []domain.StoredItem) error
}

// Cipher seals values flagged IsEncrypted. *secret.Box implements it.
type Cipher interface {
	Seal(plaintext string) (string, error)
	Open(value string) (string, error)
}

// Draft is the editable part of an item.
type Draft struct {
	Title       string `json:"title"`
	Value       string `json:"value"`
	IsEncrypted bool   `json:"is_encrypted"`
}

// Service owns item CRUD. The memory index holds decrypted values; the store
// only ever sees sealed ones.
type Service struct {
	store  Store
	cipher Cipher
	index  *index.MemoryIndex
	logger logger.Logger
	now    func() time.Time

	// Serializes read-modify-write cycles against the store.
	mu sync.Mutex
}

// NewService creates an item service. A nil cipher stores values in clear.
func NewService(store Store, cipher Cipher, idx *index.MemoryIndex, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		store:  store,
		cipher: cipher,
		index:  idx,
		logger: log.Named("items"),
		now:    time.Now,
	}
}

// AssignIDs gives every item without an ID a fresh one, in place, and
// reports how many it assigned.
func AssignIDs(list []domain.StoredItem) int {
	n := 0
	for i := range list {
		if list[i].ID == "" {
			list[i].ID = uuid.NewString()
			n++
		}
	}
	return n
}

// Load reads all items from the store into the index. Items stored without
// an ID (desktop data.json rows) get one, written back once so it stays
// stable across reloads.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.store.LoadItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to load items: %w", err)
	}

	if n := AssignIDs(stored); n > 0 {
		if err := s.store.SaveItems(ctx, stored); err != nil {
			return fmt.Errorf("failed to persist assigned item ids: %w", err)
		}
		s.logger.Info("assigned missing item ids", logger.Int("count", n))
	}

	out := make([]domain.StoredItem, 0, len(stored))
	for _, it := range stored {
		if it.IsEncrypted && s.cipher != nil {
			plain, err := s.cipher.Open(it.Value)
			if err != nil {
				// Keep the sealed value; the row stays masked and copyable.
				s.logger.Warn("failed to decrypt item",
					logger.String("id", it.ID),
					logger.Error(err))
			} else {
				it.Value = plain
			}
		}
		out = append(out, it)
	}

	s.index.UpdateItems(out)
	s.logger.Info("items loaded", logger.Int("count", len(out)))
	return nil
}

// List returns all items in display order.
func (s *Service) List() []domain.StoredItem {
	return s.index.GetAllItems()
}

// Get returns one item.
func (s *Service) Get(id string) (domain.StoredItem, error) {
	it, ok := s.index.GetItem(id)
	if !ok {
		return domain.StoredItem{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return it, nil
}

// Add appends a new item.
func (s *Service) Add(ctx context.Context, d Draft) (domain.StoredItem, error) {
	if strings.TrimSpace(d.Value) == "" {
		return domain.StoredItem{}, ErrEmptyValue
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	it := domain.StoredItem{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(d.Title),
		Value:       d.Value,
		IsEncrypted: d.IsEncrypted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	all := append(s.index.GetAllItems(), it)
	if err := s.commit(ctx, all); err != nil {
		return domain.StoredItem{}, err
	}
	return it, nil
}

// Update replaces the editable fields of an item, keeping its position.
func (s *Service) Update(ctx context.Context, id string, d Draft) (domain.StoredItem, error) {
	if strings.TrimSpace(d.Value) == "" {
		return domain.StoredItem{}, ErrEmptyValue
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.index.GetAllItems()
	for i := range all {
		if all[i].ID != id {
			continue
		}
		all[i].Title = strings.TrimSpace(d.Title)
		all[i].Value = d.Value
		all[i].IsEncrypted = d.IsEncrypted
		all[i].UpdatedAt = s.now().UTC()

		if err := s.commit(ctx, all); err != nil {
			return domain.StoredItem{}, err
		}
		return all[i], nil
	}
	return domain.StoredItem{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Delete removes an item.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.index.GetAllItems()
	for i := range all {
		if all[i].ID == id {
			return s.commit(ctx, append(all[:i], all[i+1:]...))
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// commit persists plain (sealing encrypted values) and then publishes it.
func (s *Service) commit(ctx context.Context, plain []domain.StoredItem) error {
	sealed := make([]domain.StoredItem, len(plain))
	for i, it := range plain {
		// Values that failed to decrypt on load are still sealed.
		if it.IsEncrypted && s.cipher != nil && !secret.IsSealed(it.Value) {
			v, err := s.cipher.Seal(it.Value)
			if err != nil {
				return fmt.Errorf("failed to encrypt item %s: %w", it.ID, err)
			}
			it.Value = v
		}
		sealed[i] = it
	}

	if err := s.store.SaveItems(ctx, sealed); err != nil {
		return fmt.Errorf("failed to save items: %w", err)
	}
	s.index.UpdateItems(plain)
	return nil
}
