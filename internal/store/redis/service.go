package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/quicklink/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Store keeps items, commands and usage in Redis. Items live under one key
// each, with KeyItemOrder recording their order.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}

// LoadItems retrieves all items in stored order
func (s *Store) LoadItems(ctx context.Context) ([]domain.StoredItem, error) {
	ids, err := s.client.LRange(ctx, KeyItemOrder, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get item IDs: %w", err)
	}

	if len(ids) == 0 {
		return []domain.StoredItem{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = ItemKey(id)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}

	items := make([]domain.StoredItem, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Order entry without data, skip it
			continue
		}
		var item domain.StoredItem
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			return nil, fmt.Errorf("failed to unmarshal item %s: %w", ids[i], err)
		}
		items = append(items, item)
	}

	return items, nil
}

// SaveItems replaces every stored item in one transaction
func (s *Store) SaveItems(ctx context.Context, items []domain.StoredItem) error {
	previous, err := s.client.LRange(ctx, KeyItemOrder, 0, -1).Result()
	if err != nil {
		return fmt.Errorf("failed to get item IDs: %w", err)
	}

	pipe := s.client.TxPipeline()

	for _, id := range previous {
		pipe.Del(ctx, ItemKey(id))
	}
	pipe.Del(ctx, KeyItemOrder)

	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("failed to marshal item %s: %w", item.ID, err)
		}
		pipe.Set(ctx, ItemKey(item.ID), data, 0)
		pipe.RPush(ctx, KeyItemOrder, item.ID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save items: %w", err)
	}

	return nil
}

// LoadCommands retrieves the command list
func (s *Store) LoadCommands(ctx context.Context) ([]domain.UserCommand, error) {
	data, err := s.client.Get(ctx, KeyCommands).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []domain.UserCommand{}, nil
		}
		return nil, fmt.Errorf("failed to get commands: %w", err)
	}

	var commands []domain.UserCommand
	if err := json.Unmarshal(data, &commands); err != nil {
		return nil, fmt.Errorf("failed to unmarshal commands: %w", err)
	}

	return commands, nil
}

// SaveCommands stores the command list as a single value
func (s *Store) SaveCommands(ctx context.Context, commands []domain.UserCommand) error {
	data, err := json.Marshal(commands)
	if err != nil {
		return fmt.Errorf("failed to marshal commands: %w", err)
	}

	if err := s.client.Set(ctx, KeyCommands, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save commands: %w", err)
	}

	return nil
}
