package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MrSnakeDoc/quicklink/internal/usage"
)

// LoadUsage retrieves every usage record from the usage hash
func (s *Store) LoadUsage(ctx context.Context) (map[string]usage.Record, error) {
	fields, err := s.client.HGetAll(ctx, KeyUsage).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get usage: %w", err)
	}

	records := make(map[string]usage.Record, len(fields))
	for key, raw := range fields {
		var r usage.Record
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			return nil, fmt.Errorf("failed to unmarshal usage %s: %w", key, err)
		}
		records[key] = r
	}

	return records, nil
}

// SaveUsage replaces the usage hash in one transaction
func (s *Store) SaveUsage(ctx context.Context, records map[string]usage.Record) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, KeyUsage)

	if len(records) > 0 {
		values := make(map[string]any, len(records))
		for key, r := range records {
			data, err := json.Marshal(r)
			if err != nil {
				return fmt.Errorf("failed to marshal usage %s: %w", key, err)
			}
			values[key] = data
		}
		pipe.HSet(ctx, KeyUsage, values)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save usage: %w", err)
	}

	return nil
}
