package homepage

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/quicklink/internal/domain"
	"github.com/MrSnakeDoc/quicklink/internal/items"
)

// ItemWriter is the part of items.Service the importer needs.
type ItemWriter interface {
	List() []domain.StoredItem
	Add(ctx context.Context, d items.Draft) (domain.StoredItem, error)
}

// Result counts what an import did.
type Result struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

// Import adds every draft whose value is not already stored. Duplicates
// inside drafts are skipped too, so re-running an import is a no-op.
func Import(ctx context.Context, w ItemWriter, drafts []items.Draft) (Result, error) {
	seen := make(map[string]bool)
	for _, it := range w.List() {
		seen[it.Value] = true
	}

	var res Result
	for _, d := range drafts {
		if seen[d.Value] {
			res.Skipped++
			continue
		}
		if _, err := w.Add(ctx, d); err != nil {
			return res, fmt.Errorf("failed to add %q: %w", d.Value, err)
		}
		seen[d.Value] = true
		res.Added++
	}
	return res, nil
}
