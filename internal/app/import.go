package app

import (
	"context"

	"github.com/MrSnakeDoc/quicklink/internal/items"
	"github.com/MrSnakeDoc/quicklink/internal/logger"
	"github.com/MrSnakeDoc/quicklink/internal/sources/homepage"
)

// ImportHomepage adds the links of a Homepage services.yaml and/or
// bookmarks.yaml as items. Empty paths are skipped. Call Prepare first so
// existing items are known.
func (c *Core) ImportHomepage(ctx context.Context, servicesFile, bookmarksFile string) (homepage.Result, error) {
	var drafts []items.Draft

	if servicesFile != "" {
		cfg, err := homepage.LoadServices(servicesFile)
		if err != nil {
			return homepage.Result{}, err
		}
		drafts = append(drafts, homepage.ServiceDrafts(cfg)...)
	}

	if bookmarksFile != "" {
		cfg, err := homepage.LoadBookmarks(bookmarksFile)
		if err != nil {
			return homepage.Result{}, err
		}
		drafts = append(drafts, homepage.BookmarkDrafts(cfg)...)
	}

	res, err := homepage.Import(ctx, c.items, drafts)
	c.logger.Info("homepage import finished",
		logger.Int("added", res.Added),
		logger.Int("skipped", res.Skipped))
	return res, err
}
