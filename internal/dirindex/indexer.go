package dirindex

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/singleflight"

	"github.com/MrSnakeDoc/quicklink/internal/domain"
	"github.com/MrSnakeDoc/quicklink/internal/logger"
	"github.com/MrSnakeDoc/quicklink/internal/metrics"
)

const (
	DefaultTTL           = 30 * time.Second
	DefaultMaxCacheItems = 200
	DefaultWorkers       = 4
)

// Options tunes the indexer. Zero values pick the defaults.
type Options struct {
	TTL           time.Duration
	MaxCacheItems int
	Workers       int
}

type cacheEntry struct {
	items    []domain.ResultItem
	cachedAt time.Time
}

// Indexer lists files matching a directory source and caches the sorted
// listing for a short TTL.
//
// Enumeration runs on a bounded pool of goroutines and is never cancelled by
// the caller's context: a listing abandoned by a superseded query still
// completes and fills the cache. Concurrent misses for the same key share one
// enumeration.
type Indexer struct {
	ttl      time.Duration
	maxItems int
	logger   logger.Logger
	now      func() time.Time

	mu    sync.RWMutex
	cache map[string]cacheEntry

	group   singleflight.Group
	workers chan struct{}
}

// New creates an indexer.
func New(opts Options, log logger.Logger) *Indexer {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.MaxCacheItems <= 0 {
		opts.MaxCacheItems = DefaultMaxCacheItems
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if log == nil {
		log = logger.Nop()
	}

	return &Indexer{
		ttl:      opts.TTL,
		maxItems: opts.MaxCacheItems,
		logger:   log,
		now:      time.Now,
		cache:    make(map[string]cacheEntry),
		workers:  make(chan struct{}, opts.Workers),
	}
}

// MaxCacheItems is the cap on a cached listing.
func (ix *Indexer) MaxCacheItems() int { return ix.maxItems }

// ListFiles returns up to max entries of the sorted listing for src. Faults
// yield an empty list. The only error is ctx's, when the caller stops waiting.
func (ix *Indexer) ListFiles(ctx context.Context, src Source, max int) ([]domain.ResultItem, error) {
	if !src.valid() {
		return nil, nil
	}

	key := src.cacheKey()

	if items, ok := ix.lookup(key); ok {
		metrics.DirCacheHit()
		return stamp(items, src.OpenInTerminal, max), nil
	}
	metrics.DirCacheMiss()

	ch := ix.group.DoChan(key, func() (interface{}, error) {
		ix.workers <- struct{}{}
		defer func() { <-ix.workers }()

		start := time.Now()
		items := ix.scan(src)
		metrics.ObserveDirScan(time.Since(start))

		ix.mu.Lock()
		ix.cache[key] = cacheEntry{items: items, cachedAt: ix.now()}
		ix.mu.Unlock()

		return items, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		items, _ := res.Val.([]domain.ResultItem)
		return stamp(items, src.OpenInTerminal, max), nil
	}
}

// Search lists up to MaxCacheItems entries and keeps those whose display name
// or bare name contains query, case-insensitively.
func (ix *Indexer) Search(ctx context.Context, src Source, query string, max int) ([]domain.ResultItem, error) {
	all, err := ix.ListFiles(ctx, src, ix.maxItems)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(query) == "" {
		return truncate(all, max), nil
	}

	q := strings.ToLower(query)
	var out []domain.ResultItem
	for _, it := range all {
		if strings.Contains(strings.ToLower(it.DisplayName), q) || strings.Contains(strings.ToLower(it.Name), q) {
			out = append(out, it)
			if max > 0 && len(out) >= max {
				break
			}
		}
	}
	return out, nil
}

// ClearCache drops listings whose key starts with pathPrefix. An empty prefix
// clears everything.
func (ix *Indexer) ClearCache(pathPrefix string) int {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if pathPrefix == "" {
		n := len(ix.cache)
		ix.cache = make(map[string]cacheEntry)
		return n
	}

	removed := 0
	for key := range ix.cache {
		if strings.HasPrefix(key, pathPrefix) {
			delete(ix.cache, key)
			removed++
		}
	}
	return removed
}

// Prune drops expired listings and returns how many were removed.
func (ix *Indexer) Prune() int {
	now := ix.now()

	ix.mu.Lock()
	defer ix.mu.Unlock()

	removed := 0
	for key, entry := range ix.cache {
		if now.Sub(entry.cachedAt) >= ix.ttl {
			delete(ix.cache, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of cached listings, expired or not.
func (ix *Indexer) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.cache)
}

func (ix *Indexer) lookup(key string) ([]domain.ResultItem, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	entry, ok := ix.cache[key]
	if !ok || ix.now().Sub(entry.cachedAt) >= ix.ttl {
		return nil, false
	}
	return entry.items, true
}

// scan enumerates src.Path. Any fault on the root discards the listing;
// unreadable entries below it are skipped.
func (ix *Indexer) scan(src Source) []domain.ResultItem {
	log := ix.logger.Named("dirindex")

	info, err := os.Stat(src.Path)
	if err != nil || !info.IsDir() {
		log.Debug("directory source unavailable",
			logger.String("path", src.Path))
		return nil
	}

	pattern, ok := src.pattern()
	if !ok {
		log.Warn("invalid glob pattern",
			logger.String("path", src.Path),
			logger.String("glob", src.Glob))
		return nil
	}

	root, err := filepath.Abs(src.Path)
	if err != nil {
		return nil
	}
	items := make([]domain.ResultItem, 0, 32)

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root && !src.Recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = strings.ToLower(filepath.ToSlash(rel))

		matched, err := doublestar.Match(pattern, rel)
		if err != nil || !matched {
			return nil
		}

		items = append(items, resultFor(path, src.ExecuteTemplate))
		if len(items) >= ix.maxItems {
			return filepath.SkipAll
		}
		return nil
	})
	if walkErr != nil {
		log.Warn("directory enumeration failed",
			logger.String("path", src.Path),
			logger.Error(walkErr))
		return nil
	}

	sort.SliceStable(items, func(i, j int) bool {
		return strings.ToLower(items[i].DisplayName) < strings.ToLower(items[j].DisplayName)
	})

	log.Debug("directory listed",
		logger.String("path", src.Path),
		logger.String("glob", pattern),
		logger.Int("count", len(items)))

	return items
}

func resultFor(path, template string) domain.ResultItem {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return domain.ResultItem{
		Name:            strings.TrimSuffix(base, ext),
		Path:            path,
		Extension:       ext,
		DisplayName:     base,
		Icon:            IconFor(ext),
		ExecuteTemplate: template,
	}
}

// stamp copies up to max cached items, applying the caller's terminal flag.
func stamp(items []domain.ResultItem, openInTerminal bool, max int) []domain.ResultItem {
	items = truncate(items, max)
	out := make([]domain.ResultItem, len(items))
	for i, it := range items {
		it.OpenInTerminal = openInTerminal
		out[i] = it
	}
	return out
}

func truncate(items []domain.ResultItem, max int) []domain.ResultItem {
	if max > 0 && len(items) > max {
		return items[:max]
	}
	return items
}
