package dirindex

import (
	"context"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/MrSnakeDoc/quicklink/internal/logger"
)

// maxWatchedDirs bounds the directories registered per root.
const maxWatchedDirs = 512

// Watcher clears cached listings when files appear, disappear or are renamed
// under a watched root. The TTL still applies; this only shortens staleness.
type Watcher struct {
	fsw     *fsnotify.Watcher
	indexer *Indexer
	logger  logger.Logger

	mu    sync.Mutex
	roots map[string]bool   // source path -> recursive
	dirs  map[string]string // watched dir -> source path

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewWatcher creates a watcher bound to ix.
func NewWatcher(ix *Indexer, log logger.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Watcher{
		fsw:     fsw,
		indexer: ix,
		logger:  log.Named("dirwatch"),
		roots:   make(map[string]bool),
		dirs:    make(map[string]string),
		stopCh:  make(chan struct{}),
	}, nil
}

// Start processes events until ctx is done or Close is called.
func (w *Watcher) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case ev, ok := <-w.fsw.Events:
				if !ok {
					return
				}
				w.handle(ev)
			case err, ok := <-w.fsw.Errors:
				if !ok {
					return
				}
				w.logger.Warn("watch error", logger.Error(err))
			case <-w.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Close stops the event loop and releases the OS watches.
func (w *Watcher) Close() error {
	close(w.stopCh)
	w.wg.Wait()
	return w.fsw.Close()
}

// Sync makes the watched roots match sources.
func (w *Watcher) Sync(sources []Source) {
	desired := make(map[string]bool, len(sources))
	for _, s := range sources {
		if !s.valid() {
			continue
		}
		desired[s.Path] = desired[s.Path] || s.Recursive
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for root, recursive := range w.roots {
		if want, ok := desired[root]; !ok || want != recursive {
			w.unwatchLocked(root)
		}
	}
	for root, recursive := range desired {
		if _, ok := w.roots[root]; ok {
			continue
		}
		w.watchLocked(root, recursive)
	}
}

// Roots returns the number of watched roots.
func (w *Watcher) Roots() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.roots)
}

func (w *Watcher) watchLocked(root string, recursive bool) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return
	}
	w.roots[root] = recursive

	if !recursive {
		w.addLocked(abs, root)
		return
	}
	w.addTreeLocked(abs, root)
}

func (w *Watcher) addTreeLocked(dir, root string) {
	count := 0
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if count >= maxWatchedDirs {
			w.logger.Debug("watch limit reached", logger.String("root", root))
			return filepath.SkipAll
		}
		w.addLocked(path, root)
		count++
		return nil
	})
}

func (w *Watcher) addLocked(dir, root string) {
	if _, ok := w.dirs[dir]; ok {
		return
	}
	if err := w.fsw.Add(dir); err != nil {
		w.logger.Debug("failed to watch directory",
			logger.String("dir", dir),
			logger.Error(err))
		return
	}
	w.dirs[dir] = root
}

func (w *Watcher) unwatchLocked(root string) {
	for dir, r := range w.dirs {
		if r != root {
			continue
		}
		_ = w.fsw.Remove(dir)
		delete(w.dirs, dir)
	}
	delete(w.roots, root)
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	root, ok := w.dirs[filepath.Dir(ev.Name)]
	if ok && ev.Has(fsnotify.Create) && w.roots[root] {
		// New subdirectory of a recursive root.
		w.addTreeLocked(ev.Name, root)
	}
	if _, watched := w.dirs[ev.Name]; watched && (ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)) {
		delete(w.dirs, ev.Name)
	}
	w.mu.Unlock()

	if !ok {
		return
	}

	removed := w.indexer.ClearCache(root)
	w.logger.Debug("directory changed",
		logger.String("root", root),
		logger.String("path", ev.Name),
		logger.Int("cleared", removed))
}
