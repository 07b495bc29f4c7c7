package usage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/quicklink/internal/domain"
	"github.com/MrSnakeDoc/quicklink/internal/logger"
	"github.com/MrSnakeDoc/quicklink/internal/metrics"
)

const (
	// DefaultFlushDelay is the quiet period before a dirty map is written.
	DefaultFlushDelay = 2 * time.Second

	// timerFlushTimeout bounds a flush started by the debounce timer.
	timerFlushTimeout = 10 * time.Second
)

// Record is the persisted usage of one key.
type Record struct {
	UseCount int       `json:"use_count"`
	LastUsed time.Time `json:"last_used"`
}

// Store persists the whole usage map at once.
type Store interface {
	LoadUsage(ctx context.Context) (map[string]Record, error)
	SaveUsage(ctx context.Context, records map[string]Record) error
}

// Tracker counts executions per key and writes them back lazily.
//
// RecordUsage only touches memory and (re)arms a debounce timer. The timer,
// Flush and Close all funnel into flush, which is serialized by flushMu so a
// final flush at shutdown waits for any write already in progress.
type Tracker struct {
	store  Store
	logger logger.Logger
	delay  time.Duration
	now    func() time.Time

	mu      sync.Mutex
	records map[string]Record
	timer   *time.Timer
	dirty   bool
	closed  bool

	flushMu sync.Mutex
}

// NewTracker creates a tracker. A nil store keeps usage in memory only.
func NewTracker(store Store, delay time.Duration, log logger.Logger) *Tracker {
	if delay <= 0 {
		delay = DefaultFlushDelay
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Tracker{
		store:   store,
		logger:  log,
		delay:   delay,
		now:     time.Now,
		records: make(map[string]Record),
	}
}

// Load replaces the in-memory map with the persisted one. On failure the map
// is left empty and the error is returned for the caller to log.
func (t *Tracker) Load(ctx context.Context) error {
	if t.store == nil {
		return nil
	}

	loaded, err := t.store.LoadUsage(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()

	if err != nil {
		t.records = make(map[string]Record)
		return fmt.Errorf("failed to load usage: %w", err)
	}
	if loaded == nil {
		loaded = make(map[string]Record)
	}
	t.records = loaded
	t.dirty = false

	t.logger.Debug("usage loaded", logger.Int("keys", len(loaded)))
	return nil
}

// RecordUsage increments the counter for key and schedules a flush.
func (t *Tracker) RecordUsage(key string) {
	if key == "" {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	r := t.records[key]
	r.UseCount++
	r.LastUsed = t.now()
	t.records[key] = r
	t.dirty = true
	metrics.UsageRecorded()

	if t.closed {
		return
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.delay, t.onTimer)
}

func (t *Tracker) onTimer() {
	ctx, cancel := context.WithTimeout(context.Background(), timerFlushTimeout)
	defer cancel()

	if err := t.flush(ctx); err != nil {
		t.logger.Warn("debounced usage flush failed", logger.Error(err))
	}
}

// Count returns the number of recorded executions for key.
func (t *Tracker) Count(key string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.records[key].UseCount
}

// Score returns log2(count+1) for key.
func (t *Tracker) Score(key string) float64 {
	return domain.UsageScore(t.Count(key))
}

// Snapshot returns a copy of the usage map.
func (t *Tracker) Snapshot() map[string]Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// Dirty reports whether unsaved changes are pending.
func (t *Tracker) Dirty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dirty
}

// Flush cancels the pending timer and writes now.
func (t *Tracker) Flush(ctx context.Context) error {
	t.stopTimer()
	return t.flush(ctx)
}

// Close stops scheduling new flushes, waits for one in flight and writes any
// remaining changes. Later RecordUsage calls still count in memory.
func (t *Tracker) Close(ctx context.Context) error {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()

	t.stopTimer()
	return t.flush(ctx)
}

func (t *Tracker) stopTimer() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *Tracker) flush(ctx context.Context) error {
	t.flushMu.Lock()
	defer t.flushMu.Unlock()

	t.mu.Lock()
	if !t.dirty || t.store == nil {
		t.mu.Unlock()
		return nil
	}
	snapshot := t.snapshotLocked()
	t.dirty = false
	t.mu.Unlock()

	err := t.store.SaveUsage(ctx, snapshot)
	metrics.UsageFlushed(err)
	if err != nil {
		t.mu.Lock()
		t.dirty = true
		t.mu.Unlock()
		return fmt.Errorf("failed to save usage: %w", err)
	}

	t.logger.Debug("usage flushed", logger.Int("keys", len(snapshot)))
	return nil
}

func (t *Tracker) snapshotLocked() map[string]Record {
	out := make(map[string]Record, len(t.records))
	for k, v := range t.records {
		out[k] = v
	}
	return out
}
