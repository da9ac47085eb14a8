package tracking

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/MrSnakeDoc/oneshop/internal/domain"
	"github.com/MrSnakeDoc/oneshop/internal/index"
	"github.com/MrSnakeDoc/oneshop/internal/logger"
)

const (
	// DefaultPersistTimeout bounds a single durable increment
	DefaultPersistTimeout = 2 * time.Second
	// DefaultMaxInFlight bounds concurrent durable increments
	DefaultMaxInFlight = 64
)

// ClickStore is a durable counter store with atomic increments.
type ClickStore interface {
	IncrementClick(ctx context.Context, category, brand string) (int64, error)
	ClickCounts(ctx context.Context) (map[string]int64, error)
}

// Options configures a Tracker
type Options struct {
	PersistTimeout time.Duration
	MaxInFlight    int64
}

// Tracker records navigations to brand links.
//
// Track never blocks on the durable store and never reports its errors:
// the in-memory counter is updated synchronously, the durable increment
// runs in the background.
type Tracker struct {
	store   ClickStore // nil => memory only
	index   *index.MemoryIndex
	logger  logger.Logger
	timeout time.Duration
	sem     *semaphore.Weighted

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewTracker creates a new click tracker
func NewTracker(store ClickStore, idx *index.MemoryIndex, log logger.Logger, opts Options) *Tracker {
	if opts.PersistTimeout <= 0 {
		opts.PersistTimeout = DefaultPersistTimeout
	}
	if opts.MaxInFlight <= 0 {
		opts.MaxInFlight = DefaultMaxInFlight
	}

	return &Tracker{
		store:   store,
		index:   idx,
		logger:  log,
		timeout: opts.PersistTimeout,
		sem:     semaphore.NewWeighted(opts.MaxInFlight),
	}
}

// Track records one navigation to brand inside category.
func (t *Tracker) Track(category, brand string) {
	key := domain.ClickKey(category, brand)
	t.index.IncrementClick(key)

	if t.store == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		t.logger.Debug("tracker closed, click kept in memory only",
			logger.String("key", key))
		return
	}

	if !t.sem.TryAcquire(1) {
		t.logger.Warn("click store saturated, click kept in memory only",
			logger.String("key", key))
		return
	}

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		defer t.sem.Release(1)
		t.persist(category, brand, key)
	}()
}

func (t *Tracker) persist(category, brand, key string) {
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()

	n, err := t.store.IncrementClick(ctx, category, brand)
	if err != nil {
		t.logger.Warn("failed to persist click",
			logger.String("key", key),
			logger.Error(err))
		return
	}

	t.logger.Debug("click persisted",
		logger.String("key", key),
		logger.Int64("count", n))
}

// Counts returns the click counters, refreshed from the durable store when
// it is reachable and falling back to memory otherwise.
func (t *Tracker) Counts(ctx context.Context) map[string]int64 {
	if t.store != nil {
		counts, err := t.store.ClickCounts(ctx)
		if err != nil {
			t.logger.Warn("failed to read click counters, serving memory counters",
				logger.Error(err))
		} else {
			t.index.MergeClickCounts(counts)
		}
	}
	return t.index.ClickCounts()
}

// Close stops accepting durable increments and waits for in-flight ones.
func (t *Tracker) Close(ctx context.Context) error {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
