package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/oneshop/internal/index"
	"github.com/MrSnakeDoc/oneshop/internal/logger"
	redisstore "github.com/MrSnakeDoc/oneshop/internal/store/redis"
)

const (
	// DefaultHistoryRetention is how long superseded snapshots are kept
	DefaultHistoryRetention = 30 * 24 * time.Hour // 30 days
)

// HistoryStore lists and deletes historical snapshots
type HistoryStore interface {
	ListVersions(ctx context.Context) ([]redisstore.VersionInfo, error)
	DeleteVersion(ctx context.Context, version int64) error
}

// HistoryCollector prunes old catalog snapshots from the history
type HistoryCollector struct {
	store     HistoryStore
	index     *index.MemoryIndex
	logger    logger.Logger
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
	stopCh    chan struct{}
}

// NewHistoryCollector creates a new history collector
func NewHistoryCollector(
	store HistoryStore,
	idx *index.MemoryIndex,
	log logger.Logger,
	interval time.Duration,
	retention time.Duration,
) *HistoryCollector {
	if retention == 0 {
		retention = DefaultHistoryRetention
	}

	return &HistoryCollector{
		store:     store,
		index:     idx,
		logger:    log,
		interval:  interval,
		retention: retention,
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the periodic collection process
func (hc *HistoryCollector) Start(ctx context.Context) error {
	// Run immediately on start
	if _, err := hc.Collect(ctx); err != nil {
		hc.logger.Warn("initial history collection failed",
			logger.Error(err))
	}

	ticker := time.NewTicker(hc.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := hc.Collect(ctx); err != nil {
					hc.logger.Error("history collection failed",
						logger.Error(err))
				}
			case <-hc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the collector
func (hc *HistoryCollector) Stop() {
	close(hc.stopCh)
}

// Collect deletes snapshots older than the retention, never the current one.
// It returns the number of deleted snapshots.
func (hc *HistoryCollector) Collect(ctx context.Context) (int, error) {
	hc.logger.Debug("running catalog history collection")

	versions, err := hc.store.ListVersions(ctx)
	if err != nil {
		return 0, err
	}

	var current int64
	if cur := hc.index.Current(); cur != nil {
		current = cur.Version
	}

	now := hc.now()
	deleted := 0
	for _, v := range versions {
		if v.Version == current {
			continue
		}
		age := now.Sub(v.CreatedAt)
		if age < hc.retention {
			continue
		}

		if err := hc.store.DeleteVersion(ctx, v.Version); err != nil {
			hc.logger.Warn("failed to delete catalog version",
				logger.Int64("version", v.Version),
				logger.Error(err))
			continue
		}

		hc.logger.Info("garbage collected catalog version",
			logger.Int64("version", v.Version),
			logger.String("age", age.String()))
		deleted++
	}

	if deleted > 0 {
		hc.logger.Info("history collection completed",
			logger.Int("deleted", deleted))
	} else {
		hc.logger.Debug("no catalog versions to collect")
	}

	return deleted, nil
}
