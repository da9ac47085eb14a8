package scheduler

import (
	"context"
	"errors"

	"github.com/MrSnakeDoc/oneshop/internal/index"
	"github.com/MrSnakeDoc/oneshop/internal/logger"
	redisstore "github.com/MrSnakeDoc/oneshop/internal/store/redis"
)

// RedisSyncer restores the last published snapshot and click counters on startup
type RedisSyncer struct {
	store  *redisstore.Store
	index  *index.MemoryIndex
	logger logger.Logger
}

// NewRedisSyncer creates a new Redis syncer
func NewRedisSyncer(
	store *redisstore.Store,
	idx *index.MemoryIndex,
	log logger.Logger,
) *RedisSyncer {
	return &RedisSyncer{
		store:  store,
		index:  idx,
		logger: log,
	}
}

// Sync loads the snapshot and counters from Redis into the memory index
func (rs *RedisSyncer) Sync(ctx context.Context) error {
	rs.logger.Info("syncing catalog from redis to memory")

	snapshot, err := rs.store.GetSnapshot(ctx)
	switch {
	case errors.Is(err, redisstore.ErrNoSnapshot):
		rs.logger.Info("no catalog snapshot found in redis")
	case err != nil:
		return err
	default:
		rs.index.Publish(snapshot)
		rs.logger.Info("synced catalog from redis",
			logger.Int64("version", snapshot.Version),
			logger.Int("categories", len(snapshot.Categories)))
	}

	counts, err := rs.store.ClickCounts(ctx)
	if err != nil {
		return err
	}
	rs.index.MergeClickCounts(counts)
	rs.logger.Info("synced click counters from redis",
		logger.Int("counters", len(counts)))

	return nil
}
