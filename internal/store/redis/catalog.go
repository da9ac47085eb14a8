package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/MrSnakeDoc/oneshop/internal/domain"
	"github.com/redis/go-redis/v9"
)

// ErrNoSnapshot is returned when Redis holds no catalog snapshot yet.
var ErrNoSnapshot = errors.New("no catalog snapshot in redis")

// VersionInfo describes one historical snapshot.
type VersionInfo struct {
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}

// NextVersion atomically allocates the next snapshot version
func (s *Store) NextVersion(ctx context.Context) (int64, error) {
	v, err := s.client.Incr(ctx, KeyCatalogVersion).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to allocate catalog version: %w", err)
	}
	return v, nil
}

// SaveSnapshot stores a snapshot as current and records it in the history
func (s *Store) SaveSnapshot(ctx context.Context, snapshot *domain.Catalog) error {
	data, err := json.Marshal(domain.ToCatalogDoc(snapshot))
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, KeyCatalogCurrent, data, 0)
	pipe.Set(ctx, CatalogVersionKey(snapshot.Version), data, 0)
	pipe.ZAdd(ctx, KeyCatalogVersions, redis.Z{
		Score:  float64(snapshot.UpdatedAt.Unix()),
		Member: strconv.FormatInt(snapshot.Version, 10),
	})
	// Keep the counter ahead of versions allocated elsewhere
	pipe.Eval(ctx, bumpVersionScript, []string{KeyCatalogVersion}, snapshot.Version)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save catalog: %w", err)
	}
	return nil
}

// bumpVersionScript raises the version counter to ARGV[1] if it is lower.
const bumpVersionScript = `
local cur = tonumber(redis.call('GET', KEYS[1]) or '0')
local v = tonumber(ARGV[1])
if v > cur then redis.call('SET', KEYS[1], v) end
return 1`

// GetSnapshot retrieves the current snapshot
func (s *Store) GetSnapshot(ctx context.Context) (*domain.Catalog, error) {
	return s.getSnapshotAt(ctx, KeyCatalogCurrent)
}

// GetVersion retrieves a historical snapshot
func (s *Store) GetVersion(ctx context.Context, version int64) (*domain.Catalog, error) {
	return s.getSnapshotAt(ctx, CatalogVersionKey(version))
}

func (s *Store) getSnapshotAt(ctx context.Context, key string) (*domain.Catalog, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("failed to get catalog: %w", err)
	}

	var doc domain.CatalogDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog: %w", err)
	}

	return domain.FromCatalogDoc(doc)
}

// ListVersions returns the recorded snapshot history, newest first
func (s *Store) ListVersions(ctx context.Context) ([]VersionInfo, error) {
	zs, err := s.client.ZRevRangeWithScores(ctx, KeyCatalogVersions, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog versions: %w", err)
	}

	out := make([]VersionInfo, 0, len(zs))
	for _, z := range zs {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		v, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, VersionInfo{
			Version:   v,
			CreatedAt: time.Unix(int64(z.Score), 0).UTC(),
		})
	}
	return out, nil
}

// DeleteVersion removes a historical snapshot
func (s *Store) DeleteVersion(ctx context.Context, version int64) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, CatalogVersionKey(version))
	pipe.ZRem(ctx, KeyCatalogVersions, strconv.FormatInt(version, 10))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete catalog version %d: %w", version, err)
	}
	return nil
}
