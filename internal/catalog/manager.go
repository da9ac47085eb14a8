// Package catalog publishes immutable catalog snapshots.
//
// Every write (file reload or admin edit) goes through the Manager, which
// serializes writers, validates the full resulting category list, assigns
// a new version and publishes the snapshot to the memory index. Readers
// only ever see complete, validated snapshots.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/oneshop/internal/domain"
	"github.com/MrSnakeDoc/oneshop/internal/index"
	"github.com/MrSnakeDoc/oneshop/internal/logger"
	redisstore "github.com/MrSnakeDoc/oneshop/internal/store/redis"
)

var (
	// ErrCategoryNotFound is returned when removing an unknown category.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrNotLoaded is returned by admin edits before any snapshot exists.
	ErrNotLoaded = errors.New("catalog not loaded")
	// ErrNoHistory is returned when no snapshot store is configured.
	ErrNoHistory = errors.New("catalog history unavailable")
)

// SnapshotStore persists snapshots and allocates versions.
type SnapshotStore interface {
	NextVersion(ctx context.Context) (int64, error)
	SaveSnapshot(ctx context.Context, snapshot *domain.Catalog) error
	ListVersions(ctx context.Context) ([]redisstore.VersionInfo, error)
}

// Manager serializes catalog writes.
type Manager struct {
	mu     sync.Mutex
	index  *index.MemoryIndex
	store  SnapshotStore // nil => memory only
	logger logger.Logger
	now    func() time.Time
}

// NewManager creates a new catalog manager
func NewManager(idx *index.MemoryIndex, store SnapshotStore, log logger.Logger) *Manager {
	return &Manager{
		index:  idx,
		store:  store,
		logger: log,
		now:    time.Now,
	}
}

// ApplyFile publishes categories loaded from the catalog file.
// Nothing is published when the current snapshot derives from a file with
// the same digest, so admin edits on top of that file survive reloads.
// Persistence is best effort: the memory index stays the primary source.
func (m *Manager) ApplyFile(ctx context.Context, categories []domain.Category, source, digest string) (*domain.Catalog, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cur := m.index.Current(); cur != nil && digest != "" && cur.Digest == digest {
		m.logger.Debug("catalog file unchanged, keeping current snapshot",
			logger.Int64("version", cur.Version))
		return cur, false, nil
	}

	snapshot, err := m.build(ctx, categories, source, digest)
	if err != nil {
		return nil, false, err
	}

	if m.store != nil {
		if err := m.store.SaveSnapshot(ctx, snapshot); err != nil {
			m.logger.Warn("failed to save catalog to redis",
				logger.Error(err))
		}
	}

	m.publish(snapshot)
	return snapshot, true, nil
}

// UpsertCategory replaces the category with the same name, or appends it.
func (m *Manager) UpsertCategory(ctx context.Context, cat domain.Category) (*domain.Catalog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur := m.index.Current()
	if cur == nil {
		return nil, ErrNotLoaded
	}

	return m.commit(ctx, cur, domain.WithCategory(cur.Categories, cat), "admin:upsert")
}

// RemoveCategory removes the named category.
func (m *Manager) RemoveCategory(ctx context.Context, name string) (*domain.Catalog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur := m.index.Current()
	if cur == nil {
		return nil, ErrNotLoaded
	}

	categories, found := domain.WithoutCategory(cur.Categories, name)
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrCategoryNotFound, name)
	}

	return m.commit(ctx, cur, categories, "admin:remove")
}

// Versions lists the snapshot history, newest first.
func (m *Manager) Versions(ctx context.Context) ([]redisstore.VersionInfo, error) {
	if m.store == nil {
		return nil, ErrNoHistory
	}
	return m.store.ListVersions(ctx)
}

// commit builds, persists and publishes an admin edit.
// A persistence failure fails the edit.
// The file digest of cur is carried forward.
func (m *Manager) commit(ctx context.Context, cur *domain.Catalog, categories []domain.Category, source string) (*domain.Catalog, error) {
	snapshot, err := m.build(ctx, categories, source, cur.Digest)
	if err != nil {
		return nil, err
	}

	if m.store != nil {
		if err := m.store.SaveSnapshot(ctx, snapshot); err != nil {
			return nil, fmt.Errorf("failed to persist catalog edit: %w", err)
		}
	}

	m.publish(snapshot)
	return snapshot, nil
}

func (m *Manager) build(ctx context.Context, categories []domain.Category, source, digest string) (*domain.Catalog, error) {
	if err := domain.Validate(categories); err != nil {
		return nil, err
	}

	version := m.localNextVersion()
	if m.store != nil {
		v, err := m.store.NextVersion(ctx)
		if err != nil {
			m.logger.Warn("failed to allocate catalog version from redis, using local version",
				logger.Error(err))
		} else if v > version {
			version = v
		}
	}

	return &domain.Catalog{
		Version:    version,
		UpdatedAt:  m.now().UTC(),
		Source:     source,
		Digest:     digest,
		Categories: categories,
	}, nil
}

func (m *Manager) localNextVersion() int64 {
	if cur := m.index.Current(); cur != nil {
		return cur.Version + 1
	}
	return 1
}

func (m *Manager) publish(snapshot *domain.Catalog) {
	m.index.Publish(snapshot)
	m.logger.Info("catalog snapshot published",
		logger.Int64("version", snapshot.Version),
		logger.String("source", snapshot.Source),
		logger.Int("categories", len(snapshot.Categories)))
}
