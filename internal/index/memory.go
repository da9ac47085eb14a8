package index

import (
	"sync"
	"time"

	"github.com/MrSnakeDoc/oneshop/internal/domain"
)

// MemoryIndex holds the current catalog snapshot and the click counters.
// The counters act as a fallback when the durable click store is unavailable.
type MemoryIndex struct {
	mu         sync.RWMutex
	catalog    *domain.Catalog  // current published snapshot, never mutated
	clicks     map[string]int64 // ClickKey -> count
	lastReload time.Time        // Timestamp of last publish
}

// NewMemoryIndex creates a new memory index
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		clicks: make(map[string]int64),
	}
}

// Publish replaces the current snapshot.
// Snapshots with a version lower than the current one are ignored.
func (idx *MemoryIndex) Publish(snapshot *domain.Catalog) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if snapshot == nil {
		return false
	}
	if idx.catalog != nil && snapshot.Version < idx.catalog.Version {
		return false
	}
	idx.catalog = snapshot
	idx.lastReload = time.Now()
	return true
}

// Current returns the current snapshot, or nil before the first publish.
func (idx *MemoryIndex) Current() *domain.Catalog {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.catalog
}

// Flatten returns a fresh flattened view of the current snapshot.
func (idx *MemoryIndex) Flatten() []domain.FlattenedEntry {
	cat := idx.Current()
	if cat == nil {
		return []domain.FlattenedEntry{}
	}
	return domain.Flatten(cat.Categories)
}

// Search runs a substring search against the current snapshot.
func (idx *MemoryIndex) Search(query string) []domain.FlattenedEntry {
	if domain.NormalizeQuery(query) == "" {
		return []domain.FlattenedEntry{}
	}
	return domain.Search(query, idx.Flatten())
}

// Resolve finds the URL of a brand inside a category of the current snapshot.
func (idx *MemoryIndex) Resolve(category, brand string) (string, bool) {
	cat, ok := idx.Current().FindCategory(category)
	if !ok {
		return "", false
	}
	for _, l := range domain.LinksOf(cat) {
		if l.Name == brand {
			return l.URL, true
		}
	}
	return "", false
}

// CategoryCount returns the number of categories in the current snapshot
func (idx *MemoryIndex) CategoryCount() int {
	cat := idx.Current()
	if cat == nil {
		return 0
	}
	return len(cat.Categories)
}

// GetLastReload returns the timestamp of the last publish
func (idx *MemoryIndex) GetLastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}

// ─────────────────────────────────────────────────────────────────
// Click counters
// ─────────────────────────────────────────────────────────────────

// IncrementClick increments the counter for key and returns the new value
func (idx *MemoryIndex) IncrementClick(key string) int64 {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.clicks[key]++
	return idx.clicks[key]
}

// ClickCounts returns a copy of all click counters
func (idx *MemoryIndex) ClickCounts() map[string]int64 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make(map[string]int64, len(idx.clicks))
	for k, v := range idx.clicks {
		out[k] = v
	}
	return out
}

// MergeClickCounts raises local counters to the given values.
// A counter never goes down, so increments recorded locally while the
// durable store was unreachable are kept.
func (idx *MemoryIndex) MergeClickCounts(counts map[string]int64) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for k, v := range counts {
		if v > idx.clicks[k] {
			idx.clicks[k] = v
		}
	}
}
