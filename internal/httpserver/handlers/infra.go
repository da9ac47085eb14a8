package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/oneshop/internal/httpserver/deps"
)

type componentStatus struct {
	OK               bool   `json:"ok"`
	CategoriesLoaded *int   `json:"categories_loaded,omitempty"`
	Version          int64  `json:"version,omitempty"`
	Source           string `json:"source,omitempty"`
	LastReload       string `json:"last_reload,omitempty"`
	Backend          string `json:"backend,omitempty"`
	Impact           string `json:"impact,omitempty"`
	Error            string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoriesCount := d.MemoryIndex.CategoryCount()
		lastReload := d.MemoryIndex.GetLastReload()
		lastReloadStr := "never"
		if !lastReload.IsZero() {
			lastReloadStr = lastReload.Format("2006-01-02 15:04:05")
		}

		catalogStatus := componentStatus{
			OK:               categoriesCount > 0,
			CategoriesLoaded: &categoriesCount,
			LastReload:       lastReloadStr,
		}
		if snapshot := d.MemoryIndex.Current(); snapshot != nil {
			catalogStatus.Version = snapshot.Version
			catalogStatus.Source = snapshot.Source
		}

		components := map[string]componentStatus{
			"catalog": catalogStatus,
			"redis":   checkRedis(r.Context(), d),
			"clicks":  checkClickStore(r.Context(), d),
		}

		writeJSON(w, d, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

func determineMode(components map[string]componentStatus) string {
	// No catalog = nothing to serve
	if cat, exists := components["catalog"]; exists {
		if !cat.OK || (cat.CategoriesLoaded != nil && *cat.CategoriesLoaded == 0) {
			return "critical"
		}
	}

	// Storage down = clicks and edits are not durable
	for _, name := range []string{"redis", "clicks"} {
		if c, exists := components[name]; exists && !c.OK {
			return "degraded"
		}
	}

	return "operational"
}

func checkRedis(ctx context.Context, d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{
			OK:     false,
			Impact: "catalog-history-disabled",
			Error:  "client not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Impact: "catalog-history-disabled",
			Error:  "timeout",
		}
	}

	return componentStatus{OK: true}
}

func checkClickStore(ctx context.Context, d deps.Deps) componentStatus {
	if d.ClickStore == nil {
		return componentStatus{
			OK:      true,
			Backend: "memory",
			Impact:  "clicks-not-durable",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.ClickStore.Ping(ctx); err != nil {
		return componentStatus{
			OK:      false,
			Backend: d.ClickStore.Name(),
			Impact:  "clicks-memory-only",
			Error:   err.Error(),
		}
	}

	return componentStatus{OK: true, Backend: d.ClickStore.Name()}
}
