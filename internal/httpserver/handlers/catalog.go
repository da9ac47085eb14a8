package handlers

import (
	"net/http"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/oneshop/internal/domain"
	"github.com/MrSnakeDoc/oneshop/internal/httpserver/deps"
	"github.com/MrSnakeDoc/oneshop/internal/logger"
	"github.com/MrSnakeDoc/oneshop/internal/sources/catalogfile"
)

// Catalog serves the current snapshot as home screen tiles
func Catalog(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := d.MemoryIndex.Current()
		if snapshot == nil {
			writeError(w, d, http.StatusServiceUnavailable, "catalog not loaded")
			return
		}

		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("ETag", etag(snapshot))
		if match := r.Header.Get("If-None-Match"); match != "" && match == etag(snapshot) {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		writeJSON(w, d, http.StatusOK, domain.ToCatalogDoc(snapshot))
	}
}

// CatalogYAML exports the current snapshot in the catalog file format
func CatalogYAML(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := d.MemoryIndex.Current()
		if snapshot == nil {
			writeError(w, d, http.StatusServiceUnavailable, "catalog not loaded")
			return
		}

		out, err := yaml.Marshal(catalogfile.ToFile(snapshot.Categories))
		if err != nil {
			d.Logger.Error("failed to encode catalog as yaml", logger.Error(err))
			writeError(w, d, http.StatusInternalServerError, "failed to encode catalog")
			return
		}

		w.Header().Set("Content-Type", "application/yaml")
		w.Header().Set("Content-Disposition", `attachment; filename="catalog.yaml"`)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(out); err != nil {
			d.Logger.Debug("failed to write response", logger.Error(err))
		}
	}
}

// etag identifies a snapshot across restarts.
// Versions alone repeat when they are allocated locally, so the build time is included.
func etag(snapshot *domain.Catalog) string {
	return `"v` + strconv.FormatInt(snapshot.Version, 10) +
		"-" + strconv.FormatInt(snapshot.UpdatedAt.UnixNano(), 36) + `"`
}
