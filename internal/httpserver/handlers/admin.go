package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/oneshop/internal/catalog"
	"github.com/MrSnakeDoc/oneshop/internal/domain"
	"github.com/MrSnakeDoc/oneshop/internal/httpserver/deps"
	"github.com/MrSnakeDoc/oneshop/internal/logger"
	redisstore "github.com/MrSnakeDoc/oneshop/internal/store/redis"
)

const maxCategoryBody = 256 << 10

type editResponse struct {
	Version  int64               `json:"version"`
	Category *domain.CategoryDoc `json:"category,omitempty"`
}

type versionsResponse struct {
	Current  int64                    `json:"current"`
	Versions []redisstore.VersionInfo `json:"versions"`
}

// UpsertCategory creates or replaces one category
func UpsertCategory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := pathParam(r, "name")

		var doc domain.CategoryDoc
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCategoryBody)).Decode(&doc); err != nil {
			writeError(w, d, http.StatusBadRequest, "malformed category")
			return
		}
		if doc.Name == "" {
			doc.Name = name
		}
		if doc.Name != name {
			writeError(w, d, http.StatusBadRequest, "category name does not match path")
			return
		}

		cat, err := domain.FromDoc(doc)
		if err != nil {
			writeError(w, d, http.StatusBadRequest, err.Error())
			return
		}

		snapshot, err := d.Catalog.UpsertCategory(r.Context(), cat)
		if err != nil {
			writeEditError(w, d, err)
			return
		}

		d.Logger.Info("category upserted",
			logger.String("category", name),
			logger.Int64("version", snapshot.Version))

		out := domain.ToDoc(cat)
		writeJSON(w, d, http.StatusOK, editResponse{Version: snapshot.Version, Category: &out})
	}
}

// DeleteCategory removes one category
func DeleteCategory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := pathParam(r, "name")

		snapshot, err := d.Catalog.RemoveCategory(r.Context(), name)
		if err != nil {
			writeEditError(w, d, err)
			return
		}

		d.Logger.Info("category removed",
			logger.String("category", name),
			logger.Int64("version", snapshot.Version))

		writeJSON(w, d, http.StatusOK, editResponse{Version: snapshot.Version})
	}
}

// Versions lists the catalog snapshot history
func Versions(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		versions, err := d.Catalog.Versions(r.Context())
		if errors.Is(err, catalog.ErrNoHistory) {
			writeError(w, d, http.StatusNotFound, err.Error())
			return
		}
		if err != nil {
			d.Logger.Error("failed to list catalog versions", logger.Error(err))
			writeError(w, d, http.StatusInternalServerError, "failed to list versions")
			return
		}

		var current int64
		if cur := d.MemoryIndex.Current(); cur != nil {
			current = cur.Version
		}
		if versions == nil {
			versions = []redisstore.VersionInfo{}
		}

		writeJSON(w, d, http.StatusOK, versionsResponse{Current: current, Versions: versions})
	}
}

func writeEditError(w http.ResponseWriter, d deps.Deps, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidCatalog):
		writeError(w, d, http.StatusBadRequest, err.Error())
	case errors.Is(err, catalog.ErrCategoryNotFound):
		writeError(w, d, http.StatusNotFound, err.Error())
	case errors.Is(err, catalog.ErrNotLoaded):
		writeError(w, d, http.StatusServiceUnavailable, err.Error())
	default:
		d.Logger.Error("catalog edit failed", logger.Error(err))
		writeError(w, d, http.StatusInternalServerError, "catalog edit failed")
	}
}
