package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/oneshop/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready          bool  `json:"ready"`
	CatalogVersion int64 `json:"catalog_version,omitempty"`
}

// Readyz reports ready once a catalog snapshot has been published
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := d.MemoryIndex.Current()
		if snapshot == nil {
			writeJSON(w, d, http.StatusServiceUnavailable, readyzResponse{Ready: false})
			return
		}

		writeJSON(w, d, http.StatusOK, readyzResponse{
			Ready:          true,
			CatalogVersion: snapshot.Version,
		})
	}
}
