package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/oneshop/internal/domain"
	"github.com/MrSnakeDoc/oneshop/internal/httpserver/deps"
	"github.com/MrSnakeDoc/oneshop/internal/logger"
)

type searchResponse struct {
	Query   string                  `json:"query"`
	Count   int                     `json:"count"`
	Results []domain.FlattenedEntry `json:"results"`
}

// Search filters the flattened catalog by brand or category name.
// A blank query returns no results.
func Search(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		results := d.MemoryIndex.Search(query)

		d.Logger.Debug("search request",
			logger.String("query", query),
			logger.Int("results", len(results)))

		writeJSON(w, d, http.StatusOK, searchResponse{
			Query:   domain.NormalizeQuery(query),
			Count:   len(results),
			Results: results,
		})
	}
}
