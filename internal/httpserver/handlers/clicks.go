package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/oneshop/internal/domain"
	"github.com/MrSnakeDoc/oneshop/internal/httpserver/deps"
)

const maxClickBody = 4 << 10

type clickRequest struct {
	Category string `json:"category"`
	Brand    string `json:"brand"`
}

type popularityResponse struct {
	Total   int64                    `json:"total"`
	Entries []domain.PopularityEntry `json:"entries"`
}

// RecordClick accepts a click event from the home screen.
// Storage failures are never reported to the caller.
func RecordClick(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req clickRequest
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxClickBody))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, d, http.StatusBadRequest, "malformed click event")
			return
		}
		if strings.TrimSpace(req.Category) == "" || strings.TrimSpace(req.Brand) == "" {
			writeError(w, d, http.StatusBadRequest, "category and brand are required")
			return
		}

		d.Tracker.Track(req.Category, req.Brand)
		w.WriteHeader(http.StatusAccepted)
	}
}

// Popularity reports each tracked link's share of all clicks
func Popularity(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts := d.Tracker.Counts(r.Context())

		var total int64
		for _, n := range counts {
			if n > 0 {
				total += n
			}
		}

		writeJSON(w, d, http.StatusOK, popularityResponse{
			Total:   total,
			Entries: domain.Popularity(counts, d.MemoryIndex.Current()),
		})
	}
}
