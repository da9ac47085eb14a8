package handlers

import (
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/MrSnakeDoc/oneshop/internal/domain"
	"github.com/MrSnakeDoc/oneshop/internal/httpserver/deps"
	"github.com/MrSnakeDoc/oneshop/internal/logger"
)

type linkHealth struct {
	BrandName    string `json:"brandName"`
	CategoryName string `json:"categoryName"`
	URL          string `json:"url"`
	Status       int    `json:"status,omitempty"`
	OK           bool   `json:"ok"`
	Error        string `json:"error,omitempty"`
}

type linksHealthResponse struct {
	Checked int          `json:"checked"`
	Failing int          `json:"failing"`
	Links   []linkHealth `json:"links"`
}

// LinksHealth probes every flattened link concurrently
func LinksHealth(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries := d.MemoryIndex.Flatten()
		results := make([]linkHealth, len(entries))

		g, ctx := errgroup.WithContext(r.Context())
		if d.ProbeConcurrency > 0 {
			g.SetLimit(d.ProbeConcurrency)
		}

		for i, e := range entries {
			i, e := i, e
			g.Go(func() error {
				res := linkHealth{BrandName: e.BrandName, CategoryName: e.CategoryName, URL: e.URL}
				status, err := domain.ProbeLink(ctx, e.URL, d.ProbeTimeout)
				res.Status = status
				if err != nil {
					res.Error = err.Error()
				} else {
					res.OK = status < http.StatusInternalServerError
				}
				results[i] = res
				return nil
			})
		}
		_ = g.Wait()

		failing := 0
		for _, res := range results {
			if !res.OK {
				failing++
			}
		}
		if failing > 0 {
			d.Logger.Warn("link health check found failing links",
				logger.Int("failing", failing),
				logger.Int("checked", len(results)))
		}

		writeJSON(w, d, http.StatusOK, linksHealthResponse{
			Checked: len(results),
			Failing: failing,
			Links:   results,
		})
	}
}
