package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/oneshop/internal/httpserver/deps"
	"github.com/MrSnakeDoc/oneshop/internal/logger"
)

// Go redirects to a brand's URL and records the click.
// The redirect is written before tracking so storage never delays it.
func Go(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := pathParam(r, "category")
		brand := pathParam(r, "brand")

		target, ok := d.MemoryIndex.Resolve(category, brand)
		if !ok {
			d.Logger.Info("unknown brand",
				logger.String("category", category),
				logger.String("brand", brand))
			writeError(w, d, http.StatusNotFound, "unknown brand")
			return
		}

		http.Redirect(w, r, target, http.StatusFound)
		d.Tracker.Track(category, brand)
	}
}
