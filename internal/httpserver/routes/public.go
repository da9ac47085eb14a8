package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/oneshop/internal/httpserver/deps"
	"github.com/MrSnakeDoc/oneshop/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/oneshop/internal/httpserver/mw"
)

func init() { Register(registerPublic) }

// registerPublic mounts the endpoints used by the home screen
func registerPublic(r chi.Router, d deps.Deps) {
	r.Get("/api/search", handlers.Search(d))
	r.Get("/api/catalog", handlers.Catalog(d))
	r.Get("/api/popularity", handlers.Popularity(d))
	r.Get("/go/{category}/{brand}", handlers.Go(d))

	r.With(mw.RateLimit(mw.RateLimitConfig{
		Burst:      d.ClickRateBurst,
		PerMinute:  d.ClickRatePerMin,
		MaxClients: 10000,
		TrustProxy: d.TrustProxy,
		Logger:     d.Logger,
	})).Post("/api/clicks", handlers.RecordClick(d))
}
