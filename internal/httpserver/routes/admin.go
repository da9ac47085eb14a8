package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/oneshop/internal/httpserver/deps"
	"github.com/MrSnakeDoc/oneshop/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/oneshop/internal/httpserver/mw"
)

func init() { Register(registerAdmin) }

func registerAdmin(r chi.Router, d deps.Deps) {
	r.Group(func(r chi.Router) {
		r.Use(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger), mw.EnforceHost(d.AllowedHosts, d.Logger))

		r.Post("/reload", handlers.Reload(d))
		r.Route("/api/admin", func(r chi.Router) {
			r.Put("/categories/{name}", handlers.UpsertCategory(d))
			r.Delete("/categories/{name}", handlers.DeleteCategory(d))
			r.Get("/versions", handlers.Versions(d))
			r.Get("/links/health", handlers.LinksHealth(d))
			r.Get("/catalog.yaml", handlers.CatalogYAML(d))
		})
	})
}
