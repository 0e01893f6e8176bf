/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the frontend

SECURITY NOTE:
  No authentication middleware. Session identity and login belong to
  the surrounding platform, not this engine.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		// Work order / receivables flow
		r.Route("/work-orders", func(r chi.Router) {
			r.Get("/", h.ListWorkOrders)
			r.Post("/", h.CreateWorkOrder)
			r.Get("/{id}", h.GetWorkOrder)
			r.Post("/{id}/financial/preview", h.PreviewFinancial)
			r.Post("/{id}/financial", h.GenerateFinancial)
		})

		r.Get("/movements/{id}", h.GetMovement)

		r.Route("/receivables", func(r chi.Router) {
			r.Get("/", h.ListReceivables)
			r.Post("/{id}/settle", h.SettleReceivable)
			r.Post("/{id}/cancel", h.CancelReceivable)
		})

		// Payment condition catalog
		r.Route("/conditions", func(r chi.Router) {
			r.Get("/", h.ListConditions)
			r.Post("/", h.CreateCondition)
		})

		// Payroll advance flow
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
		})
		r.Route("/advances", func(r chi.Router) {
			r.Post("/preview", h.PreviewAdvances)
			r.Post("/", h.CreateAdvances)
		})

		// Reports
		r.Route("/reports", func(r chi.Router) {
			r.Get("/latest", h.LatestReport)
			r.Post("/run", h.RunReport)
		})

		// Presets
		r.Route("/presets", func(r chi.Router) {
			r.Get("/", h.GetPresets)
			r.Put("/", h.PutPresets)
		})

		// Demo scenarios and reset (dev only)
		r.Get("/scenarios", h.ListScenarios)
		r.Post("/scenarios/load", h.LoadScenario)
		r.Post("/reset", h.Reset)
	})

	return r
}
