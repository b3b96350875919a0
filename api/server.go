/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for dashboards

ROUTE GROUPS:
  /api/employees/*      Employee management
  /api/events/*         Event ingestion
  /api/performance/*    Ranking reads
  /api/awards/*         Award preview, grant, history
  /api/scenarios/*      Demo scenario loading
  /api/suggestions/*    Suggestion generation and decisions
  /metrics              Prometheus scrape endpoint

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
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

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.UpsertEmployee)
			r.Get("/{id}", h.GetEmployee)
		})

		// Event ingestion routes
		r.Route("/events", func(r chi.Router) {
			r.Post("/orders", h.RecordOrder)
			r.Post("/voids", h.RecordVoid)
			r.Post("/discounts", h.RecordDiscount)
			r.Post("/anomalies", h.RecordAnomaly)
			r.Post("/attendance", h.RecordAttendance)
			r.Post("/shifts", h.RecordShift)
			r.Post("/risk-flags", h.RecordRiskFlag)
		})

		// Performance read routes
		r.Route("/performance", func(r chi.Router) {
			r.Get("/metrics", h.GetMetrics)
			r.Get("/ranking", h.GetRanking)
			r.Get("/top", h.GetTopStaff)
			r.Get("/risk-staff", h.GetRiskStaff)
		})

		// Award routes
		r.Route("/awards", func(r chi.Router) {
			r.Get("/", h.ListAwards)
			r.Post("/", h.GrantAward)
			r.Get("/preview", h.PreviewAward)
		})

		// Demo scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})

		// Suggestion routes
		r.Route("/suggestions", func(r chi.Router) {
			r.Get("/", h.ListSuggestions)
			r.Get("/preview", h.PreviewSuggestions)
			r.Post("/generate", h.GenerateSuggestions)
			r.Get("/{id}", h.GetSuggestion)
			r.Put("/{id}/status", h.UpdateSuggestionStatus)
		})
	})

	// Prometheus scrape endpoint
	r.Handle("/metrics", promhttp.Handler())

	return r
}
