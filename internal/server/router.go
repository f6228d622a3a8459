package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Routes builds the chi router with global middleware.
func (s *Server) Routes() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(requestLogger(s.logger, s.deps.Metrics))

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	router.Get("/health", s.handleHealth)
	if s.deps.MetricsHandler != nil {
		router.Method(http.MethodGet, "/metrics", s.deps.MetricsHandler)
	}

	router.Route("/api", func(r chi.Router) {
		r.Get("/tools", s.handleListTools)
		r.Get("/tools/{id}", s.handleGetTool)
		r.Get("/categories", s.handleCategories)
		r.Get("/stats", s.handleStats)
		r.Get("/favorites", s.handleFavorites)
		r.Post("/favorites/{id}/toggle", s.handleToggleFavorite)
		r.Post("/sync", s.handleSync)
		r.Post("/chat", s.handleChat)
		r.Get("/concierge", s.handleConciergeStatus)
		r.Post("/concierge/reset", s.handleConciergeReset)
	})

	router.Get("/ws/chat", s.handleChatSocket)

	return router
}
