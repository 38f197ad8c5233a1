package api

import (
	"encoding/json"
	"net/http"

	"buildmart-gateway/internal/category"
	"buildmart-gateway/internal/logger"
	"buildmart-gateway/internal/metrics"
	"buildmart-gateway/internal/middleware"
	"buildmart-gateway/internal/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Options configures the HTTP surface.
type Options struct {
	AllowedOrigins []string
	JWTSecret      string
	// Limiter is optional; nil disables rate limiting.
	Limiter *middleware.RateLimiter
	// UpstreamStats backs /debug/upstream, which only internal callers may read.
	UpstreamStats func() metrics.UpstreamSnapshot
}

// Server holds the HTTP server dependencies
type Server struct {
	categories category.Service
	opts       Options
	router     chi.Router
}

// New creates a new API server
func New(categories category.Service, opts Options) *Server {
	s := &Server{
		categories: categories,
		opts:       opts,
		router:     chi.NewRouter(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimw.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization", "X-Request-ID", "X-Device-ID", "X-Client-Type"},
		ExposedHeaders:   []string{logger.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	s.router.Use(logger.RequestIDMiddleware)
	s.router.Use(middleware.AuthMiddleware(s.opts.JWTSecret))
	s.router.Use(middleware.LoggingMiddleware)
	if s.opts.Limiter != nil {
		s.router.Use(s.opts.Limiter.Middleware)
	}
}

func (s *Server) setupRoutes() {
	s.router.Route("/api/categories", func(r chi.Router) {
		r.Get("/", s.handleListCategories)
		r.Post("/", s.handleCreateCategory)
		r.Get("/slug/{slug}", s.handleGetCategoryBySlug)
		r.Get("/{id}", s.handleGetCategory)
		r.Patch("/{id}", s.handleUpdateCategory)
		r.Delete("/{id}", s.handleDeleteCategory)
	})

	// Health check
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if s.opts.UpstreamStats != nil {
		s.router.Get("/debug/upstream", s.handleUpstreamStats)
	}
}

func (s *Server) handleUpstreamStats(w http.ResponseWriter, r *http.Request) {
	if !utils.IsInternalRequest(r.Context()) {
		utils.WriteJSONError(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}

	utils.NoStore(w)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"upstream": s.opts.UpstreamStats(),
	})
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondRaw(w http.ResponseWriter, status int, body json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
