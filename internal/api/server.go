// Package api provides the HTTP API server and handlers for the bookshelf catalog.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/listenupapp/bookshelf/internal/config"
	"github.com/listenupapp/bookshelf/internal/ratelimit"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	services *Services
	router   *chi.Mux
	api      huma.API
	limiter  *ratelimit.KeyedRateLimiter // nil when rate limiting is off
	logger   *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(cfg *config.Config, services *Services, logger *slog.Logger) *Server {
	s := &Server{
		services: services,
		router:   chi.NewRouter(),
		logger:   logger,
	}

	if cfg.RateLimit.PerMinute > 0 {
		s.limiter = ratelimit.PerMinute(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst)
	}

	s.setupMiddleware(cfg.Server.CORSOrigins)

	humaConfig := huma.DefaultConfig(cfg.Server.Name+" API", cfg.App.Version)
	// No schema link transformer: bodies are wrapped before they are written.
	humaConfig.CreateHooks = nil
	humaConfig.Transformers = []huma.Transformer{EnvelopeTransformer}

	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.registerRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mainly for tests and OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

// Close releases background resources.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware(corsOrigins []string) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"Content-Disposition", "X-Request-ID"},
		MaxAge:         300,
	}))
	s.router.Use(middleware.Compress(5))

	if s.limiter != nil {
		s.router.Use(RateLimitMiddleware(s.limiter, s.logger))
	}
}

// registerRoutes registers every huma operation.
func (s *Server) registerRoutes() {
	s.registerHealthRoutes()
	s.registerBookRoutes()
	s.registerTagRoutes()
	if s.services.Search != nil {
		s.registerSearchRoutes()
	}
	s.registerBackupRoutes()
}
