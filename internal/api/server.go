// Package api provides the HTTP API server and handlers for the Shelfmark application.
package api

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/shelfmarkapp/shelfmark-server/internal/config"
	"github.com/shelfmarkapp/shelfmark-server/internal/http/response"
	"github.com/shelfmarkapp/shelfmark-server/internal/logger"
	"github.com/shelfmarkapp/shelfmark-server/internal/service"
	"github.com/shelfmarkapp/shelfmark-server/internal/store"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store       *store.Store
	authService *service.AuthService
	bookService *service.BookService
	router      *chi.Mux
	api         huma.API
	logger      *logger.Logger

	secureCookies bool
	accessTTL     time.Duration
	refreshTTL    time.Duration

	loginLimiter    *RateLimiter
	registerLimiter *RateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(cfg *config.Config, st *store.Store, authService *service.AuthService, bookService *service.BookService, log *logger.Logger) *Server {
	s := &Server{
		store:           st,
		authService:     authService,
		bookService:     bookService,
		router:          chi.NewRouter(),
		logger:          log,
		secureCookies:   cfg.IsProduction(),
		accessTTL:       cfg.Auth.AccessTokenDuration,
		refreshTTL:      cfg.Auth.RefreshTokenDuration,
		loginLimiter:    NewRateLimiter(5, time.Minute, 5),
		registerLimiter: NewRateLimiter(2, time.Minute, 2),
	}

	s.setupMiddleware(cfg)

	humaConfig := huma.DefaultConfig("Shelfmark API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"session": {
			Type: "apiKey",
			In:   "cookie",
			Name: accessTokenCookie,
		},
	}
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.router.Get("/health", s.handleHealthCheck)
	s.registerAuthRoutes()
	s.registerBookRoutes()
	s.registerUserRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware(cfg *config.Config) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.App.ClientURL},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s.router.Use(s.rateLimitAuthRoutes)
	s.router.Use(authMiddleware(s.authService))
}

// Stop releases resources held by the server's rate limiters.
func (s *Server) Stop() {
	s.loginLimiter.Stop()
	s.registerLimiter.Stop()
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger.Logger)
}
