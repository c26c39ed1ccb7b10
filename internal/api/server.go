// Package api provides the HTTP API server and handlers for the AgentDeck directory.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/agentdeck/agentdeck-server/internal/http/response"
	"github.com/agentdeck/agentdeck-server/internal/ratelimit"
	"github.com/agentdeck/agentdeck-server/internal/service"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	directory  *service.DirectoryService
	moderation *service.ModerationService
	engagement *service.EngagementService
	metrics    *service.MetricsService
	newsletter *service.NewsletterService
	admin      *service.AdminService
	auth       *service.AuthService

	limiter        *ratelimit.KeyedRateLimiter
	allowedOrigins []string
	router         *chi.Mux
	logger         *slog.Logger
}

// Options bundles the server's dependencies.
type Options struct {
	Directory  *service.DirectoryService
	Moderation *service.ModerationService
	Engagement *service.EngagementService
	Metrics    *service.MetricsService
	Newsletter *service.NewsletterService
	Admin      *service.AdminService
	Auth       *service.AuthService

	Limiter        *ratelimit.KeyedRateLimiter
	AllowedOrigins []string
	Logger         *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(opts Options) *Server {
	s := &Server{
		directory:      opts.Directory,
		moderation:     opts.Moderation,
		engagement:     opts.Engagement,
		metrics:        opts.Metrics,
		newsletter:     opts.Newsletter,
		admin:          opts.Admin,
		auth:           opts.Auth,
		limiter:        opts.Limiter,
		allowedOrigins: opts.AllowedOrigins,
		router:         chi.NewRouter(),
		logger:         opts.Logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	// Bearer tokens are optional on most routes; the middleware attaches
	// identity when present and leaves guests anonymous.
	s.router.Use(s.withIdentity)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		// Auth endpoints (public, rate limited).
		r.Route("/auth", func(r chi.Router) {
			r.Use(s.rateLimit)
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
			r.Post("/refresh", s.handleRefresh)
			r.Post("/logout", s.handleLogout)
		})
		r.With(s.requireAuth).Get("/auth/me", s.handleMe)

		// Directory listings (public).
		r.Route("/agents", func(r chi.Router) {
			r.Get("/", s.handleListAgents)
			r.Get("/{id}", s.handleGetAgent)
			r.With(s.requireAdmin).Patch("/{id}", s.handlePatchAgent)
			r.With(s.requireAdmin).Delete("/{id}", s.handleDeleteAgent)

			r.Get("/{id}/reviews", s.handleListReviews)
			r.With(s.rateLimit).Post("/{id}/reviews", s.handleAddReview)
			r.Get("/{id}/comments", s.handleListComments)
			r.With(s.rateLimit).Post("/{id}/comments", s.handleAddComment)
			r.Get("/{id}/upvote", s.handleUpvoteStatus)
			r.With(s.requireAuth).Post("/{id}/upvote", s.handleUpvote)
			r.With(s.requireAuth).Delete("/{id}/upvote", s.handleRemoveUpvote)
		})

		r.Get("/categories", s.handleListCategories)
		r.Get("/tags", s.handleListTags)

		// Anonymous intake (rate limited) and the public queue view.
		r.With(s.rateLimit).Post("/submissions", s.handleCreateSubmission)
		r.Get("/submissions", s.handleListPublicSubmissions)

		// Engagement counters (public, rate limited).
		r.Route("/metrics", func(r chi.Router) {
			r.Use(s.rateLimit)
			r.Post("/visit", s.handleRecordVisit)
			r.Post("/share", s.handleRecordShare)
		})

		// Newsletter signups (public, rate limited).
		r.With(s.rateLimit).Post("/subscribers", s.handleSubscribe)

		// Per-user collections.
		r.Route("/bookmarks", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleListBookmarks)
			r.Post("/", s.handleAddBookmark)
			r.Delete("/{id}", s.handleRemoveBookmark)
		})

		// Moderation and dashboard surface.
		r.Route("/admin", func(r chi.Router) {
			r.Get("/check", s.handleAdminCheck)
			r.Group(func(r chi.Router) {
				r.Use(s.requireAdmin)
				r.Get("/stats", s.handleGetStats)
				r.Get("/users", s.handleListUsers)
				r.Get("/submissions", s.handleListSubmissions)
				r.Get("/submissions/{id}", s.handleGetSubmission)
				r.Put("/submissions/{id}", s.handleReviewSubmission)
			})
		})
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}
