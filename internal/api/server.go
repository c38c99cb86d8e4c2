// Package api provides the HTTP API server and handlers for the Diya book server.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/diyabooks/diya-server/internal/service"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	authService   *service.AuthService
	bookService   *service.BookService
	searchService *service.SearchService
	router        *chi.Mux
	logger        *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	authService *service.AuthService,
	bookService *service.BookService,
	searchService *service.SearchService,
	logger *slog.Logger,
) *Server {
	s := &Server{
		authService:   authService,
		bookService:   bookService,
		searchService: searchService,
		router:        chi.NewRouter(),
		logger:        logger,
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
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// Cover placeholder for books without an ingested file.
	s.router.Get("/static/img/cover.jpg", s.handlePlaceholderCover)

	// Content-addressed artifacts. Covers are public so pages can embed
	// them; archives require a login.
	s.router.Get("/books/cover/{artifact}", s.handleGetCover)
	s.router.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/books/file/{artifact}", s.handleGetArchive)
	})

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		// Auth endpoints (public).
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
			r.With(s.requireAuth).Post("/logout", s.handleLogout)
		})

		// Account endpoints.
		r.Route("/users", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/me", s.handleGetCurrentUser)
			r.Delete("/me", s.handleDeleteCurrentUser)
			r.With(s.requireAdmin).Patch("/{id}/access", s.handleSetAccessLevel)
		})

		// Books. Reading needs a login; mutations need admin.
		r.Route("/books", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleListBooks)
			r.Get("/{id}", s.handleGetBook)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAdmin)
				r.Post("/", s.handleCreateBook)
				r.Patch("/{id}", s.handleUpdateBook)
				r.Delete("/{id}", s.handleDeleteBook)
				r.Post("/{id}/file", s.handleUploadBookFile)
			})
		})

		// Search and catalogue listing.
		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/search", s.handleSearch)
			r.Get("/catalogues", s.handleListCatalogues)
		})
	})
}
