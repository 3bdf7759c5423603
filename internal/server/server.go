// Package server wires handlers, middleware and routes, and owns the HTTP
// server lifecycle. This is the composition root: every dependency in the
// chain (DB → repositories → services → handlers) is assembled in New, and
// nothing else in the codebase constructs its own collaborators.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/fantasy-forward/internal/auth"
	"github.com/sakif/fantasy-forward/internal/config"
	"github.com/sakif/fantasy-forward/internal/handler"
	"github.com/sakif/fantasy-forward/internal/middleware"
	sqliteRepo "github.com/sakif/fantasy-forward/internal/repository/sqlite"
	"github.com/sakif/fantasy-forward/internal/service"
)

// Name and Version identify the service in the root endpoint.
const (
	Name    = "Fantasy Forward API"
	Version = "1.0.0"
)

// Server holds the router and the resources it must release on shutdown.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB // owned by the server, closed on shutdown
}

// New assembles the full dependency graph and registers all routes.
//
// Auth mechanisms are wired from configuration: an empty JWT_SECRET
// disables the legacy register/login path, an empty AUTH_PROVIDER_URL
// disables provider verification. At least one must be configured or no
// request could ever authenticate.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes builds the middleware chain and the route table.
//
// Route structure:
//
//	GET  /                        → service name/version
//	GET  /health                  → health check
//	POST /api/v1/auth/register    → create local account, issue token
//	POST /api/v1/auth/login       → verify credentials, issue token
//	GET  /api/v1/auth/me          → authenticated user's profile   (protected)
//	GET  /api/v1/squads/          → caller's squad or null         (protected)
//	POST /api/v1/squads/          → create-or-overwrite squad      (protected)
//	PUT  /api/v1/squads/{id}      → partial update by ID           (protected)
//	GET  /api/v1/suggestions/     → caller's transfer suggestions  (protected)
//	POST /api/v1/suggestions/     → store a suggestion             (protected)
func (s *Server) setupRoutes() error {
	// === Auth components ===
	var tokens *auth.TokenService
	if s.config.JWTSecret != "" {
		var err error
		tokens, err = auth.NewTokenService(s.config.JWTSecret, s.config.TokenExpiry)
		if err != nil {
			return fmt.Errorf("creating token service: %w", err)
		}
	}

	var verifier auth.Verifier
	if s.config.AuthProviderURL != "" {
		verifier = auth.NewProviderVerifier(s.config.AuthProviderURL, s.config.AuthProviderKey)
	}

	if tokens == nil && verifier == nil {
		return fmt.Errorf("no authentication mechanism configured: set JWT_SECRET and/or AUTH_PROVIDER_URL")
	}

	// === Services ===
	authService := service.NewAuthService(s.db, tokens, auth.NewPasswordService(), verifier, s.logger)
	squadService := service.NewSquadService(s.db, s.logger)
	suggestionService := service.NewSuggestionService(s.db, s.logger)

	// === Handlers ===
	authHandler := handler.NewAuthHandler(authService, s.logger)
	squadHandler := handler.NewSquadHandler(squadService, s.logger)
	suggestionHandler := handler.NewSuggestionHandler(suggestionService, s.logger)

	// === Global middleware ===
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	if len(s.config.AllowedOrigins) > 0 {
		s.router.Use(middleware.CORS(s.config.AllowedOrigins))
	}

	// === Public routes ===
	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"message":%q,"version":%q}`+"\n", Name, Version)
	})
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy"}` + "\n"))
	})

	// === API v1 ===
	// authService is the single Authenticator for every protected route;
	// local and provider tokens both resolve through it.
	requireAuth := auth.RequireAuth(authService)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/login", authHandler.HandleLogin)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/auth/me", authHandler.HandleMe)

			r.Get("/squads/", squadHandler.HandleGet)
			r.Post("/squads/", squadHandler.HandleSave)
			r.Put("/squads/{id}", squadHandler.HandleUpdate)

			r.Get("/suggestions/", suggestionHandler.HandleList)
			r.Post("/suggestions/", suggestionHandler.HandleCreate)
		})
	})

	return nil
}

// Router exposes the configured router; used by httptest-based tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server and blocks until shutdown.
//
// On SIGINT/SIGTERM: stop accepting connections, give in-flight requests
// 30 seconds to finish, then close the database (flushes the WAL and
// releases the file lock).
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
