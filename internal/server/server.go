// Package server wires the application together: database, services,
// handlers, middleware, and routes.
//
// WHY SEPARATE FROM main.go?
// The composition root lives here so tests can build a fully wired server
// (against an in-memory database) without running main. main.go shrinks to
// "load config, build server, start it".
//
// DEPENDENCY FLOW:
//
//	config.Config → sqlite.DB → stores → services → handlers → routes
//
// Each layer receives only what it needs: services get repository
// interfaces, handlers get services, and nothing below the handler layer
// ever sees an http.Request.
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

	"github.com/sakif/devconnect/internal/auth"
	"github.com/sakif/devconnect/internal/config"
	"github.com/sakif/devconnect/internal/handler"
	"github.com/sakif/devconnect/internal/middleware"
	sqliteRepo "github.com/sakif/devconnect/internal/repository/sqlite"
	"github.com/sakif/devconnect/internal/service"
)

// Server owns the router and the database connection. The connection is
// closed during graceful shutdown so the WAL is flushed and the file lock
// released.
type Server struct {
	router *chi.Mux
	cfg    config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the whole dependency chain and registers the routes.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating token service: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}
	s.setupRoutes(tokens)

	return s, nil
}

// setupRoutes registers middleware and the full route table.
//
// ROUTE TABLE:
//
//	POST   /users/register                      → create account
//	POST   /users/login                         → issue token
//	GET    /users/current                       → caller's record      (auth)
//	GET    /profile                             → own profile          (auth)
//	POST   /profile                             → create-or-update     (auth)
//	DELETE /profile                             → delete account       (auth)
//	GET    /profile/all                         → every profile
//	GET    /profile/handle/{handle}             → profile by handle
//	GET    /profile/user/{userId}               → profile by owner
//	POST   /profile/experience                  → add entry            (auth)
//	DELETE /profile/experience/{id}             → remove entry         (auth)
//	POST   /profile/education                   → add entry            (auth)
//	DELETE /profile/education/{id}              → remove entry         (auth)
//	GET    /posts                               → feed, newest first
//	GET    /posts/{id}                          → single post
//	POST   /posts                               → publish              (auth)
//	DELETE /posts/{id}                          → delete, owner only   (auth)
//	POST   /posts/like/{id}                     → like                 (auth)
//	POST   /posts/unlike/{id}                   → unlike               (auth)
//	POST   /posts/comment/{id}                  → comment              (auth)
//	DELETE /posts/comment/{postId}/{commentId}  → remove comment       (auth)
//
// MIDDLEWARE ORDER MATTERS: RequestID runs first so the logger can pick up
// the id, Recoverer sits before the routes so a panicking handler becomes
// a 500 instead of a dead process.
func (s *Server) setupRoutes(tokens *auth.TokenService) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	users := sqliteRepo.NewUserStore(s.db)
	profiles := sqliteRepo.NewProfileStore(s.db)
	posts := sqliteRepo.NewPostStore(s.db)

	passwords := auth.NewPasswordService(s.cfg.BcryptCost)

	authService := service.NewAuthService(users, tokens, passwords, s.logger)
	profileService := service.NewProfileService(profiles, s.logger)
	postService := service.NewPostService(posts, s.logger)

	userHandler := handler.NewUserHandler(authService, s.logger)
	profileHandler := handler.NewProfileHandler(profileService, s.logger)
	postHandler := handler.NewPostHandler(postService, s.logger)

	requireAuth := auth.RequireAuth(tokens)

	s.router.Route("/users", func(r chi.Router) {
		r.Post("/register", userHandler.HandleRegister)
		r.Post("/login", userHandler.HandleLogin)
		r.With(requireAuth).Get("/current", userHandler.HandleCurrent)
	})

	s.router.Route("/profile", func(r chi.Router) {
		r.Get("/all", profileHandler.HandleListAll)
		r.Get("/handle/{handle}", profileHandler.HandleGetByHandle)
		r.Get("/user/{userId}", profileHandler.HandleGetByUserID)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", profileHandler.HandleGetOwn)
			r.Post("/", profileHandler.HandleUpsert)
			r.Delete("/", profileHandler.HandleDelete)
			r.Post("/experience", profileHandler.HandleAddExperience)
			r.Delete("/experience/{id}", profileHandler.HandleRemoveExperience)
			r.Post("/education", profileHandler.HandleAddEducation)
			r.Delete("/education/{id}", profileHandler.HandleRemoveEducation)
		})
	})

	s.router.Route("/posts", func(r chi.Router) {
		r.Get("/", postHandler.HandleList)
		r.Get("/{id}", postHandler.HandleGet)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", postHandler.HandleCreate)
			r.Delete("/{id}", postHandler.HandleDelete)
			r.Post("/like/{id}", postHandler.HandleLike)
			r.Post("/unlike/{id}", postHandler.HandleUnlike)
			r.Post("/comment/{id}", postHandler.HandleAddComment)
			r.Delete("/comment/{postId}/{commentId}", postHandler.HandleRemoveComment)
		})
	})
}

// Handler exposes the router, mainly for httptest servers in tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database connection. Start does this itself; Close is
// for callers that never reach Start (tests, failed startups).
func (s *Server) Close() error {
	return s.db.Close()
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
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
			slog.Int("port", s.cfg.Port),
			slog.String("database", s.cfg.DBPath),
			slog.String("env", s.cfg.Env),
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
