package main

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/leoyin88/user-api/internal/config"
	"github.com/leoyin88/user-api/internal/handlers"
	"github.com/leoyin88/user-api/internal/middleware"
	"github.com/leoyin88/user-api/internal/repo"
)

// newRouter wires the route table: middleware chain, health endpoints, and
// the user CRUD surface under /api/users. Mutating routes get the
// bearer-presence pre-handler.
func newRouter(db *sql.DB, cfg config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Prometheus)
	r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))
	r.Use(middleware.SecurityHeaders(false))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			MaxAge:         86400,
		}))
	}

	userRepo := repo.NewUserRepo(db)
	userH := &handlers.UserHandler{Repo: userRepo}
	authH := &handlers.AuthHandler{
		Repo:        userRepo,
		Secret:      []byte(cfg.JWTSecret),
		ExpireHours: cfg.JWTExpireHours,
	}

	r.Get("/health", handlers.Health)
	r.Get("/ready", handlers.Ready(db))
	r.Handle("/metrics", promhttp.Handler())

	loginLimiter := middleware.LoginRateLimiter()

	r.Route("/api", func(r chi.Router) {
		r.With(loginLimiter.Middleware).Post("/auth/login", authH.Login)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", userH.ListUsers)
			r.Get("/{id}", userH.GetUser)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireToken)
				r.Post("/", userH.CreateUser)
				r.Put("/{id}", userH.UpdateUser)
				r.Delete("/{id}", userH.DeleteUser)
			})
		})
	})

	return r
}
